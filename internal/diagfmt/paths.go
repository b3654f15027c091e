package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"tokflow/internal/source"
)

const autoPathLimit = 40

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil {
		return "<unknown>"
	}
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual == 0 {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
	case PathModeRelative:
		if wd, err := os.Getwd(); err == nil && filepath.IsAbs(p) {
			if rel, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	case PathModeBasename:
		p = filepath.Base(p)
	case PathModeAuto:
		if filepath.IsAbs(p) && len(p) > autoPathLimit {
			p = filepath.Base(p)
		}
	}
	return filepath.ToSlash(p)
}
