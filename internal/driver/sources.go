package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExts are the extensions ExpandPaths collects from directories.
var SourceExts = []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hh", ".hpp", ".hxx"}

func isSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SourceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// ExpandPaths replaces directories in args by the sources below them,
// sorted for a deterministic order. Files are kept as given, whatever
// their extension.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && isSource(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
