package source

import "fmt"

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single translation unit input.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Pos is a resolved token position: file, 1-based line and column.
// The zero Pos means "no position".
type Pos struct {
	File FileID
	Line uint32
	Col  uint32
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool { return p.Line != 0 }

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Col)
}
