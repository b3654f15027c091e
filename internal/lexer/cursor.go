package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"tokflow/internal/source"
)

// Cursor is a byte position in a file.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead, 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump advances one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved cursor offset.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// TextFrom returns the bytes consumed since m.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.File.Content[m:c.Off])
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatString consumes s if the input continues with it.
func (c *Cursor) EatString(s string) bool {
	n := uint32(len(s))
	if c.Off+n > c.Limit || string(c.File.Content[c.Off:c.Off+n]) != s {
		return false
	}
	c.Off += n
	return true
}
