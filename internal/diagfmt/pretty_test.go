package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"tokflow/internal/diag"
	"tokflow/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.c", []byte("char *s = \"unterminated string\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Pos{File: fileID, Line: 1, Col: 11}, "Unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.c:1:11:"},
		{"Basename only", PathModeBasename, "test.c:1:11:"},
		{"Auto shortens long absolute paths", PathModeAuto, "/home/user/project/src/test.c:1:11:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettyCaretAndContext(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("x.c", []byte("int a;\n\tr = a / 0;\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.CheckZeroDivision, source.Pos{File: fileID, Line: 2, Col: 8}, "division by zero"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	want := "x.c:2:8: WARNING CHK3002: division by zero\n" +
		"1 | int a;\n" +
		"2 | \tr = a / 0;\n" +
		"  | \t      ^\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte("memset(p, 0, -1);\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.CheckInvalidFunctionArg, source.Pos{File: fileID, Line: 1, Col: 14},
		"Invalid memset() argument nr 3. The value is -1 but the valid values are '0:'.").
		WithNote(source.Pos{File: fileID, Line: 1, Col: 1}, "called here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: test.c:1:1: called here") {
		t.Fatalf("expected note with location, got:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestCaretPadWideRunes(t *testing.T) {
	// "日" is three bytes wide in UTF-8 and two cells on screen.
	if got := caretPad("日x", 4); got != "  " {
		t.Fatalf("caretPad = %q", got)
	}
	if got := clip("abcdef", 4); got != "abc…" {
		t.Fatalf("clip = %q", got)
	}
}
