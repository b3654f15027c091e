package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tokflow/internal/diag"
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/tokens"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/tmp/work/test.c", []byte("int main() {\n\tchar *s = \"unterminated\n}\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Pos{File: fileID, Line: 2, Col: 12}, "Unterminated string literal").
		WithNote(source.Pos{File: fileID, Line: 1, Col: 1}, "in function main"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "LEX1002",
			Message:  "Unterminated string literal",
			Location: LocationJSON{File: "test.c", Line: 2, Column: 12},
			Notes: []NoteJSON{{
				Message:  "in function main",
				Location: LocationJSON{File: "test.c", Line: 1, Column: 1},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMaxAndInternal(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.c", []byte("x;\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.InternalInvariant, source.Pos{File: fileID, Line: 1, Col: 1}, "broken"))
	bag.Add(diag.New(diag.SevWarning, diag.CheckZeroDivision, source.Pos{File: fileID, Line: 1, Col: 2}, "div"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || !out.Diagnostics[0].Internal || out.Diagnostics[0].Notes != nil {
		t.Fatalf("output = %+v", out)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.c", []byte("f ( ) ;\n"))
	l := tokens.NewList(tokens.Options{Lang: token.LangC})
	for i, w := range []string{"f", "(", ")", ";"} {
		l.AddToken(w, source.Pos{File: fileID, Line: 1, Col: uint32(2*i + 1)})
	}
	l.AssignIndexes()

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, l, fs); err != nil {
		t.Fatal(err)
	}
	var got []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[1].Link != 3 || got[2].Link != 2 || got[0].File != "m.c" || got[3].Column != 7 {
		t.Fatalf("tokens = %+v", got)
	}
}
