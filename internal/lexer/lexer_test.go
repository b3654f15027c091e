package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tokflow/internal/diag"
	"tokflow/internal/lexer"
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/tokens"
)

func lex(t *testing.T, src string, lang token.Lang) ([]lexer.Lexeme, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(src))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Lang: lang, Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func texts(lexemes []lexer.Lexeme) string {
	parts := make([]string, len(lexemes))
	for i, l := range lexemes {
		parts[i] = l.Text
	}
	return strings.Join(parts, " ")
}

func TestLexBasicStatement(t *testing.T) {
	got, bag := lex(t, "int main(void) {\n  return a<<=2;\n}\n", token.LangC)
	if want := "int main ( void ) { return a <<= 2 ; }"; texts(got) != want {
		t.Fatalf("got %q, want %q", texts(got), want)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if got[6].Pos != (source.Pos{Line: 2, Col: 3}) {
		t.Fatalf("return at %v", got[6].Pos)
	}
}

func TestLexSkipsCommentsAndDirectives(t *testing.T) {
	src := "#include <stdio.h>\n" +
		"#define MAX(a, b) \\\n  ((a) > (b) ? (a) : (b))\n" +
		"x /* block\n comment */ = 1; // tail\n" +
		"  # pragma once\n" +
		"y = a # b;\n"
	got, bag := lex(t, src, token.LangC)
	if want := "x = 1 ; y = a # b ;"; texts(got) != want {
		t.Fatalf("got %q, want %q", texts(got), want)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestLexLiterals(t *testing.T) {
	src := `s = L"wide\"q" u8"x" 'c' U'\n' 0x1Fu 1.5e-3f .5 1'000 u8name;`
	got, _ := lex(t, src, token.LangCPP)
	want := []string{"s", "=", `L"wide\"q"`, `u8"x"`, "'c'", `U'\n'`, "0x1Fu", "1.5e-3f", ".5", "1'000", "u8name", ";"}
	var gotTexts []string
	for _, l := range got {
		gotTexts = append(gotTexts, l.Text)
	}
	if diff := cmp.Diff(want, gotTexts); diff != "" {
		t.Fatalf("lexemes mismatch (-want +got):\n%s", diff)
	}
}

func TestLexOperatorsByLanguage(t *testing.T) {
	cpp, _ := lex(t, "a->*b <=> c::d .* e", token.LangCPP)
	if want := "a ->* b <=> c :: d .* e"; texts(cpp) != want {
		t.Fatalf("c++: got %q", texts(cpp))
	}
	c, _ := lex(t, "a->*b", token.LangC)
	if want := "a -> * b"; texts(c) != want {
		t.Fatalf("c: got %q", texts(c))
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		want string
	}{
		{"unterminated string", "s = \"abc\nx;", diag.LexUnterminatedString, `s = "abc" x ;`},
		{"unterminated char", "c = 'a", diag.LexUnterminatedChar, "c = 'a'"},
		{"unterminated comment", "x; /* never", diag.LexUnterminatedBlockComment, "x ;"},
		{"unknown char", "a @ b", diag.LexUnknownChar, "a b"},
		{"invalid utf8", "a \xff b", diag.LexInvalidUTF8, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bag := lex(t, tt.src, token.LangC)
			if texts(got) != tt.want {
				t.Fatalf("got %q, want %q", texts(got), tt.want)
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tt.code {
				t.Fatalf("diagnostics = %+v", bag.Items())
			}
		})
	}
}

func TestLexNormalisesIdentifiers(t *testing.T) {
	got, bag := lex(t, "cafe\u0301 = 1;", token.LangC)
	if bag.Len() != 0 || got[0].Text != "caf\u00e9" {
		t.Fatalf("got %q, diagnostics %+v", got[0].Text, bag.Items())
	}
}

func TestTokenizeFillsList(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.c", []byte("f(a[1]);\n{ }\n"))
	l := tokens.NewList(tokens.Options{Lang: token.LangC})
	n := lexer.Tokenize(fs.Get(id), l, lexer.Options{Lang: token.LangC})
	if n != 10 || l.Len() != 10 {
		t.Fatalf("n = %d, len = %d", n, l.Len())
	}
	l.LinkBrackets()
	open := l.Front().Next()
	if open.Str() != "(" || open.Link() == nil || open.Link().Str() != ")" {
		t.Fatal("round brackets not linked")
	}
	brace := l.Back().Previous()
	if brace.Str() != "{" || brace.Line() != 2 || brace.Link() != l.Back() {
		t.Fatal("braces not linked")
	}
	if l.Front().Kind() != token.Name || open.Next().Next().Link() == nil {
		t.Fatal("classification or square link wrong")
	}
}
