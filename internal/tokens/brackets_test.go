package tokens

import "testing"

func TestFindClosingBracketInverse(t *testing.T) {
	cases := []struct {
		src        string
		open, want int
	}{
		{"std :: vector < int > v ;", 3, 5},
		{"map < int , vector < int > > m ;", 1, 8},
		{"f < a ( 1 , 2 ) > ( ) ;", 1, 8},
	}
	for _, c := range cases {
		l := build(t, c.src)
		open := nth(l, c.open)
		got := open.FindClosingBracket()
		if got != nth(l, c.want) {
			t.Errorf("%s: FindClosingBracket = %v, want token %d", c.src, got, c.want)
			continue
		}
		if back := got.FindOpeningBracket(); back != open {
			t.Errorf("%s: FindOpeningBracket = %v", c.src, back)
		}
	}
}

func TestFindClosingBracketRejects(t *testing.T) {
	for _, src := range []string{"a < b ;", "1 < 2 > 3", "( x < y )"} {
		l := build(t, src)
		for tok := range l.All() {
			if tok.Str() != "<" {
				continue
			}
			if got := tok.FindClosingBracket(); got != nil {
				t.Errorf("%s: comparison taken for a template, closes at %d", src, got.Index())
			}
		}
	}
}

func TestFindClosingBracketShift(t *testing.T) {
	l := build(t, "a < b < c >> d ;")
	if got := nth(l, 1).FindClosingBracket(); got != nth(l, 5) {
		t.Fatalf("got %v", got)
	}
}

func TestNextArgument(t *testing.T) {
	l := build(t, "f ( a , g ( b , c ) , d ) ;")
	arg := nth(l, 2)
	var got []string
	for arg != nil {
		got = append(got, arg.Str())
		arg = arg.NextArgument()
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "g" || got[2] != "d" {
		t.Fatalf("arguments = %v", got)
	}
}

func TestNextArgumentBeforeLinks(t *testing.T) {
	l := build(t, "f ( x < int , char > , y ) ;")
	if got := nth(l, 2).NextArgumentBeforeLinks(); got == nil || got.Str() != "y" {
		t.Fatalf("got %v", got)
	}
}

func TestNextTemplateArgument(t *testing.T) {
	l := build(t, "pair < int , char > p ;")
	if got := nth(l, 2).NextTemplateArgument(); got == nil || got.Str() != "char" {
		t.Fatalf("got %v", got)
	}
	if got := nth(l, 4).NextTemplateArgument(); got != nil {
		t.Fatalf("last argument has a successor %v", got)
	}
}

func TestFindLambdaEndScope(t *testing.T) {
	l := build(t, "auto f = [ & ] ( int x ) mutable { return x ; } ;")
	open := nth(l, 3)
	end := FindLambdaEndScope(open)
	if end == nil || end.Str() != "}" || end.Link().Str() != "{" {
		t.Fatalf("got %v", end)
	}
	if FindLambdaEndScope(l.Front()) != nil {
		t.Fatal("auto is not a lambda")
	}
}

func TestFindTypeEnd(t *testing.T) {
	l := build(t, "const std :: string & s ;")
	if got := FindTypeEnd(l.Front()); got == nil || got.Str() != ";" {
		t.Fatalf("got %v", got)
	}
}
