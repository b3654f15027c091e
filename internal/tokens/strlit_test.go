package tokens

import "testing"

func TestCharLiteralValue(t *testing.T) {
	tests := []struct {
		src  string
		want int64
		ok   bool
	}{
		{`'a'`, 'a', true},
		{`'\n'`, '\n', true},
		{`'\0'`, 0, true},
		{`'\x41'`, 0x41, true},
		{`'\377'`, -1, true},
		{`L'\377'`, 255, true},
		{`'ab'`, 0, false},
	}
	for _, tt := range tests {
		got, ok := CharLiteralValue(build(t, tt.src).Front())
		if ok != tt.ok || got != tt.want {
			t.Errorf("CharLiteralValue(%s) = %d,%v want %d,%v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := CharLiteralValue(build(t, "x").Front()); ok {
		t.Error("name token has no char value")
	}
}
