package tokens

// Pin is an external bookmark on a token, such as a pending template
// instantiation. It follows the token's contents when SwapWithNext or
// DeleteThis move them to another node and is cleared when the token is
// removed.
type Pin struct {
	tok  *Token
	Name string
}

// NewPin attaches a pin to tok.
func NewPin(tok *Token, name string) *Pin {
	p := &Pin{tok: tok, Name: name}
	tok.impl.pins = append(tok.impl.pins, p)
	return p
}

// Token returns the pinned token, nil once it was removed.
func (p *Pin) Token() *Token { return p.tok }

// Release detaches the pin.
func (p *Pin) Release() {
	if p.tok == nil {
		return
	}
	pins := p.tok.impl.pins
	for i, q := range pins {
		if q == p {
			p.tok.impl.pins = append(pins[:i], pins[i+1:]...)
			break
		}
	}
	p.tok = nil
}

// repointPins makes every pin stored in t's payload refer to t.
func (t *Token) repointPins() {
	for _, p := range t.impl.pins {
		p.tok = t
	}
}
