package lexer

// scanNumber scans a pp-number the way C does: digits, letters,
// underscores, '.', digit separators and signed exponents. Validation
// of the spelling is left to token classification.
func (lx *Lexer) scanNumber(start Mark) string {
	c := &lx.cursor
	for !c.EOF() {
		b := c.Peek()
		switch {
		case (b == 'e' || b == 'E' || b == 'p' || b == 'P') && (c.PeekAt(1) == '+' || c.PeekAt(1) == '-'):
			c.Bump()
			c.Bump()
		case b == '\'' && isHex(c.PeekAt(1)):
			c.Bump()
		case isIdentContinueByte(b) || b == '.':
			c.Bump()
		default:
			return c.TextFrom(start)
		}
	}
	return c.TextFrom(start)
}
