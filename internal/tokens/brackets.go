package tokens

// NextArgument returns the first token of the next argument of a call, or
// nil when t is in the last one.
func (t *Token) NextArgument() *Token {
	for tok := t; tok != nil; tok = tok.Next() {
		if tok.str == "," {
			return tok.Next()
		}
		if tok.Link() != nil && Match(tok, "(|{|[|<") {
			tok = tok.Link()
		} else if Match(tok, ")|;") {
			return nil
		}
	}
	return nil
}

// NextArgumentBeforeLinks is NextArgument for lists whose angle brackets are
// not linked yet; template argument lists are skipped heuristically.
func (t *Token) NextArgumentBeforeLinks() *Token {
	for tok := t; tok != nil; tok = tok.Next() {
		if tok.str == "," {
			return tok.Next()
		}
		if tok.Link() != nil && Match(tok, "(|{|[") {
			tok = tok.Link()
		} else if tok.str == "<" {
			if closing := tok.FindClosingBracket(); closing != nil {
				tok = closing
			}
		} else if Match(tok, ")|;") {
			return nil
		}
	}
	return nil
}

// NextTemplateArgument returns the first token of the next template argument.
func (t *Token) NextTemplateArgument() *Token {
	for tok := t; tok != nil; tok = tok.Next() {
		if tok.str == "," {
			return tok.Next()
		}
		if tok.Link() != nil && Match(tok, "(|{|[|<") {
			tok = tok.Link()
		} else if Match(tok, ">|;") {
			return nil
		}
	}
	return nil
}

func isOperatorName(tok *Token) bool {
	if tok.Link() != nil {
		tok = tok.Link()
	}
	return tok.StrAt(-1) == "operator"
}

// FindClosingBracket guesses the '>' closing the template argument list
// opened at t. It returns nil when t does not look like a template opener
// or the list is cut short by a statement or an unbalanced bracket.
func (t *Token) FindClosingBracket() *Token {
	if t.str != "<" {
		return nil
	}
	prev := t.Previous()
	if prev == nil {
		return nil
	}
	if !(prev.IsName() || SimpleMatch(prev, "]") ||
		Match(prev.Previous(), "operator %op% <") ||
		Match(prev.TokAt(-2), "operator [([] [)]] <")) {
		return nil
	}

	templateParameter := t.StrAt(-1) == "template"
	var templateParameters map[string]bool
	if templateParameter {
		templateParameters = make(map[string]bool)
	}

	isDecl := true
	for p := prev; p != nil; p = p.Previous() {
		if p.str == "=" {
			isDecl = false
		}
		if SimpleMatch(p, "template <") {
			isDecl = true
		}
		if Match(p, "[;{}]") {
			break
		}
	}

	var depth uint
	closing := t
	for ; closing != nil; closing = closing.Next() {
		switch {
		case Match(closing, "{|[|("):
			closing = closing.Link()
			if closing == nil {
				return nil
			}
		case Match(closing, "}|]|)|;"):
			return nil
		case closing.str == "<" && closing.Previous() != nil &&
			(closing.Previous().IsName() || SimpleMatch(closing.Previous(), "]") || isOperatorName(closing.Previous())) &&
			(!templateParameter || !templateParameters[closing.StrAt(-1)]):
			depth++
		case closing.str == ">":
			depth--
			if depth == 0 {
				return closing
			}
		case closing.str == ">>" || closing.str == ">>=":
			if !isDecl && depth == 1 {
				continue
			}
			if depth <= 2 {
				return closing
			}
			depth -= 2
		case templateParameter && depth == 1 && Match(closing, "[,=]") &&
			closing.Previous().IsName() && !Match(closing.Previous(), "class|typename|.") &&
			!Match(closing.TokAt(-2), "=|::"):
			templateParameters[closing.StrAt(-1)] = true
		}
	}
	return closing
}

// FindOpeningBracket walks back from '>' to the '<' it closes.
func (t *Token) FindOpeningBracket() *Token {
	if t.str != ">" {
		return nil
	}
	var depth uint
	opening := t
	for ; opening != nil; opening = opening.Previous() {
		switch {
		case Match(opening, "}|]|)"):
			opening = opening.Link()
			if opening == nil {
				return nil
			}
		case Match(opening, "{|(|;"):
			return nil
		case opening.str == ">":
			depth++
		case opening.str == "<":
			depth--
			if depth == 0 {
				return opening
			}
		}
	}
	return opening
}

// FindTypeEnd skips a type spelling starting at tok and returns the token after it.
func FindTypeEnd(tok *Token) *Token {
	for Match(tok, "%name%|.|::|*|&|&&|<|(|template|decltype|sizeof") {
		if Match(tok, "(|<") {
			tok = tok.Link()
		}
		if tok == nil {
			return nil
		}
		tok = tok.Next()
	}
	return tok
}

// FindLambdaEndScope returns the closing brace of the lambda whose capture
// list starts at tok.
func FindLambdaEndScope(tok *Token) *Token {
	if !SimpleMatch(tok, "[") {
		return nil
	}
	tok = tok.Link()
	if !Match(tok, "] (|{") {
		return nil
	}
	tok = tok.LinkAt(1)
	if SimpleMatch(tok, "}") {
		return tok
	}
	if SimpleMatch(tok, ") {") {
		return tok.LinkAt(1)
	}
	if !SimpleMatch(tok, ")") {
		return nil
	}
	tok = tok.Next()
	for Match(tok, "mutable|constexpr|consteval|noexcept|.") {
		if SimpleMatch(tok, "noexcept (") {
			tok = tok.LinkAt(1)
		}
		if SimpleMatch(tok, ".") {
			tok = FindTypeEnd(tok)
			break
		}
		tok = tok.Next()
	}
	if SimpleMatch(tok, "{") {
		return tok.Link()
	}
	return nil
}
