package tokens

import (
	"fmt"
	"strconv"
	"strings"

	"tokflow/internal/token"
)

func (t *Token) AstOperand1() *Token { return t.get(t.impl.astOp1) }
func (t *Token) AstOperand2() *Token { return t.get(t.impl.astOp2) }
func (t *Token) AstParent() *Token   { return t.get(t.impl.astParent) }

// AstTop returns the root of the AST t belongs to.
func (t *Token) AstTop() *Token {
	ret := t
	for p := ret.AstParent(); p != nil; p = ret.AstParent() {
		ret = p
	}
	return ret
}

// setAstParent re-parents t. Making t an ancestor of itself is an internal error.
func (t *Token) setAstParent(p *Token) {
	for tok := p; tok != nil; tok = tok.AstParent() {
		if tok == t {
			internalError(t, "Internal error. AST cyclic dependency.")
		}
	}
	if old := t.AstParent(); old != nil {
		if old.impl.astOp1 == t.id {
			old.impl.astOp1 = 0
		}
		if old.impl.astOp2 == t.id {
			old.impl.astOp2 = 0
		}
	}
	t.impl.astParent = idOf(p)
}

// SetAstOperand1 makes the AST root of op the first operand of t. The
// previous first operand is detached. nil clears the operand.
func (t *Token) SetAstOperand1(op *Token) {
	if old := t.AstOperand1(); old != nil {
		old.setAstParent(nil)
	}
	if op != nil {
		op = op.AstTop()
		op.setAstParent(t)
	}
	t.impl.astOp1 = idOf(op)
}

// SetAstOperand2 is SetAstOperand1 for the second operand.
func (t *Token) SetAstOperand2(op *Token) {
	if old := t.AstOperand2(); old != nil {
		old.setAstParent(nil)
	}
	if op != nil {
		op = op.AstTop()
		op.setAstParent(t)
	}
	t.impl.astOp2 = idOf(op)
}

func (t *Token) hasAstEdges() bool {
	return t.impl.astOp1 != 0 || t.impl.astOp2 != 0 || t.impl.astParent != 0
}

// detachAst drops every AST edge touching t from both ends.
func (t *Token) detachAst() {
	if p := t.AstParent(); p != nil {
		if p.impl.astOp1 == t.id {
			p.impl.astOp1 = 0
		}
		if p.impl.astOp2 == t.id {
			p.impl.astOp2 = 0
		}
	}
	for _, op := range [...]*Token{t.AstOperand1(), t.AstOperand2()} {
		if op != nil && op.impl.astParent == t.id {
			op.impl.astParent = 0
		}
	}
	t.impl.astOp1, t.impl.astOp2, t.impl.astParent = 0, 0, 0
}

// precedes reports whether a comes before b in the sequence. Indexes are
// trusted when both are set and distinct; otherwise the list is walked.
func precedes(a, b *Token) bool {
	if a == b || a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if a.impl.index != 0 && b.impl.index != 0 && a.impl.index != b.impl.index {
		return a.impl.index < b.impl.index
	}
	for tok := a.Next(); tok != nil; tok = tok.Next() {
		if tok == b {
			return true
		}
	}
	return false
}

func succeeds(a, b *Token) bool {
	if a == b || a == nil || b == nil {
		return false
	}
	return precedes(b, a)
}

// goToLeftParenthesis moves start to the '(' of an unbalanced ')' in
// start..end, as in "(*it).x".
func goToLeftParenthesis(start, end *Token) *Token {
	par := 0
	for tok := start; tok != nil && tok != end; tok = tok.Next() {
		switch tok.str {
		case "(":
			par++
		case ")":
			if par == 0 {
				start = tok.Link()
			} else {
				par--
			}
		}
	}
	return start
}

// goToRightParenthesis moves end to the ')' of an unbalanced '(' in
// start..end, as in "2>(x+1)".
func goToRightParenthesis(start, end *Token) *Token {
	par := 0
	for tok := end; tok != nil && tok != start; tok = tok.Previous() {
		switch tok.str {
		case ")":
			par++
		case "(":
			if par == 0 {
				end = tok.Link()
			} else {
				par--
			}
		}
	}
	return end
}

// FindExpressionStartEndTokens returns the first and last token rendering
// the expression rooted at t.
func (t *Token) FindExpressionStartEndTokens() (*Token, *Token) {
	top := t

	start := top
	for op := start.AstOperand1(); op != nil && precedes(op, start); op = start.AstOperand1() {
		start = op
	}

	end := top
	for end.AstOperand1() != nil && (end.AstOperand2() != nil || end.IsUnaryPreOp()) {
		if end.str == "[" {
			if lambdaEnd := findLambdaEndToken(end); lambdaEnd != nil {
				end = lambdaEnd
				break
			}
		}
		if Match(end, "(|[|{") && !(Match(end, "( ::| %type%") && end.AstOperand2() == nil) {
			end = end.Link()
			break
		}
		if op2 := end.AstOperand2(); op2 != nil {
			end = op2
		} else {
			end = end.AstOperand1()
		}
	}

	start = goToLeftParenthesis(start, end)
	end = goToRightParenthesis(start, end)
	if SimpleMatch(end, "{") {
		end = end.Link()
	}
	// grouping parentheses around the whole range
	for start != nil && end != nil {
		open, closing := start.Previous(), end.Next()
		if open == nil || open.str != "(" || open.Link() != closing || open.hasAstEdges() {
			break
		}
		start, end = open, closing
	}

	if start == nil || precedes(top, start) {
		internalError(orToken(start, top), "Cannot find start of expression")
	}
	if end == nil || succeeds(top, end) {
		internalError(orToken(end, top), "Cannot find end of expression")
	}
	return start, end
}

func orToken(a, b *Token) *Token {
	if a != nil {
		return a
	}
	return b
}

// findLambdaEndToken returns the closing brace of a lambda introduced at
// first, or nil when first does not start a lambda.
func findLambdaEndToken(first *Token) *Token {
	if first == nil || first.str != "[" {
		return nil
	}
	maybeLambda := func(tok *Token) bool {
		for Match(tok, "*|%name%|::|>") {
			if tok.Link() != nil {
				tok = tok.Link().Previous()
				continue
			}
			if tok.str == ">" {
				return true
			}
			if tok.str == "new" {
				return false
			}
			tok = tok.Previous()
		}
		return true
	}
	if !maybeLambda(first.Previous()) {
		return nil
	}
	if !Match(first.Link(), "] (|{|<") {
		return nil
	}
	roundOrCurly := first.Link().Next()
	if roundOrCurly.Link() != nil && roundOrCurly.str == "<" {
		roundOrCurly = roundOrCurly.Link().Next()
	}
	if first.AstOperand1() != roundOrCurly {
		return nil
	}
	tok := first
	if op := tok.AstOperand1(); op != nil && op.str == "(" {
		tok = op
	}
	if op := tok.AstOperand1(); op != nil && op.str == "{" {
		return op.Link()
	}
	return nil
}

// IsCalculation reports whether t computes a value. For '*' and '&' the
// operand tree must contain a number or a variable, otherwise t is taken
// for a declarator.
func (t *Token) IsCalculation() bool {
	if !Match(t, "%cop%|++|--") {
		return false
	}
	if !Match(t, "*|&") {
		return true
	}
	op2 := t.AstOperand2()
	if op2 == nil || op2.str == "[" {
		return false
	}
	stack := []*Token{t}
	for len(stack) > 0 {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if op.IsNumber() || op.VarID() > 0 {
			return true
		}
		if o1 := op.AstOperand1(); o1 != nil {
			stack = append(stack, o1)
		}
		if o2 := op.AstOperand2(); o2 != nil {
			stack = append(stack, o2)
		} else if Match(op, "*|&") {
			return false
		}
	}
	return false
}

// unaryScanLimit bounds the pre/post increment scan of IsUnaryPreOp.
const unaryScanLimit = 10

// IsUnaryPreOp reports a unary operator written before its operand. For ++
// and -- two cursors start at the neighbours and both step backwards; if
// the operand is not met within unaryScanLimit positions the answer is false.
func (t *Token) IsUnaryPreOp() bool {
	op1 := t.AstOperand1()
	if op1 == nil || t.AstOperand2() != nil {
		return false
	}
	if t.kind != token.IncDecOp {
		return true
	}
	before, after := t.Previous(), t.Next()
	for distance := 1; distance < unaryScanLimit && before != nil; distance++ {
		if before == op1 {
			return false
		}
		if after == op1 {
			return true
		}
		before = before.Previous()
		if after != nil {
			after = after.Previous()
		}
	}
	return false
}

// ExpressionString renders the expression rooted at t.
func (t *Token) ExpressionString() string {
	start, end := t.FindExpressionStartEndTokens()
	return stringFromTokenRange(start, end)
}

func stringFromTokenRange(start, end *Token) string {
	var sb strings.Builder
	if end != nil {
		end = end.Next()
	}
	for tok := start; tok != nil && tok != end; tok = tok.Next() {
		if tok.IsUnsigned() {
			sb.WriteString("unsigned ")
		}
		if tok.IsLong() && !tok.IsLiteral() {
			sb.WriteString("long ")
		}
		switch {
		case tok.kind == token.String:
			for i := 0; i < len(tok.str); i++ {
				c := tok.str[i]
				switch {
				case c == '\n':
					sb.WriteString(`\n`)
				case c == '\r':
					sb.WriteString(`\r`)
				case c == '\t':
					sb.WriteString(`\t`)
				case c >= ' ' && c <= 126:
					sb.WriteByte(c)
				default:
					fmt.Fprintf(&sb, `\x%02x`, c)
				}
			}
		case tok.impl.originalName == "" || tok.IsUnsigned() || tok.IsLong():
			sb.WriteString(tok.str)
		default:
			sb.WriteString(tok.impl.originalName)
		}
		if Match(tok, "%name%|%num% %name%|%num%") {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// AstStringVerbose renders the AST below t as an indented tree.
func (t *Token) AstStringVerbose() string {
	var sb strings.Builder
	t.astStringVerbose(&sb, 0, 0)
	return sb.String()
}

func writeIndent(sb *strings.Builder, indent1, indent2 int) {
	for i := 0; i < indent1; i++ {
		sb.WriteByte(' ')
	}
	for i := indent1; i < indent2; i += 2 {
		sb.WriteString("| ")
	}
}

func (t *Token) astStringVerbose(sb *strings.Builder, indent1, indent2 int) {
	if t.IsExpandedMacro() {
		sb.WriteByte('$')
	}
	sb.WriteString(t.str)
	if f := t.impl.function; f != 0 {
		sb.WriteString(" f:")
		sb.WriteString(strconv.FormatUint(uint64(f), 16))
	}
	sb.WriteByte('\n')

	op1, op2 := t.AstOperand1(), t.AstOperand2()
	if op1 != nil {
		i1, i2 := indent1, indent2+2
		if indent1 == indent2 && op2 == nil {
			i1 += 2
		}
		writeIndent(sb, indent1, indent2)
		if op2 != nil {
			sb.WriteString("|-")
		} else {
			sb.WriteString("`-")
		}
		op1.astStringVerbose(sb, i1, i2)
	}
	if op2 != nil {
		i1, i2 := indent1, indent2+2
		if indent1 == indent2 {
			i1 += 2
		}
		writeIndent(sb, indent1, indent2)
		sb.WriteString("`-")
		op2.astStringVerbose(sb, i1, i2)
	}
}

// AstStringZ3 renders the AST below t as an s-expression.
func (t *Token) AstStringZ3() string {
	op1 := t.AstOperand1()
	if op1 == nil {
		return t.str
	}
	op2 := t.AstOperand2()
	if op2 == nil {
		return "(" + t.str + " " + op1.AstStringZ3() + ")"
	}
	return "(" + t.str + " " + op1.AstStringZ3() + " " + op2.AstStringZ3() + ")"
}
