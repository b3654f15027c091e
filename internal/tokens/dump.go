package tokens

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tokflow/internal/valueflow"
)

func idString(id ID) string { return "t" + strconv.FormatUint(uint64(id), 10) }

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// PrintAst writes every AST rooted between t and the end of the list, as
// verbose trees or as <ast> elements.
func (t *Token) PrintAst(w io.Writer, xmlOut bool) error {
	var sb strings.Builder
	if !xmlOut {
		sb.WriteString("\n\n##AST\n")
	}
	files := t.list.files
	printed := map[ID]bool{}
	for tok := t; tok != nil; tok = tok.Next() {
		if tok.impl.astParent != 0 || tok.impl.astOp1 == 0 || printed[tok.id] {
			continue
		}
		printed[tok.id] = true
		if xmlOut {
			scope := ""
			if tok.impl.scope != nil {
				scope = tok.impl.scope.Name
			}
			fmt.Fprintf(&sb, "<ast scope=\"%s\" fileIndex=\"%d\" linenr=\"%d\" column=\"%d\">\n",
				xmlEscape(scope), tok.impl.fileIndex, tok.impl.line, tok.impl.column)
			tok.astStringXML(&sb, 2)
			sb.WriteString("</ast>\n")
		} else {
			fmt.Fprintf(&sb, "[%s:%d]\n%s\n", fileName(files, tok.impl.fileIndex), tok.impl.line, tok.AstStringVerbose())
		}
		if tok.str == "(" && tok.link != 0 {
			tok = tok.Link()
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func fileName(files []string, idx uint32) string {
	if int(idx) < len(files) {
		return files[idx]
	}
	return strconv.FormatUint(uint64(idx), 10)
}

func (t *Token) astStringXML(sb *strings.Builder, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(sb, "%s<token str=\"%s\"", pad, xmlEscape(t.str))
	if t.impl.varID != 0 {
		fmt.Fprintf(sb, " varId=\"%d\"", t.impl.varID)
	}
	if t.impl.variable != 0 {
		fmt.Fprintf(sb, " variable=\"%d\"", t.impl.variable)
	}
	if t.impl.function != 0 {
		fmt.Fprintf(sb, " function=\"%d\"", t.impl.function)
	}
	if len(t.impl.values) > 0 {
		fmt.Fprintf(sb, " values=\"%s\"", idString(t.id))
	}
	op1, op2 := t.AstOperand1(), t.AstOperand2()
	if op1 == nil && op2 == nil {
		sb.WriteString("/>\n")
		return
	}
	sb.WriteString(">\n")
	if op1 != nil {
		op1.astStringXML(sb, indent+2)
	}
	if op2 != nil {
		op2.astStringXML(sb, indent+2)
	}
	sb.WriteString(pad + "</token>\n")
}

// PrintValueFlow writes the facts of every token from t on. The text form
// groups them by file and line and summarises a uniform certainty as
// "always", "possible" or "inconclusive".
func (t *Token) PrintValueFlow(w io.Writer, xmlOut bool) error {
	var sb strings.Builder
	l := t.list
	fileIndex, line := int64(-1), uint32(0)
	if xmlOut {
		sb.WriteString("  <valueflow>\n")
	} else {
		sb.WriteString("\n\n##Value flow\n")
	}
	for tok := t; tok != nil; tok = tok.Next() {
		values := tok.impl.values
		if len(values) == 0 {
			continue
		}
		if xmlOut {
			fmt.Fprintf(&sb, "    <values id=\"%s\">\n", idString(tok.id))
		} else {
			if fileIndex != int64(tok.impl.fileIndex) {
				fmt.Fprintf(&sb, "File %s\n", fileName(l.files, tok.impl.fileIndex))
				line = 0
			}
			if line != tok.impl.line {
				fmt.Fprintf(&sb, "Line %d\n", tok.impl.line)
			}
		}
		fileIndex, line = int64(tok.impl.fileIndex), tok.impl.line

		if xmlOut {
			for i := range values {
				writeValueXML(&sb, l, &values[i])
			}
			sb.WriteString("    </values>\n")
			continue
		}

		sb.WriteString("  ")
		sb.WriteString(tok.str)
		sb.WriteByte(' ')
		if kind, same := uniformKind(values); same {
			switch kind {
			case valueflow.Known, valueflow.Impossible:
				sb.WriteString("always ")
			case valueflow.Inconclusive:
				sb.WriteString("inconclusive ")
			case valueflow.Possible:
				sb.WriteString("possible ")
			}
		}
		if len(values) > 1 {
			sb.WriteByte('{')
		}
		for i := range values {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(values[i].Format(l))
		}
		if len(values) > 1 {
			sb.WriteByte('}')
		}
		sb.WriteByte('\n')
	}
	if xmlOut {
		sb.WriteString("  </valueflow>\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func uniformKind(values valueflow.Set) (valueflow.ValueKind, bool) {
	kind := values[0].Kind
	for i := range values {
		if values[i].Kind != kind {
			return kind, false
		}
	}
	return kind, true
}

func writeValueXML(sb *strings.Builder, l *List, v *valueflow.Value) {
	sb.WriteString("      <value ")
	switch v.Type {
	case valueflow.Int:
		fmt.Fprintf(sb, "intvalue=\"%d\"", v.IntValue)
	case valueflow.Tok:
		fmt.Fprintf(sb, "tokvalue=\"%s\"", idString(ID(v.TokValue)))
	case valueflow.Float:
		fmt.Fprintf(sb, "floatvalue=\"%s\"", valueflow.FormatFloat(v.FloatValue))
	case valueflow.Moved:
		fmt.Fprintf(sb, "movedvalue=\"%s\"", v.MoveKind)
	case valueflow.Uninit:
		sb.WriteString("uninit=\"1\"")
	case valueflow.BufferSize:
		fmt.Fprintf(sb, "buffer-size=\"%d\"", v.IntValue)
	case valueflow.ContainerSize:
		fmt.Fprintf(sb, "container-size=\"%d\"", v.IntValue)
	case valueflow.IteratorStart:
		fmt.Fprintf(sb, "iterator-start=\"%d\"", v.IntValue)
	case valueflow.IteratorEnd:
		fmt.Fprintf(sb, "iterator-end=\"%d\"", v.IntValue)
	case valueflow.Lifetime:
		fmt.Fprintf(sb, "lifetime=\"%s\" lifetime-scope=\"%s\" lifetime-kind=\"%s\"",
			idString(ID(v.TokValue)), v.LifetimeScope, v.LifetimeKind)
	case valueflow.Symbolic:
		fmt.Fprintf(sb, "symbolic=\"%s\" symbolic-delta=\"%d\"", idString(ID(v.TokValue)), v.IntValue)
	}
	fmt.Fprintf(sb, " bound=\"%s\"", v.Bound)
	if v.Condition != 0 {
		fmt.Fprintf(sb, " condition-line=\"%s\"", formatCondLine(l, v.Condition))
	}
	switch v.Kind {
	case valueflow.Known:
		sb.WriteString(" known=\"true\"")
	case valueflow.Possible:
		sb.WriteString(" possible=\"true\"")
	case valueflow.Impossible:
		sb.WriteString(" impossible=\"true\"")
	case valueflow.Inconclusive:
		sb.WriteString(" inconclusive=\"true\"")
	}
	fmt.Fprintf(sb, " path=\"%d\"/>\n", v.Path)
}

func formatCondLine(l *List, ref valueflow.Ref) string {
	if c := l.Get(ID(ref)); c != nil {
		return strconv.FormatUint(uint64(c.impl.line), 10)
	}
	return ""
}
