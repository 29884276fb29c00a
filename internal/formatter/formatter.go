package formatter

import (
	"fmt"
	"strings"

	"mech/internal/parser"
)

// Formatter pretty-prints a parsed Mech program back to source text,
// keeping the teacher's indent-tracking strings.Builder walker shape
// generalized from Sentra's statement/expression grammar to Mech's
// (matrix/table literals, reactive statements, kind annotations).
type Formatter struct {
	indent    int
	indentStr string
	output    strings.Builder
	lineBreak string
}

func NewFormatter() *Formatter {
	return &Formatter{
		indent:    0,
		indentStr: "    ",
		lineBreak: "\n",
	}
}

// Format renders an entire parsed program, one blank line between
// sections and between function definitions.
func (f *Formatter) Format(prog *parser.Program) string {
	f.output.Reset()
	f.indent = 0
	for si, section := range prog.Sections {
		if si > 0 {
			f.output.WriteString(f.lineBreak)
		}
		for i, stmt := range section {
			f.formatStmt(stmt)
			if i < len(section)-1 && f.needsBlankLine(stmt, section[i+1]) {
				f.output.WriteString(f.lineBreak)
			}
		}
	}
	return f.output.String()
}

func (f *Formatter) needsBlankLine(curr, next parser.Stmt) bool {
	_, currIsFunc := curr.(*parser.FunctionDefStmt)
	_, nextIsFunc := next.(*parser.FunctionDefStmt)
	return currIsFunc || nextIsFunc
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.output.WriteString(f.indentStr)
	}
}

func (f *Formatter) formatBlock(stmts []parser.Stmt) {
	f.output.WriteString("{")
	f.output.WriteString(f.lineBreak)
	f.indent++
	for _, s := range stmts {
		f.formatStmt(s)
	}
	f.indent--
	f.writeIndent()
	f.output.WriteString("}")
}

func (f *Formatter) formatStmt(stmt parser.Stmt) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *parser.DefineStmt:
		f.writeIndent()
		if s.Mutable {
			f.output.WriteString("~")
		}
		f.output.WriteString(s.Name)
		f.output.WriteString(" = ")
		f.formatExpr(s.Value)
		f.output.WriteString(f.lineBreak)

	case *parser.AssignStmt:
		f.writeIndent()
		f.output.WriteString(s.Name)
		f.output.WriteString(" = ")
		f.formatExpr(s.Value)
		f.output.WriteString(f.lineBreak)

	case *parser.IndexAssignStmt:
		f.writeIndent()
		f.formatExpr(s.Object)
		f.formatAxes(s.Axes)
		f.output.WriteString(" = ")
		f.formatExpr(s.Value)
		f.output.WriteString(f.lineBreak)

	case *parser.AddRowStmt:
		f.writeIndent()
		f.formatExpr(s.Table)
		f.output.WriteString(" += ")
		f.formatExpr(s.Row)
		f.output.WriteString(f.lineBreak)

	case *parser.SplitStmt:
		f.writeIndent()
		f.output.WriteString(s.Name)
		f.output.WriteString(" >- ")
		f.formatExpr(s.Source)
		f.output.WriteString(f.lineBreak)

	case *parser.FlattenStmt:
		f.writeIndent()
		f.output.WriteString(s.Name)
		f.output.WriteString(" -< ")
		f.formatExpr(s.Source)
		f.output.WriteString(f.lineBreak)

	case *parser.ExprStmt:
		f.writeIndent()
		f.formatExpr(s.Value)
		f.output.WriteString(f.lineBreak)

	case *parser.WheneverStmt:
		f.writeIndent()
		f.output.WriteString("whenever ")
		f.formatExpr(s.Condition)
		f.output.WriteString(" ")
		f.formatBlock(s.Body)
		f.output.WriteString(f.lineBreak)

	case *parser.WaitStmt:
		f.writeIndent()
		f.output.WriteString("wait ")
		f.formatExpr(s.Condition)
		f.output.WriteString(" ")
		f.formatBlock(s.Body)
		f.output.WriteString(f.lineBreak)

	case *parser.UntilStmt:
		f.writeIndent()
		f.output.WriteString("until ")
		f.formatExpr(s.Condition)
		f.output.WriteString(" ")
		f.formatBlock(s.Body)
		f.output.WriteString(f.lineBreak)

	case *parser.BlockStmt:
		f.writeIndent()
		f.formatBlock(s.Stmts)
		f.output.WriteString(f.lineBreak)

	case *parser.FunctionDefStmt:
		f.writeIndent()
		f.output.WriteString("function ")
		f.output.WriteString(s.Name)
		f.output.WriteString("(")
		for i, p := range s.Params {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.output.WriteString(p)
			if i < len(s.ParamKinds) && s.ParamKinds[i] != "" {
				f.output.WriteString("<")
				f.output.WriteString(s.ParamKinds[i])
				f.output.WriteString(">")
			}
		}
		f.output.WriteString(") ")
		f.formatBlock(s.Body)
		f.output.WriteString(f.lineBreak)
	}
}

func (f *Formatter) formatAxes(axes []parser.IndexAxis) {
	f.output.WriteString("[")
	for i, ax := range axes {
		if i > 0 {
			f.output.WriteString(", ")
		}
		if ax.All {
			f.output.WriteString(":")
		} else {
			f.formatExpr(ax.Value)
		}
	}
	f.output.WriteString("]")
}

func (f *Formatter) formatExpr(expr parser.Expr) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *parser.Literal:
		switch e.Tag {
		case parser.TagString:
			f.output.WriteString("\"")
			f.output.WriteString(e.Raw)
			f.output.WriteString("\"")
		case parser.TagAtom:
			f.output.WriteString("`")
			f.output.WriteString(e.Raw)
		case parser.TagEmpty:
			f.output.WriteString("_")
		default:
			f.output.WriteString(e.Raw)
		}
		if e.Suffix != "" {
			f.output.WriteString("<")
			f.output.WriteString(e.Suffix)
			f.output.WriteString(">")
		}

	case *parser.MatrixLit:
		f.output.WriteString("[")
		for ri, row := range e.Rows {
			if ri > 0 {
				f.output.WriteString("; ")
			}
			for ci, el := range row {
				if ci > 0 {
					f.output.WriteString(" ")
				}
				f.formatExpr(el)
			}
		}
		f.output.WriteString("]")

	case *parser.TableLit:
		f.output.WriteString("|")
		f.output.WriteString(strings.Join(e.Headers, " "))
		f.output.WriteString("|")
		f.output.WriteString(f.lineBreak)
		for _, row := range e.Rows {
			f.writeIndent()
			for ci, cell := range row {
				if ci > 0 {
					f.output.WriteString(" ")
				}
				f.formatExpr(cell)
			}
			f.output.WriteString(f.lineBreak)
		}

	case *parser.TupleLit:
		f.output.WriteString("(")
		for i, el := range e.Elements {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.formatExpr(el)
		}
		f.output.WriteString(")")

	case *parser.RecordLit:
		f.output.WriteString("{")
		for i, field := range e.Fields {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.output.WriteString(field)
			f.output.WriteString(": ")
			f.formatExpr(e.Values[i])
		}
		f.output.WriteString("}")

	case *parser.SetLit:
		f.output.WriteString("{")
		for i, el := range e.Elements {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.formatExpr(el)
		}
		f.output.WriteString("}")

	case *parser.MapLit:
		f.output.WriteString("{")
		for i, k := range e.Keys {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.formatExpr(k)
			f.output.WriteString(": ")
			f.formatExpr(e.Values[i])
		}
		f.output.WriteString("}")

	case *parser.Variable:
		f.output.WriteString(e.Name)

	case *parser.Binary:
		f.formatExpr(e.Left)
		f.output.WriteString(" ")
		f.output.WriteString(e.Operator)
		f.output.WriteString(" ")
		f.formatExpr(e.Right)

	case *parser.Unary:
		if e.Postfix {
			f.formatExpr(e.Operand)
			f.output.WriteString(e.Operator)
		} else {
			f.output.WriteString(e.Operator)
			f.formatExpr(e.Operand)
		}

	case *parser.RangeExpr:
		f.formatExpr(e.Start)
		if e.Step != nil {
			f.output.WriteString(":")
			f.formatExpr(e.Step)
		}
		if e.Inclusive {
			f.output.WriteString("..=")
		} else {
			f.output.WriteString(":")
		}
		f.formatExpr(e.Stop)

	case *parser.IndexExpr:
		f.formatExpr(e.Object)
		f.formatAxes(e.Axes)

	case *parser.DotIndex:
		f.formatExpr(e.Object)
		f.output.WriteString(".")
		f.output.WriteString(e.Field)

	case *parser.CallExpr:
		f.output.WriteString(e.Callee)
		f.output.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.formatExpr(a)
		}
		f.output.WriteString(")")

	case *parser.KindAnnotation:
		f.formatExpr(e.Inner)
		f.output.WriteString("<")
		f.output.WriteString(e.Kind.String())
		f.output.WriteString(">")

	default:
		f.output.WriteString(fmt.Sprintf("/* unformattable %T */", e))
	}
}
