package interp

import (
	"strconv"
	"strings"

	mewfloat "github.com/mewmew/float"

	"mech/internal/dispatch"
	"mech/internal/errors"
	"mech/internal/kind"
	"mech/internal/parser"
	"mech/internal/value"
)

// eval walks e via the visitor pattern (spec.md §4.2's Accept(visitor)
// shape, kept from the teacher's ast.go) and asserts the interface{}
// Accept returns back to a value.Value — the visitor methods below are
// the only place that type assertion happens.
func (in *Interpreter) eval(e parser.Expr) value.Value {
	return e.Accept(in).(value.Value)
}

func (in *Interpreter) VisitLiteral(e *parser.Literal) interface{} {
	switch e.Tag {
	case parser.TagBool:
		return value.Bool(e.Raw == "true")
	case parser.TagString:
		return value.String(e.Raw)
	case parser.TagAtom:
		return value.NewAtom(e.Raw)
	case parser.TagEmpty:
		return value.Empty{}
	default:
		return in.parseNumber(e.Raw)
	}
}

// parseNumber turns every unannotated numeric literal, with or without
// a '.'/'e'/'E', into an f64 ("2 + 2" evaluates to 4.0), parsed via
// mewmew/float for exact decimal rounding (the same library
// internal/kind.Convert uses downstream). Other kinds come from an
// explicit `<kind>` annotation.
func (in *Interpreter) parseNumber(raw string) value.Value {
	clean := strings.ReplaceAll(raw, "_", "")
	f, err := mewfloat.NewFloat64FromString(clean)
	if err != nil {
		f, err = strconv.ParseFloat(clean, 64)
		if err != nil {
			in.raise(errors.NewValueError("number", "malformed numeric literal "+raw, errors.SourceLocation{File: in.file}))
		}
	}
	return value.F64(f)
}

func (in *Interpreter) VisitMatrixLit(e *parser.MatrixLit) interface{} {
	rows := len(e.Rows)
	if rows == 0 {
		return value.Empty{}
	}
	cols := len(e.Rows[0])
	for _, r := range e.Rows {
		if len(r) != cols {
			in.raise(errors.NewKindError(errors.DimensionMismatch, "matrix-literal",
				"every row of a matrix literal must have the same number of elements", in.loc(e.Position)))
		}
	}
	vals := make([][]value.Value, rows)
	ek := value.KindI64
	first := true
	for ri, r := range e.Rows {
		vals[ri] = make([]value.Value, cols)
		for ci, expr := range r {
			v := in.eval(expr)
			if m, ok := v.(value.AnyMatrix); ok {
				v = m.AtFlatAny(1, 1) // a 1x1 sub-expression collapses to its scalar
			}
			if first {
				ek = v.ElemKindOf()
				first = false
			}
			vals[ri][ci] = v
		}
	}
	out := dispatch.NewMatrixFor(ek, rows, cols)
	for ri := 0; ri < rows; ri++ {
		for ci := 0; ci < cols; ci++ {
			v := vals[ri][ci]
			if v.ElemKindOf() != ek {
				conv, err := kind.ConvertElem(v, ek)
				if err != nil {
					in.raise(err)
				}
				v = conv
			}
			out.SetFlatAny(ri+1, ci+1, v)
		}
	}
	return value.Value(out)
}

func (in *Interpreter) VisitTableLit(e *parser.TableLit) interface{} {
	numRows := len(e.Rows)
	numCols := len(e.Headers)
	cols := make([]value.Column, numCols)
	for ci, header := range e.Headers {
		var ek value.ElemKind
		declared := ci < len(e.Kinds) && e.Kinds[ci] != nil
		if declared {
			if prim, ok := kind.Resolve(e.Kinds[ci]).(kind.Primitive); ok {
				ek = prim.Elem
			}
		}
		colVals := make([]value.Value, numRows)
		for ri, row := range e.Rows {
			var cellExpr parser.Expr
			if ci < len(row) {
				cellExpr = row[ci]
			}
			var v value.Value = value.Empty{}
			if cellExpr != nil {
				v = in.eval(cellExpr)
			}
			if !declared && ri == 0 {
				ek = v.ElemKindOf()
			}
			colVals[ri] = v
		}
		m := dispatch.NewMatrixFor(ek, numRows, 1)
		for ri, v := range colVals {
			if v.ElemKindOf() != ek {
				conv, err := kind.ConvertElem(v, ek)
				if err != nil {
					in.raise(err)
				}
				v = conv
			}
			m.SetFlatAny(ri+1, 1, v)
		}
		cols[ci] = value.Column{Name: header, Kind: ek, Data: m}
	}
	return value.Value(&value.Table{Columns: cols})
}

func (in *Interpreter) VisitTupleLit(e *parser.TupleLit) interface{} {
	t := &value.Tuple{Elements: make([]value.Value, len(e.Elements))}
	for i, el := range e.Elements {
		t.Elements[i] = in.eval(el)
	}
	return value.Value(t)
}

func (in *Interpreter) VisitRecordLit(e *parser.RecordLit) interface{} {
	r := value.NewRecord()
	for i, f := range e.Fields {
		r.Set(f, in.eval(e.Values[i]))
	}
	return value.Value(r)
}

func (in *Interpreter) VisitSetLit(e *parser.SetLit) interface{} {
	s := value.NewSet()
	for _, el := range e.Elements {
		s.Add(in.eval(el))
	}
	return value.Value(s)
}

func (in *Interpreter) VisitMapLit(e *parser.MapLit) interface{} {
	m := value.NewMap()
	for i, k := range e.Keys {
		m.Set(in.eval(k), in.eval(e.Values[i]))
	}
	return value.Value(m)
}

func (in *Interpreter) VisitVariable(e *parser.Variable) interface{} {
	v, _, ok := in.scope.lookup(e.Name)
	if !ok {
		in.raise(errors.NewValueError("variable", "undefined variable "+e.Name, in.loc(e.Position)))
	}
	if ref, ok := v.(value.MutableReference); ok {
		return ref.Cell.Get()
	}
	return v
}

func (in *Interpreter) VisitBinary(e *parser.Binary) interface{} {
	lhs := in.eval(e.Left)
	rhs := in.eval(e.Right)
	out, err := dispatch.BinaryOp(e.Operator, lhs, rhs, in.profile)
	if err != nil {
		in.raise(err)
	}
	return out
}

func (in *Interpreter) VisitUnary(e *parser.Unary) interface{} {
	operand := in.eval(e.Operand)
	out, err := dispatch.UnaryOp(e.Operator, operand, in.profile)
	if err != nil {
		in.raise(err)
	}
	return out
}

// VisitRangeExpr eagerly materializes the range into its row-vector
// matrix, per spec.md §4.6: "a range used as a value materializes as a
// row vector of its elements" — there is no lazy Range value left
// floating in the tree-walker once an expression finishes evaluating.
func (in *Interpreter) VisitRangeExpr(e *parser.RangeExpr) interface{} {
	start := in.eval(e.Start)
	stop := in.eval(e.Stop)
	var step value.Value
	if e.Step != nil {
		step = in.eval(e.Step)
	}
	r, err := dispatch.MakeRange(start, stop, step, e.Inclusive)
	if err != nil {
		in.raise(err)
	}
	return value.Value(dispatch.MaterializeRange(r.(value.Range)))
}

func (in *Interpreter) VisitIndexExpr(e *parser.IndexExpr) interface{} {
	obj := in.eval(e.Object)
	specs := make([]value.IndexSpecifier, len(e.Axes))
	for i, ax := range e.Axes {
		specs[i] = in.axisToSpecifier(ax)
	}
	out, err := dispatch.ReadIndex(obj, specs)
	if err != nil {
		in.raise(err)
	}
	return out
}

// axisToSpecifier evaluates one [...] axis into the concrete
// IndexSpecifier dispatch.ReadIndex/WriteIndex expect: `:` is All; a
// scalar numeric expression is Scalar; a bool matrix is a Logical mask;
// any other matrix is a Vector of linear indices (spec.md §4.6).
func (in *Interpreter) axisToSpecifier(ax parser.IndexAxis) value.IndexSpecifier {
	if ax.All {
		return value.IndexSpecifier{Kind: value.IndexAll}
	}
	v := in.eval(ax.Value)
	if m, ok := v.(value.AnyMatrix); ok {
		s := m.ShapeOf()
		if s.Rows == 1 && s.Cols == 1 {
			v = m.AtFlatAny(1, 1)
		} else if m.ElemKindOf() == value.KindBool {
			mask := make([]bool, m.LenAny())
			for i := range mask {
				row, col := i%s.Rows+1, i/s.Rows+1
				mask[i] = bool(m.AtFlatAny(row, col).(value.Bool))
			}
			return value.IndexSpecifier{Kind: value.IndexLogical, Logical: mask}
		} else {
			idxs := make([]int64, m.LenAny())
			for i := range idxs {
				row, col := i%s.Rows+1, i/s.Rows+1
				idxs[i] = in.asInt64(m.AtFlatAny(row, col))
			}
			return value.IndexSpecifier{Kind: value.IndexVector, Vector: idxs}
		}
	}
	return value.IndexSpecifier{Kind: value.IndexScalar, Scalar: in.asInt64(v)}
}

func (in *Interpreter) asInt64(v value.Value) int64 {
	conv, err := kind.ConvertElem(v, value.KindI64)
	if err != nil {
		in.raise(err)
	}
	return int64(conv.(value.I64))
}

func (in *Interpreter) VisitDotIndex(e *parser.DotIndex) interface{} {
	obj := in.eval(e.Object)
	switch o := obj.(type) {
	case *value.Record:
		v, ok := o.Get(e.Field)
		if !ok {
			in.raise(errors.NewValueError(".", "record has no field "+e.Field, in.loc(e.Position)))
		}
		return v
	case *value.Tuple:
		i, err := strconv.Atoi(e.Field)
		if err != nil || i < 1 || i > len(o.Elements) {
			in.raise(errors.NewIndexError(".", "tuple has no position "+e.Field, in.loc(e.Position)))
		}
		return o.Elements[i-1]
	case *value.Table:
		col, _, ok := o.Column(e.Field)
		if !ok {
			in.raise(errors.NewValueError(".", "table has no column "+e.Field, in.loc(e.Position)))
		}
		return value.Value(col.Data)
	case *value.Map:
		v, ok := o.Get(value.String(e.Field))
		if !ok {
			in.raise(errors.NewValueError(".", "map has no key "+e.Field, in.loc(e.Position)))
		}
		return v
	}
	in.raise(errors.NewKindError(errors.UnhandledFunctionArgumentKind, ".",
		"cannot dot-index a "+obj.ElemKindOf().String(), in.loc(e.Position)))
	return nil
}

func (in *Interpreter) VisitCallExpr(e *parser.CallExpr) interface{} {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = in.eval(a)
	}
	if fn, ok := in.functions[e.Callee]; ok {
		return in.callUserFunction(fn, args, e.Position)
	}
	if bi, ok := builtins[e.Callee]; ok {
		out, err := bi(in, args)
		if err != nil {
			in.raise(err)
		}
		return out
	}
	in.raise(errors.NewValueError("call", "undefined function "+e.Callee, in.loc(e.Position)))
	return nil
}

func (in *Interpreter) callUserFunction(fn *parser.FunctionDefStmt, args []value.Value, pos parser.Position) value.Value {
	if len(args) != len(fn.Params) {
		in.raise(errors.NewArityError(fn.Name, len(fn.Params), len(args), in.loc(pos)))
	}
	caller := in.scope
	in.scope = newScope(fn.Name, in.global) // lexical scoping: functions close over globals, not the call site
	defer func() { in.scope = caller }()
	for i, p := range fn.Params {
		v := args[i]
		if fn.ParamKinds[i] != "" {
			if k, ok := kind.LookupPrimitive(fn.ParamKinds[i]); ok {
				conv, err := kind.Convert(v, k)
				if err != nil {
					in.raise(err)
				}
				v = conv
			}
		}
		in.scope.define(p, v)
	}
	// parseFunctionDef already lifted a trailing ExprStmt's Value into
	// fn.Output, so that last statement is evaluated once here as the
	// result rather than again via the body loop.
	var result value.Value = value.Empty{}
	last := len(fn.Body)
	if fn.Output != nil {
		last--
	}
	for _, s := range fn.Body[:last] {
		in.exec(s)
	}
	if fn.Output != nil {
		result = in.eval(fn.Output)
	}
	return result
}

func (in *Interpreter) VisitKindAnnotation(e *parser.KindAnnotation) interface{} {
	v := in.eval(e.Inner)
	out, err := kind.Convert(v, e.Kind)
	if err != nil {
		in.raise(err)
	}
	return out
}
