package interp

import (
	"mech/internal/dispatch"
	"mech/internal/errors"
	"mech/internal/kind"
	"mech/internal/parser"
	"mech/internal/value"
)

// exec runs one statement for its effect (binding, mutation, or
// reactive evaluation) via the same Accept(visitor) dispatch eval uses
// for expressions.
func (in *Interpreter) exec(s parser.Stmt) {
	s.Accept(in)
}

// VisitDefineStmt implements both `name = expr` and `~name = expr`
// (spec.md §4.6). The parser never emits AssignStmt (see parser.go's
// tryBindingHead) — a bare `name = expr` re-assigning an existing
// `~`-bound variable is detected here by walking the scope chain for a
// MutableReference already bound under name and, if found, setting its
// cell in place rather than shadowing it with a fresh binding.
func (in *Interpreter) VisitDefineStmt(s *parser.DefineStmt) interface{} {
	v := in.eval(s.Value)
	if s.Mutable {
		in.scope.define(s.Name, value.NewMutableReference(value.NewRef(v)))
		return nil
	}
	if existing, owner, ok := in.scope.lookup(s.Name); ok {
		if ref, ok := existing.(value.MutableReference); ok {
			ref.Cell.Set(v)
			_ = owner
			return nil
		}
	}
	in.scope.define(s.Name, v)
	return nil
}

func (in *Interpreter) VisitAssignStmt(s *parser.AssignStmt) interface{} {
	v := in.eval(s.Value)
	if existing, _, ok := in.scope.lookup(s.Name); ok {
		if ref, ok := existing.(value.MutableReference); ok {
			ref.Cell.Set(v)
			return nil
		}
	}
	in.raise(errors.NewValueError("assign", "cannot assign to immutable binding "+s.Name, in.loc(s.Position)))
	return nil
}

func (in *Interpreter) VisitIndexAssignStmt(s *parser.IndexAssignStmt) interface{} {
	obj := in.eval(s.Object)
	specs := make([]value.IndexSpecifier, len(s.Axes))
	for i, ax := range s.Axes {
		specs[i] = in.axisToSpecifier(ax)
	}
	rhs := in.eval(s.Value)
	if err := dispatch.WriteIndex(obj, specs, rhs); err != nil {
		in.raise(err)
	}
	return nil
}

// VisitAddRowStmt implements `table += row` (spec.md §4.6): row is
// either a record (matched to columns by field name) or a tuple
// (matched positionally), appended to every column's backing matrix.
func (in *Interpreter) VisitAddRowStmt(s *parser.AddRowStmt) interface{} {
	tv := in.eval(s.Table)
	tbl, ok := tv.(*value.Table)
	if !ok {
		in.raise(errors.NewKindError(errors.UnhandledFunctionArgumentKind, "+=",
			"left side of += must be a table", in.loc(s.Position)))
	}
	row := in.eval(s.Row)
	for ci := range tbl.Columns {
		col := &tbl.Columns[ci]
		var cell value.Value
		switch r := row.(type) {
		case *value.Record:
			v, ok := r.Get(col.Name)
			if !ok {
				in.raise(errors.NewValueError("+=", "row is missing field "+col.Name, in.loc(s.Position)))
			}
			cell = v
		case *value.Tuple:
			if ci >= len(r.Elements) {
				in.raise(errors.NewKindError(errors.DimensionMismatch, "+=",
					"row has fewer elements than the table has columns", in.loc(s.Position)))
			}
			cell = r.Elements[ci]
		default:
			in.raise(errors.NewKindError(errors.UnhandledFunctionArgumentKind, "+=",
				"row must be a record or tuple", in.loc(s.Position)))
		}
		if cell.ElemKindOf() != col.Kind {
			conv, err := kind.ConvertElem(cell, col.Kind)
			if err != nil {
				in.raise(err)
			}
			cell = conv
		}
		oldRows := col.Data.LenAny()
		grown := dispatch.NewMatrixFor(col.Kind, oldRows+1, 1)
		for r := 1; r <= oldRows; r++ {
			grown.SetFlatAny(r, 1, col.Data.AtFlatAny(r, 1))
		}
		grown.SetFlatAny(oldRows+1, 1, cell)
		col.Data = grown
	}
	return nil
}

// VisitSplitStmt implements `name >- expr` (spec.md:152): splits a
// matrix column-major into a tuple of its column vectors — the inverse
// of horzcat.
func (in *Interpreter) VisitSplitStmt(s *parser.SplitStmt) interface{} {
	src := in.eval(s.Source)
	m, ok := src.(value.AnyMatrix)
	if !ok {
		in.raise(errors.NewKindError(errors.UnhandledFunctionArgumentKind, ">-",
			"right side of >- must be a matrix", in.loc(s.Position)))
	}
	shape := m.ShapeOf()
	cols := make([]value.Value, shape.Cols)
	for c := 1; c <= shape.Cols; c++ {
		col := dispatch.NewMatrixFor(m.ElemKindOf(), shape.Rows, 1)
		for r := 1; r <= shape.Rows; r++ {
			col.SetFlatAny(r, 1, m.AtFlatAny(r, c))
		}
		cols[c-1] = value.Value(col)
	}
	in.scope.define(s.Name, value.Value(&value.Tuple{Elements: cols}))
	return nil
}

// VisitFlattenStmt implements `name -< expr` (spec.md:152): flattens a
// table or tuple of column vectors back into one matrix via horzcat.
func (in *Interpreter) VisitFlattenStmt(s *parser.FlattenStmt) interface{} {
	src := in.eval(s.Source)
	var parts []value.Value
	switch v := src.(type) {
	case *value.Table:
		for _, c := range v.Columns {
			parts = append(parts, value.Value(c.Data))
		}
	case *value.Tuple:
		parts = v.Elements
	default:
		parts = []value.Value{v}
	}
	out, err := dispatch.HorzCat(parts...)
	if err != nil {
		in.raise(err)
	}
	in.scope.define(s.Name, out)
	return nil
}

func (in *Interpreter) VisitExprStmt(s *parser.ExprStmt) interface{} {
	in.eval(s.Value)
	return nil
}

func truthy(v value.Value) bool {
	b, ok := v.(value.Bool)
	return ok && bool(b)
}

// VisitWheneverStmt runs Body once if Condition currently holds
// (spec.md §4.6; Design Notes: no dataflow scheduler in scope, so
// "whenever x changes" degrades to "if x holds, right now").
func (in *Interpreter) VisitWheneverStmt(s *parser.WheneverStmt) interface{} {
	if truthy(in.eval(s.Condition)) {
		in.execBlock(s.Body)
	}
	return nil
}

// VisitWaitStmt runs Body once if Condition currently holds, the same
// eager degradation as whenever (spec.md §4.6).
func (in *Interpreter) VisitWaitStmt(s *parser.WaitStmt) interface{} {
	if truthy(in.eval(s.Condition)) {
		in.execBlock(s.Body)
	}
	return nil
}

// VisitUntilStmt runs Body once if Condition does not yet hold — "keep
// going until it's true" degrades to "run once unless it's already
// true" under eager single-evaluation (spec.md §4.6).
func (in *Interpreter) VisitUntilStmt(s *parser.UntilStmt) interface{} {
	if !truthy(in.eval(s.Condition)) {
		in.execBlock(s.Body)
	}
	return nil
}

func (in *Interpreter) VisitBlockStmt(s *parser.BlockStmt) interface{} {
	in.execBlock(s.Stmts)
	return nil
}

func (in *Interpreter) execBlock(stmts []parser.Stmt) {
	in.pushScope("block")
	defer in.popScope()
	for _, st := range stmts {
		in.exec(st)
	}
}

func (in *Interpreter) VisitFunctionDefStmt(s *parser.FunctionDefStmt) interface{} {
	in.functions[s.Name] = s
	return nil
}
