package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// BinaryArith is the native function compiler for +,-,*,/ (spec.md
// §4.5): it classifies both operands' shapes and element kinds and
// selects the kernel for that (operator, element-kind, lhsShape,
// rhsShape) key, implementing the broadcast table in spec.md §4.5.
func BinaryArith(op string, lhs, rhs value.Value) (value.Value, error) {
	return binaryElementwise(op, lhs, rhs, ScalarArith, false)
}

// BinaryCompare is the native function compiler for comparisons
// (spec.md §4.5 Comparisons): produces a bool scalar or bool matrix
// shaped like the broader operand.
func BinaryCompare(op string, lhs, rhs value.Value) (value.Value, error) {
	return binaryElementwise(op, lhs, rhs, ScalarCompare, true)
}

// BinaryLogic is the native function compiler for &, |, xor (spec.md
// §4.5 Logical).
func BinaryLogic(op string, lhs, rhs value.Value) (value.Value, error) {
	return binaryElementwise(op, lhs, rhs, ScalarLogic, true)
}

type scalarKernel func(op string, a, b value.Value) (value.Value, error)

// boolResult is true for comparison/logic kernels, whose output matrix
// must be allocated as KindBool rather than inheriting an operand's
// element kind (ScalarCompare/ScalarLogic always return value.Bool).
func binaryElementwise(op string, lhs, rhs value.Value, kernel scalarKernel, boolResult bool) (value.Value, error) {
	lm, lIsMatrix := lhs.(value.AnyMatrix)
	rm, rIsMatrix := rhs.(value.AnyMatrix)

	// Rule 1: both scalars of the same kind.
	if !lIsMatrix && !rIsMatrix {
		if lhs.ElemKindOf() != rhs.ElemKindOf() {
			a, b, err := UnifyElemKind(lhs, rhs)
			if err != nil {
				return nil, err
			}
			lhs, rhs = a, b
		}
		return kernel(op, lhs, rhs)
	}

	// Rule 2: one scalar, one matrix -> broadcast the scalar.
	if lIsMatrix && !rIsMatrix {
		return broadcastScalarRight(op, lm, rhs, kernel, boolResult)
	}
	if !lIsMatrix && rIsMatrix {
		return broadcastScalarLeft(op, lhs, rm, kernel, boolResult)
	}

	// Rule 3: both matrices.
	return matrixMatrix(op, lm, rm, kernel, boolResult)
}

func outKind(m value.AnyMatrix, boolResult bool) value.ElemKind {
	if boolResult {
		return value.KindBool
	}
	return m.ElemKindOf()
}

func broadcastScalarRight(op string, lm value.AnyMatrix, scalar value.Value, kernel scalarKernel, boolResult bool) (value.Value, error) {
	s := lm.ShapeOf()
	out := NewMatrixFor(outKind(lm, boolResult), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := applyKernel(op, lm.AtFlatAny(r, c), scalar, kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

func broadcastScalarLeft(op string, scalar value.Value, rm value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	s := rm.ShapeOf()
	out := NewMatrixFor(outKind(rm, boolResult), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := applyKernel(op, scalar, rm.AtFlatAny(r, c), kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

func applyKernel(op string, a, b value.Value, kernel scalarKernel) (value.Value, error) {
	if a.ElemKindOf() != b.ElemKindOf() {
		ua, ub, err := UnifyElemKind(a, b)
		if err != nil {
			return nil, err
		}
		a, b = ua, ub
	}
	return kernel(op, a, b)
}

// matrixMatrix implements spec.md §4.5's Matrix/Row/Col cross table:
// equal shapes apply elementwise; a row vector against an MxN matrix
// must match columns and broadcasts down rows; a column vector against
// an MxN matrix must match rows and broadcasts across columns; a row
// against a column (or vice versa) produces an outer shape with one row
// per left-operand element and one column per right-operand element.
func matrixMatrix(op string, lm, rm value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	ls, rs := lm.ShapeOf(), rm.ShapeOf()
	lc, rc := classify(ls), classify(rs)
	// swapped restores source operand order when a left-hand vector is
	// handed to the broadcast helpers in their matrix-first slot.
	swapped := func(op string, a, b value.Value) (value.Value, error) { return kernel(op, b, a) }

	switch {
	case ls.Rows == rs.Rows && ls.Cols == rs.Cols:
		return elementwiseSameShape(op, lm, rm, kernel, boolResult)
	case lc == classRowShape && rc == classColShape:
		return outerProduct(op, lm, rm, kernel, boolResult)
	case lc == classColShape && rc == classRowShape:
		return outerProduct(op, lm, rm, kernel, boolResult)
	case lc == classRowShape && rc == classMatrixShape && ls.Cols == rs.Cols:
		return broadcastRowAcrossRows(op, rm, lm, swapped, boolResult)
	case lc == classMatrixShape && rc == classRowShape && rs.Cols == ls.Cols:
		return broadcastRowAcrossRows(op, lm, rm, kernel, boolResult)
	case lc == classColShape && rc == classMatrixShape && ls.Rows == rs.Rows:
		return broadcastColAcrossCols(op, rm, lm, swapped, boolResult)
	case lc == classMatrixShape && rc == classColShape && rs.Rows == ls.Rows:
		return broadcastColAcrossCols(op, lm, rm, kernel, boolResult)
	default:
		return nil, errors.NewKindError(errors.DimensionMismatch, op,
			fmt.Sprintf("incompatible shapes %s and %s", ls, rs), errors.SourceLocation{})
	}
}

func elementwiseSameShape(op string, lm, rm value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	s := lm.ShapeOf()
	out := NewMatrixFor(outKind(lm, boolResult), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := applyKernel(op, lm.AtFlatAny(r, c), rm.AtFlatAny(r, c), kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

// outerProduct implements the Row x Col / Col x Row broadcast cell of
// spec.md §4.5's table: Row R x Col V gives an RxV result and Col V x
// Row R a VxR result, with cell (r, c) = op(a_r, b_c).
func outerProduct(op string, a, b value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	rows, cols := a.LenAny(), b.LenAny()
	out := NewMatrixFor(outKind(a, boolResult), rows, cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			v, err := applyKernel(op, linearAt(a, r), linearAt(b, c), kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

func elemForOuter(m value.AnyMatrix, s value.Shape, r, c int) value.Value {
	rr, cc := r, c
	if s.Rows == 1 {
		rr = 1
	} else if rr > s.Rows {
		rr = ((rr - 1) % s.Rows) + 1
	}
	if s.Cols == 1 {
		cc = 1
	} else if cc > s.Cols {
		cc = ((cc - 1) % s.Cols) + 1
	}
	return m.AtFlatAny(rr, cc)
}

func broadcastRowAcrossRows(op string, mat, row value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	s := mat.ShapeOf()
	out := NewMatrixFor(outKind(mat, boolResult), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := applyKernel(op, mat.AtFlatAny(r, c), row.AtFlatAny(1, c), kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

func broadcastColAcrossCols(op string, mat, col value.AnyMatrix, kernel scalarKernel, boolResult bool) (value.Value, error) {
	s := mat.ShapeOf()
	out := NewMatrixFor(outKind(mat, boolResult), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := applyKernel(op, mat.AtFlatAny(r, c), col.AtFlatAny(r, 1), kernel)
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}
