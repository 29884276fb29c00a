package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// HorzCat is row-wise (side-by-side) concatenation (spec.md §4.6), used
// by the `-<` flatten statement; the `|` token itself parses as logical
// or, not as concatenation. Operands must share row count; the result's column count is the sum of the
// operands' column counts. Two scalars concatenate into a 1x2 row
// vector (Design Notes §9's "presets plus one dynamic fallback" rule
// picks a named RowVectorN preset when the combined width is small,
// otherwise falls back to RowDVector via PresetShape).
func HorzCat(args ...value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Empty{}, nil
	}
	mats := make([]value.AnyMatrix, len(args))
	rows := -1
	totalCols := 0
	ek := args[0].ElemKindOf()
	for i, a := range args {
		m := asMatrix(a)
		mats[i] = m
		s := m.ShapeOf()
		if rows == -1 {
			rows = s.Rows
		} else if s.Rows != rows {
			return nil, errors.NewKindError(errors.DimensionMismatch, "|",
				fmt.Sprintf("horzcat: row count %d does not match %d", s.Rows, rows), errors.SourceLocation{})
		}
		totalCols += s.Cols
	}
	out := NewMatrixFor(ek, rows, totalCols)
	col := 1
	for _, m := range mats {
		s := m.ShapeOf()
		for c := 1; c <= s.Cols; c++ {
			for r := 1; r <= rows; r++ {
				v := m.AtFlatAny(r, c)
				if v.ElemKindOf() != ek {
					conv, _, err := UnifyElemKind(zeroLike(ek), v)
					if err != nil {
						return nil, err
					}
					v = conv
				}
				out.SetFlatAny(r, col, v)
			}
			col++
		}
	}
	return out, nil
}

// VertCat is vertical (stacked) concatenation (spec.md §4.6): operands
// must share column count; result rows sum the operands' row counts.
// Matrix literals' `;` rows are built by the interpreter directly and do
// not go through VertCat.
func VertCat(args ...value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Empty{}, nil
	}
	mats := make([]value.AnyMatrix, len(args))
	cols := -1
	totalRows := 0
	ek := args[0].ElemKindOf()
	for i, a := range args {
		m := asMatrix(a)
		mats[i] = m
		s := m.ShapeOf()
		if cols == -1 {
			cols = s.Cols
		} else if s.Cols != cols {
			return nil, errors.NewKindError(errors.DimensionMismatch, ";",
				fmt.Sprintf("vertcat: column count %d does not match %d", s.Cols, cols), errors.SourceLocation{})
		}
		totalRows += s.Rows
	}
	out := NewMatrixFor(ek, totalRows, cols)
	row := 1
	for _, m := range mats {
		s := m.ShapeOf()
		for r := 1; r <= s.Rows; r++ {
			for c := 1; c <= cols; c++ {
				v := m.AtFlatAny(r, c)
				if v.ElemKindOf() != ek {
					conv, _, err := UnifyElemKind(zeroLike(ek), v)
					if err != nil {
						return nil, err
					}
					v = conv
				}
				out.SetFlatAny(row, c, v)
			}
			row++
		}
	}
	return out, nil
}

// asMatrix wraps a bare scalar as a 1x1 matrix of its own kind so
// concatenation can treat scalars and matrices uniformly.
func asMatrix(v value.Value) value.AnyMatrix {
	if m, ok := v.(value.AnyMatrix); ok {
		return m
	}
	m := NewMatrixFor(v.ElemKindOf(), 1, 1)
	m.SetFlatAny(1, 1, v)
	return m
}
