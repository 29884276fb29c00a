package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// ReadIndex implements spec.md §4.6 indexing: one IndexSpecifier per
// axis. A single specifier indexes linearly (column-major, matching
// AtLinear/SetLinear and the `{:}` reshape accessor); two specifiers
// index row then column. Each specifier may itself be `:` (all), a
// scalar, a vector of scalars, or a logical mask.
func ReadIndex(container value.Value, axes []value.IndexSpecifier) (value.Value, error) {
	if t, ok := container.(*value.Table); ok {
		return readTableIndex(t, axes)
	}
	m, ok := container.(value.AnyMatrix)
	if !ok {
		return nil, errors.NewIndexError("index", fmt.Sprintf("cannot index a %s", container.ElemKindOf()), errors.SourceLocation{})
	}
	switch len(axes) {
	case 1:
		return readLinear(m, axes[0])
	case 2:
		return readRowCol(m, axes[0], axes[1])
	}
	return nil, errors.NewIndexError("index", "index expressions take one or two axes", errors.SourceLocation{})
}

func readLinear(m value.AnyMatrix, ax value.IndexSpecifier) (value.Value, error) {
	n := m.LenAny()
	switch ax.Kind {
	case value.IndexAll:
		return m, nil
	case value.IndexScalar:
		i := int(ax.Scalar)
		if i < 1 || i > n {
			return nil, errors.NewIndexError("index", fmt.Sprintf("linear index %d out of bounds for length %d", i, n), errors.SourceLocation{})
		}
		return linearAt(m, i), nil
	case value.IndexVector:
		out := NewMatrixFor(m.ElemKindOf(), 1, len(ax.Vector))
		for k, idx := range ax.Vector {
			i := int(idx)
			if i < 1 || i > n {
				return nil, errors.NewIndexError("index", fmt.Sprintf("linear index %d out of bounds for length %d", i, n), errors.SourceLocation{})
			}
			out.SetFlatAny(1, k+1, linearAt(m, i))
		}
		return out, nil
	case value.IndexLogical:
		if len(ax.Logical) != n {
			return nil, errors.NewIndexError("index", fmt.Sprintf("logical mask length %d does not match length %d", len(ax.Logical), n), errors.SourceLocation{})
		}
		var picked []value.Value
		for i, keep := range ax.Logical {
			if keep {
				picked = append(picked, linearAt(m, i+1))
			}
		}
		out := NewMatrixFor(m.ElemKindOf(), 1, len(picked))
		for k, v := range picked {
			out.SetFlatAny(1, k+1, v)
		}
		return out, nil
	}
	return nil, errors.NewIndexError("index", "unrecognised index specifier", errors.SourceLocation{})
}

func linearAt(m value.AnyMatrix, i int) value.Value {
	s := m.ShapeOf()
	i--
	row := i%s.Rows + 1
	col := i/s.Rows + 1
	return m.AtFlatAny(row, col)
}

func readRowCol(m value.AnyMatrix, rowAx, colAx value.IndexSpecifier) (value.Value, error) {
	s := m.ShapeOf()
	rows, err := resolveAxis(rowAx, s.Rows)
	if err != nil {
		return nil, err
	}
	cols, err := resolveAxis(colAx, s.Cols)
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 && len(cols) == 1 {
		return m.AtFlatAny(rows[0], cols[0]), nil
	}
	out := NewMatrixFor(m.ElemKindOf(), len(rows), len(cols))
	for ri, r := range rows {
		for ci, c := range cols {
			out.SetFlatAny(ri+1, ci+1, m.AtFlatAny(r, c))
		}
	}
	return out, nil
}

func resolveAxis(ax value.IndexSpecifier, n int) ([]int, error) {
	switch ax.Kind {
	case value.IndexAll:
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out, nil
	case value.IndexScalar:
		i := int(ax.Scalar)
		if i < 1 || i > n {
			return nil, errors.NewIndexError("index", fmt.Sprintf("index %d out of bounds for extent %d", i, n), errors.SourceLocation{})
		}
		return []int{i}, nil
	case value.IndexVector:
		out := make([]int, len(ax.Vector))
		for k, idx := range ax.Vector {
			i := int(idx)
			if i < 1 || i > n {
				return nil, errors.NewIndexError("index", fmt.Sprintf("index %d out of bounds for extent %d", i, n), errors.SourceLocation{})
			}
			out[k] = i
		}
		return out, nil
	case value.IndexLogical:
		if len(ax.Logical) != n {
			return nil, errors.NewIndexError("index", fmt.Sprintf("logical mask length %d does not match extent %d", len(ax.Logical), n), errors.SourceLocation{})
		}
		var out []int
		for i, keep := range ax.Logical {
			if keep {
				out = append(out, i+1)
			}
		}
		return out, nil
	}
	return nil, errors.NewIndexError("index", "unrecognised index specifier", errors.SourceLocation{})
}

func readTableIndex(t *value.Table, axes []value.IndexSpecifier) (value.Value, error) {
	if len(axes) != 1 {
		return nil, errors.NewIndexError("index", "tables index by row only", errors.SourceLocation{})
	}
	rows, err := resolveAxis(axes[0], t.NumRows())
	if err != nil {
		return nil, err
	}
	out := &value.Table{Columns: make([]value.Column, len(t.Columns))}
	for i, col := range t.Columns {
		m := NewMatrixFor(col.Kind, len(rows), 1)
		for k, r := range rows {
			m.SetFlatAny(k+1, 1, col.Data.AtFlatAny(r, 1))
		}
		out.Columns[i] = value.Column{Name: col.Name, Kind: col.Kind, Data: m}
	}
	return out, nil
}

// WriteIndex assigns rhs into container at the given axes, in place
// (spec.md §4.6 "matrix assignment"). A scalar rhs broadcasts to every
// selected cell; a matrix/vector rhs must match the selected element
// count exactly. A logical mask that selects nothing is a no-op
// (SPEC_FULL.md §12).
func WriteIndex(container value.Value, axes []value.IndexSpecifier, rhs value.Value) error {
	m, ok := container.(value.AnyMatrix)
	if !ok {
		return errors.NewIndexError("index-assign", fmt.Sprintf("cannot index-assign into a %s", container.ElemKindOf()), errors.SourceLocation{})
	}
	var cells [][2]int
	switch len(axes) {
	case 1:
		s := m.ShapeOf()
		idxs, err := resolveAxis(axes[0], m.LenAny())
		if err != nil {
			return err
		}
		for _, i := range idxs {
			i--
			cells = append(cells, [2]int{i%s.Rows + 1, i/s.Rows + 1})
		}
	case 2:
		s := m.ShapeOf()
		rows, err := resolveAxis(axes[0], s.Rows)
		if err != nil {
			return err
		}
		cols, err := resolveAxis(axes[1], s.Cols)
		if err != nil {
			return err
		}
		for _, r := range rows {
			for _, c := range cols {
				cells = append(cells, [2]int{r, c})
			}
		}
	default:
		return errors.NewIndexError("index-assign", "index expressions take one or two axes", errors.SourceLocation{})
	}
	if len(cells) == 0 {
		return nil // all-false logical mask: no-op
	}
	if rm, isMat := rhs.(value.AnyMatrix); isMat {
		if rm.LenAny() != len(cells) {
			return errors.NewKindError(errors.DimensionMismatch, "index-assign",
				fmt.Sprintf("assigned %d values into %d selected cells", rm.LenAny(), len(cells)), errors.SourceLocation{})
		}
		rs := rm.ShapeOf()
		for k, cell := range cells {
			rr := k%rs.Rows + 1
			rc := k/rs.Rows + 1
			v, err := coerceElem(m.ElemKindOf(), rm.AtFlatAny(rr, rc))
			if err != nil {
				return err
			}
			m.SetFlatAny(cell[0], cell[1], v)
		}
		return nil
	}
	v, err := coerceElem(m.ElemKindOf(), rhs)
	if err != nil {
		return err
	}
	for _, cell := range cells {
		m.SetFlatAny(cell[0], cell[1], v)
	}
	return nil
}

func coerceElem(target value.ElemKind, v value.Value) (value.Value, error) {
	if v.ElemKindOf() == target {
		return v, nil
	}
	conv, _, err := UnifyElemKind(zeroLike(target), v)
	return conv, err
}
