package dispatch

import (
	"mech/internal/errors"
	"mech/internal/value"
)

// MakeRange builds a value.Range from two or three scalar endpoints,
// implementing the `:` and `..=` range constructors of spec.md §4.6.
// step, if non-nil, supplies the middle `start:step:stop` term;
// inclusive selects `..=` over the default exclusive `:`.
func MakeRange(start, stop value.Value, step value.Value, inclusive bool) (value.Value, error) {
	if start.ElemKindOf().IsFloat() || stop.ElemKindOf().IsFloat() {
		fStart, ok1 := asRangeFloat(start)
		fStop, ok2 := asRangeFloat(stop)
		if !ok1 || !ok2 {
			return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, ":",
				"range endpoints must be numeric", errors.SourceLocation{})
		}
		fStep := 1.0
		if step != nil {
			s, ok := asRangeFloat(step)
			if !ok {
				return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, ":", "range step must be numeric", errors.SourceLocation{})
			}
			fStep = s
		}
		return value.Range{IsFloat: true, FStart: fStart, FStop: fStop, FStep: fStep, Inclusive: inclusive}, nil
	}
	iStart, ok1 := intOfAny(start)
	iStop, ok2 := intOfAny(stop)
	if !ok1 || !ok2 {
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, ":",
			"range endpoints must be numeric", errors.SourceLocation{})
	}
	iStep := int64(1)
	if step != nil {
		s, ok := intOfAny(step)
		if !ok {
			return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, ":", "range step must be numeric", errors.SourceLocation{})
		}
		iStep = s
	}
	return value.Range{Start: iStart, Stop: iStop, Step: iStep, Inclusive: inclusive}, nil
}

func asRangeFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.F32:
		return float64(x), true
	case value.F64:
		return float64(x), true
	}
	n, ok := intOfAny(v)
	return float64(n), ok
}

func intOfAny(v value.Value) (int64, bool) {
	switch v.(type) {
	case value.I8, value.I16, value.I32, value.I64, value.U8, value.U16, value.U32, value.U64:
		return intOf(v), true
	}
	return 0, false
}

// MaterializeRange expands a value.Range into a row-vector matrix,
// implementing spec.md §4.6's "a range used as a value materializes as
// a row vector of its elements".
func MaterializeRange(r value.Range) value.AnyMatrix {
	n := r.Len()
	if r.IsFloat {
		out := NewMatrixFor(value.KindF64, 1, n)
		for i := 1; i <= n; i++ {
			out.SetFlatAny(1, i, value.F64(r.FStart+float64(i-1)*r.FStep))
		}
		return out
	}
	out := NewMatrixFor(value.KindI64, 1, n)
	for i := 1; i <= n; i++ {
		out.SetFlatAny(1, i, value.I64(r.At(i)))
	}
	return out
}
