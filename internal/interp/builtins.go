package interp

import (
	"fmt"
	"math"

	"mech/internal/dispatch"
	"mech/internal/errors"
	"mech/internal/kind"
	"mech/internal/value"
)

// builtinFunc is one entry in the global function table spec.md §4.3
// reserves for built-ins (print, len, and the math library) — looked up
// only after the user function table misses, so a user function with a
// builtin's name shadows that builtin.
type builtinFunc func(in *Interpreter, args []value.Value) (value.Value, error)

var builtins = map[string]builtinFunc{
	"print": biPrint,
	"len":   biLen,
	"sin":   biMath1(math.Sin),
	"cos":   biMath1(math.Cos),
	"tan":   biMath1(math.Tan),
	"sqrt":  biMath1(math.Sqrt),
	"abs":   biMath1(math.Abs),
	"floor": biMath1(math.Floor),
	"ceil":  biMath1(math.Ceil),
	"round": biMath1(math.Round),
	"min":   biMinMax("<"),
	"max":   biMinMax(">"),
	"rand":  biRand,
}

func biPrint(in *Interpreter, args []value.Value) (value.Value, error) {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Println(parts...)
	return value.Empty{}, nil
}

func biLen(in *Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errors.NewArityError("len", 1, len(args), errors.SourceLocation{})
	}
	switch v := args[0].(type) {
	case value.AnyMatrix:
		return value.I64(v.LenAny()), nil
	case *value.Table:
		return value.I64(v.NumRows()), nil
	case *value.Tuple:
		return value.I64(len(v.Elements)), nil
	case *value.Record:
		return value.I64(len(v.Fields)), nil
	case *value.Set:
		return value.I64(v.Len()), nil
	case *value.Map:
		return value.I64(len(v.Keys())), nil
	case value.String:
		return value.I64(len(v)), nil
	}
	return value.I64(1), nil
}

// biMath1 lifts a scalar float64->float64 function into a builtin that
// accepts either a scalar or a matrix, applying elementwise in the
// matrix case (spec.md §4.3: the math built-ins are "shape-preserving").
func biMath1(f func(float64) float64) builtinFunc {
	return func(in *Interpreter, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.NewArityError("math", 1, len(args), errors.SourceLocation{})
		}
		if m, ok := args[0].(value.AnyMatrix); ok {
			s := m.ShapeOf()
			out := dispatch.NewMatrixFor(value.KindF64, s.Rows, s.Cols)
			for r := 1; r <= s.Rows; r++ {
				for c := 1; c <= s.Cols; c++ {
					x, err := asFloat64(m.AtFlatAny(r, c))
					if err != nil {
						return nil, err
					}
					out.SetFlatAny(r, c, value.F64(f(x)))
				}
			}
			return out, nil
		}
		x, err := asFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return value.F64(f(x)), nil
	}
}

func biMinMax(cmp string) builtinFunc {
	return func(in *Interpreter, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, errors.NewArityError("min/max", 2, len(args), errors.SourceLocation{})
		}
		out, err := dispatch.BinaryOp(cmp, args[0], args[1], in.profile)
		if err != nil {
			return nil, err
		}
		if bool(out.(value.Bool)) {
			return args[0], nil
		}
		return args[1], nil
	}
}

func biRand(in *Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, errors.NewArityError("rand", 0, len(args), errors.SourceLocation{})
	}
	return value.F64(in.rng.Float64()), nil
}

func asFloat64(v value.Value) (float64, error) {
	conv, err := kind.ConvertElem(v, value.KindF64)
	if err != nil {
		return 0, err
	}
	return float64(conv.(value.F64)), nil
}
