package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// arithOps, compareOps, and logicOps classify every binary operator
// token the parser produces into which broadcast family BinaryOp
// routes it through.
var arithOps = map[string]bool{"+": true, "-": true, "*": true, "/": true}
var compareOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var logicOps = map[string]bool{"&": true, "|": true, "xor": true}

// BinaryOp is the single entry point internal/interp calls for every
// binary operator AST node: it classifies the operator, then the
// shapes and kinds of both operands, and hands off to the matching
// kernel family in this package. This function, not any one kernel, is
// "the dispatch engine" spec.md §4.5 describes.
func BinaryOp(op string, lhs, rhs value.Value, profile *FeatureProfile) (value.Value, error) {
	if err := checkProfile(op, lhs, profile); err != nil {
		return nil, err
	}
	if err := checkProfile(op, rhs, profile); err != nil {
		return nil, err
	}
	switch {
	case op == "**":
		return MatMul(lhs, rhs)
	case arithOps[op]:
		return BinaryArith(op, lhs, rhs)
	case compareOps[op]:
		return BinaryCompare(op, lhs, rhs)
	case logicOps[op]:
		return BinaryLogic(op, lhs, rhs)
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op,
		fmt.Sprintf("unrecognised binary operator %q", op), errors.SourceLocation{})
}

// UnaryOp dispatches `-`, `!`, and `'` (transpose) AST nodes.
func UnaryOp(op string, v value.Value, profile *FeatureProfile) (value.Value, error) {
	if err := checkProfile(op, v, profile); err != nil {
		return nil, err
	}
	switch op {
	case "-":
		return negate(v)
	case "!":
		if m, ok := v.(value.AnyMatrix); ok {
			return mapMatrix(m, func(e value.Value) (value.Value, error) { return ScalarLogic("!", e, nil) })
		}
		return ScalarLogic("!", v, nil)
	case "'":
		return Transpose(v)
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op,
		fmt.Sprintf("unrecognised unary operator %q", op), errors.SourceLocation{})
}

func negate(v value.Value) (value.Value, error) {
	if m, ok := v.(value.AnyMatrix); ok {
		return mapMatrix(m, negateScalar)
	}
	return negateScalar(v)
}

func negateScalar(v value.Value) (value.Value, error) {
	zero := zeroLike(v.ElemKindOf())
	return ScalarArith("-", zero, v)
}

func mapMatrix(m value.AnyMatrix, f func(value.Value) (value.Value, error)) (value.Value, error) {
	s := m.ShapeOf()
	out := NewMatrixFor(m.ElemKindOf(), s.Rows, s.Cols)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			v, err := f(m.AtFlatAny(r, c))
			if err != nil {
				return nil, err
			}
			out.SetFlatAny(r, c, v)
		}
	}
	return out, nil
}

func checkProfile(op string, v value.Value, profile *FeatureProfile) error {
	if profile == nil {
		return nil
	}
	ek := v.ElemKindOf()
	if m, ok := v.(value.AnyMatrix); ok {
		ek = m.ElemKindOf()
	}
	return profile.check(op, ek, errors.SourceLocation{})
}
