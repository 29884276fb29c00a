// Package parser implements Mech's grapheme-buffer-backed parser
// (spec.md §4.2, component C2): a recursive-descent ladder over L0-L6
// expression precedence, restructured from the teacher's hand-rolled
// lexer+Pratt parser into the labelled/recovering combinator shape
// original_source/src/parser.rs uses (there `label!`/`labelr!` wrap most
// productions; here each statement runs under labelRecover, so one
// malformed statement doesn't abort the whole parse — spec.md §4.2
// invariant 3).
package parser

import "mech/internal/kind"

// Expr is any Mech expression node. The visitor pattern here keeps the
// teacher's ast.go shape (Accept(visitor) interface{}) generalized to
// Mech's expression grammar instead of Sentra's.
type Expr interface {
	Accept(visitor ExprVisitor) interface{}
	Pos() Position
}

// Position is a grapheme-offset anchor into the source buffer,
// resolved to row/col by internal/grapheme.Locator at diagnostic time.
type Position struct {
	Offset int
}

func (p Position) Pos() Position { return p }

// Literal is any scalar literal, optionally tagged with an explicit
// kind annotation (spec.md §4.1: `1<u8>`, `3.14<f32>`).
type Literal struct {
	Position
	Raw    string // exact source text, for exact decimal parsing
	Suffix string // always "" from this parser: `1<u8>` becomes a KindAnnotation around the Literal
	Tag    LiteralTag
}

type LiteralTag uint8

const (
	TagNumber LiteralTag = iota
	TagString
	TagBool
	TagAtom
	TagEmpty
)

func (l *Literal) Accept(v ExprVisitor) interface{} { return v.VisitLiteral(l) }

// MatrixLit is a bracketed matrix/vector literal: [1 2 3], [1 2; 3 4].
// Rows are separated by `;` (a newline inside the brackets is not a row
// separator); elements within a row by whitespace or `,` (spec.md §4.1).
type MatrixLit struct {
	Position
	Rows [][]Expr
}

func (m *MatrixLit) Accept(v ExprVisitor) interface{} { return v.VisitMatrixLit(m) }

// TableLit is a `|header1 header2|` row-and-column literal. Box-drawing
// glyphs in the source are rewritten to ASCII `-`/`|`/`+` by
// normalizeTables before parsing (SPEC_FULL.md §12).
type TableLit struct {
	Position
	Headers []string
	Kinds   []kind.Kind // nil entries mean "infer from data"
	Rows    [][]Expr
}

func (t *TableLit) Accept(v ExprVisitor) interface{} { return v.VisitTableLit(t) }

// TupleLit is `(a, b, c)`.
type TupleLit struct {
	Position
	Elements []Expr
}

func (t *TupleLit) Accept(v ExprVisitor) interface{} { return v.VisitTupleLit(t) }

// RecordLit is `{field: expr, ...}`.
type RecordLit struct {
	Position
	Fields []string
	Values []Expr
}

func (r *RecordLit) Accept(v ExprVisitor) interface{} { return v.VisitRecordLit(r) }

// SetLit is `{a, b, c}`.
type SetLit struct {
	Position
	Elements []Expr
}

func (s *SetLit) Accept(v ExprVisitor) interface{} { return v.VisitSetLit(s) }

// MapLit is `{k1: v1, k2: v2}` (disambiguated from RecordLit by the
// parser only when keys are not identifiers).
type MapLit struct {
	Position
	Keys   []Expr
	Values []Expr
}

func (m *MapLit) Accept(v ExprVisitor) interface{} { return v.VisitMapLit(m) }

// Variable is a bare identifier reference.
type Variable struct {
	Position
	Name string
}

func (v *Variable) Accept(vis ExprVisitor) interface{} { return vis.VisitVariable(v) }

// Binary is any L1-L5 infix operator application, spec.md §4.5.
type Binary struct {
	Position
	Operator string
	Left     Expr
	Right    Expr
}

func (b *Binary) Accept(v ExprVisitor) interface{} { return v.VisitBinary(b) }

// Unary is a prefix `-`/`!` or postfix `'` (transpose) application.
type Unary struct {
	Position
	Operator string
	Operand  Expr
	Postfix  bool
}

func (u *Unary) Accept(v ExprVisitor) interface{} { return v.VisitUnary(u) }

// RangeExpr is `start:stop`, `start:step:stop`, or the inclusive
// `start..=stop` form (spec.md §4.6).
type RangeExpr struct {
	Position
	Start     Expr
	Step      Expr // nil if not given
	Stop      Expr
	Inclusive bool
}

func (r *RangeExpr) Accept(v ExprVisitor) interface{} { return v.VisitRangeExpr(r) }

// IndexAxis is one `[...]` axis selector: `:`, a scalar expr, a vector
// literal, or a logical-mask expr — spec.md §4.6.
type IndexAxis struct {
	All   bool
	Value Expr // nil when All
}

// IndexExpr is `object[axis]` or `object[rowAxis, colAxis]` (a single
// axis indexes linearly; the `{:}` accessor form is not parsed), with
// left-to-right chained swizzle/dot-index re-indexing from original_source
// (SPEC_FULL.md §12: "swizzle/dot-index chains are left-to-right
// re-indexable").
type IndexExpr struct {
	Position
	Object Expr
	Axes   []IndexAxis
}

func (i *IndexExpr) Accept(v ExprVisitor) interface{} { return v.VisitIndexExpr(i) }

// DotIndex is `object.field` / `object.1` (1-based tuple position) / swizzle
// `object.x.y`, re-indexable left-to-right per original_source.
type DotIndex struct {
	Position
	Object Expr
	Field  string
}

func (d *DotIndex) Accept(v ExprVisitor) interface{} { return v.VisitDotIndex(d) }

// CallExpr is `name(args...)`, spec.md §4.3 built-in/user functions.
type CallExpr struct {
	Position
	Callee string
	Args   []Expr
}

func (c *CallExpr) Accept(v ExprVisitor) interface{} { return v.VisitCallExpr(c) }

// KindAnnotation wraps an expression with an explicit declared kind,
// e.g. `1<u8>`. A binding's annotation, as in `x<u8> = 1`, wraps the
// bound value the same way.
type KindAnnotation struct {
	Position
	Inner Expr
	Kind  kind.Kind
}

func (k *KindAnnotation) Accept(v ExprVisitor) interface{} { return v.VisitKindAnnotation(k) }

// ExprVisitor is the full dispatch surface over Expr nodes.
type ExprVisitor interface {
	VisitLiteral(e *Literal) interface{}
	VisitMatrixLit(e *MatrixLit) interface{}
	VisitTableLit(e *TableLit) interface{}
	VisitTupleLit(e *TupleLit) interface{}
	VisitRecordLit(e *RecordLit) interface{}
	VisitSetLit(e *SetLit) interface{}
	VisitMapLit(e *MapLit) interface{}
	VisitVariable(e *Variable) interface{}
	VisitBinary(e *Binary) interface{}
	VisitUnary(e *Unary) interface{}
	VisitRangeExpr(e *RangeExpr) interface{}
	VisitIndexExpr(e *IndexExpr) interface{}
	VisitDotIndex(e *DotIndex) interface{}
	VisitCallExpr(e *CallExpr) interface{}
	VisitKindAnnotation(e *KindAnnotation) interface{}
}
