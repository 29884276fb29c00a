package value

import (
	"fmt"

	"github.com/google/uuid"
)

// Ref is a shared, interior-mutable cell with a stable address
// (spec.md §3: "a shared, interior-mutable cell with a stable address";
// §9 Design Notes: "model each as an owned, interior-mutable container
// addressed by a stable pointer"). The struct's own pointer identity
// already is that stable address; DebugID exists only because a raw
// Go pointer prints non-deterministically across runs, which makes it
// useless in golden test output or trace logs (SPEC_FULL.md §11).
type Ref struct {
	v       Value
	DebugID uuid.UUID
}

// NewRef allocates a fresh cell holding v.
func NewRef(v Value) *Ref {
	return &Ref{v: v, DebugID: uuid.New()}
}

// Get reads the cell's current value. Reads borrow immutably in the
// sense that the returned Value is never mutated in place by the
// caller — mutation always goes through Set.
func (r *Ref) Get() Value { return r.v }

// Set overwrites the cell's value.
func (r *Ref) Set(v Value) { r.v = v }

func (r *Ref) String() string {
	return fmt.Sprintf("ref(%s)->%s", r.DebugID.String()[:8], r.v.String())
}

// MutableReference is the user-level alias wrapper around a Ref cell,
// created by `~` on a variable definition (spec.md §3, Glossary).
type MutableReference struct {
	Cell *Ref
}

func NewMutableReference(cell *Ref) MutableReference {
	return MutableReference{Cell: cell}
}

func (MutableReference) isValue()             {}
func (MutableReference) ElemKindOf() ElemKind { return KindEmpty }
func (m MutableReference) String() string     { return m.Cell.String() }
