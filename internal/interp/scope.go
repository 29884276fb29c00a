package interp

import "mech/internal/value"

// Scope is one lexical binding frame, chained to its enclosing scope.
// Mirrors the teacher's internal/vm.go ScopeFrame (map[string]Value plus
// a parent pointer) generalized to Mech's Value sum type and its
// mutable-vs-immutable binding distinction (spec.md §3, §4.6).
type Scope struct {
	name   string
	vars   map[string]value.Value
	parent *Scope
}

func newScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, vars: map[string]value.Value{}, parent: parent}
}

// lookup walks the scope chain outward, returning the bound value (a
// MutableReference if the binding was made with `~`) and the scope it
// was found in.
func (s *Scope) lookup(name string) (value.Value, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, sc, true
		}
	}
	return nil, nil, false
}

// define binds name in this scope directly (shadowing any enclosing
// binding of the same name), the semantics of a bare `name = expr`
// DefineStmt (spec.md §4.6).
func (s *Scope) define(name string, v value.Value) {
	s.vars[name] = v
}
