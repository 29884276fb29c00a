// Package interp implements Mech's tree-walking interpreter (spec.md
// §4.6, component C7): it walks the internal/parser AST directly rather
// than compiling it, evaluating every reactive statement eagerly and
// exactly once (Design Notes: "no actual dataflow scheduler is in
// scope" — the teacher's internal/vm.go is a bytecode machine kept as
// the optional secondary backend, not the primary evaluator spec.md
// requires).
package interp

import (
	"fmt"

	"golang.org/x/exp/rand"

	"mech/internal/dispatch"
	"mech/internal/errors"
	"mech/internal/parser"
	"mech/internal/value"
)

// Interpreter holds everything one Interpret run needs: the scope
// stack (rooted at global), the user function table, a seeded PRNG for
// the `rand` builtin, and the element-kind FeatureProfile this build
// was compiled with.
type Interpreter struct {
	global    *Scope
	scope     *Scope
	functions map[string]*parser.FunctionDefStmt
	rng       *rand.Rand
	profile   *dispatch.FeatureProfile
	file      string
}

// New builds an Interpreter seeded for reproducible `rand()` calls
// (spec.md §8 testable properties require deterministic seeded runs).
func New(seed uint64, file string) *Interpreter {
	g := newScope("root", nil)
	return &Interpreter{
		global:    g,
		scope:     g,
		functions: map[string]*parser.FunctionDefStmt{},
		rng:       rand.New(rand.NewSource(seed)),
		file:      file,
	}
}

// WithFeatureProfile restricts which element kinds this interpreter's
// dispatch calls will accept (spec.md §7.5 FeatureNotEnabled).
func (in *Interpreter) WithFeatureProfile(p *dispatch.FeatureProfile) *Interpreter {
	in.profile = p
	return in
}

// Interpret runs every section of prog in order against the
// interpreter's persistent global scope. The result is the value of the
// final statement when it is an expression statement ("2 + 2" -> 4.0)
// and nil when the final statement is any other kind. The first error
// stops the whole run, without losing prior state: bindings made by
// earlier statements remain visible after a later statement fails.
func (in *Interpreter) Interpret(prog *parser.Program) (result value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if me, ok := r.(*errors.MechError); ok {
				err = me
				return
			}
			err = errors.NewValueError("interpret", fmt.Sprint(r), errors.SourceLocation{File: in.file})
		}
	}()
	for _, section := range prog.Sections {
		for _, stmt := range section {
			result = in.execTop(stmt)
		}
	}
	return result, nil
}

// execTop runs one top-level statement and returns its value if it is an
// expression statement, nil otherwise. It does not recover panics: a
// raised MechError unwinds to Interpret's deferred recover, which
// returns it as the error; scope chain state from completed prior
// statements is left exactly as it was.
func (in *Interpreter) execTop(stmt parser.Stmt) (result value.Value) {
	if es, ok := stmt.(*parser.ExprStmt); ok {
		return in.eval(es.Value)
	}
	in.exec(stmt)
	return nil
}

func (in *Interpreter) loc(pos parser.Position) errors.SourceLocation {
	return errors.SourceLocation{File: in.file, Row: 0, Column: pos.Offset}
}

func (in *Interpreter) raise(err error) {
	if me, ok := err.(*errors.MechError); ok {
		panic(me.WithScope(in.scope.name, errors.SourceLocation{File: in.file}))
	}
	panic(errors.NewValueError("eval", err.Error(), errors.SourceLocation{File: in.file}))
}

func (in *Interpreter) pushScope(name string) {
	in.scope = newScope(name, in.scope)
}

func (in *Interpreter) popScope() {
	if in.scope.parent != nil {
		in.scope = in.scope.parent
	}
}
