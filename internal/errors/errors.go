// Package errors defines Mech's runtime/compile error taxonomy
// (spec.md §7) and the scope-chain trace the interpreter attaches when it
// stops a statement's evaluation.
package errors

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	pkgerrors "github.com/pkg/errors"
)

// Kind is the top-level error taxonomy from spec.md §7.
type Kind string

const (
	ParseErrorKind               Kind = "ParseError"
	KindErrorKind                Kind = "KindError"
	IndexErrorKind                Kind = "IndexError"
	ValueErrorKind                Kind = "ValueError"
	FeatureNotEnabledKind         Kind = "FeatureNotEnabled"
	IncorrectNumberOfArgumentsKind Kind = "IncorrectNumberOfArguments"
)

// Sub-taxonomy carried on KindError per spec.md §7.2.
type KindErrorReason string

const (
	UnhandledFunctionArgumentKind KindErrorReason = "UnhandledFunctionArgumentKind"
	DimensionMismatch             KindErrorReason = "DimensionMismatch"
)

// SourceLocation is a (file, row, col) triple, 1-based.
type SourceLocation struct {
	File   string
	Row    int
	Column int
}

// ScopeFrame names one enclosing scope at the point an error escaped it,
// for the "chain of enclosing scopes" trace spec.md §7 requires.
type ScopeFrame struct {
	Name     string // e.g. "block", function name, "root"
	Location SourceLocation
}

// MechError is the single error type every component in the core raises.
type MechError struct {
	Kind       Kind
	Reason     KindErrorReason // only meaningful when Kind == KindErrorKind
	Message    string
	Operator   string // operator or identifier implicated, for the single-line summary
	Location   SourceLocation
	Scopes     []ScopeFrame
	cause      error
}

func (e *MechError) Error() string {
	var sb strings.Builder
	head := string(e.Kind)
	if e.Reason != "" {
		head = fmt.Sprintf("%s(%s)", e.Kind, e.Reason)
	}
	if e.Operator != "" {
		sb.WriteString(fmt.Sprintf("%s: %s [%s]", head, e.Message, e.Operator))
	} else {
		sb.WriteString(fmt.Sprintf("%s: %s", head, e.Message))
	}
	if e.Location.File != "" || e.Location.Row != 0 {
		sb.WriteString(fmt.Sprintf(" at %s:%d:%d", e.Location.File, e.Location.Row, e.Location.Column))
	}
	for _, s := range e.Scopes {
		sb.WriteString(fmt.Sprintf("\n  in %s (%s:%d:%d)", s.Name, s.Location.File, s.Location.Row, s.Location.Column))
	}
	return sb.String()
}

// Unwrap lets errors.Is/As (and pkg/errors.Cause) see through to whatever
// underlying Go error, if any, triggered this MechError.
func (e *MechError) Unwrap() error { return e.cause }

// WithCause wraps a lower-level Go error as this MechError's cause, using
// pkg/errors so the original stack trace survives in %+v formatting.
func (e *MechError) WithCause(err error) *MechError {
	e.cause = pkgerrors.WithStack(err)
	return e
}

// WithScope appends one enclosing-scope frame (innermost first).
func (e *MechError) WithScope(name string, loc SourceLocation) *MechError {
	e.Scopes = append(e.Scopes, ScopeFrame{Name: name, Location: loc})
	return e
}

func New(kind Kind, operator, message string, loc SourceLocation) *MechError {
	return &MechError{Kind: kind, Operator: operator, Message: message, Location: loc}
}

func NewParseError(message string, loc SourceLocation) *MechError {
	return New(ParseErrorKind, "", message, loc)
}

func NewKindError(reason KindErrorReason, operator, message string, loc SourceLocation) *MechError {
	e := New(KindErrorKind, operator, message, loc)
	e.Reason = reason
	return e
}

func NewIndexError(operator, message string, loc SourceLocation) *MechError {
	return New(IndexErrorKind, operator, message, loc)
}

func NewValueError(operator, message string, loc SourceLocation) *MechError {
	return New(ValueErrorKind, operator, message, loc)
}

func NewFeatureNotEnabled(feature string, loc SourceLocation) *MechError {
	return New(FeatureNotEnabledKind, feature, fmt.Sprintf("kernels for %q were not compiled into this build profile", feature), loc)
}

// NewArityError reports a call-site arity mismatch, humanizing the
// expected/got counts the way the rest of the CLI's diagnostics do.
func NewArityError(fn string, want, got int, loc SourceLocation) *MechError {
	msg := fmt.Sprintf("%s expects %s argument(s), got %s", fn, humanize.Comma(int64(want)), humanize.Comma(int64(got)))
	return New(IncorrectNumberOfArgumentsKind, fn, msg, loc)
}
