// Package chorerr defines the error taxonomy of SPEC_FULL.md §7: the closed
// set of error kinds the AST builder, registry, and evaluator can raise,
// and which of them are fatal versus merely logged.
package chorerr

import "fmt"

// Kind tags which row of the SPEC_FULL.md §7 taxonomy an Error belongs to.
type Kind string

const (
	KindParseError         Kind = "ParseError"
	KindDuplicateSibling   Kind = "DuplicateSibling"
	KindUnknownCommand     Kind = "UnknownCommand"
	KindDependencyCycle    Kind = "DependencyCycle"
	KindUnboundVariable    Kind = "UnboundVariable"
	KindExecFailed         Kind = "ExecFailed"
	KindMalformedCondition Kind = "MalformedCondition"
)

// Error is a chore-domain error: a taxonomy Kind plus a human-readable
// message and optional structured detail used by diagnostics (e.g. the
// UnknownCommand path prefix, or a fuzzy-matched Suggestion).
type Error struct {
	Kind       Kind
	Message    string
	Path       []string // the command path involved, when applicable
	Suggestion string   // "did you mean" hint, UnknownCommand only
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", e.Kind, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Fatal reports whether a Kind always aborts the evaluation it occurs in.
// ExecFailed and UnboundVariable are the two kinds in the taxonomy that
// are never fatal: a failed exec is logged and the enclosing evaluation
// continues, and an unbound variable is logged and substituted with "".
func (k Kind) Fatal() bool {
	return k != KindExecFailed && k != KindUnboundVariable
}
