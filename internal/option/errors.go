package option

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefinitionConflictError is returned when two option declarations
// physically collide inside one owner: the same name declared twice, or a
// shortcut already taken by another option.
type DefinitionConflictError struct {
	Owner  string
	Option string
	Reason string

	stack errors.StackTrace
}

// NewDefinitionConflict builds a DefinitionConflictError and records the
// call stack of the caller.
func NewDefinitionConflict(owner, name, reason string) *DefinitionConflictError {
	return &DefinitionConflictError{
		Owner:  owner,
		Option: name,
		Reason: reason,
		stack:  callers(),
	}
}

func (e *DefinitionConflictError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("option %q: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("%s: option %q: %s", e.Owner, e.Option, e.Reason)
}

// StackTrace returns the frames captured when the conflict was raised,
// innermost first.
func (e *DefinitionConflictError) StackTrace() errors.StackTrace {
	return e.stack
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// callers returns the stack of the function that called the function that
// called callers.
func callers() errors.StackTrace {
	st := errors.New("").(stackTracer).StackTrace()
	// Drop callers itself and NewDefinitionConflict.
	if len(st) > 2 {
		return st[2:]
	}
	return st
}
