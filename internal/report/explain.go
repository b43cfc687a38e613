package report

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/vk/cmdinspect/internal/option"
)

// MaxConflictFrames bounds the stack excerpt of a definition conflict.
const MaxConflictFrames = 5

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Explain prints err as a definition conflict when it wraps one and as an
// unexpected error otherwise.
func Explain(p *Printer, err error) {
	var conflict *option.DefinitionConflictError
	if errors.As(err, &conflict) {
		ExplainConflict(p, conflict)
		return
	}
	ExplainUnexpected(p, err)
}

// ExplainConflict prints the likely causes of a definition conflict and the
// top frames of the stack where it was raised.
func ExplainConflict(p *Printer, err *option.DefinitionConflictError) {
	p.Blank()
	p.Error("Definition conflict caught: %s", err.Error())
	p.Line("This typically means there's a conflict in option registration.")

	p.Blank()
	p.Line("Possible causes:")
	p.Line("1. A command is trying to register an option that already exists globally")
	p.Line("2. Two commands are trying to register the same option")
	p.Line("3. A hook is modifying command definitions incorrectly")

	p.Blank()
	p.Line("Debug information:")
	p.Line("Error type: %T", err)
	if err.Owner != "" {
		p.Line("Owner: %s", err.Owner)
	}
	p.Line("Option: %s", err.Option)
	st := err.StackTrace()
	if len(st) > 0 {
		p.Line("File: %s", st[0])
		p.Line("Line: %d", st[0])
	}

	p.Blank()
	p.Line("Stack trace (top %d frames):", MaxConflictFrames)
	for _, line := range FormatFrames(st, MaxConflictFrames) {
		p.Line("%s", line)
	}
}

// ExplainUnexpected prints err with the deepest stack trace found in its
// chain.
func ExplainUnexpected(p *Printer, err error) {
	p.Blank()
	p.Error("Unexpected error: %s", err.Error())
	st := deepestStack(err)
	if len(st) == 0 {
		p.Line("Stack trace: unavailable")
		return
	}
	p.Line("Stack trace:%+v", st)
}

// FormatFrames renders up to limit frames as "#index file:line Type::method()".
func FormatFrames(st pkgerrors.StackTrace, limit int) []string {
	if len(st) > limit {
		st = st[:limit]
	}
	out := make([]string, 0, len(st))
	for i, f := range st {
		out = append(out, fmt.Sprintf("  #%d %s:%d %s()", i, f, f, FrameFunc(fmt.Sprintf("%n", f))))
	}
	return out
}

// FrameFunc turns a Go function name as printed by a stack frame into the
// "Type::method" form. "(*Set).Add" and "Set.Add" become "Set::Add".
// Closures such as "Merge.func1" and plain functions are returned as is.
func FrameFunc(name string) string {
	if strings.HasPrefix(name, "(") {
		end := strings.Index(name, ")")
		if end < 0 || end+2 > len(name) {
			return name
		}
		recv := strings.TrimPrefix(name[1:end], "*")
		return recv + "::" + name[end+2:]
	}
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || isClosure(name[dot+1:]) {
		return name
	}
	return name[:dot] + "::" + name[dot+1:]
}

func isClosure(part string) bool {
	if strings.HasPrefix(part, "func") {
		return true
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func deepestStack(err error) pkgerrors.StackTrace {
	var st pkgerrors.StackTrace
	for e := err; e != nil; e = errors.Unwrap(e) {
		if t, ok := e.(stackTracer); ok {
			st = t.StackTrace()
		}
	}
	return st
}
