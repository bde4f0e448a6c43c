// Package errors holds the compiler's diagnostic record. Every stage
// (lexer, parser, transpiler) appends to its own list instead of aborting,
// so a single source file can surface errors from more than one phase.
package errors

import "fmt"

// Pos is the location a diagnostic is anchored to: the same {line, col, len}
// triple carried by token.Loc, duplicated here so this package has no
// dependency on the token package's token.Token shape.
type Pos struct {
	Line int
	Col  int
	Len  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// CompileError is the stable error record described by spec.md §6:
// {error, line, col, len}. Phase names the stage that raised it —
// "lexer", "parser", or "transpiler".
type CompileError struct {
	Pos     Pos
	Message string
	Phase   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Pos, e.Message)
}

// ErrorList collects the diagnostics raised by one compilation phase.
type ErrorList struct {
	Phase  string
	Errors []*CompileError
}

// NewErrorList creates an empty list scoped to phase.
func NewErrorList(phase string) *ErrorList {
	return &ErrorList{Phase: phase}
}

// Add appends a diagnostic at pos. The phase is always the list's own,
// so callers never need to repeat it at each call site.
func (el *ErrorList) Add(pos Pos, format string, args ...any) {
	el.Errors = append(el.Errors, &CompileError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Phase:   el.Phase,
	})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) String() string {
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
