package parser

import (
	"fmt"

	"github.com/chorelang/chore/internal/token"
)

// Error reports the first unexpected token encountered while parsing, with
// the byte offset and line/column spec.md §4.A requires.
type Error struct {
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d (offset %d): %s", e.Position.Line, e.Position.Column, e.Position.Offset, e.Message)
}

func newError(pos token.Position, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Position: pos}
}
