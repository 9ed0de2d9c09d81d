package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a syntax error at a source position
type Error struct {
	Line   int
	Column int
	Msg    string

	// Incomplete is set when the input ended before the construct did, so
	// that appending more lines could make it valid
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Msg)
}

// IsIncomplete reports whether err is a syntax error caused by input that
// ended too early
func IsIncomplete(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Incomplete
}

// bailout unwinds the parser after the first error
type bailout struct{}
