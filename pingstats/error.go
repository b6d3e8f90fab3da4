// SPDX-License-Identifier: MIT

package pingstats

import (
	"errors"
	"fmt"
)

// ParseError is returned when ping output or a result line does not have the
// expected structure.
type ParseError struct {
	Line   int // 1-based line number, 0 if the error is not tied to a line
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, e.Reason)
	}

	return "parse error: " + e.Reason
}

// IsParseError reports whether any error in err's chain is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func newParseError(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
