package validation

import (
	"fmt"

	language "github.com/hanpama/graphlint/internal/language"
)

// Error is one validation finding, attributed to the source position of the
// selection that caused it.
type Error struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ErrorList []*Error

func (e ErrorList) Error() string {
	msg := "validation problems found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.Line > 0 {
			line += fmt.Sprintf(" (%d:%d)", v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

func errorAt(message string, pos *language.Position) *Error {
	e := &Error{Message: message}
	if pos != nil {
		e.Line = pos.Line
		e.Column = pos.Column
	}
	return e
}
