package schema

import (
	"fmt"

	language "github.com/hanpama/graphlint/internal/language"
)

// Problem is one defect found while assembling a schema from SDL.
type Problem struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type BuildError []*Problem

func (e BuildError) Error() string {
	msg := "schema problems found:\n"
	for _, p := range e {
		line := "- " + p.Message
		if p.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", p.File, p.Line, p.Column)
		}
		msg += line + "\n"
	}
	return msg
}

func problemAt(message string, pos *language.Position) *Problem {
	p := &Problem{Message: message}
	if pos != nil && pos.Src != nil {
		p.File = pos.Src.Name
		p.Line = pos.Line
		p.Column = pos.Column
	}
	return p
}
