package validation

import (
	language "github.com/hanpama/graphlint/internal/language"
	schema "github.com/hanpama/graphlint/internal/schema"
)

// Context carries the schema and document under validation plus the error
// sink. Rules read from it and report through it; they hold no state of
// their own, so a fresh Context makes every run independent.
type Context struct {
	schema   *schema.Schema
	document *language.QueryDocument
	errors   ErrorList
}

func newContext(s *schema.Schema, doc *language.QueryDocument) *Context {
	return &Context{schema: s, document: doc}
}

func (c *Context) Schema() *schema.Schema { return c.schema }

func (c *Context) Document() *language.QueryDocument { return c.document }

// ReportError records one finding. It never interrupts traversal; all
// findings for a document accumulate into a single report.
func (c *Context) ReportError(message string, pos *language.Position) {
	c.errors = append(c.errors, errorAt(message, pos))
}
