package validation

import (
	language "github.com/hanpama/graphlint/internal/language"
	schema "github.com/hanpama/graphlint/internal/schema"
)

// FieldRule is invoked once per field selection with the statically resolved
// parent type and field definition. Either may be nil: a nil parent means an
// earlier structural error already invalidated this position, a nil def means
// the field could not be resolved on the parent.
type FieldRule interface {
	CheckField(ctx *Context, parent *schema.Type, def *schema.Field, field *language.Field)
}

// Validate runs all field rules over the document and returns the collected
// findings, nil when the document is clean. The schema is only read, so a
// single schema may back any number of concurrent Validate calls.
func Validate(s *schema.Schema, doc *language.QueryDocument) ErrorList {
	ctx := newContext(s, doc)
	w := &walker{ctx: ctx, fieldRules: []FieldRule{fieldsOnCorrectType{}}}
	w.walkDocument(doc)
	return ctx.errors
}

type walker struct {
	ctx        *Context
	fieldRules []FieldRule
}

// walkDocument visits each operation against its root type and each fragment
// definition against its type condition. Fragment bodies are checked once
// here; spread sites do not re-walk them, so one defect in a fragment yields
// one finding no matter how often it is spread.
func (w *walker) walkDocument(doc *language.QueryDocument) {
	for _, op := range doc.Operations {
		w.walkSelectionSet(w.rootType(op.Operation), op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		w.walkSelectionSet(w.ctx.schema.Types[frag.TypeCondition], frag.SelectionSet)
	}
}

func (w *walker) rootType(op language.Operation) *schema.Type {
	switch op {
	case language.Mutation:
		return w.ctx.schema.GetMutationType()
	case language.Subscription:
		return w.ctx.schema.GetSubscriptionType()
	default:
		return w.ctx.schema.GetQueryType()
	}
}

func (w *walker) walkSelectionSet(parent *schema.Type, set language.SelectionSet) {
	for _, selection := range set {
		switch sel := selection.(type) {
		case *language.Field:
			def := w.resolveField(parent, sel.Name)
			for _, rule := range w.fieldRules {
				rule.CheckField(w.ctx, parent, def, sel)
			}
			if len(sel.SelectionSet) > 0 {
				var child *schema.Type
				if def != nil {
					child = w.ctx.schema.Types[def.Type.GetNamedType()]
				}
				w.walkSelectionSet(child, sel.SelectionSet)
			}

		case *language.InlineFragment:
			next := parent
			if sel.TypeCondition != "" {
				next = w.ctx.schema.Types[sel.TypeCondition]
			}
			w.walkSelectionSet(next, sel.SelectionSet)

		case *language.FragmentSpread:
			// Fragment bodies are walked once at document level.
		}
	}
}

// resolveField looks the field up on the parent's own field list, with the
// introspection meta fields special-cased: __typename resolves on any
// composite type, __schema and __type only at the query root.
func (w *walker) resolveField(parent *schema.Type, name string) *schema.Field {
	if parent == nil {
		return nil
	}
	switch name {
	case "__typename":
		if parent.IsComposite() {
			return typenameMetaField
		}
	case "__schema":
		if parent == w.ctx.schema.GetQueryType() {
			return schemaMetaField
		}
	case "__type":
		if parent == w.ctx.schema.GetQueryType() {
			return typeMetaField
		}
	}
	return parent.Field(name)
}

var (
	typenameMetaField = &schema.Field{
		Name: "__typename",
		Type: schema.NonNullType(schema.NamedType("String")),
	}
	schemaMetaField = &schema.Field{
		Name: "__schema",
		Type: schema.NonNullType(schema.NamedType("__Schema")),
	}
	typeMetaField = &schema.Field{
		Name: "__type",
		Type: schema.NamedType("__Type"),
	}
)
