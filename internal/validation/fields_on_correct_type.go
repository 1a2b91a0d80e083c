package validation

import (
	"sort"

	language "github.com/hanpama/graphlint/internal/language"
	schema "github.com/hanpama/graphlint/internal/schema"
	suggestion "github.com/hanpama/graphlint/internal/suggestion"
)

// fieldsOnCorrectType reports every field selected on a type that does not
// define it. When the parent is abstract the error suggests member types to
// condition on; otherwise it suggests similarly spelled field names. Exactly
// one error is emitted per bad selection.
type fieldsOnCorrectType struct{}

func (fieldsOnCorrectType) CheckField(ctx *Context, parent *schema.Type, def *schema.Field, field *language.Field) {
	if parent == nil {
		// The parent type could not be resolved statically; a prior error
		// already covers this position.
		return
	}
	if def != nil {
		return
	}

	typeSuggestions := suggestedTypeNames(ctx.Schema(), parent, field.Name)

	// Type suggestions take hard precedence: field names are only considered
	// when no type can be suggested.
	var fieldSuggestions []string
	if len(typeSuggestions) == 0 {
		fieldSuggestions = suggestedFieldNames(parent, field.Name)
	}

	ctx.ReportError(
		undefinedFieldMessage(field.Name, parent.Name, typeSuggestions, fieldSuggestions),
		field.Position,
	)
}

// suggestedTypeNames walks the possible types of an abstract parent and
// collects those that define the missing field, plus the interfaces through
// which they define it. Interfaces come first, ordered by how many defining
// members implement them; ties keep first-seen order. Object types follow in
// the schema's enumeration order.
func suggestedTypeNames(s *schema.Schema, parent *schema.Type, fieldName string) []string {
	if !parent.IsAbstract() {
		return nil
	}

	var (
		objectNames         []string
		interfaceNames      []string
		interfaceUsageCount = map[string]int{}
	)

	for _, possibleType := range s.PossibleTypes(parent) {
		if possibleType.Field(fieldName) == nil {
			continue
		}
		objectNames = append(objectNames, possibleType.Name)

		for _, interfaceName := range possibleType.Interfaces {
			iface := s.Types[interfaceName]
			if iface == nil || iface.Field(fieldName) == nil {
				continue
			}
			if interfaceUsageCount[interfaceName] == 0 {
				interfaceNames = append(interfaceNames, interfaceName)
			}
			interfaceUsageCount[interfaceName]++
		}
	}

	sort.SliceStable(interfaceNames, func(i, j int) bool {
		return interfaceUsageCount[interfaceNames[i]] > interfaceUsageCount[interfaceNames[j]]
	})

	return append(interfaceNames, objectNames...)
}

// suggestedFieldNames ranks the fields declared directly on the parent by
// closeness to the missing name. Union types own no fields, so they never
// produce suggestions.
func suggestedFieldNames(parent *schema.Type, fieldName string) []string {
	if parent.Kind != schema.TypeKindObject && parent.Kind != schema.TypeKindInterface {
		return nil
	}
	candidates := make([]string, 0, len(parent.Fields))
	for _, f := range parent.Fields {
		candidates = append(candidates, f.Name)
	}
	return suggestion.List(fieldName, candidates)
}
