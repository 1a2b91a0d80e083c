package schema

import (
	"fmt"

	language "github.com/hanpama/graphlint/internal/language"
)

// SDLSource is one named SDL document to include in the schema.
type SDLSource struct {
	Name    string
	Content string
}

// BuildFromSDL parses the given SDL sources and assembles them into a single
// immutable schema. Extensions are merged into their base definitions and the
// builtin scalars and directives are installed up front.
func BuildFromSDL(sources ...SDLSource) (*Schema, error) {
	docs := make([]*language.SchemaDocument, 0, len(sources))
	for _, src := range sources {
		doc, err := language.ParseSchema(src.Name, src.Content)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return BuildFromDocuments(docs...)
}

// BuildFromDocuments assembles already-parsed SDL documents into a schema.
func BuildFromDocuments(docs ...*language.SchemaDocument) (*Schema, error) {
	b := &builder{
		schema: &Schema{
			Types:      map[string]*Type{},
			Directives: map[string]*Directive{},
		},
	}
	for _, t := range []*Type{stringType, intType, floatType, booleanType, idType} {
		b.schema.Types[t.Name] = t
	}
	for _, d := range []*Directive{includeDirective, skipDirective, deprecatedDirective} {
		b.schema.Directives[d.Name] = d
	}

	for _, doc := range docs {
		b.addSchemaDefinitions(doc.Schema)
		for _, def := range doc.Definitions {
			b.addDefinition(def)
		}
	}
	for _, doc := range docs {
		for _, ext := range doc.Extensions {
			b.mergeExtension(ext)
		}
	}
	b.resolveRootTypes()
	b.derivePossibleTypes()

	if len(b.problems) > 0 {
		return nil, b.problems
	}
	return b.schema, nil
}

type builder struct {
	schema   *Schema
	defs     []*language.Definition // declaration order, drives possible-type order
	problems BuildError
}

func (b *builder) problem(pos *language.Position, format string, args ...any) {
	b.problems = append(b.problems, problemAt(fmt.Sprintf(format, args...), pos))
}

func (b *builder) addSchemaDefinitions(defs []*language.SchemaDefinition) {
	for _, sd := range defs {
		if b.schema.QueryType != "" || b.schema.MutationType != "" || b.schema.SubscriptionType != "" {
			b.problem(sd.Position, "Schema is already defined")
			continue
		}
		b.schema.Description = sd.Description
		for _, ot := range sd.OperationTypes {
			switch ot.Operation {
			case language.Query:
				b.schema.QueryType = ot.Type
			case language.Mutation:
				b.schema.MutationType = ot.Type
			case language.Subscription:
				b.schema.SubscriptionType = ot.Type
			}
		}
	}
}

func (b *builder) addDefinition(def *language.Definition) {
	if _, exists := b.schema.Types[def.Name]; exists {
		b.problem(def.Position, "Definition %q already exists", def.Name)
		return
	}

	t := &Type{Name: def.Name, Description: def.Description}
	switch def.Kind {
	case language.Object:
		t.Kind = TypeKindObject
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		t.Fields = b.buildFields(def)
	case language.Interface:
		t.Kind = TypeKindInterface
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		t.Fields = b.buildFields(def)
	case language.Union:
		t.Kind = TypeKindUnion
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	case language.Enum:
		t.Kind = TypeKindEnum
		t.EnumValues = buildEnumValues(def)
	case language.InputObject:
		t.Kind = TypeKindInputObject
		t.InputFields = buildInputFields(def)
	case language.Scalar:
		t.Kind = TypeKindScalar
	default:
		b.problem(def.Position, "Unsupported definition kind %q for %q", def.Kind, def.Name)
		return
	}

	b.schema.Types[def.Name] = t
	b.defs = append(b.defs, def)
}

func (b *builder) buildFields(def *language.Definition) []*Field {
	fields := make([]*Field, 0, len(def.Fields))
	seen := map[string]bool{}
	for _, fd := range def.Fields {
		if seen[fd.Name] {
			b.problem(fd.Position, "Duplicate field %q found in %s %q", fd.Name, kindWord(def.Kind), def.Name)
			continue
		}
		seen[fd.Name] = true
		fields = append(fields, buildField(fd))
	}
	return fields
}

func buildField(fd *language.FieldDefinition) *Field {
	f := &Field{
		Name:        fd.Name,
		Description: fd.Description,
		Type:        buildTypeRef(fd.Type),
	}
	for _, arg := range fd.Arguments {
		f.Arguments = append(f.Arguments, &InputValue{
			Name:        arg.Name,
			Description: arg.Description,
			Type:        buildTypeRef(arg.Type),
		})
	}
	if d := fd.Directives.ForName("deprecated"); d != nil {
		f.IsDeprecated = true
		if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
			f.DeprecationReason = reason.Value.Raw
		}
	}
	return f
}

func buildEnumValues(def *language.Definition) []*EnumValue {
	values := make([]*EnumValue, 0, len(def.EnumValues))
	for _, ev := range def.EnumValues {
		v := &EnumValue{Name: ev.Name, Description: ev.Description}
		if d := ev.Directives.ForName("deprecated"); d != nil {
			v.IsDeprecated = true
			if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
				v.DeprecationReason = reason.Value.Raw
			}
		}
		values = append(values, v)
	}
	return values
}

func buildInputFields(def *language.Definition) []*InputValue {
	fields := make([]*InputValue, 0, len(def.Fields))
	for _, fd := range def.Fields {
		fields = append(fields, &InputValue{
			Name:        fd.Name,
			Description: fd.Description,
			Type:        buildTypeRef(fd.Type),
		})
	}
	return fields
}

func buildTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.NamedType != "" {
		ref = NamedType(t.NamedType)
	} else {
		ref = ListType(buildTypeRef(t.Elem))
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

func (b *builder) mergeExtension(ext *language.Definition) {
	base := b.schema.Types[ext.Name]
	if base == nil {
		b.problem(ext.Position, "definition %q not found for extension", ext.Name)
		return
	}
	if base.Kind != kindOf(ext.Kind) {
		b.problem(ext.Position, "Unexpected type for extension %s, expected %s", ext.Name, base.Kind)
		return
	}

	switch base.Kind {
	case TypeKindObject, TypeKindInterface:
		base.Interfaces = append(base.Interfaces, ext.Interfaces...)
		seen := map[string]bool{}
		for _, f := range base.Fields {
			seen[f.Name] = true
		}
		for _, fd := range ext.Fields {
			if seen[fd.Name] {
				b.problem(fd.Position, "Duplicate field %q found in %s %q", fd.Name, kindWord(ext.Kind), ext.Name)
				continue
			}
			seen[fd.Name] = true
			base.Fields = append(base.Fields, buildField(fd))
		}
	case TypeKindUnion:
		base.PossibleTypes = append(base.PossibleTypes, ext.Types...)
	case TypeKindEnum:
		base.EnumValues = append(base.EnumValues, buildEnumValues(ext)...)
	case TypeKindInputObject:
		base.InputFields = append(base.InputFields, buildInputFields(ext)...)
	}
}

func (b *builder) resolveRootTypes() {
	s := b.schema
	if s.QueryType == "" && s.Types["Query"] != nil {
		s.QueryType = "Query"
	}
	if s.MutationType == "" && s.Types["Mutation"] != nil {
		s.MutationType = "Mutation"
	}
	if s.SubscriptionType == "" && s.Types["Subscription"] != nil {
		s.SubscriptionType = "Subscription"
	}
	for _, root := range []struct{ kind, name string }{
		{"Query", s.QueryType},
		{"Mutation", s.MutationType},
		{"Subscription", s.SubscriptionType},
	} {
		kind, name := root.kind, root.name
		if name == "" {
			continue
		}
		t := s.Types[name]
		if t == nil {
			b.problem(nil, "%s type %q not found in definitions", kind, name)
		} else if t.Kind != TypeKindObject {
			b.problem(nil, "%s type %q must be an Object type", kind, name)
		}
	}
}

// derivePossibleTypes records, on every interface, the object types that
// implement it. Objects contribute in declaration order, which fixes the
// enumeration order suggestions depend on. Union member lists are checked
// here as well.
func (b *builder) derivePossibleTypes() {
	for _, def := range b.defs {
		t := b.schema.Types[def.Name]
		switch t.Kind {
		case TypeKindObject, TypeKindInterface:
			for _, name := range t.Interfaces {
				iface := b.schema.Types[name]
				if iface == nil {
					b.problem(def.Position, "Type %q implements unknown interface %q", def.Name, name)
					continue
				}
				if iface.Kind != TypeKindInterface {
					b.problem(def.Position, "Type %q implements %q which is not an interface", def.Name, name)
					continue
				}
				if t.Kind == TypeKindObject {
					iface.PossibleTypes = append(iface.PossibleTypes, def.Name)
				}
			}
		case TypeKindUnion:
			for _, name := range t.PossibleTypes {
				member := b.schema.Types[name]
				if member == nil {
					b.problem(def.Position, "Union %q has unknown member type %q", def.Name, name)
					continue
				}
				if member.Kind != TypeKindObject {
					b.problem(def.Position, "Union member %q must be an Object type", name)
				}
			}
		}
	}
}

func kindOf(kind language.DefinitionKind) TypeKind {
	switch kind {
	case language.Object:
		return TypeKindObject
	case language.Interface:
		return TypeKindInterface
	case language.Union:
		return TypeKindUnion
	case language.Enum:
		return TypeKindEnum
	case language.InputObject:
		return TypeKindInputObject
	case language.Scalar:
		return TypeKindScalar
	}
	return ""
}

func kindWord(kind language.DefinitionKind) string {
	switch kind {
	case language.Interface:
		return "interface"
	case language.InputObject:
		return "input"
	default:
		return "type"
	}
}
