package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	language "github.com/hanpama/graphlint/internal/language"
	schema "github.com/hanpama/graphlint/internal/schema"
)

const petSDL = `
interface Pet { name: String }
type Dog implements Pet { name: String bark: String }
type Cat implements Pet { name: String meow: String }
union CatOrDog = Cat | Dog
type Query { pet: Pet dog: Dog cat: Cat catOrDog: CatOrDog }
`

func mustBuildSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL(schema.SDLSource{Name: "test.graphql", Content: sdl})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return sch
}

func mustParseQuery(t *testing.T, query string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	return doc
}

func validateMessages(t *testing.T, sdl, query string) []string {
	t.Helper()
	sch := mustBuildSchema(t, sdl)
	doc := mustParseQuery(t, query)
	var got []string
	for _, e := range Validate(sch, doc) {
		got = append(got, e.Message)
	}
	return got
}

func TestValidSelectionsReportNothing(t *testing.T) {
	queries := []string{
		`{ pet { name __typename } }`,
		`{ dog { name bark } }`,
		`{ catOrDog { __typename } }`,
		`{ pet { ... on Dog { bark } ... on Cat { meow } } }`,
		`{ __typename __schema { __typename } __type(name: "Dog") { __typename } }`,
		`query Named { dog { ...dogFields } } fragment dogFields on Dog { name bark }`,
	}
	for _, q := range queries {
		if got := validateMessages(t, petSDL, q); got != nil {
			t.Errorf("query %s: unexpected errors %v", q, got)
		}
	}
}

func TestUndefinedFieldOnAbstractTypeSuggestsMember(t *testing.T) {
	got := validateMessages(t, petSDL, `{ pet { bark } }`)
	want := []string{`Cannot query field "bark" on type "Pet". Did you mean to use an inline fragment on "Dog"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestUndefinedFieldTypoSuggestsFieldName(t *testing.T) {
	got := validateMessages(t, petSDL, `{ dog { nam } }`)
	want := []string{`Cannot query field "nam" on type "Dog". Did you mean "name"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestUndefinedFieldWithoutSuggestionsHasNoSuffix(t *testing.T) {
	got := validateMessages(t, petSDL, `{ dog { xyzzy } }`)
	want := []string{`Cannot query field "xyzzy" on type "Dog".`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	// No union member defines the field either.
	got = validateMessages(t, petSDL, `{ catOrDog { xyzzy } }`)
	want = []string{`Cannot query field "xyzzy" on type "CatOrDog".`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInterfaceSuggestedWhenAllMembersDefineField(t *testing.T) {
	sdl := `
interface Animal { name: String sound: String }
type Ox implements Animal { name: String sound: String }
type Hen implements Animal { name: String sound: String }
union Livestock = Ox | Hen
type Query { livestock: Livestock }
`
	got := validateMessages(t, sdl, `{ livestock { sound } }`)
	want := []string{`Cannot query field "sound" on type "Livestock". Did you mean to use an inline fragment on "Animal", "Ox", or "Hen"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInterfaceOrderingByUsageCount(t *testing.T) {
	// Rare is implemented by one defining member, Common by two; Common must
	// come first despite Rare being seen first.
	sdl := `
interface Rare { f: String }
interface Common { f: String }
type T1 implements Rare & Common { f: String }
type T2 implements Common { f: String }
union TU = T1 | T2
type Query { tu: TU }
`
	sch := mustBuildSchema(t, sdl)
	got := suggestedTypeNames(sch, sch.Types["TU"], "f")
	want := []string{"Common", "Rare", "T1", "T2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggested types mismatch (-want +got):\n%s", diff)
	}
}

func TestInterfaceTieKeepsFirstSeenOrder(t *testing.T) {
	// Equal usage counts must preserve first-increment order, which here is
	// reverse-alphabetical by construction.
	sdl := `
interface Zeta { x: String }
interface Alpha { x: String }
type M implements Zeta & Alpha { x: String }
union MU = M
type Query { mu: MU }
`
	sch := mustBuildSchema(t, sdl)
	got := suggestedTypeNames(sch, sch.Types["MU"], "x")
	want := []string{"Zeta", "Alpha", "M"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggested types mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleDefiningMemberYieldsNoInterfaceSuggestion(t *testing.T) {
	// Pet itself lacks bark, so only the object type is suggested even though
	// the hit implements Pet.
	sch := mustBuildSchema(t, petSDL)
	got := suggestedTypeNames(sch, sch.Types["Pet"], "bark")
	want := []string{"Dog"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggested types mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeSuggestionsTakePrecedenceOverFieldSuggestions(t *testing.T) {
	// "nam" both exists on a concrete member (type suggestion) and is one
	// edit away from Pet's own "name" (field suggestion). Only the type
	// suggestion may be rendered.
	sdl := `
interface Pet { name: String }
type Weird implements Pet { name: String nam: String }
type Query { pet: Pet }
`
	sch := mustBuildSchema(t, sdl)
	if got := suggestedFieldNames(sch.Types["Pet"], "nam"); len(got) == 0 {
		t.Fatalf("precondition failed: expected a non-empty field suggestion list")
	}

	got := validateMessages(t, sdl, `{ pet { nam } }`)
	want := []string{`Cannot query field "nam" on type "Pet". Did you mean to use an inline fragment on "Weird"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldSuggestionTiesKeepDeclarationOrder(t *testing.T) {
	sdl := `
type Query { box: Box }
type Box { size: String site: String }
`
	got := validateMessages(t, sdl, `{ box { sixe } }`)
	want := []string{`Cannot query field "sixe" on type "Box". Did you mean "size" or "site"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	sch := mustBuildSchema(t, petSDL)
	doc := mustParseQuery(t, `{ pet { bark nam } dog { nam } }`)

	first := Validate(sch, doc)
	second := Validate(sch, doc)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated validation differs (-first +second):\n%s", diff)
	}
}

func TestErrorCarriesSelectionPosition(t *testing.T) {
	sch := mustBuildSchema(t, petSDL)
	doc := mustParseQuery(t, "{\n  dog {\n    nam\n  }\n}")

	errs := Validate(sch, doc)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Line != 3 {
		t.Errorf("expected error on line 3, got line %d", errs[0].Line)
	}
	if errs[0].Column == 0 {
		t.Errorf("expected a non-zero column")
	}
}
