package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFragmentBodyCheckedOnce(t *testing.T) {
	// The fragment is spread twice but its body is walked once, so the
	// misspelling inside it is reported exactly once.
	query := `
{ dog { ...broken } cat { ...broken } }
fragment broken on Dog { nam }
`
	got := validateMessages(t, petSDL, query)
	want := []string{`Cannot query field "nam" on type "Dog". Did you mean "name"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestUnusedFragmentStillChecked(t *testing.T) {
	query := `
{ dog { name } }
fragment unused on Cat { purr }
`
	got := validateMessages(t, petSDL, query)
	want := []string{`Cannot query field "purr" on type "Cat".`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFragmentOnUnknownTypeIsSuppressed(t *testing.T) {
	// The unresolvable type condition is another rule's problem; nothing in
	// the fragment body may cascade into field errors.
	query := `
{ dog { name } }
fragment ghost on Phantom { anything { nested } }
`
	if got := validateMessages(t, petSDL, query); got != nil {
		t.Errorf("unexpected errors %v", got)
	}
}

func TestUndefinedFieldSuppressesNestedErrors(t *testing.T) {
	got := validateMessages(t, petSDL, `{ dog { xyzzy { alsoBad } } }`)
	want := []string{`Cannot query field "xyzzy" on type "Dog".`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineFragmentSwitchesParentType(t *testing.T) {
	got := validateMessages(t, petSDL, `{ pet { ... on Dog { meow } ... { name } } }`)
	want := []string{`Cannot query field "meow" on type "Dog". Did you mean "name"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineFragmentOnUnknownTypeIsSuppressed(t *testing.T) {
	if got := validateMessages(t, petSDL, `{ pet { ... on Phantom { anything } } }`); got != nil {
		t.Errorf("unexpected errors %v", got)
	}
}

func TestMissingOperationRootIsSuppressed(t *testing.T) {
	// The schema declares no mutation root; resolving it fails upstream of
	// this rule, so the selection produces nothing here.
	if got := validateMessages(t, petSDL, `mutation { doIt { result } }`); got != nil {
		t.Errorf("unexpected errors %v", got)
	}
}

func TestMutationRootIsWalked(t *testing.T) {
	sdl := petSDL + `
type Mutation { adopt: Dog }
`
	got := validateMessages(t, sdl, `mutation { adopt { nam } }`)
	want := []string{`Cannot query field "nam" on type "Dog". Did you mean "name"?`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaFieldsOutsideQueryRoot(t *testing.T) {
	got := validateMessages(t, petSDL, `{ dog { __schema } }`)
	want := []string{`Cannot query field "__schema" on type "Dog".`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMultipleErrorsAccumulateInDocumentOrder(t *testing.T) {
	got := validateMessages(t, petSDL, `{ pet { bark } dog { nam } cat { purr } }`)
	want := []string{
		`Cannot query field "bark" on type "Pet". Did you mean to use an inline fragment on "Dog"?`,
		`Cannot query field "nam" on type "Dog". Did you mean "name"?`,
		`Cannot query field "purr" on type "Cat".`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}
