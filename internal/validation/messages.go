package validation

import (
	"fmt"

	suggestion "github.com/hanpama/graphlint/internal/suggestion"
)

// NOTE: Keep messages stable to avoid breaking snapshot tests.

func undefinedFieldMessage(fieldName, typeName string, suggestedTypes, suggestedFields []string) string {
	message := fmt.Sprintf("Cannot query field %q on type %q.", fieldName, typeName)
	if len(suggestedTypes) > 0 {
		message += " Did you mean to use an inline fragment on " + suggestion.QuotedOrList(suggestedTypes) + "?"
	} else if len(suggestedFields) > 0 {
		message += " Did you mean " + suggestion.QuotedOrList(suggestedFields) + "?"
	}
	return message
}
