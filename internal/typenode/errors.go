package typenode

import (
	"fmt"
	"strings"

	"typemeta/internal/match"
	"typemeta/internal/typesys"
)

const maxSuggestions = 3

// untrusted builds the error for a name outside the trusted modules, with
// near names of the same kind as suggestions.
func untrusted(subject, what, name string, known []string) error {
	err := fmt.Errorf("%w: %s: unknown %s %s", typesys.ErrUntrustedType, subject, what, name)

	if hints := match.Suggest(name, known, maxSuggestions); len(hints) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
	}

	return err
}
