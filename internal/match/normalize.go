package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes a type or module name for fuzzy matching:
// CamelCase is tokenized, separators dropped and the result lowercased, so
// "core.KeyValuePair", "core/key_value_pair" and "corekeyvaluepair" agree.
func NormalizeIdent(s string) string {
	tokens := tokenizeCamelCase(s)

	joined := strings.Join(tokens, "")
	joined = strings.ToLower(joined)
	joined = stripSeparators(joined)

	return joined
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "IComparable" -> ["I", "Comparable"]
//   - "keyValuePair" -> ["key", "Value", "Pair"]
//   - "XMLParser" -> ["XML", "Parser"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Handle separators - start a new token
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i == 0 {
			current.WriteRune(r)

			continue
		}

		if shouldStartNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator reports separators of identifiers, package paths and
// qualified type names.
func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '/', '.':
		return true
	default:
		return false
	}
}

// RefName reduces a type reference to its qualified name. Array markers and
// generic argument lists are dropped: "[]core.List[core.Int]" gives
// "core.List".
func RefName(ref string) string {
	name := strings.TrimSpace(ref)

	for strings.HasPrefix(name, "[]") {
		name = strings.TrimSpace(name[2:])
	}

	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	return strings.TrimSpace(name)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)
	isPrevSep := isSeparator(prevRune)

	// Transition from lowercase to uppercase: start new token
	// e.g., "pluginID" -> split before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// End of acronym: check if next character is lowercase
	// e.g., "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}

// stripSeparators removes common separators from a string.
func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
