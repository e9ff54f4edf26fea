package common

// Cardinality classifies how many results a lookup produced.
type Cardinality int

const (
	None Cardinality = iota
	One
	Many
)

// CardinalityOf classifies the length of s.
func CardinalityOf[S ~[]E, E any](s S) Cardinality {
	switch len(s) {
	case 0:
		return None
	case 1:
		return One
	default:
		return Many
	}
}

// Sole returns the element of a one-element slice. It reports false for
// empty slices and for slices with several elements.
func Sole[S ~[]E, E any](s S) (E, bool) {
	if len(s) != 1 {
		var zero E
		return zero, false
	}

	return s[0], true
}
