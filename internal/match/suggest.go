package match

import "sort"

// DefaultSuggestThreshold is the minimum normalized similarity for a name
// to be offered as a suggestion.
const DefaultSuggestThreshold = 0.6

// Suggest returns up to limit names from known that resemble name, best
// match first. Ties keep the order of known.
func Suggest(name string, known []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var hits []scored

	for _, k := range known {
		if k == name {
			continue
		}

		if s := NormalizedSimilarity(name, k); s >= DefaultSuggestThreshold {
			hits = append(hits, scored{name: k, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}

	return out
}
