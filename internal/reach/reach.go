package reach

import (
	"strings"
	"sync"

	"typemeta/internal/typesys"
)

// DefaultExcludedPrefixes name toolchain and system modules whose references
// are never followed.
var DefaultExcludedPrefixes = []string{
	"builtin",
	"runtime",
	"internal/",
	"vendor/",
	"golang.org/x/",
}

// Option configures IsOurReference.
type Option func(*options)

type options struct {
	excluded []string
}

// WithExcludedPrefixes replaces the default excluded module-name prefixes.
func WithExcludedPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.excluded = append([]string(nil), prefixes...)
	}
}

// IsOurReference returns a predicate telling whether a module belongs to the
// query boundary defined by roots: roots themselves, and every module with a
// non-excluded reference to a module that belongs, transitively.
//
// The classification is computed once, on first use, by walking the reverse
// reference graph from the roots, so it is exact on cyclic graphs. The
// predicate is safe for concurrent use.
func IsOurReference(all, roots []*typesys.Module, opts ...Option) func(*typesys.Module) bool {
	o := options{excluded: DefaultExcludedPrefixes}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		once sync.Once
		ours map[string]bool
	)

	classify := func() {
		ours = make(map[string]bool, len(all))

		// referrers[name] lists the modules with a followable reference to name.
		referrers := make(map[string][]string)

		for _, m := range all {
			for _, ref := range m.References() {
				if !o.isExcluded(ref) {
					referrers[ref] = append(referrers[ref], m.Name())
				}
			}
		}

		queue := make([]string, 0, len(roots))
		for _, r := range roots {
			if !ours[r.Name()] {
				ours[r.Name()] = true
				queue = append(queue, r.Name())
			}
		}

		for len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]

			for _, referrer := range referrers[name] {
				if !ours[referrer] {
					ours[referrer] = true
					queue = append(queue, referrer)
				}
			}
		}
	}

	return func(m *typesys.Module) bool {
		if m == nil {
			return false
		}

		once.Do(classify)

		if ours[m.Name()] {
			return true
		}

		// A module outside the scanned set still belongs when it refers to one that does.
		for _, ref := range m.References() {
			if !o.isExcluded(ref) && ours[ref] {
				return true
			}
		}

		return false
	}
}

func (o options) isExcluded(name string) bool {
	for _, p := range o.excluded {
		if strings.HasPrefix(name, p) {
			return true
		}
	}

	return false
}

// Below returns m followed by every module it transitively references, in
// depth-first preorder. References to modules missing from all are skipped.
func Below(all []*typesys.Module, m *typesys.Module) []*typesys.Module {
	if m == nil {
		return nil
	}

	byName := index(all)
	visited := make(map[string]bool)

	var out []*typesys.Module

	var visit func(*typesys.Module)
	visit = func(cur *typesys.Module) {
		if visited[cur.Name()] {
			return
		}

		visited[cur.Name()] = true
		out = append(out, cur)

		for _, ref := range cur.References() {
			if next, ok := byName[ref]; ok {
				visit(next)
			}
		}
	}

	visit(m)

	return out
}

func index(all []*typesys.Module) map[string]*typesys.Module {
	byName := make(map[string]*typesys.Module, len(all))
	for _, m := range all {
		byName[m.Name()] = m
	}

	return byName
}
