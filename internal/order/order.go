package order

import (
	"cmp"
	"fmt"
	"slices"

	"typemeta/internal/typeinfo"
	"typemeta/internal/typesys"
)

// ByDependencies returns items sorted by dependency depth. key identifies an
// item and deps returns the keys it must be ordered after. Keys returned by
// deps do not need to belong to items.
func ByDependencies[T any, K comparable](items []T, key func(T) K, deps func(K) []K) ([]T, error) {
	return byDependencies(items, key, func(k K) ([]K, error) { return deps(k), nil })
}

// ByTypeDependencies sorts items by the ordering attributes of their types,
// as reported by TypeInfo.Dependencies.
func ByTypeDependencies[T any](s *typeinfo.Storage, items []T, key func(T) *typesys.Type) ([]T, error) {
	return byDependencies(items, key, s.Dependencies)
}

// Types sorts types by their ordering attributes.
func Types(s *typeinfo.Storage, types []*typesys.Type) ([]*typesys.Type, error) {
	return ByTypeDependencies(s, types, func(t *typesys.Type) *typesys.Type { return t })
}

func byDependencies[T any, K comparable](items []T, key func(T) K, deps func(K) ([]K, error)) ([]T, error) {
	g := &graph[K]{deps: deps, edges: make(map[K][]K)}

	type ranked struct {
		item  T
		depth int
	}

	out := make([]ranked, 0, len(items))

	for _, item := range items {
		depth, err := g.depth(key(item))
		if err != nil {
			return nil, err
		}

		out = append(out, ranked{item: item, depth: depth})
	}

	slices.SortStableFunc(out, func(a, b ranked) int { return cmp.Compare(a.depth, b.depth) })

	sorted := make([]T, len(out))
	for i, r := range out {
		sorted[i] = r.item
	}

	return sorted, nil
}

type graph[K comparable] struct {
	deps  func(K) ([]K, error)
	edges map[K][]K
}

func (g *graph[K]) next(k K) ([]K, error) {
	if e, ok := g.edges[k]; ok {
		return e, nil
	}

	e, err := g.deps(k)
	if err != nil {
		return nil, fmt.Errorf("dependencies of %v: %w", k, err)
	}

	g.edges[k] = e

	return e, nil
}

// depth counts expansion rounds of k's dependency set. Without a cycle a
// round can only reach keys not seen before, so more rounds than reached
// keys means a cycle elsewhere in the graph.
func (g *graph[K]) depth(k K) (int, error) {
	frontier, err := g.expand([]K{k})
	if err != nil {
		return 0, err
	}

	reached := make(map[K]bool)
	depth := 0

	for len(frontier) > 0 {
		depth++

		for _, f := range frontier {
			if f == k {
				return 0, fmt.Errorf("%w: %v depends on itself", typesys.ErrCycleDependency, k)
			}

			reached[f] = true
		}

		if depth > len(reached) {
			return 0, fmt.Errorf("%w: %v depends on cycle through %v",
				typesys.ErrCycleDependency, k, g.cycleMember(k))
		}

		if frontier, err = g.expand(frontier); err != nil {
			return 0, err
		}
	}

	return depth, nil
}

func (g *graph[K]) expand(keys []K) ([]K, error) {
	var out []K

	seen := make(map[K]bool)

	for _, k := range keys {
		next, err := g.next(k)
		if err != nil {
			return nil, err
		}

		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}

	return out, nil
}

// cycleMember returns a key on a cycle reachable from start.
func (g *graph[K]) cycleMember(start K) K {
	const (
		visiting = 1
		done     = 2
	)

	state := make(map[K]int)

	var (
		found K
		visit func(K) bool
	)

	visit = func(k K) bool {
		state[k] = visiting

		next, _ := g.next(k)

		for _, n := range next {
			switch state[n] {
			case visiting:
				found = n
				return true
			case 0:
				if visit(n) {
					return true
				}
			}
		}

		state[k] = done

		return false
	}

	visit(start)

	return found
}
