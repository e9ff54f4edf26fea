package reach

import (
	"fmt"
	"sort"

	"typemeta/internal/typesys"
)

// SortModules returns the modules ordered so that every module comes after
// the modules it references. References outside mods are ignored.
//
// The result is deterministic: when several modules are available, the one
// listed first in mods wins. If a cycle exists, an error wrapping
// typesys.ErrCycleDependency names the modules left unsorted.
func SortModules(mods []*typesys.Module) ([]*typesys.Module, error) {
	pos := make(map[string]int, len(mods))
	for i, m := range mods {
		pos[m.Name()] = i
	}

	order, err := topoSort(len(mods), func(i int) []int {
		var deps []int

		for _, ref := range mods[i].References() {
			if j, ok := pos[ref]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		var stuck []string

		placed := make(map[int]bool, len(order))
		for _, i := range order {
			placed[i] = true
		}

		for i, m := range mods {
			if !placed[i] {
				stuck = append(stuck, m.Name())
			}
		}

		return nil, fmt.Errorf("sort modules %v: %w", stuck, err)
	}

	out := make([]*typesys.Module, len(order))
	for k, i := range order {
		out[k] = mods[i]
	}

	return out, nil
}

// topoSort returns indices in dependency order, together with the partial
// order reached when a cycle stops it.
//
// Nodes are by index. depsFn(i) yields indices that must come before i.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		seen := make(map[int]bool)

		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			if seen[d] {
				continue
			}

			seen[d] = true
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return order, typesys.ErrCycleDependency
	}

	return order, nil
}
