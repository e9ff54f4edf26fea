package typenode

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"typemeta/internal/typesys"
)

// DefaultCacheSize is the number of resolved texts a Resolver keeps.
const DefaultCacheSize = 256

// Resolver resolves node texts to types, remembering recent results.
// It is safe for concurrent use.
type Resolver struct {
	universe *typesys.Universe
	cache    *lru.Cache[string, *typesys.Type]
}

// NewResolver creates a resolver over u. A size of zero or less uses
// DefaultCacheSize.
func NewResolver(u *typesys.Universe, size int) (*Resolver, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, *typesys.Type](size)
	if err != nil {
		return nil, fmt.Errorf("resolver cache: %w", err)
	}

	return &Resolver{universe: u, cache: cache}, nil
}

// Resolve parses text and resolves it. Failures are not cached.
func (r *Resolver) Resolve(text string) (*typesys.Type, error) {
	if t, ok := r.cache.Get(text); ok {
		return t, nil
	}

	n, err := Parse(text)
	if err != nil {
		return nil, err
	}

	t, err := ToType(r.universe, n)
	if err != nil {
		return nil, err
	}

	r.cache.Add(text, t)

	return t, nil
}

// Len returns the number of cached results.
func (r *Resolver) Len() int { return r.cache.Len() }

// Purge drops every cached result.
func (r *Resolver) Purge() { r.cache.Purge() }
