package typeinfo

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"typemeta/internal/diagnostic"
	"typemeta/internal/reach"
	"typemeta/internal/typesys"
)

// Storage is the memoized metadata index of one universe. It is safe for
// concurrent use: the first Get of a type computes its TypeInfo exactly once
// and every caller observes the same pointer.
type Storage struct {
	universe *typesys.Universe
	logger   *log.Logger

	infos sync.Map // key -> *TypeInfo
	group singleflight.Group

	scan atomic.Pointer[scan]
}

// scan is the result of walking every module for OrderBefore attributes.
type scan struct {
	once   sync.Once
	before map[*typesys.Type][]*typesys.Type
	diags  diagnostic.Diagnostics
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used to report skipped modules.
func WithLogger(l *log.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a storage over u.
func New(u *typesys.Universe, opts ...Option) *Storage {
	s := &Storage{
		universe: u,
		logger:   log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.scan.Store(&scan{})

	return s
}

// Universe returns the registry the storage indexes.
func (s *Storage) Universe() *typesys.Universe { return s.universe }

// Init builds the global ordering map now instead of on first use and
// returns the scan diagnostics.
func (s *Storage) Init() diagnostic.Diagnostics {
	return s.Diagnostics()
}

// Diagnostics returns the report of the module scan, running it if needed.
func (s *Storage) Diagnostics() diagnostic.Diagnostics {
	var out diagnostic.Diagnostics
	out.Merge(s.beforeScan().diags)

	return out
}

// Reset drops every cached TypeInfo and the ordering map. It is meant for
// teardown between test runs or after the universe was extended; callers
// must not run queries concurrently with Reset.
func (s *Storage) Reset() {
	s.infos.Clear()
	s.scan.Store(&scan{})
}

// Key returns the cache key of t: its full name, or for types that still
// contain generic parameters, its display form with owner-qualified
// parameters. Generic parameters themselves have no key.
func Key(t *typesys.Type) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil type", typesys.ErrTypeMismatch)
	}

	if t.IsGenericParameter() {
		return "", fmt.Errorf("%w: %s of %s", typesys.ErrGenericParameter, t, t.Owner())
	}

	if name, ok := t.FullName(); ok {
		return name, nil
	}

	return t.OwnerQualifiedString(), nil
}

// Get returns the metadata of t, computing it on first use.
func (s *Storage) Get(t *typesys.Type) (*TypeInfo, error) {
	key, err := Key(t)
	if err != nil {
		return nil, err
	}

	if t.Universe() != s.universe {
		return nil, fmt.Errorf("%w: %s belongs to another universe", typesys.ErrUntrustedType, t)
	}

	if cached, ok := s.infos.Load(key); ok {
		return cached.(*TypeInfo), nil
	}

	// A key is computed by one caller; the others wait for its result.
	v, _, _ := s.group.Do(key, func() (any, error) {
		if cached, ok := s.infos.Load(key); ok {
			return cached, nil
		}

		actual, _ := s.infos.LoadOrStore(key, s.compute(key, t))

		return actual, nil
	})

	return v.(*TypeInfo), nil
}

// MustGet is like Get but panics on error.
func (s *Storage) MustGet(t *typesys.Type) *TypeInfo {
	info, err := s.Get(t)
	if err != nil {
		panic(err)
	}

	return info
}

// Dependencies returns the types t must be ordered after.
func (s *Storage) Dependencies(t *typesys.Type) ([]*typesys.Type, error) {
	info, err := s.Get(t)
	if err != nil {
		return nil, err
	}

	return info.Dependencies, nil
}

func (s *Storage) beforeScan() *scan {
	sc := s.scan.Load()
	sc.once.Do(func() { s.runScan(sc) })

	return sc
}

func (s *Storage) runScan(sc *scan) {
	sc.before = make(map[*typesys.Type][]*typesys.Type)

	mods := s.universe.Modules()

	sorted, err := reach.SortModules(mods)
	if err != nil {
		sc.diags.AddInfo(diagnostic.CodeModuleCycle, err.Error(), "", "")

		sorted = mods
	}

	for _, m := range sorted {
		if m.IsDynamic() {
			continue
		}

		types, err := m.Types()
		if err != nil {
			s.logger.Printf("typeinfo: skipping module %s: %v", m.Name(), err)
			sc.diags.AddWarning(diagnostic.CodeModuleBroken, err.Error(), m.Name(), "")

			continue
		}

		for _, t := range types {
			for _, attr := range typesys.AttributesOf[typesys.OrderBefore](t) {
				for _, target := range attr.Types {
					sc.before[target] = append(sc.before[target], t)
				}
			}
		}
	}
}
