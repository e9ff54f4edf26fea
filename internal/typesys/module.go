package typesys

import (
	"fmt"
	"strings"
	"sync"
)

// Module is a named unit of registered types with references to other modules.
type Module struct {
	u       *Universe
	name    string
	refs    []string
	dynamic bool

	mu      sync.RWMutex
	types   []*Type
	byName  map[string]*Type
	loadErr error
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// References returns the names of the modules m refers to.
func (m *Module) References() []string { return append([]string(nil), m.refs...) }

// IsDynamic reports whether the module was generated at runtime.
// Dynamic modules are not scanned for ordering attributes.
func (m *Module) IsDynamic() bool { return m.dynamic }

// MarkDynamic flags the module as generated at runtime.
func (m *Module) MarkDynamic() { m.dynamic = true }

// MarkBroken records that the types of the module could not be loaded.
// Types and Lookup fail afterwards.
func (m *Module) MarkBroken(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr == nil {
		m.loadErr = err
	}
}

// Broken returns the error recorded by MarkBroken, if any.
func (m *Module) Broken() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.loadErr
}

// Types returns the types declared by the module in declaration order.
// Generic parameters, constructed types and arrays are not module members.
func (m *Module) Types() ([]*Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, fmt.Errorf("%w: module %s: %w", ErrLoadFailure, m.name, m.loadErr)
	}

	return append([]*Type(nil), m.types...), nil
}

// Lookup returns the declared type with the given simple name.
func (m *Module) Lookup(name string) (*Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, false
	}

	t, ok := m.byName[name]

	return t, ok
}

// TypeNames returns the simple names of the declared types.
func (m *Module) TypeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.types))
	for _, t := range m.types {
		names = append(names, t.name)
	}

	return names
}

// Declare registers a new class, struct or interface. decl is the simple name,
// optionally followed by generic parameter names: "List[T]", "Dictionary[K,V]".
// The returned Def completes the declaration.
func (m *Module) Declare(decl string, kind Kind) (*Def, error) {
	switch kind {
	case KindClass, KindStruct, KindInterface:
	default:
		return nil, fmt.Errorf("%w: cannot declare %s %q", ErrTypeMismatch, kind, decl)
	}

	name, params, err := parseDecl(decl)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[name]; exists {
		return nil, fmt.Errorf("type %s.%s already declared", m.name, name)
	}

	t := m.u.newType(m, name, kind)
	for i, p := range params {
		param := m.u.newType(m, p, KindParam)
		param.owner = t
		param.position = i
		t.params = append(t.params, param)
	}

	m.types = append(m.types, t)
	m.byName[name] = t

	return &Def{t: t}, nil
}

// Define declares a type and completes it with build.
func (m *Module) Define(decl string, kind Kind, build func(d *Def)) (*Type, error) {
	d, err := m.Declare(decl, kind)
	if err != nil {
		return nil, err
	}

	if build != nil {
		build(d)
	}

	if err := d.Err(); err != nil {
		return nil, err
	}

	return d.Type(), nil
}

// MustDefine is like Define but panics on error. It is meant for static
// registration of well-known types.
func (m *Module) MustDefine(decl string, kind Kind, build func(d *Def)) *Type {
	t, err := m.Define(decl, kind, build)
	if err != nil {
		panic(err)
	}

	return t
}

func parseDecl(decl string) (string, []string, error) {
	decl = strings.TrimSpace(decl)

	name, rest, generic := strings.Cut(decl, "[")
	if err := validateName(name); err != nil {
		return "", nil, err
	}

	if !generic {
		return name, nil, nil
	}

	if !strings.HasSuffix(rest, "]") {
		return "", nil, fmt.Errorf("invalid declaration %q: missing ']'", decl)
	}

	var params []string

	seen := make(map[string]bool)

	for _, p := range strings.Split(strings.TrimSuffix(rest, "]"), ",") {
		p = strings.TrimSpace(p)
		if err := validateName(p); err != nil {
			return "", nil, fmt.Errorf("invalid declaration %q: %w", decl, err)
		}

		if seen[p] {
			return "", nil, fmt.Errorf("invalid declaration %q: duplicate parameter %s", decl, p)
		}

		seen[p] = true
		params = append(params, p)
	}

	return name, params, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty type name")
	}

	if strings.ContainsAny(name, " \t\n.[],:") {
		return fmt.Errorf("invalid type name %q", name)
	}

	return nil
}
