package typesys

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Universe is the registry of modules and types. Registration is expected to
// finish before queries start; after that the universe is safe for
// concurrent use, including Instantiate and ArrayOf.
type Universe struct {
	nextID atomic.Uint64

	mu          sync.Mutex
	modules     map[string]*Module
	order       []*Module
	constructed map[string]*Type
	arrays      map[*Type]*Type
}

// NewUniverse creates an empty registry.
func NewUniverse() *Universe {
	return &Universe{
		modules:     make(map[string]*Module),
		constructed: make(map[string]*Type),
		arrays:      make(map[*Type]*Type),
	}
}

// AddModule registers a module with the names of the modules it references.
func (u *Universe) AddModule(name string, refs ...string) (*Module, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t\n[],:") {
		return nil, fmt.Errorf("invalid module name %q", name)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.modules[name]; exists {
		return nil, fmt.Errorf("module %s already registered", name)
	}

	m := &Module{
		u:      u,
		name:   name,
		refs:   append([]string(nil), refs...),
		byName: make(map[string]*Type),
	}
	u.modules[name] = m
	u.order = append(u.order, m)

	return m, nil
}

// MustAddModule is like AddModule but panics on error.
func (u *Universe) MustAddModule(name string, refs ...string) *Module {
	m, err := u.AddModule(name, refs...)
	if err != nil {
		panic(err)
	}

	return m
}

// Module returns the module with the given name.
func (u *Universe) Module(name string) (*Module, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	m, ok := u.modules[name]

	return m, ok
}

// Modules returns all modules in registration order.
func (u *Universe) Modules() []*Module {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]*Module(nil), u.order...)
}

// ModuleNames returns the names of all modules in registration order.
func (u *Universe) ModuleNames() []string {
	mods := u.Modules()

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.name)
	}

	return names
}

// Instantiate closes the generic definition def with args. The result is
// interned: instantiating twice with the same arguments returns the same
// pointer, and instantiating a definition with its own parameters returns
// the definition.
func (u *Universe) Instantiate(def *Type, args ...*Type) (*Type, error) {
	if def == nil || !def.IsGenericDefinition() {
		return nil, fmt.Errorf("%w: %v is not a generic definition", ErrTypeMismatch, def)
	}

	if def.u != u {
		return nil, fmt.Errorf("%w: %s belongs to another universe", ErrUntrustedType, def)
	}

	if len(args) != len(def.params) {
		return nil, fmt.Errorf("%w: %s expects %d type arguments, got %d",
			ErrTypeMismatch, def, len(def.params), len(args))
	}

	own := true

	var key strings.Builder
	key.WriteString(strconv.FormatUint(def.id, 10))

	for i, a := range args {
		switch {
		case a == nil:
			return nil, fmt.Errorf("%w: nil type argument %d for %s", ErrTypeMismatch, i, def)
		case a.u != u:
			return nil, fmt.Errorf("%w: type argument %s belongs to another universe", ErrUntrustedType, a)
		}

		if a != def.params[i] {
			own = false
		}

		key.WriteByte(',')
		key.WriteString(strconv.FormatUint(a.id, 10))
	}

	if own {
		return def, nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if t, ok := u.constructed[key.String()]; ok {
		return t, nil
	}

	t := u.newType(def.module, def.name, def.kind)
	t.def = def
	t.args = append([]*Type(nil), args...)
	u.constructed[key.String()] = t

	return t, nil
}

// MustInstantiate is like Instantiate but panics on error.
func (u *Universe) MustInstantiate(def *Type, args ...*Type) *Type {
	t, err := u.Instantiate(def, args...)
	if err != nil {
		panic(err)
	}

	return t
}

// ArrayOf returns the interned array type with the given element.
func (u *Universe) ArrayOf(elem *Type) (*Type, error) {
	switch {
	case elem == nil:
		return nil, fmt.Errorf("%w: nil array element", ErrTypeMismatch)
	case elem.u != u:
		return nil, fmt.Errorf("%w: array element %s belongs to another universe", ErrUntrustedType, elem)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if t, ok := u.arrays[elem]; ok {
		return t, nil
	}

	t := u.newType(elem.module, "", KindArray)
	t.elem = elem
	u.arrays[elem] = t

	return t, nil
}

// MustArrayOf is like ArrayOf but panics on error.
func (u *Universe) MustArrayOf(elem *Type) *Type {
	t, err := u.ArrayOf(elem)
	if err != nil {
		panic(err)
	}

	return t
}

func (u *Universe) newType(m *Module, name string, kind Kind) *Type {
	return &Type{
		id:     u.nextID.Add(1),
		u:      u,
		module: m,
		name:   name,
		kind:   kind,
	}
}

// substitute replaces the parameters bound in binding throughout t.
func (u *Universe) substitute(t *Type, binding map[*Type]*Type) *Type {
	if t == nil {
		return nil
	}

	switch {
	case t.kind == KindParam:
		if bound, ok := binding[t]; ok {
			return bound
		}

		return t
	case t.kind == KindArray:
		elem := u.substitute(t.elem, binding)
		if elem == t.elem {
			return t
		}

		return u.MustArrayOf(elem)
	case t.def != nil:
		args := make([]*Type, len(t.args))
		changed := false

		for i, a := range t.args {
			args[i] = u.substitute(a, binding)
			changed = changed || args[i] != a
		}

		if !changed {
			return t
		}

		return u.MustInstantiate(t.def, args...)
	case t.IsGenericDefinition():
		// A definition used inside its own declaration stands for itself
		// applied to its parameters.
		args := make([]*Type, len(t.params))
		changed := false

		for i, p := range t.params {
			args[i] = u.substitute(p, binding)
			changed = changed || args[i] != p
		}

		if !changed {
			return t
		}

		return u.MustInstantiate(t, args...)
	default:
		return t
	}
}

// Substitute replaces the generic parameters in t according to binding.
func (u *Universe) Substitute(t *Type, binding map[*Type]*Type) *Type {
	return u.substitute(t, binding)
}
