package typesys

import "fmt"

// Def completes the declaration of a type. Setters record the first error
// and ignore later calls, so a declaration can be written as one chain and
// checked once with Err.
type Def struct {
	t   *Type
	err error
}

// Type returns the type being declared.
func (d *Def) Type() *Type { return d.t }

// Param returns the i-th generic parameter of the declaration.
func (d *Def) Param(i int) *Type {
	if i < 0 || i >= len(d.t.params) {
		d.fail(fmt.Errorf("%s has no generic parameter %d", d.t, i))
		return nil
	}

	return d.t.params[i]
}

// Base sets the base class.
func (d *Def) Base(base *Type) *Def {
	if d.err != nil {
		return d
	}

	switch {
	case base == nil:
		d.fail(fmt.Errorf("%w: nil base for %s", ErrTypeMismatch, d.t))
	case d.t.kind != KindClass:
		d.fail(fmt.Errorf("%w: %s %s cannot have a base type", ErrTypeMismatch, d.t.kind, d.t))
	case base.kind != KindClass:
		d.fail(fmt.Errorf("%w: base of %s must be a class, got %s %s", ErrTypeMismatch, d.t, base.kind, base))
	case base.u != d.t.u:
		d.fail(fmt.Errorf("%w: base %s belongs to another universe", ErrUntrustedType, base))
	case reaches(base, d.t):
		d.fail(fmt.Errorf("%w: %s cannot derive from %s, which derives from it", ErrCycleDependency, d.t, base))
	default:
		d.t.base = base
	}

	return d
}

// Implements appends interfaces to the ones the type lists.
func (d *Def) Implements(ifaces ...*Type) *Def {
	for _, i := range ifaces {
		if d.err != nil {
			return d
		}

		switch {
		case i == nil:
			d.fail(fmt.Errorf("%w: nil interface for %s", ErrTypeMismatch, d.t))
		case i.kind != KindInterface:
			d.fail(fmt.Errorf("%w: %s is not an interface", ErrTypeMismatch, i))
		case i.u != d.t.u:
			d.fail(fmt.Errorf("%w: interface %s belongs to another universe", ErrUntrustedType, i))
		case reaches(i, d.t):
			d.fail(fmt.Errorf("%w: %s cannot implement %s, which leads back to it", ErrCycleDependency, d.t, i))
		default:
			d.t.own = append(d.t.own, i)
		}
	}

	return d
}

// Attach adds attributes to the type.
func (d *Def) Attach(attrs ...Attribute) *Def {
	if d.err == nil {
		d.t.attrs = append(d.t.attrs, attrs...)
	}

	return d
}

// Constrain sets the flags and constraint types of the i-th generic parameter.
// Constraints may refer to the parameters of the declaration itself.
func (d *Def) Constrain(i int, flags ParamFlags, constraints ...*Type) *Def {
	p := d.Param(i)
	if d.err != nil {
		return d
	}

	for _, c := range constraints {
		if c == nil || c == p {
			d.fail(fmt.Errorf("%w: invalid constraint on %s of %s", ErrTypeMismatch, p, d.t))
			return d
		}
	}

	p.flags |= flags
	p.constraints = append(p.constraints, constraints...)

	return d
}

// DefaultConstructor marks a class as creatable without arguments.
func (d *Def) DefaultConstructor() *Def {
	d.t.defaultCtor = true
	return d
}

// Abstract marks a class as abstract.
func (d *Def) Abstract() *Def {
	d.t.abstract = true
	return d
}

// Nullable marks a struct as a nullable value wrapper.
func (d *Def) Nullable() *Def {
	if d.t.kind != KindStruct {
		d.fail(fmt.Errorf("%w: only structs can be nullable wrappers, got %s", ErrTypeMismatch, d.t))
		return d
	}

	d.t.nullable = true

	return d
}

// Err returns the first error recorded by the setters.
func (d *Def) Err() error { return d.err }

func (d *Def) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// reaches reports whether target can be reached from t through declared
// bases and interface lists. Types are compared by definition, so
// A[T] : B[T] and B[T] : A[T] form a cycle whatever the arguments.
func reaches(t, target *Type) bool {
	seen := make(map[*Type]bool)

	var walk func(*Type) bool
	walk = func(cur *Type) bool {
		if cur == nil {
			return false
		}

		if def := cur.Definition(); def != nil {
			cur = def
		}

		if cur == target {
			return true
		}

		if seen[cur] {
			return false
		}

		seen[cur] = true

		if walk(cur.base) {
			return true
		}

		for _, i := range cur.own {
			if walk(i) {
				return true
			}
		}

		return false
	}

	return walk(t)
}
