// Package core is a small component model used as analyzer input in tests.
package core

// Entity is anything with a stable identifier.
type Entity interface {
	ID() string
}

// Named is an entity with a display name.
type Named interface {
	Entity
	Name() string
}

// Comparable orders values of the same type.
type Comparable[T any] interface {
	Compare(other T) int
}

// Handler processes one unit of work.
type Handler interface {
	Handle() error
}

// Base carries the identifier shared by every component.
//
//typemeta:abstract
type Base struct {
	id string
}

func (b Base) ID() string { return b.id }

// Component is the building block of plugins.
type Component struct {
	Base

	name string
}

func (c *Component) Name() string { return c.name }

// Version is a monotonically increasing schema version.
type Version int

func (v Version) Compare(other Version) int { return int(v - other) }

// Registry keeps items in their natural order.
type Registry[T Comparable[T]] struct {
	Items []T
}

// Labels is a named non-struct type.
type Labels map[string]string
