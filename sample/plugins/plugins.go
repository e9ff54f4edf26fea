// Package plugins declares components ordered by typemeta directives.
package plugins

import "typemeta/sample/core"

// Migrations brings the schema up to date.
//
//typemeta:before Cache
type Migrations struct {
	core.Component

	Target core.Version
}

func (Migrations) Handle() error { return nil }

// Cache warms up read models.
//
//typemeta:tag layer=storage
type Cache struct {
	*core.Component
}

func (Cache) Handle() error { return nil }

// Server starts accepting requests once the cache is warm.
//
//typemeta:after Cache
//typemeta:tag layer=transport
type Server struct {
	core.Base
	core.Handler
}

// Versions tracks applied schema versions.
type Versions = core.Registry[core.Version]
