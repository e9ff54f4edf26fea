// Package manifest loads module and type declarations from YAML files into a
// typesys.Universe.
//
// # Schema Overview
//
//	version: "1"
//	modules:
//	  - name: app
//	    references: [core]
//	    types:
//	      - name: Repository[T]
//	        kind: class
//	        base: core.Object
//	        implements: core.IEnumerable[T]
//	        params:
//	          - name: T
//	            flags: [class]
//	            constraints: core.IEquatable[T]
//	        after: app.Migrations
//	        tags:
//	          layer: storage
//	        default_constructor: true
//
// Type references use the display syntax of typesys.Universe.ParseRef. Bare
// names resolve to the generic parameters of the type being declared, then
// to the types of its module.
//
// Loading runs in two passes: every module and type is declared first, then
// bases, interfaces, constraints and attributes are resolved. A module with
// declarations that cannot be resolved is marked broken and the load goes
// on, unless Strict is set.
package manifest
