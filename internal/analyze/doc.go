// Package analyze builds a typesys.Universe from Go packages.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. Every
// loaded package becomes a module named by its import path, referencing
// the packages it imports. Exported named types become module types:
//
//   - interfaces are interfaces; embedded interfaces are their interface list
//   - structs are classes; the first embedded struct is the base, embedded
//     interfaces are implemented
//   - other named types are value types
//   - type parameters make generic definitions, constrained by the named
//     interfaces of their constraint
//
// Implemented interfaces are detected with types.Implements for the value
// and pointer method sets. Single-parameter generic interfaces are also
// tried with the type itself as argument, which covers self-referential
// contracts such as Comparable[Version].
//
// Doc comment directives add what Go cannot express:
//
//	//typemeta:after Ref...    order after the referenced types
//	//typemeta:before Ref...   order before the referenced types
//	//typemeta:tag key=value   free-form tag
//	//typemeta:abstract        class without a usable zero value
//
// Packages that fail to load become broken modules.
package analyze
