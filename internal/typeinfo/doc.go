// Package typeinfo memoizes per-type metadata over a typesys.Universe and
// answers relationship queries on top of it.
//
// A Storage is the explicit registry object handed to every consumer. It
// computes a TypeInfo at most once per type identity, and builds the
// global "before" ordering map once by scanning every non-dynamic module.
// Modules that fail to enumerate their types are skipped and reported as
// diagnostics instead of failing the scan.
package typeinfo
