// Package diagnostic provides structured warnings and errors reported while
// loading modules and scanning them for type metadata.
//
// Key capabilities:
//   - Broken module reports (types that could not be enumerated)
//   - Unresolved type reference reports with suggestions
//   - Error aggregation for strict loading
package diagnostic
