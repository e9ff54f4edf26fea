// Package match provides name normalization, Levenshtein distance and
// "did you mean" suggestions for unresolved module and type names.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against an unresolved one
package match
