// Package order sorts items so that every item comes after the items it
// depends on.
//
// The depth of an item is the number of rounds needed to expand its
// dependency set until nothing is left. Items are sorted by ascending depth
// with a stable sort, so items of equal depth keep their input order.
// Cycles are reported as typesys.ErrCycleDependency instead of looping.
package order
