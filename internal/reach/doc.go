// Package reach answers reachability questions over the module reference
// graph: which modules transitively reference a set of root modules, what
// lies below a module, and in which order modules can be visited so that
// references come first.
package reach
