// Package typesys is the explicit type registry the metadata layer runs on.
//
// Types are declared up front instead of discovered at runtime: every module
// registers its classes, structs and interfaces, generic definitions are
// closed through Universe.Instantiate, and the universe interns constructed
// and array types so that equal types are the same pointer.
//
// Key types:
//   - Universe: modules by name plus the intern tables
//   - Module: a named unit with references to other modules
//   - Type: class, struct, interface, generic parameter or array
//   - Def: the declaration builder used while registering a type
package typesys
