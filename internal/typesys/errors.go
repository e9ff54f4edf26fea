package typesys

import "errors"

var (
	// ErrNotFound is returned when a query expected at least one match and got none.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousMatch is returned when a query expected at most one match and got several.
	ErrAmbiguousMatch = errors.New("ambiguous match")
	// ErrTypeMismatch is returned when a type does not have the expected shape.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrCycleDependency is returned when dependency ordering detects a cycle.
	ErrCycleDependency = errors.New("cycle dependency")
	// ErrUntrustedType is returned when a type name cannot be resolved inside the registry.
	ErrUntrustedType = errors.New("untrusted type")
	// ErrLoadFailure is returned when the types of a module cannot be enumerated.
	ErrLoadFailure = errors.New("module load failure")
	// ErrGenericParameter is returned when a generic parameter is used where a stable identity is required.
	ErrGenericParameter = errors.New("generic parameter has no stable identity")
)
