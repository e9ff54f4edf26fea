package typesys

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind represents the kind of a registered type.
type Kind int

const (
	KindUnknown   Kind = iota
	KindClass          // reference type, may have a base class
	KindStruct         // value type
	KindInterface      // interface, may list other interfaces
	KindParam          // generic parameter of a definition
	KindArray          // array of another type
)

// ParamFlags are the special constraints of a generic parameter.
type ParamFlags int

const (
	// ParamReferenceType requires a reference type argument.
	ParamReferenceType ParamFlags = 1 << iota
	// ParamNotNullableValueType requires a value type argument that is not nullable.
	ParamNotNullableValueType
	// ParamDefaultConstructor requires an argument with a parameterless constructor.
	ParamDefaultConstructor
)

// Has reports whether all bits of other are set.
func (f ParamFlags) Has(other ParamFlags) bool {
	return f&other == other
}
