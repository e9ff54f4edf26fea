package typesys

// Attribute is a declarative annotation attached to a type.
type Attribute interface {
	AttributeName() string
}

// OrderBefore is declared on a prerequisite and lists the types that must be
// ordered after it.
type OrderBefore struct {
	Types []*Type
}

// AttributeName implements Attribute.
func (OrderBefore) AttributeName() string { return "before" }

// OrderAfter is declared on a dependent and lists the types it must be
// ordered after.
type OrderAfter struct {
	Types []*Type
}

// AttributeName implements Attribute.
func (OrderAfter) AttributeName() string { return "after" }

// Tag is a free-form key/value annotation.
type Tag struct {
	Key   string
	Value string
}

// AttributeName implements Attribute.
func (Tag) AttributeName() string { return "tag" }

// AttributesOf returns the attributes of t that have type A, in declaration order.
func AttributesOf[A Attribute](t *Type) []A {
	var out []A

	for _, a := range t.Attributes() {
		if v, ok := a.(A); ok {
			out = append(out, v)
		}
	}

	return out
}
