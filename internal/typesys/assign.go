package typesys

// IsAssignableTo reports whether a value of type from can be used where to
// is expected: identity, base chain, implemented interfaces, generic
// parameters through their constraints and array covariance for reference
// type elements.
func IsAssignableTo(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}

	if from == to {
		return true
	}

	if to.IsInterface() {
		for _, i := range from.Interfaces() {
			if i == to {
				return true
			}
		}
	}

	for _, b := range from.BaseTypes() {
		if b == to {
			return true
		}
	}

	if from.IsArray() && to.IsArray() {
		fe, te := from.Elem(), to.Elem()

		return !fe.IsValueType() && !te.IsValueType() && IsAssignableTo(fe, te)
	}

	return false
}

// IsReferenceType reports whether t is a class, interface or array.
// Generic parameters count as reference types only with the reference constraint.
func IsReferenceType(t *Type) bool {
	switch t.Kind() {
	case KindClass, KindInterface, KindArray:
		return true
	case KindParam:
		return t.Flags().Has(ParamReferenceType) || t.Base() != nil
	default:
		return false
	}
}
