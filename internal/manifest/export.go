package manifest

import (
	"maps"
	"slices"
	"strings"

	"typemeta/internal/typesys"
)

// Export describes the modules of u as a manifest. Broken modules are left
// out since their types are unavailable.
func Export(u *typesys.Universe) *File {
	f := &File{Version: "1"}

	for _, m := range u.Modules() {
		types, err := m.Types()
		if err != nil {
			continue
		}

		ms := ModuleSpec{
			Name:       m.Name(),
			References: m.References(),
			Dynamic:    m.IsDynamic(),
		}

		for _, t := range types {
			ms.Types = append(ms.Types, exportType(t))
		}

		f.Modules = append(f.Modules, ms)
	}

	return f
}

func exportType(t *typesys.Type) TypeSpec {
	spec := TypeSpec{
		Name:     t.Name(),
		Kind:     strings.ToLower(t.Kind().String()),
		Abstract: t.IsAbstract(),
		Nullable: t.IsNullable(),
	}

	if t.IsGenericDefinition() {
		var names []string

		for _, p := range t.TypeArgs() {
			names = append(names, p.Name())

			if ps, ok := exportParam(p); ok {
				spec.Params = append(spec.Params, ps)
			}
		}

		spec.Name += "[" + strings.Join(names, ",") + "]"
	}

	if t.Kind() == typesys.KindClass {
		spec.DefaultConstructor = t.HasDefaultConstructor()
	}

	if b := t.Base(); b != nil {
		spec.Base = b.String()
	}

	spec.Implements = refs(t.OwnInterfaces())

	for _, a := range typesys.AttributesOf[typesys.OrderBefore](t) {
		spec.Before = append(spec.Before, refs(a.Types)...)
	}

	for _, a := range typesys.AttributesOf[typesys.OrderAfter](t) {
		spec.After = append(spec.After, refs(a.Types)...)
	}

	for _, tag := range typesys.AttributesOf[typesys.Tag](t) {
		if spec.Tags == nil {
			spec.Tags = make(map[string]string)
		}

		spec.Tags[tag.Key] = tag.Value
	}

	return spec
}

func exportParam(p *typesys.Type) (ParamSpec, bool) {
	ps := ParamSpec{Name: p.Name(), Constraints: refs(p.Constraints())}

	flags := p.Flags()
	if flags.Has(typesys.ParamReferenceType) {
		ps.Flags = append(ps.Flags, FlagClass)
	}

	if flags.Has(typesys.ParamNotNullableValueType) {
		ps.Flags = append(ps.Flags, FlagStruct)
	}

	if flags.Has(typesys.ParamDefaultConstructor) {
		ps.Flags = append(ps.Flags, FlagNew)
	}

	return ps, len(ps.Flags) > 0 || len(ps.Constraints) > 0
}

func refs(types []*typesys.Type) StringOrArray {
	if len(types) == 0 {
		return nil
	}

	out := make(StringOrArray, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}

	return out
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
