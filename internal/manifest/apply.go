package manifest

import (
	"errors"
	"fmt"

	"typemeta/internal/diagnostic"
	"typemeta/internal/match"
	"typemeta/internal/typesys"
)

const maxSuggestions = 3

// Load reads the manifests at paths and applies them to u together, so
// types may refer to types declared in another file.
func Load(u *typesys.Universe, opts Options, paths ...string) (diagnostic.Diagnostics, error) {
	files := make([]*File, 0, len(paths))

	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return diagnostic.Diagnostics{}, err
		}

		files = append(files, f)
	}

	return Apply(u, opts, files...)
}

// Apply declares the modules of files in u. Problems are reported in the
// returned diagnostics and the affected modules are marked broken; with
// Options.Strict the first problem is returned as an error instead.
func Apply(u *typesys.Universe, opts Options, files ...*File) (diagnostic.Diagnostics, error) {
	l := &loader{u: u, opts: opts}

	for _, f := range files {
		for i := range f.Modules {
			if err := l.declare(&f.Modules[i]); err != nil {
				return l.diags, err
			}
		}
	}

	for _, p := range l.pending {
		if err := l.fill(p); err != nil {
			return l.diags, err
		}
	}

	return l.diags, nil
}

type loader struct {
	u       *typesys.Universe
	opts    Options
	diags   diagnostic.Diagnostics
	pending []pendingType
	known   []string
}

type pendingType struct {
	module *typesys.Module
	spec   *TypeSpec
	def    *typesys.Def
}

func (l *loader) declare(ms *ModuleSpec) error {
	m, err := l.u.AddModule(ms.Name, ms.References...)
	if err != nil {
		l.diags.AddError(diagnostic.CodeInvalidDecl, err.Error(), ms.Name, "")

		if l.opts.Strict {
			return err
		}

		return nil
	}

	if ms.Dynamic {
		m.MarkDynamic()
	}

	for i := range ms.Types {
		spec := &ms.Types[i]

		kind, err := parseKind(spec.Kind)
		if err != nil {
			if err := l.broken(m, spec.Name, diagnostic.CodeInvalidDecl, err); err != nil {
				return err
			}

			continue
		}

		def, err := m.Declare(spec.Name, kind)
		if err != nil {
			if err := l.broken(m, spec.Name, diagnostic.CodeInvalidDecl, err); err != nil {
				return err
			}

			continue
		}

		l.pending = append(l.pending, pendingType{module: m, spec: spec, def: def})
	}

	return nil
}

func parseKind(s string) (typesys.Kind, error) {
	switch s {
	case KindClass:
		return typesys.KindClass, nil
	case KindStruct:
		return typesys.KindStruct, nil
	case KindInterface:
		return typesys.KindInterface, nil
	default:
		return typesys.KindUnknown, fmt.Errorf("%w: unknown kind %q", typesys.ErrTypeMismatch, s)
	}
}

func parseFlag(s string) (typesys.ParamFlags, error) {
	switch s {
	case FlagClass:
		return typesys.ParamReferenceType, nil
	case FlagStruct:
		return typesys.ParamNotNullableValueType, nil
	case FlagNew:
		return typesys.ParamDefaultConstructor, nil
	default:
		return 0, fmt.Errorf("%w: unknown parameter flag %q", typesys.ErrTypeMismatch, s)
	}
}

// broken records a problem with subject and marks m broken. It returns an
// error only in strict mode.
func (l *loader) broken(m *typesys.Module, subject, code string, err error, suggestions ...string) error {
	l.diags.AddError(code, err.Error(), m.Name(), subject, suggestions...)

	if m.Broken() == nil {
		l.diags.AddWarning(diagnostic.CodeModuleBroken, "module marked broken", m.Name(), subject)
	}

	m.MarkBroken(fmt.Errorf("%s: %w", subject, err))

	if l.opts.Strict {
		return fmt.Errorf("module %s: %s: %w", m.Name(), subject, err)
	}

	return nil
}

func (l *loader) fill(p pendingType) error {
	t := p.def.Type()
	scope := typesys.ScopeOf(t)
	subject := t.String()

	var failed error

	resolve := func(ref string) *typesys.Type {
		if failed != nil {
			return nil
		}

		r, err := l.u.ParseRef(ref, scope)
		if err != nil {
			failed = l.broken(p.module, subject, diagnostic.CodeUnresolvedRef, err, l.suggest(ref)...)
			if failed == nil {
				failed = err
			}

			return nil
		}

		return r
	}

	resolveAll := func(refs []string) []*typesys.Type {
		out := make([]*typesys.Type, 0, len(refs))
		for _, ref := range refs {
			if r := resolve(ref); r != nil {
				out = append(out, r)
			}
		}

		return out
	}

	spec := p.spec

	if spec.Base != "" {
		if base := resolve(spec.Base); base != nil {
			p.def.Base(base)
		}
	}

	p.def.Implements(resolveAll(spec.Implements)...)

	for _, ps := range spec.Params {
		if err := l.constrain(p, ps, resolveAll); err != nil {
			return l.broken(p.module, subject, diagnostic.CodeInvalidDecl, err)
		}
	}

	if refs := resolveAll(spec.Before); len(refs) > 0 {
		p.def.Attach(typesys.OrderBefore{Types: refs})
	}

	if refs := resolveAll(spec.After); len(refs) > 0 {
		p.def.Attach(typesys.OrderAfter{Types: refs})
	}

	for _, k := range sortedKeys(spec.Tags) {
		p.def.Attach(typesys.Tag{Key: k, Value: spec.Tags[k]})
	}

	if spec.DefaultConstructor {
		p.def.DefaultConstructor()
	}

	if spec.Abstract {
		p.def.Abstract()
	}

	if spec.Nullable {
		p.def.Nullable()
	}

	if failed != nil {
		if l.opts.Strict {
			return failed
		}

		return nil
	}

	if err := p.def.Err(); err != nil {
		return l.broken(p.module, subject, declCode(err), err)
	}

	return nil
}

// declCode is the diagnostic code of a failed declaration.
func declCode(err error) string {
	if errors.Is(err, typesys.ErrCycleDependency) {
		return diagnostic.CodeHierarchyCycle
	}

	return diagnostic.CodeInvalidDecl
}

func (l *loader) constrain(p pendingType, ps ParamSpec, resolveAll func([]string) []*typesys.Type) error {
	pos := -1

	for i, param := range p.def.Type().TypeArgs() {
		if param.Name() == ps.Name {
			pos = i
		}
	}

	if pos < 0 {
		return fmt.Errorf("%w: no generic parameter %s", typesys.ErrNotFound, ps.Name)
	}

	var flags typesys.ParamFlags

	for _, f := range ps.Flags {
		flag, err := parseFlag(f)
		if err != nil {
			return err
		}

		flags |= flag
	}

	p.def.Constrain(pos, flags, resolveAll(ps.Constraints)...)

	return nil
}

// suggest offers registered type names close to the unresolved part of ref.
func (l *loader) suggest(ref string) []string {
	if l.known == nil {
		for _, m := range l.u.Modules() {
			for _, n := range m.TypeNames() {
				l.known = append(l.known, m.Name()+"."+n)
			}
		}
	}

	return match.Suggest(match.RefName(ref), l.known, maxSuggestions)
}
