package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"typemeta/internal/diagnostic"
	"typemeta/internal/typesys"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

const directivePrefix = "//typemeta:"

// Analyzer loads Go packages into a universe.
type Analyzer struct {
	universe *typesys.Universe
	dir      string
	logger   *log.Logger

	declared map[TypeID]*declared
	ifaces   []*declared
	diags    diagnostic.Diagnostics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir sets the directory packages are resolved from.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// WithLogger sets the logger used to report skipped packages.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an analyzer registering into u.
func NewAnalyzer(u *typesys.Universe, opts ...Option) *Analyzer {
	a := &Analyzer{
		universe: u,
		logger:   log.New(io.Discard, "", 0),
		declared: make(map[TypeID]*declared),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Universe returns the universe the analyzer registers into.
func (a *Analyzer) Universe() *typesys.Universe { return a.universe }

// LoadPackages loads the specified packages and registers their types.
// Patterns are standard Go package patterns (e.g., "./sample/...",
// "typemeta/sample/core"). Only an error of the loader itself is returned;
// problems with single packages or types are reported as diagnostics.
func (a *Analyzer) LoadPackages(patterns ...string) (diagnostic.Diagnostics, error) {
	a.diags = diagnostic.Diagnostics{}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return a.diags, fmt.Errorf("failed to load packages: %w", err)
	}

	var batch []*declared

	for _, pkg := range pkgs {
		batch = append(batch, a.processPackage(pkg)...)
	}

	for _, d := range batch {
		a.fill(d)
	}

	return a.diags, nil
}

// processPackage registers the module of pkg and declares its exported types.
func (a *Analyzer) processPackage(pkg *packages.Package) []*declared {
	refs := slices.Sorted(maps.Keys(pkg.Imports))

	m, err := a.universe.AddModule(pkg.PkgPath, refs...)
	if err != nil {
		a.diags.AddWarning(diagnostic.CodeInvalidDecl, err.Error(), pkg.PkgPath, "")
		return nil
	}

	if len(pkg.Errors) > 0 {
		errs := make([]error, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}

		err := errors.Join(errs...)
		m.MarkBroken(err)
		a.diags.AddWarning(diagnostic.CodePackageError, err.Error(), pkg.PkgPath, "")
		a.logger.Printf("analyze: package %s has errors: %v", pkg.PkgPath, err)

		return nil
	}

	docs := typeDocs(pkg)
	scope := pkg.Types.Scope()

	var out []*declared

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() {
			continue
		}

		if obj.IsAlias() {
			a.diags.AddInfo(diagnostic.CodeUnsupportedType, "type aliases are not registered", m.Name(), name)
			continue
		}

		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}

		kind := kindOf(named)

		def, err := m.Declare(name+typeParamsDecl(named), kind)
		if err != nil {
			a.diags.AddWarning(diagnostic.CodeInvalidDecl, err.Error(), m.Name(), name)
			continue
		}

		d := &declared{
			id:     TypeID{PkgPath: pkg.PkgPath, Name: name},
			named:  named,
			module: m,
			def:    def,
			doc:    docs[obj],
			listed: make(map[*typesys.Type]bool),
		}

		a.declared[d.id] = d
		out = append(out, d)

		if kind == typesys.KindInterface {
			a.ifaces = append(a.ifaces, d)
		}
	}

	return out
}

func typeParamsDecl(named *types.Named) string {
	tparams := named.TypeParams()
	if tparams.Len() == 0 {
		return ""
	}

	names := make([]string, tparams.Len())
	for i := range tparams.Len() {
		names[i] = tparams.At(i).Obj().Name()
	}

	return "[" + strings.Join(names, ",") + "]"
}

// fill resolves everything that may refer to other declared types.
func (a *Analyzer) fill(d *declared) {
	switch ut := d.named.Underlying().(type) {
	case *types.Struct:
		a.fillStruct(d, ut)
	case *types.Interface:
		a.fillInterface(d, ut)
	}

	a.constrain(d)

	if d.named.TypeParams().Len() == 0 && !d.def.Type().IsInterface() {
		a.detectImplements(d)
	}

	a.directives(d)

	if d.def.Type().Kind() == typesys.KindClass && !d.abstract {
		d.def.DefaultConstructor()
	}

	if err := d.def.Err(); err != nil {
		code := diagnostic.CodeInvalidDecl
		if errors.Is(err, typesys.ErrCycleDependency) {
			code = diagnostic.CodeHierarchyCycle
		}

		a.diags.AddWarning(code, err.Error(), d.module.Name(), d.id.Name)
		d.module.MarkBroken(fmt.Errorf("%s: %w", d.id, err))
	}
}

func (a *Analyzer) fillStruct(d *declared, st *types.Struct) {
	var base *typesys.Type

	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}

		ref, ok := a.typeRef(f.Type(), d)
		if !ok {
			continue
		}

		switch {
		case ref.IsInterface():
			d.implements(ref)
		case base == nil && ref.Kind() == typesys.KindClass:
			base = ref
			d.def.Base(ref)
		}
	}
}

func (a *Analyzer) fillInterface(d *declared, it *types.Interface) {
	for i := range it.NumEmbeddeds() {
		if ref, ok := a.typeRef(it.EmbeddedType(i), d); ok && ref.IsInterface() {
			d.implements(ref)
		}
	}
}

func (a *Analyzer) constrain(d *declared) {
	tparams := d.named.TypeParams()

	for i := range tparams.Len() {
		c := tparams.At(i).Constraint()

		if ref, ok := a.typeRef(c, d); ok {
			d.def.Constrain(i, 0, ref)
			continue
		}

		it, ok := c.Underlying().(*types.Interface)
		if !ok {
			continue
		}

		for j := range it.NumEmbeddeds() {
			if ref, ok := a.typeRef(it.EmbeddedType(j), d); ok && ref.IsInterface() {
				d.def.Constrain(i, 0, ref)
			}
		}
	}
}

// detectImplements lists every known interface the value or pointer
// method set of d satisfies. Generic interfaces are only tried with d itself
// as their single argument.
func (a *Analyzer) detectImplements(d *declared) {
	ptr := types.NewPointer(d.named)

	for _, i := range a.ifaces {
		var (
			iface   types.Type = i.named
			generic bool
		)

		switch i.named.TypeParams().Len() {
		case 0:
		case 1:
			inst, err := types.Instantiate(nil, i.named, []types.Type{d.named}, true)
			if err != nil {
				continue
			}

			iface, generic = inst, true
		default:
			continue
		}

		it, ok := iface.Underlying().(*types.Interface)
		if !ok || !(types.Implements(d.named, it) || types.Implements(ptr, it)) {
			continue
		}

		target := i.def.Type()
		if generic {
			inst, err := a.universe.Instantiate(target, d.def.Type())
			if err != nil {
				continue
			}

			target = inst
		}

		d.implements(target)
	}
}

func (a *Analyzer) directives(d *declared) {
	if d.doc == nil {
		return
	}

	t := d.def.Type()
	scope := typesys.ScopeOf(t)

	for _, c := range d.doc.List {
		text, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}

		verb, arg, _ := strings.Cut(text, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "after", "before":
			var refs []*typesys.Type

			for _, ref := range strings.Fields(arg) {
				r, err := a.universe.ParseRef(ref, scope)
				if err != nil {
					a.diags.AddWarning(diagnostic.CodeUnresolvedRef, err.Error(), d.module.Name(), d.id.Name)
					continue
				}

				refs = append(refs, r)
			}

			if len(refs) == 0 {
				continue
			}

			if verb == "after" {
				d.def.Attach(typesys.OrderAfter{Types: refs})
			} else {
				d.def.Attach(typesys.OrderBefore{Types: refs})
			}
		case "tag":
			key, value, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(key) == "" {
				a.diags.AddWarning(diagnostic.CodeInvalidDecl, "tag directive needs key=value: "+c.Text, d.module.Name(), d.id.Name)
				continue
			}

			d.def.Attach(typesys.Tag{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
		case "abstract":
			d.abstract = true
			d.def.Abstract()
		default:
			a.diags.AddWarning(diagnostic.CodeInvalidDecl, "unknown directive "+c.Text, d.module.Name(), d.id.Name)
		}
	}
}

// typeRef maps a Go type to a registered type. Pointers are followed and
// slices become arrays; anything outside the loaded packages is unknown.
func (a *Analyzer) typeRef(gt types.Type, d *declared) (*typesys.Type, bool) {
	switch tt := gt.(type) {
	case *types.Alias:
		return a.typeRef(types.Unalias(tt), d)
	case *types.Pointer:
		return a.typeRef(tt.Elem(), d)
	case *types.Slice:
		elem, ok := a.typeRef(tt.Elem(), d)
		if !ok {
			return nil, false
		}

		arr, err := a.universe.ArrayOf(elem)

		return arr, err == nil
	case *types.TypeParam:
		tparams := d.named.TypeParams()
		if i := tt.Index(); i < tparams.Len() && tparams.At(i) == tt {
			return d.def.Param(i), true
		}

		return nil, false
	case *types.Named:
		id, ok := idOf(tt)
		if !ok {
			return nil, false
		}

		target, ok := a.declared[id]
		if !ok {
			return nil, false
		}

		targs := tt.TypeArgs()
		if targs.Len() == 0 {
			return target.def.Type(), true
		}

		args := make([]*typesys.Type, targs.Len())

		for i := range targs.Len() {
			arg, ok := a.typeRef(targs.At(i), d)
			if !ok {
				return nil, false
			}

			args[i] = arg
		}

		inst, err := a.universe.Instantiate(target.def.Type(), args...)

		return inst, err == nil
	default:
		return nil, false
	}
}
