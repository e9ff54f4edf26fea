package analyze

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"

	"typemeta/internal/typesys"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typemeta/sample/core"
	Name    string // e.g., "Component"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// idOf returns the TypeID of a named type's generic origin.
func idOf(named *types.Named) (TypeID, bool) {
	obj := named.Origin().Obj()
	if obj.Pkg() == nil {
		return TypeID{}, false
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}, true
}

// declared links a Go named type to its registered counterpart.
type declared struct {
	id     TypeID
	named  *types.Named
	module *typesys.Module
	def    *typesys.Def
	doc    *ast.CommentGroup

	abstract bool
	listed   map[*typesys.Type]bool
}

func (d *declared) implements(t *typesys.Type) {
	if t == d.def.Type() || d.listed[t] {
		return
	}

	d.listed[t] = true
	d.def.Implements(t)
}

// kindOf maps the underlying Go type to a registry kind. Structs become
// classes because embedding is modeled as a base type.
func kindOf(named *types.Named) typesys.Kind {
	switch named.Underlying().(type) {
	case *types.Interface:
		return typesys.KindInterface
	case *types.Struct:
		return typesys.KindClass
	default:
		return typesys.KindStruct
	}
}

// typeDocs returns the doc comment of every type declared in pkg.
func typeDocs(pkg *packages.Package) map[*types.TypeName]*ast.CommentGroup {
	out := make(map[*types.TypeName]*ast.CommentGroup)

	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok && doc != nil {
					out[obj] = doc
				}
			}
		}
	}

	return out
}
