package generator

import (
	"go/ast"
	"go/token"
	"strings"
)

type declKind int

const (
	declOther declKind = iota
	// Interface types, which may be message sets
	declMessageSet
	// Struct types, which may be actor states
	declState
)

// typeDecl is a top-level type declaration.
type typeDecl struct {
	Name string
	Kind declKind
	Spec *ast.TypeSpec
	// Doc comment, from the type spec or from the enclosing declaration when it has a single spec
	Doc *ast.CommentGroup
}

// Struct returns the struct type of the declaration, if it's a struct.
func (t *typeDecl) Struct() (*ast.StructType, bool) {
	st, ok := t.Spec.Type.(*ast.StructType)
	return st, ok
}

// methodDecl is a method declared on a top-level type.
type methodDecl struct {
	Func *ast.FuncDecl
	// Pointer is true if the receiver is a pointer
	Pointer bool
}

// declarations is the result of scanning a file.
type declarations struct {
	// Type declarations, in the order they appear in the file
	Types []*typeDecl
	// Methods indexed by the receiver's base type name, then by method name
	Methods map[string]map[string]methodDecl
	// All top-level identifiers, including types, functions, variables and constants
	Names map[string]struct{}

	byName map[string]*typeDecl
}

// scan classifies the top-level declarations of the file by their surface form.
// It doesn't modify the file.
func scan(file *ast.File) *declarations {
	d := &declarations{
		Methods: map[string]map[string]methodDecl{},
		Names:   map[string]struct{}{},
		byName:  map[string]*typeDecl{},
	}

	for _, decl := range file.Decls {
		switch x := decl.(type) {
		case *ast.GenDecl:
			d.addGenDecl(x)
		case *ast.FuncDecl:
			d.addFuncDecl(x)
		}
	}

	return d
}

func (d *declarations) addGenDecl(gen *ast.GenDecl) {
	for _, spec := range gen.Specs {
		switch x := spec.(type) {
		case *ast.TypeSpec:
			t := &typeDecl{
				Name: x.Name.Name,
				Spec: x,
				Doc:  x.Doc,
			}
			if t.Doc == nil && len(gen.Specs) == 1 {
				t.Doc = gen.Doc
			}

			// Type parameters and aliases are not supported for message sets and states
			if x.TypeParams == nil && !x.Assign.IsValid() {
				switch x.Type.(type) {
				case *ast.InterfaceType:
					t.Kind = declMessageSet
				case *ast.StructType:
					t.Kind = declState
				}
			}

			d.Types = append(d.Types, t)
			d.byName[t.Name] = t
			d.Names[t.Name] = struct{}{}
		case *ast.ValueSpec:
			for _, name := range x.Names {
				if name.Name != "_" {
					d.Names[name.Name] = struct{}{}
				}
			}
		}
	}
}

func (d *declarations) addFuncDecl(fn *ast.FuncDecl) {
	if fn.Recv == nil {
		if fn.Name.Name != "init" && fn.Name.Name != "_" {
			d.Names[fn.Name.Name] = struct{}{}
		}
		return
	}

	base, pointer, ok := receiverBase(fn)
	if !ok {
		return
	}
	if d.Methods[base] == nil {
		d.Methods[base] = map[string]methodDecl{}
	}
	d.Methods[base][fn.Name.Name] = methodDecl{
		Func:    fn,
		Pointer: pointer,
	}
}

// Lookup returns the type declaration with the given name.
func (d *declarations) Lookup(name string) (*typeDecl, bool) {
	t, ok := d.byName[name]
	return t, ok
}

// OfKind returns the type declarations of the given kind, in the order they appear in the file.
func (d *declarations) OfKind(kind declKind) []*typeDecl {
	var res []*typeDecl
	for _, t := range d.Types {
		if t.Kind == kind {
			res = append(res, t)
		}
	}
	return res
}

// Method returns the method with the given name declared on the type.
func (d *declarations) Method(typeName string, method string) (methodDecl, bool) {
	m, ok := d.Methods[typeName][method]
	return m, ok
}

// receiverBase returns the name of the type a method is declared on.
func receiverBase(fn *ast.FuncDecl) (name string, pointer bool, ok bool) {
	if fn.Recv == nil || len(fn.Recv.List) != 1 {
		return "", false, false
	}

	expr := fn.Recv.List[0].Type
	if star, isStar := expr.(*ast.StarExpr); isStar {
		pointer = true
		expr = star.X
	}

	// Strip type parameters of generic receivers
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}

	ident, isIdent := expr.(*ast.Ident)
	if !isIdent {
		return "", false, false
	}
	return ident.Name, pointer, true
}

// directive returns the argument of a "//actorgen:<name> <arg>" comment in the doc comment.
func directive(doc *ast.CommentGroup, name string) (string, token.Pos, bool) {
	if doc == nil {
		return "", token.NoPos, false
	}

	prefix := "//actorgen:" + name
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}
		// Make sure we matched the whole directive name
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), c.Slash, true
	}
	return "", token.NoPos, false
}
