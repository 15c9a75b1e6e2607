package generator

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

// Namespace with the message set and state used by most tests.
const fooSource = `//go:build actorgen

package foo

import "context"

type FooMsg interface{ fooMsg() }

type Get struct {
	Key  string
	Resp int
}

func (*Get) fooMsg() {}

type Set struct {
	Key  string
	Val  int
	Resp struct{}
}

func (*Set) fooMsg() {}

type Foo struct {
	data map[string]int
}

func (f *Foo) process(ctx context.Context, msg FooMsg) {
	switch m := msg.(type) {
	case *Get:
		_ = m.Resp.Send(f.data[m.Key])
	case *Set:
		f.data[m.Key] = m.Val
		_ = m.Resp.Send(struct{}{})
	}
}
`

func newTestRun(t *testing.T, src string, opts ...Option) (*run, *ast.File) {
	t.Helper()

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	require.NoError(t, o.Validate())

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	require.NoError(t, err)

	return &run{
		opts:  o,
		fset:  fset,
		diags: &reporter{fset: fset},
		log:   o.Logger,
	}, file
}

// parsedOutput is a generated file, parsed.
type parsedOutput struct {
	fset *token.FileSet
	file *ast.File
}

func parseOutput(t *testing.T, src []byte) parsedOutput {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "out.go", src, parser.ParseComments)
	require.NoError(t, err, "generated code must be valid Go:\n%s", src)

	return parsedOutput{fset: fset, file: file}
}

// Funcs returns the names of the functions in the file, with methods as "Type.Method".
func (p parsedOutput) Funcs() []string {
	var res []string
	for _, decl := range p.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		name := fn.Name.Name
		if fn.Recv != nil {
			base, _, _ := receiverBase(fn)
			name = base + "." + name
		}
		res = append(res, name)
	}
	return res
}

// Types returns the names of the types declared in the file.
func (p parsedOutput) Types() []string {
	var res []string
	for _, decl := range p.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			res = append(res, spec.(*ast.TypeSpec).Name.Name)
		}
	}
	return res
}

// Imports returns the import paths of the file.
func (p parsedOutput) Imports() []string {
	res := make([]string, len(p.file.Imports))
	for i, spec := range p.file.Imports {
		res[i] = importPath(spec)
	}
	return res
}

// Fields returns the fields of a struct type, as "name type".
func (p parsedOutput) Fields(t *testing.T, typeName string) []string {
	t.Helper()

	for _, decl := range p.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if ts.Name.Name != typeName {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			require.True(t, ok, "type %s is not a struct", typeName)
			return structFields(p.fset, st)
		}
	}

	require.Failf(t, "type not found", "type %s is not declared", typeName)
	return nil
}

func structFields(fset *token.FileSet, st *ast.StructType) []string {
	var res []string
	for _, field := range st.Fields.List {
		var buf bytes.Buffer
		_ = printer.Fprint(&buf, fset, field.Type)
		for _, name := range fieldNames(field) {
			res = append(res, name+" "+buf.String())
		}
	}
	return res
}
