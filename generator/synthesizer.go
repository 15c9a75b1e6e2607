package generator

import (
	"go/ast"
	"log/slog"
)

// Names of the methods every handle has.
var handleMethods = []string{"Clone", "Close", "Send"}

// Actor describes an actor that was synthesized.
type Actor struct {
	// Name of the state type
	State string
	// Name of the message set interface
	MessageSet string
	// Name of the handle type
	Handle string
	// Name of the function that creates the handle and spawns the worker
	Constructor string
	// Requests, with the names of their accessors, in the order the variants are declared
	Requests []Request
	// Variants without a reply, which are delivered with the handle's Send method
	Controls []string
}

// actorData is passed to the actor templates.
type actorData struct {
	Actor

	// Name the runtime package is referenced with
	Runtime string
	// Name of the state's private constructor
	StateConstructor string
	// Name of the function that releases the reply slots of a message
	Release string
	// Name of the dispatch loop method
	Run string
	// Name of the field holding the mailbox's receiver
	ReceiverField string
	// Name of the reply field of requests
	ReplyField string
	// Name of the user-supplied handler method
	Handler string
}

// synthesize derives the names of the declarations emitted for every pairing, validates them, and adds the mailbox receiver field to the states.
// Pairings whose names collide with other identifiers are skipped, with an error diagnostic.
func (r *run) synthesize(decls *declarations, pairings []pairing) []actorData {
	// Top-level names emitted so far, to detect collisions between actors
	emitted := map[string]string{}

	res := make([]actorData, 0, len(pairings))
	for _, p := range pairings {
		data, ok := r.actorNames(decls, p, emitted)
		if !ok {
			continue
		}

		st, _ := p.State.Struct()
		st.Fields.List = append(st.Fields.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(data.ReceiverField)},
			Type: &ast.StarExpr{
				X: &ast.IndexExpr{
					X: &ast.SelectorExpr{
						X:   ast.NewIdent(data.Runtime),
						Sel: ast.NewIdent("Receiver"),
					},
					Index: ast.NewIdent(data.MessageSet),
				},
			},
		})
		r.usesRuntime = true

		_, ok = decls.Method(p.State.Name, r.opts.HandlerName)
		if !ok {
			r.diags.report(p.State.Spec.Name.Pos(), SeverityWarning, CodeMissingHandler,
				"state %s has no %s method in this file; it must be declared elsewhere in the package as func (s *%s) %s(ctx context.Context, msg %s)",
				p.State.Name, r.opts.HandlerName, p.State.Name, r.opts.HandlerName, data.MessageSet)
		}

		for _, name := range []string{data.Handle, data.Constructor, data.StateConstructor, data.Release} {
			emitted[name] = p.State.Name
		}

		r.log.Debug("Synthesized actor",
			slog.String("state", data.State),
			slog.String("handle", data.Handle),
			slog.Int("requests", len(data.Requests)),
		)
		res = append(res, data)
	}

	return res
}

func (r *run) actorNames(decls *declarations, p pairing, emitted map[string]string) (actorData, bool) {
	ms := p.MessageSet
	state := p.State.Name
	pos := p.State.Spec.Name.Pos()

	handle := r.opts.HandlePrefix + exportedName(state)
	if handle == r.opts.HandlePrefix {
		handle = r.opts.HandlePrefix + state
	}

	data := actorData{
		Actor: Actor{
			State:       state,
			MessageSet:  ms.Name,
			Handle:      handle,
			Constructor: "New" + handle,
			Controls:    ms.Controls,
		},
		Runtime:          r.opts.RuntimeName(),
		StateConstructor: unexportedPrefix("new", state),
		Release:          unexportedPrefix("release", ms.Name),
		Run:              "run",
		ReceiverField:    r.opts.ReceiverField,
		ReplyField:       r.opts.ReplyField,
		Handler:          r.opts.HandlerName,
	}

	ok := true
	collision := func(format string, args ...any) {
		r.diags.report(pos, SeverityError, CodeNameCollision, format, args...)
		ok = false
	}

	// Top-level declarations
	for _, name := range []string{data.Handle, data.Constructor, data.StateConstructor, data.Release} {
		if _, exists := decls.Names[name]; exists {
			collision("cannot generate %s for state %s: the name is already declared in this file", name, state)
		} else if other, exists := emitted[name]; exists {
			collision("cannot generate %s for state %s: the name is also generated for state %s", name, state, other)
		}
	}

	// Members of the state type
	members := map[string]struct{}{}
	for name := range decls.Methods[state] {
		members[name] = struct{}{}
	}
	st, _ := p.State.Struct()
	for _, field := range st.Fields.List {
		for _, name := range fieldNames(field) {
			members[name] = struct{}{}
		}
	}
	for _, name := range []string{data.Run, data.ReceiverField} {
		if _, exists := members[name]; exists {
			collision("cannot add %s to state %s: it already has a field or method with that name", name, state)
		}
	}

	// Methods of the handle
	methods := make(map[string]string, len(handleMethods)+2*ms.Requests.Len())
	for _, name := range handleMethods {
		methods[name] = ""
	}
	for _, req := range ms.Requests.Entries() {
		req.Method = methodName(ms.Actor, req.Variant)
		if req.Method == "" {
			r.diags.report(pos, SeverityError, CodeInvalidMethodName,
				"cannot derive a method name from the variant %s of %s", req.Variant, ms.Name)
			ok = false
			continue
		}
		req.NoWaitMethod = req.Method + r.opts.NoWaitSuffix

		for _, name := range []string{req.Method, req.NoWaitMethod} {
			other, exists := methods[name]
			switch {
			case !exists:
				methods[name] = req.Variant
			case other == "":
				collision("method %s for variant %s of %s collides with a method every handle has", name, req.Variant, ms.Name)
			default:
				collision("method %s for variant %s of %s collides with the method for variant %s", name, req.Variant, ms.Name, other)
			}
		}
		data.Requests = append(data.Requests, req)
	}

	return data, ok
}

// checkImports reports an error if the names the generated code uses for its imports are already taken in the file.
func (r *run) checkImports(file *ast.File, decls *declarations, needContext bool) {
	type imp struct {
		name string
		path string
	}
	var want []imp
	if r.usesRuntime {
		want = append(want, imp{name: r.opts.RuntimeName(), path: r.opts.RuntimePackage})
	}
	if needContext {
		want = append(want, imp{name: "context", path: "context"})
	}

	for _, w := range want {
		if _, exists := decls.Names[w.name]; exists {
			r.diags.report(file.Name.Pos(), SeverityError, CodeNameCollision,
				"the identifier %s is declared in this file, but the generated code needs it for the package %q", w.name, w.path)
		}

		for _, spec := range file.Imports {
			path := importPath(spec)
			name := importName(spec)
			switch {
			case path == w.path && spec.Name != nil && name != w.name:
				r.diags.report(spec.Pos(), SeverityError, CodeNameCollision,
					"package %q must be imported without a name or as %s", w.path, w.name)
			case path != w.path && name == w.name:
				r.diags.report(spec.Pos(), SeverityError, CodeNameCollision,
					"package %q is imported as %s, which the generated code needs for the package %q", path, w.name, w.path)
			}
		}
	}
}

func fieldNames(field *ast.Field) []string {
	if len(field.Names) > 0 {
		res := make([]string, len(field.Names))
		for i, name := range field.Names {
			res[i] = name.Name
		}
		return res
	}

	// Embedded fields are named after their type
	expr := field.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch x := expr.(type) {
	case *ast.IndexExpr:
		expr = x.X
	case *ast.IndexListExpr:
		expr = x.X
	}
	switch x := expr.(type) {
	case *ast.Ident:
		return []string{x.Name}
	case *ast.SelectorExpr:
		return []string{x.Sel.Name}
	}
	return nil
}
