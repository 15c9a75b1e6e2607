package generator

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"log/slog"
	"strings"
)

// Request is a variant of a message set that expects a reply.
type Request struct {
	// Name of the variant's type
	Variant string
	// Pointer is true if the variant is the pointer type, i.e. the marker method has a pointer receiver
	Pointer bool
	// Type of the reply, as written in the source
	ReplyType string
	// Name of the round-trip method
	Method string
	// Name of the fire-and-forget method
	NoWaitMethod string
}

// VariantType returns the variant's type as used in type assertions.
func (r Request) VariantType() string {
	if r.Pointer {
		return "*" + r.Variant
	}
	return r.Variant
}

// RequestTable maps the variants of a message set to the type of their reply.
// Entries are kept in the order they were added.
type RequestTable struct {
	entries []Request
	index   map[string]int
}

func newRequestTable() *RequestTable {
	return &RequestTable{
		index: map[string]int{},
	}
}

// Add adds a request to the table.
// It returns false if a request for the same variant already exists.
func (t *RequestTable) Add(req Request) bool {
	_, ok := t.index[req.Variant]
	if ok {
		return false
	}
	t.index[req.Variant] = len(t.entries)
	t.entries = append(t.entries, req)
	return true
}

// Lookup returns the request for a variant.
func (t *RequestTable) Lookup(variant string) (Request, bool) {
	i, ok := t.index[variant]
	if !ok {
		return Request{}, false
	}
	return t.entries[i], true
}

// Entries returns the requests in the table.
func (t *RequestTable) Entries() []Request {
	return t.entries
}

// Len returns the number of requests in the table.
func (t *RequestTable) Len() int {
	return len(t.entries)
}

// messageSet is a sealed interface whose name ends with the message-set suffix.
type messageSet struct {
	decl *typeDecl
	// Name of the interface
	Name string
	// Logical name of the actor, i.e. Name without the suffix
	Actor string
	// Name of the marker method that seals the interface
	Marker string
	// Variants that expect a reply
	Requests *RequestTable
	// Variants that don't expect a reply, which can only be delivered with the handle's Send method
	Controls []string
}

// processMessageSets finds the message sets in the file, builds their request tables, and rewrites the reply fields of their variants into reply slots.
// Message sets are returned in the order they are declared.
func (r *run) processMessageSets(decls *declarations) []*messageSet {
	var sets []*messageSet
	for _, t := range decls.OfKind(declMessageSet) {
		iface := t.Spec.Type.(*ast.InterfaceType)
		marker, sealed := sealedMarker(iface)

		actorName, hasSuffix := strings.CutSuffix(t.Name, r.opts.MessageSuffix)
		if !hasSuffix || actorName == "" {
			// Any interface can appear in the file; we only flag the ones that look like message sets
			if sealed {
				r.diags.report(t.Spec.Name.Pos(), SeverityInfo, CodeMissingSuffix,
					"sealed interface %s is not a message set because its name doesn't end with %q", t.Name, r.opts.MessageSuffix)
			}
			continue
		}

		if !sealed {
			r.diags.report(t.Spec.Name.Pos(), SeverityWarning, CodeNotSealed,
				"message set %s must declare exactly one unexported method with no arguments and no results", t.Name)
			continue
		}

		ms := &messageSet{
			decl:     t,
			Name:     t.Name,
			Actor:    actorName,
			Marker:   marker,
			Requests: newRequestTable(),
		}
		for _, v := range decls.Types {
			if v == t {
				continue
			}
			m, ok := decls.Method(v.Name, marker)
			if !ok {
				continue
			}
			r.processVariant(ms, v, m.Pointer)
		}

		r.log.Debug("Processed message set",
			slog.String("messageSet", ms.Name),
			slog.String("actor", ms.Actor),
			slog.Int("requests", ms.Requests.Len()),
			slog.Int("controls", len(ms.Controls)),
		)
		sets = append(sets, ms)
	}

	return sets
}

func (r *run) processVariant(ms *messageSet, v *typeDecl, pointer bool) {
	st, ok := v.Struct()
	if !ok || !hasNamedFields(st) {
		r.diags.report(v.Spec.Name.Pos(), SeverityInfo, CodeNoNamedFields,
			"variant %s of %s has no named fields; it's a control message without a reply", v.Name, ms.Name)
		ms.Controls = append(ms.Controls, v.Name)
		return
	}

	field := r.replyField(st)
	if field == nil {
		r.diags.report(v.Spec.Name.Pos(), SeverityInfo, CodeNoReplyField,
			"variant %s of %s has no %s field; it's a control message without a reply", v.Name, ms.Name, r.opts.ReplyField)
		ms.Controls = append(ms.Controls, v.Name)
		return
	}

	replyType, rewritten := r.unwrapReplySlot(field.Type)
	if rewritten {
		r.diags.report(field.Pos(), SeverityWarning, CodeAlreadyRewritten,
			"field %s of %s is already a reply slot and was left unchanged", r.opts.ReplyField, v.Name)
	} else {
		replyType = field.Type
		field.Type = r.replySlot(replyType)
	}
	r.usesRuntime = true

	ms.Requests.Add(Request{
		Variant:   v.Name,
		Pointer:   pointer,
		ReplyType: r.exprString(replyType),
	})
}

// replyField returns the reply field of the struct.
// If the field is declared together with other fields (as in "Resp, Other int"), it's split into its own field first.
func (r *run) replyField(st *ast.StructType) *ast.Field {
	for i, field := range st.Fields.List {
		for j, name := range field.Names {
			if name.Name != r.opts.ReplyField {
				continue
			}
			if len(field.Names) == 1 {
				return field
			}

			// Split the field
			reply := &ast.Field{
				Names: []*ast.Ident{name},
				Type:  field.Type,
				Tag:   field.Tag,
			}
			field.Names = append(field.Names[:j:j], field.Names[j+1:]...)
			list := make([]*ast.Field, 0, len(st.Fields.List)+1)
			list = append(list, st.Fields.List[:i+1]...)
			list = append(list, reply)
			list = append(list, st.Fields.List[i+1:]...)
			st.Fields.List = list
			return reply
		}
	}
	return nil
}

// replySlot returns the type expression for a reply slot carrying values of type typ: *actor.Reply[typ].
func (r *run) replySlot(typ ast.Expr) ast.Expr {
	return &ast.StarExpr{
		X: &ast.IndexExpr{
			X: &ast.SelectorExpr{
				X:   ast.NewIdent(r.opts.RuntimeName()),
				Sel: ast.NewIdent("Reply"),
			},
			Index: typ,
		},
	}
}

// unwrapReplySlot returns the type carried by a reply slot, if expr is a reply slot type.
func (r *run) unwrapReplySlot(expr ast.Expr) (ast.Expr, bool) {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return nil, false
	}
	idx, ok := star.X.(*ast.IndexExpr)
	if !ok {
		return nil, false
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Reply" {
		return nil, false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != r.opts.RuntimeName() {
		return nil, false
	}
	return idx.Index, true
}

func (r *run) exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, r.fset, expr)
	return buf.String()
}

// sealedMarker returns the name of the marker method if the interface has exactly one method, unexported, with no parameters and no results.
func sealedMarker(iface *ast.InterfaceType) (string, bool) {
	if iface.Methods == nil || len(iface.Methods.List) != 1 {
		return "", false
	}

	m := iface.Methods.List[0]
	if len(m.Names) != 1 || token.IsExported(m.Names[0].Name) {
		return "", false
	}
	fn, ok := m.Type.(*ast.FuncType)
	if !ok {
		return "", false
	}
	if fn.Params.NumFields() != 0 || fn.Results.NumFields() != 0 {
		return "", false
	}
	return m.Names[0].Name, true
}

func hasNamedFields(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			return true
		}
	}
	return false
}
