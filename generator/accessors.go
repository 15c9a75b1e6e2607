package generator

import (
	"io"
	"text/template"
)

// Methods emitted on the handle for every request.
const accessorsTemplateText = `// {{.Req.Method}} sends a {{.Req.VariantType}} message to the actor and waits for the reply.
// If ctx is done before the reply arrives, it returns an error wrapping {{.Runtime}}.ErrTimeout.
func (a *{{.Handle}}) {{.Req.Method}}(ctx context.Context, msg {{.MessageSet}}) ({{.Req.ReplyType}}, error) {
	m, ok := msg.({{.Req.VariantType}})
	if !ok{{if .Req.Pointer}} || m == nil{{end}} {
		var zero {{.Req.ReplyType}}
		return zero, {{.Runtime}}.InvalidMessageType({{printf "%q" .Req.VariantType}}, msg)
	}
	m.{{.ReplyField}} = {{.Runtime}}.NewReply[{{.Req.ReplyType}}]()
	return {{.Runtime}}.Call[{{.MessageSet}}](ctx, a.sender, m, m.{{.ReplyField}})
}

// {{.Req.NoWaitMethod}} sends a {{.Req.VariantType}} message to the actor without waiting for it to be processed.
// The message is sent without a reply slot.
func (a *{{.Handle}}) {{.Req.NoWaitMethod}}(msg {{.MessageSet}}) error {
	m, ok := msg.({{.Req.VariantType}})
	if !ok{{if .Req.Pointer}} || m == nil{{end}} {
		return {{.Runtime}}.InvalidMessageType({{printf "%q" .Req.VariantType}}, msg)
	}
	m.{{.ReplyField}} = nil
	return a.sender.Send(m)
}
`

var accessorsTemplate = template.Must(template.New("accessors").Parse(accessorsTemplateText))

type accessorsData struct {
	Handle     string
	MessageSet string
	Runtime    string
	ReplyField string
	Req        Request
}

// renderAccessors writes the round-trip and fire-and-forget methods for a request.
func renderAccessors(w io.Writer, data actorData, req Request) error {
	return accessorsTemplate.Execute(w, accessorsData{
		Handle:     data.Handle,
		MessageSet: data.MessageSet,
		Runtime:    data.Runtime,
		ReplyField: data.ReplyField,
		Req:        req,
	})
}
