package generator

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"text/template"
)

// Declarations emitted for every actor, before its accessors.
const handleTemplateText = `// {{.Handle}} is a handle to a {{.State}} actor.
// It's safe for concurrent use, and Clone returns another handle to the same actor.
type {{.Handle}} struct {
	sender *{{.Runtime}}.Sender[{{.MessageSet}}]
}

// {{.Constructor}} creates a {{.State}} actor, starts its worker, and returns a handle to it without waiting for the worker to start.
// The worker stops after all handles are closed and the messages already sent are processed, or when ctx is canceled.
func {{.Constructor}}(ctx context.Context, opts ...{{.Runtime}}.SpawnOption) *{{.Handle}} {
	sender, receiver := {{.Runtime}}.NewMailbox[{{.MessageSet}}]({{.Release}})
	state := {{.StateConstructor}}(receiver)
	{{.Runtime}}.Spawn(ctx, {{printf "%q" .State}}, state.{{.Run}}, opts...)
	return &{{.Handle}}{ sender: sender }
}

// Clone returns a new handle to the same actor.
// Each handle must be closed on its own.
func (a *{{.Handle}}) Clone() *{{.Handle}} {
	return &{{.Handle}}{ sender: a.sender.Clone() }
}

// Close closes the handle.
// Calling Close more than once is a no-op.
func (a *{{.Handle}}) Close() {
	a.sender.Close()
}

// Send sends any message to the actor without waiting for it to be processed.
// Unlike the typed methods, it doesn't check the message's type nor touch its reply slot.
func (a *{{.Handle}}) Send(msg {{.MessageSet}}) error {
	return a.sender.Send(msg)
}
`

// Declarations emitted for every actor, after its accessors.
const stateTemplateText = `func {{.StateConstructor}}(receiver *{{.Runtime}}.Receiver[{{.MessageSet}}]) *{{.State}} {
	return &{{.State}}{ {{.ReceiverField}}: receiver }
}

// {{.Run}} is the worker's dispatch loop.
// It hands messages to {{.Handler}} one at a time, in the order they were received.
func (s *{{.State}}) {{.Run}}(ctx context.Context) {
	defer s.{{.ReceiverField}}.Close()
	for {
		msg, ok := s.{{.ReceiverField}}.Recv(ctx)
		if !ok {
			return
		}
		s.{{.Handler}}(ctx, msg)
		s.{{.ReceiverField}}.Release(msg)
	}
}

// {{.Release}} closes the reply slot of a message if it's still open.
func {{.Release}}(msg {{.MessageSet}}) {
	switch m := msg.(type) {
{{- range .Requests}}
	case {{.VariantType}}:
{{- if .Pointer}}
		if m != nil {
			m.{{$.ReplyField}}.Close()
		}
{{- else}}
		m.{{$.ReplyField}}.Close()
{{- end}}
{{- end}}
	}
}
`

var (
	handleTemplate = template.Must(template.New("handle").Parse(handleTemplateText))
	stateTemplate  = template.Must(template.New("state").Parse(stateTemplateText))
)

// renderActor returns the source of all declarations emitted for an actor.
func renderActor(data actorData) ([]byte, error) {
	var buf bytes.Buffer

	err := handleTemplate.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render handle: %w", err)
	}

	for _, req := range data.Requests {
		buf.WriteByte('\n')
		err = renderAccessors(&buf, data, req)
		if err != nil {
			return nil, fmt.Errorf("failed to render accessors for %s: %w", req.Variant, err)
		}
	}

	buf.WriteByte('\n')
	err = stateTemplate.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render state: %w", err)
	}

	// Catch problems here, where we can tell which actor they belong to
	_, err = parser.ParseFile(token.NewFileSet(), "", "package p\n\n"+buf.String(), parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("rendered code is not valid Go: %w", err)
	}

	return buf.Bytes(), nil
}
