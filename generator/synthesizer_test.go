package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesizeSource(t *testing.T, src string, opts ...Option) (*run, []actorData, *declarations) {
	t.Helper()

	r, file := newTestRun(t, src, opts...)
	decls := scan(file)
	actors := r.synthesize(decls, r.resolve(decls, r.processMessageSets(decls)))
	r.checkImports(file, decls, len(actors) > 0)
	return r, actors, decls
}

func TestSynthesize(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		r, actors, decls := synthesizeSource(t, fooSource)
		require.Len(t, actors, 1)

		a := actors[0]
		assert.Equal(t, "ActorFoo", a.Handle)
		assert.Equal(t, "NewActorFoo", a.Constructor)
		assert.Equal(t, "newFoo", a.StateConstructor)
		assert.Equal(t, "releaseFooMsg", a.Release)
		assert.Equal(t, "run", a.Run)
		assert.Equal(t, "receiver", a.ReceiverField)
		assert.Equal(t, "Resp", a.ReplyField)
		assert.Equal(t, "process", a.Handler)
		assert.Equal(t, "actor", a.Runtime)

		td, _ := decls.Lookup("Foo")
		st, _ := td.Struct()
		assert.Equal(t, []string{"data map[string]int", "receiver *actor.Receiver[FooMsg]"}, structFields(r.fset, st))
		assert.Empty(t, r.diags.diags)
	})

	t.Run("unexported state", func(t *testing.T) {
		src := strings.NewReplacer(
			"FooMsg", "fooMsg",
			"type Foo struct", "type foo struct",
			"(f *Foo)", "(f *foo)",
		).Replace(fooSource)
		// The marker method must not collide with the interface's name
		src = strings.ReplaceAll(src, "fooMsg()", "isFoo()")

		r, actors, _ := synthesizeSource(t, src)
		require.Len(t, actors, 1, "%v", r.diags.diags)
		assert.Equal(t, "ActorFoo", actors[0].Handle)
		assert.Equal(t, "newFoo", actors[0].StateConstructor)
		assert.Equal(t, "releaseFooMsg", actors[0].Release)
	})

	t.Run("missing handler", func(t *testing.T) {
		src := strings.ReplaceAll(fooSource, "func (f *Foo) process(", "func (f *Foo) handle(")

		r, actors, _ := synthesizeSource(t, src)
		require.Len(t, actors, 1)

		diags := Diagnostics(r.diags.diags)
		require.Len(t, diags, 1)
		assert.Equal(t, CodeMissingHandler, diags[0].Code)
		assert.Equal(t, SeverityWarning, diags[0].Severity)
	})

	collisions := []struct {
		name   string
		extra  string
		code   Code
		substr string
	}{
		{name: "handle type", extra: "type ActorFoo struct{}", code: CodeNameCollision, substr: "ActorFoo"},
		{name: "state constructor", extra: "func newFoo() *Foo { return nil }", code: CodeNameCollision, substr: "newFoo"},
		{name: "release function", extra: "var releaseFooMsg = 1", code: CodeNameCollision, substr: "releaseFooMsg"},
		{name: "run method", extra: "func (f *Foo) run() {}", code: CodeNameCollision, substr: "cannot add run"},
		{name: "receiver field", extra: "func (f Foo) receiver() {}", code: CodeNameCollision, substr: "cannot add receiver"},
		{name: "handle method", extra: "type Clone struct{ Resp int }\n\nfunc (*Clone) fooMsg() {}", code: CodeNameCollision, substr: "every handle has"},
		{name: "two variants", extra: "type Foo_get struct{ Resp int }\n\nfunc (*Foo_get) fooMsg() {}", code: CodeNameCollision, substr: "method for variant Get"},
		{name: "runtime package name", extra: "var actor = 1", code: CodeNameCollision, substr: "identifier actor"},
		{name: "context package name", extra: "const context = 1", code: CodeNameCollision, substr: "identifier context"},
	}
	for _, tt := range collisions {
		t.Run("collision with "+tt.name, func(t *testing.T) {
			r, _, _ := synthesizeSource(t, fooSource+"\n"+tt.extra+"\n")

			errs := Diagnostics(r.diags.diags).Filter(SeverityError)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Contains(t, errs[0].Message, tt.substr)
		})
	}

	t.Run("states are not changed when the actor is skipped", func(t *testing.T) {
		r, actors, decls := synthesizeSource(t, fooSource+"\ntype ActorFoo struct{}\n")
		assert.Empty(t, actors)

		td, _ := decls.Lookup("Foo")
		st, _ := td.Struct()
		assert.Equal(t, []string{"data map[string]int"}, structFields(r.fset, st))
	})

	t.Run("conflicting imports", func(t *testing.T) {
		src := strings.Replace(fooSource, `import "context"`, `import (
	"context"

	actor "example.com/other"
	rt "github.com/italypaleale/actorgen/actor"
)`, 1)

		r, _, _ := synthesizeSource(t, src)
		errs := Diagnostics(r.diags.diags).Filter(SeverityError)
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Message, `"example.com/other" is imported as actor`)
		assert.Contains(t, errs[1].Message, "must be imported without a name or as actor")
	})

	t.Run("explicit link wins over the name", func(t *testing.T) {
		src := fooSource + `
//actorgen:messages FooMsg
type Other struct{}
`
		r, actors, _ := synthesizeSource(t, src)
		require.Len(t, actors, 1)
		assert.Equal(t, "Other", actors[0].State)
		assert.Len(t, Diagnostics(r.diags.diags).ByCode(CodeMissingHandler), 1)
	})

	t.Run("actors don't collide with each other", func(t *testing.T) {
		src := fooSource + `
type OtherMsg interface{ otherMsg() }

type Ping struct{ Resp int }

func (*Ping) otherMsg() {}

//actorgen:messages OtherMsg
type foo struct{}

func (f *foo) process(ctx context.Context, msg OtherMsg) {}
`
		r, actors, _ := synthesizeSource(t, src)
		require.Len(t, actors, 1)
		assert.Equal(t, "Foo", actors[0].State)

		errs := Diagnostics(r.diags.diags).Filter(SeverityError)
		require.Len(t, errs, 3)
		for _, e := range errs {
			assert.Equal(t, CodeNameCollision, e.Code)
			assert.Contains(t, e.Message, "also generated for state Foo")
		}
	})
}
