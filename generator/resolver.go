package generator

import (
	"log/slog"
)

const directiveMessages = "messages"

// pairing joins a message set with the state of its actor.
type pairing struct {
	MessageSet *messageSet
	State      *typeDecl
	// Explicit is true if the state declared its message set with a directive
	Explicit bool
}

// resolve pairs every message set with its state.
// A state names its message set explicitly with the "//actorgen:messages FooMsg" directive in its doc comment; otherwise, the message set "FooMsg" is paired with the state "Foo".
// Pairings are returned in the order the message sets are declared.
func (r *run) resolve(decls *declarations, sets []*messageSet) []pairing {
	byName := make(map[string]*messageSet, len(sets))
	for _, ms := range sets {
		byName[ms.Name] = ms
	}

	states := make(map[*messageSet]*typeDecl, len(sets))
	explicit := map[*typeDecl]bool{}

	// Explicit links first, so they take precedence over the naming convention
	for _, t := range decls.Types {
		arg, pos, ok := directive(t.Doc, directiveMessages)
		if !ok {
			continue
		}

		if t.Kind != declState {
			r.diags.report(pos, SeverityError, CodeStateNotStruct,
				"type %s declares a message set but it's not a struct", t.Name)
			continue
		}

		ms, ok := byName[arg]
		if !ok {
			r.diags.report(pos, SeverityError, CodeUnknownMessageSet,
				"state %s declares the message set %q which is not a sealed interface in this file", t.Name, arg)
			continue
		}

		prev, ok := states[ms]
		if ok {
			r.diags.report(pos, SeverityError, CodeDuplicatePairing,
				"state %s declares the message set %s, which is already used by %s", t.Name, ms.Name, prev.Name)
			continue
		}

		states[ms] = t
		explicit[t] = true
	}

	// Naming convention
	for _, ms := range sets {
		if states[ms] != nil {
			continue
		}

		t, ok := decls.Lookup(ms.Actor)
		if !ok || explicit[t] {
			continue
		}
		if t.Kind != declState {
			r.diags.report(t.Spec.Name.Pos(), SeverityWarning, CodeStateNotStruct,
				"type %s matches the message set %s but it's not a struct", t.Name, ms.Name)
			continue
		}
		states[ms] = t
	}

	res := make([]pairing, 0, len(sets))
	for _, ms := range sets {
		t := states[ms]
		if t == nil {
			r.diags.report(ms.decl.Spec.Name.Pos(), SeverityWarning, CodeOrphanMessageSet,
				"message set %s has no state: declare a struct named %s or add the directive //actorgen:%s %s to a struct", ms.Name, ms.Actor, directiveMessages, ms.Name)
			continue
		}
		if ms.Requests.Len() == 0 {
			r.diags.report(ms.decl.Spec.Name.Pos(), SeverityWarning, CodeEmptyRequestTable,
				"message set %s has no variants with a %s field, so no actor is generated for %s", ms.Name, r.opts.ReplyField, t.Name)
			continue
		}

		r.log.Debug("Paired message set with state",
			slog.String("messageSet", ms.Name),
			slog.String("state", t.Name),
			slog.Bool("explicit", explicit[t]),
		)
		res = append(res, pairing{
			MessageSet: ms,
			State:      t,
			Explicit:   explicit[t],
		})
	}

	return res
}
