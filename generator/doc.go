// Package generator synthesizes actors from declarations in Go source files.
//
// An actor source file declares message sets and states. A message set is a sealed
// interface whose name ends with "Msg"; its variants are the types that implement its
// single unexported marker method. Variants with a "Resp" field are requests: the
// field's type is the type of the reply, and it's rewritten into a reply slot.
//
//	//go:build actorgen
//
//	package counter
//
//	type CounterMsg interface{ counterMsg() }
//
//	type Get struct {
//		Resp int
//	}
//
//	func (*Get) counterMsg() {}
//
//	type Counter struct {
//		value int
//	}
//
//	func (c *Counter) process(ctx context.Context, msg CounterMsg) {
//		switch m := msg.(type) {
//		case *Get:
//			_ = m.Resp.Send(c.value)
//		}
//	}
//
// The state "Counter" is paired with the message set "CounterMsg" because of its name;
// a state can also name its message set explicitly with a directive in its doc comment:
//
//	//actorgen:messages CounterMsg
//	type Tally struct{}
//
// For every pairing, the generated file contains the handle type ActorCounter, the
// constructor NewActorCounter, and on the handle one method that waits for the reply
// (Get) and one that doesn't (GetNoWait) for every request.
//
// Declarations that are skipped are reported as diagnostics.
package generator
