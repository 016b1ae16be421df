package engine

import "github.com/stepflow-lang/stepflow/runtime/path"

// The path-oriented steps share the deep-path accessor in runtime/path.
// Their first collected value is a path description (a single key, or a list
// of keys and argument lists); see path.FromSpec.
//
// Path resolution faults propagate as panics from the point where the run's
// output is demanded, per the engine's fault contract: the rest of that
// run's output is aborted, tokens already consumed stay valid.

// Get reads a path. With no further values it reads off the scope; with
// further object values it reads the same path off each, emitting one
// result per object.
type Get struct {
	Base
}

// NewGet returns a path-reading step.
func NewGet(priority Priority) *Get {
	return &Get{Base{priority: priority}}
}

func (g *Get) RunWith(env *Environment, collected []Token) Cursor {
	if len(collected) == 0 {
		return Empty()
	}
	p := path.FromSpec(collected[0].Payload())
	targets := collected[1:]

	if len(targets) == 0 {
		return Values(mustPath(path.Get(env.Scope, p)))
	}
	out := make([]Token, len(targets))
	for i, t := range targets {
		out[i] = Val(mustPath(path.Get(t.Payload(), p)))
	}
	return Tokens(out...)
}

// Set writes a path. One collected value replaces the scope outright; two
// write path = value on the scope; three or more write the same path and
// value on each further target object. The written value is emitted once
// per write.
type Set struct {
	Base
}

// NewSet returns a path-writing step.
func NewSet(priority Priority) *Set {
	return &Set{Base{priority: priority}}
}

func (s *Set) RunWith(env *Environment, collected []Token) Cursor {
	switch len(collected) {
	case 0:
		return Empty()
	case 1:
		env.Scope = collected[0].Payload()
		return Values(env.Scope)
	}

	p := path.FromSpec(collected[0].Payload())
	val := collected[1].Payload()

	if len(collected) == 2 {
		mustPathErr(path.Set(env.Scope, p, val))
		return Values(val)
	}
	out := make([]Token, 0, len(collected)-2)
	for _, t := range collected[2:] {
		mustPathErr(path.Set(t.Payload(), p, val))
		out = append(out, Val(val))
	}
	return Tokens(out...)
}

// Invoke calls a method path. Path only: invoked on the scope with no
// arguments. Path plus argument list: invoked on the scope with those
// arguments. With explicit targets: invoked on each, emitting one result
// per target.
type Invoke struct {
	Base
}

// NewInvoke returns a method-calling step.
func NewInvoke(priority Priority) *Invoke {
	return &Invoke{Base{priority: priority}}
}

func (c *Invoke) RunWith(env *Environment, collected []Token) Cursor {
	if len(collected) == 0 {
		return Empty()
	}
	p := path.FromSpec(collected[0].Payload())

	var args []any
	if len(collected) >= 2 {
		args = argList(collected[1].Payload())
	}
	if len(collected) <= 2 {
		return Values(mustPath(path.Invoke(env.Scope, p, args)))
	}
	out := make([]Token, 0, len(collected)-2)
	for _, t := range collected[2:] {
		out = append(out, Val(mustPath(path.Invoke(t.Payload(), p, args))))
	}
	return Tokens(out...)
}

// Del deletes a path from the scope, or from each further target object.
// With no collected values at all, the scope itself is dropped.
type Del struct {
	Base
}

// NewDel returns a path-deleting step.
func NewDel(priority Priority) *Del {
	return &Del{Base{priority: priority}}
}

func (d *Del) RunWith(env *Environment, collected []Token) Cursor {
	if len(collected) == 0 {
		env.Scope = nil
		return Empty()
	}
	p := path.FromSpec(collected[0].Payload())
	if len(collected) == 1 {
		mustPathErr(path.Delete(env.Scope, p))
		return Empty()
	}
	for _, t := range collected[1:] {
		mustPathErr(path.Delete(t.Payload(), p))
	}
	return Empty()
}

func argList(v any) []any {
	switch a := v.(type) {
	case nil:
		return nil
	case []any:
		return a
	case []Token:
		return payloads(a)
	default:
		return []any{a}
	}
}

func mustPath(v any, err error) any {
	mustPathErr(err)
	return v
}

func mustPathErr(err error) {
	if err != nil {
		panic(err)
	}
}
