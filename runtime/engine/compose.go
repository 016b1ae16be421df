package engine

// Pipe threads one evolving single-element argument list through the
// collection. Each function token is invoked with the current list and its
// result becomes the next list; a non-function token resets the list to that
// value. The final list is emitted: Process([Pipe, f, g, h]).Call(x) is
// h(g(f(x))).
type Pipe struct {
	Base
}

// NewPipe returns a pipe-composition step.
func NewPipe(priority Priority) *Pipe {
	return &Pipe{Base{priority: priority}}
}

func (p *Pipe) RunWith(env *Environment, collected []Token) Cursor {
	current := append([]any(nil), env.Args...)
	for _, tok := range collected {
		if fn := tok.callable(); fn != nil {
			current = []any{fn(current...)}
			continue
		}
		current = []any{tok.Payload()}
	}
	switch len(current) {
	case 0:
		return Empty()
	case 1:
		return Values(current[0])
	default:
		return Tokens(Val(current))
	}
}

// With calls each function token with (scope, args, pending...) where
// pending holds the non-function values accumulated since the last call.
// Nested sequences flatten into pending immediately. The last non-nil call
// result is emitted.
type With struct {
	Base
}

// NewWith returns a scope-threading application step.
func NewWith(priority Priority) *With {
	return &With{Base{priority: priority}}
}

func (w *With) RunWith(env *Environment, collected []Token) Cursor {
	var pending []any
	var last any
	produced := false

	for _, tok := range collected {
		if fn := tok.callable(); fn != nil {
			callArgs := append([]any{env.Scope, env.Args}, pending...)
			pending = nil
			if res := fn(callArgs...); res != nil {
				last = res
				produced = true
			}
			continue
		}
		v := tok.Payload()
		if seq, ok := sequenceOf(v); ok {
			for _, el := range seq {
				pending = append(pending, el.Payload())
			}
			continue
		}
		pending = append(pending, v)
	}

	if !produced {
		return Empty()
	}
	return Values(last)
}

// Interp is a caller-supplied rewrite rule: the escape hatch for operators
// the built-in variants don't cover. Returning nil emits nothing.
type Interp func(collected []Token, env *Environment) Cursor

// Custom delegates its rewrite entirely to an Interp.
type Custom struct {
	Base
	interp Interp
}

// NewCustom returns a step whose rewrite rule is interp.
func NewCustom(interp Interp, priority Priority) *Custom {
	return &Custom{Base: Base{priority: priority}, interp: interp}
}

func (c *Custom) RunWith(env *Environment, collected []Token) Cursor {
	out := c.interp(collected, env)
	if out == nil {
		return Empty()
	}
	return out
}

// Null emits nothing. Collected Fold steps still run, so Null silences the
// output of side-effecting steps without suppressing their effects.
type Null struct {
	Base
}

// NewNull returns an output-suppressing step.
func NewNull(priority Priority) *Null {
	return &Null{Base{priority: priority}}
}

func (n *Null) RunWith(env *Environment, collected []Token) Cursor {
	return Empty()
}

// Early holds a fixed prefix token list. On run it builds a fresh nested
// Process from prefix followed by the collected tokens and evaluates it
// against the enclosing run's scope and args, re-emitting its output. It is
// the aliasing primitive Template builds on.
type Early struct {
	Base
	prefix []Token
}

// NewEarly returns an aliasing step over a copy of prefix.
func NewEarly(prefix []Token, priority Priority) *Early {
	toks := make([]Token, len(prefix))
	copy(toks, prefix)
	return &Early{Base: Base{priority: priority}, prefix: toks}
}

func (e *Early) RunWith(env *Environment, collected []Token) Cursor {
	toks := make([]Token, 0, len(e.prefix)+len(collected))
	toks = append(toks, e.prefix...)
	toks = append(toks, collected...)
	return New(toks).GenWith(env.Scope, env.Args...)
}
