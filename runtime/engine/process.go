package engine

import (
	"sort"

	"github.com/stepflow-lang/stepflow/core/invariant"
)

// Process is an immutable driver over a token source. It is safely
// invocable any number of times: every invocation gets a fresh cursor,
// scope, and Environment, so no state leaks between calls.
type Process struct {
	source    func() Cursor
	listScope bool
}

// Option configures a Process at construction.
type Option func(*Process)

// WithListScope makes the auto-created scope list-shaped ([]any) instead of
// the default map shape (map[string]any).
func WithListScope() Option {
	return func(p *Process) { p.listScope = true }
}

// New builds a Process over a fixed token slice. The slice is copied.
func New(tokens []Token, opts ...Option) *Process {
	toks := make([]Token, len(tokens))
	copy(toks, tokens)
	return FromFunc(func() Cursor { return Tokens(toks...) }, opts...)
}

// FromFunc builds a Process over a lazy, possibly infinite token source.
// The source must return a fresh cursor on every call.
func FromFunc(source func() Cursor, opts ...Option) *Process {
	invariant.NotNil(source, "source")
	p := &Process{source: source}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pair is one named token of an ordered key-value source.
type Pair struct {
	Key   string
	Token Token
}

// FromPairs builds a Process over the pair values in list order. The keys
// are carried for the caller's benefit only; evaluation ignores them.
func FromPairs(pairs []Pair, opts ...Option) *Process {
	toks := make([]Token, len(pairs))
	for i, pr := range pairs {
		toks[i] = pr.Token
	}
	return New(toks, opts...)
}

// FromMap builds a Process over the map values in sorted key order. Go maps
// have no enumeration order; callers that need a specific order should use
// FromPairs.
func FromMap(m map[string]Token, opts ...Option) *Process {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	toks := make([]Token, len(keys))
	for i, k := range keys {
		toks[i] = m[k]
	}
	return New(toks, opts...)
}

// Statements returns a fresh cursor over the token source.
func (p *Process) Statements() Cursor {
	return p.source()
}

// FreshScope builds an empty scope of the configured shape.
func (p *Process) FreshScope() any {
	if p.listScope {
		return []any{}
	}
	return map[string]any{}
}

// Gen evaluates the process against a fresh auto-created scope and returns
// the lazy output sequence.
func (p *Process) Gen(args ...any) Cursor {
	return p.GenWith(p.FreshScope(), args...)
}

// GenWith evaluates the process against a caller-supplied scope and returns
// the lazy output sequence.
//
// A source whose first token is not a step yields empty output; that is the
// documented malformed-sequence behavior, not an error.
func (p *Process) GenWith(scope any, args ...any) Cursor {
	env := &Environment{
		Cursor: p.Statements(),
		Scope:  scope,
		Args:   args,
	}
	return p.start(env)
}

// Call evaluates eagerly and returns the first emitted payload, or nil when
// the process emits nothing. Auto-created scope.
func (p *Process) Call(args ...any) any {
	return first(p.Gen(args...))
}

// CallWith is Call with a caller-supplied scope.
func (p *Process) CallWith(scope any, args ...any) any {
	return first(p.GenWith(scope, args...))
}

// start defers the entry-token pull until the first output demand, so even
// fetching from the source counts as a suspension point.
func (p *Process) start(env *Environment) Cursor {
	var inner Cursor
	return CursorFunc(func() (Token, bool) {
		if inner == nil {
			tok, ok := env.Cursor.Next()
			if !ok || tok.Kind != KindStep {
				inner = Empty()
			} else {
				inner = &runCursor{env: env, next: tok.Step}
			}
		}
		return inner.Next()
	})
}

func first(c Cursor) any {
	tok, ok := c.Next()
	if !ok {
		return nil
	}
	return tok.Payload()
}
