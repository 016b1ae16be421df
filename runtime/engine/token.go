// Package engine implements the Process/Step token evaluation core.
//
// A Process rewrites a flat sequence of tokens using composable Step
// operators. Steps collect the tokens that follow them and rewrite the
// collection through a pluggable rule; precedence between steps is resolved
// by a pull/propagate protocol rather than a parse tree (see step.go).
package engine

// TokenKind discriminates the token variants the interpreter switches on.
// Tokens are tagged at construction; the engine never shape-sniffs payloads.
type TokenKind uint8

const (
	// KindValue is a plain value token, including nested lazy sequences.
	KindValue TokenKind = iota
	// KindLiteral is a value token that is never invoked, even where a
	// variant would treat a Func payload as callable.
	KindLiteral
	// KindStep is an operator token.
	KindStep
	// KindCloser is a termination request, optionally addressed to a Step.
	KindCloser
)

// Token is one element of the interpreter's input and output sequences.
// Exactly one payload field is meaningful, selected by Kind.
type Token struct {
	Kind   TokenKind
	Value  any    // KindValue, KindLiteral
	Step   Step   // KindStep
	Target Step   // KindCloser; nil means unaddressed
}

// Func is the function shape the Pipe and With variants invoke.
// Wrap a Func in Lit to carry it through a sequence uninvoked.
type Func func(args ...any) any

// Val builds a plain value token.
func Val(v any) Token { return Token{Kind: KindValue, Value: v} }

// Lit builds a literal token: a value the variants never invoke.
func Lit(v any) Token { return Token{Kind: KindLiteral, Value: v} }

// Op builds a step token.
func Op(s Step) Token { return Token{Kind: KindStep, Step: s} }

// Close builds an unaddressed closer; it ends the nearest collecting step.
func Close() Token { return Token{Kind: KindCloser} }

// CloseFor builds a closer addressed to s; it propagates up until it reaches
// that step's collection.
func CloseFor(s Step) Token { return Token{Kind: KindCloser, Target: s} }

// Payload returns the value a rewrite rule should see for this token.
func (t Token) Payload() any {
	switch t.Kind {
	case KindValue, KindLiteral:
		return t.Value
	case KindStep:
		return t.Step
	default:
		return nil
	}
}

// callable returns the token's Func payload, or nil when the token must not
// be invoked (non-Func values and Lit-wrapped functions).
func (t Token) callable() Func {
	if t.Kind != KindValue {
		return nil
	}
	switch fn := t.Value.(type) {
	case Func:
		return fn
	case func(args ...any) any:
		return fn
	}
	return nil
}

// payloads projects a collection to its payload values.
func payloads(toks []Token) []any {
	vals := make([]any, len(toks))
	for i, t := range toks {
		vals[i] = t.Payload()
	}
	return vals
}
