package engine

import "github.com/stepflow-lang/stepflow/core/invariant"

// Priority controls how a step behaves when encountered during another
// step's collection.
type Priority uint8

const (
	// Break steps cut off the current and all enclosing unresolved
	// collections, then take over as the next top-level operator.
	Break Priority = iota
	// Fold steps are evaluated inline, depth-first, and their output is
	// folded into the enclosing collection.
	Fold
)

// Step is a reusable operator. Steps are normally stateless singletons safe
// to share across many Processes; parametrized variants hold only fixed
// construction-time data.
//
// RunWith is the pluggable rewrite rule: it receives the collected tokens
// and returns the tokens the step emits in their place.
type Step interface {
	Priority() Priority
	RunWith(env *Environment, collected []Token) Cursor
}

// termination is the discriminated result of a collection phase. A nil by is
// a clean stop; otherwise by names the step the terminator is addressed to
// and must be resolved by the caller once the step's output is exhausted.
//
// Threading termination through return values keeps Step instances free of
// transient run state, so one instance can participate in overlapping runs.
type termination struct {
	by Step
}

// collect pulls tokens for s from env.Cursor until the collection ends.
//
// Closers and Break steps end collection: addressed to s (or unaddressed),
// the stop is clean; addressed elsewhere, the target propagates out through
// the termination. Fold steps run nested immediately and their entire output
// is folded into the collection. Everything else is collected as-is.
func collect(s Step, env *Environment) ([]Token, termination) {
	invariant.NotNil(s, "step")
	invariant.NotNil(env.Cursor, "environment cursor")

	var values []Token
	for {
		tok, ok := env.Cursor.Next()
		if !ok {
			return values, termination{}
		}

		switch tok.Kind {
		case KindCloser:
			if tok.Target == nil || tok.Target == s {
				return values, termination{}
			}
			return values, termination{by: tok.Target}

		case KindStep:
			next := tok.Step
			if next.Priority() == Break {
				if next == s {
					return values, termination{}
				}
				return values, termination{by: next}
			}
			out, term := runNested(next, env)
			values = append(values, out...)
			if term.by != nil {
				if term.by == s {
					// Addressed to this step: swallowed, collection ends.
					return values, termination{}
				}
				// Addressed elsewhere: re-propagate unchanged.
				return values, term
			}

		default:
			values = append(values, tok)
		}
	}
}

// runNested evaluates a Fold step synchronously: collection, rewrite, and a
// full drain of its output. Any termination left over from its collection
// bubbles back to the caller unresolved.
func runNested(s Step, env *Environment) ([]Token, termination) {
	values, term := collect(s, env)
	return Drain(s.RunWith(env, values)), term
}

// runCursor drives a chain of top-level step runs lazily. Each step's
// collection happens when its first output token is demanded; when a run's
// output is exhausted, the termination it left behind selects the step that
// continues the sequence.
type runCursor struct {
	env  *Environment
	next Step
	out  Cursor
}

func (r *runCursor) Next() (Token, bool) {
	for {
		if r.out != nil {
			if tok, ok := r.out.Next(); ok {
				return tok, true
			}
			r.out = nil
		}
		if r.next == nil {
			return Token{}, false
		}
		s := r.next
		r.next = nil
		values, term := collect(s, r.env)
		r.out = s.RunWith(r.env, values)
		r.next = term.by
	}
}

// Base is the identity step: it re-yields every collected token unchanged.
// It also serves as the embeddable default for variants that only override
// the rewrite rule.
type Base struct {
	priority Priority
}

// NewBase returns an identity step with the given priority.
func NewBase(priority Priority) *Base {
	return &Base{priority: priority}
}

// Priority reports whether the step cuts (Break) or folds (Fold).
func (b *Base) Priority() Priority { return b.priority }

// RunWith re-yields the collection unchanged.
func (b *Base) RunWith(env *Environment, collected []Token) Cursor {
	return Tokens(collected...)
}
