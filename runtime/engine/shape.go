package engine

import "sort"

// Args emits entries of the run's fixed argument list. Collected numeric
// values select individual entries; with nothing numeric collected, every
// entry is emitted in order. Out-of-range indexes emit nil.
type Args struct {
	Base
}

// NewArgs returns an argument-extraction step.
func NewArgs(priority Priority) *Args {
	return &Args{Base{priority: priority}}
}

func (a *Args) RunWith(env *Environment, collected []Token) Cursor {
	var idxs []int
	for _, tok := range collected {
		if i, ok := intValue(tok.Payload()); ok {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return Values(env.Args...)
	}
	out := make([]Token, len(idxs))
	for n, i := range idxs {
		if i >= 0 && i < len(env.Args) {
			out[n] = Val(env.Args[i])
		} else {
			out[n] = Val(nil)
		}
	}
	return Tokens(out...)
}

// Many spreads one collected sequence-valued token into multiple emitted
// tokens. A keyed object instead emits one [key, value] pair per entry, in
// sorted key order. Anything else passes through unchanged.
type Many struct {
	Base
}

// NewMany returns a spreading step.
func NewMany(priority Priority) *Many {
	return &Many{Base{priority: priority}}
}

func (m *Many) RunWith(env *Environment, collected []Token) Cursor {
	if len(collected) == 0 {
		return Empty()
	}
	v := collected[0].Payload()

	// A cursor payload stays lazy: it is handed through as the output.
	if c, ok := v.(Cursor); ok {
		return c
	}
	if seq, ok := sequenceOf(v); ok {
		return Tokens(seq...)
	}
	if obj, ok := v.(map[string]any); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Token, len(keys))
		for i, k := range keys {
			out[i] = Val([]any{k, obj[k]})
		}
		return Tokens(out...)
	}
	return Tokens(collected[0])
}

// One packages the whole collection into a single aggregate token: the
// inverse of Many for flat sequences.
type One struct {
	Base
}

// NewOne returns a collecting step.
func NewOne(priority Priority) *One {
	return &One{Base{priority: priority}}
}

func (o *One) RunWith(env *Environment, collected []Token) Cursor {
	return Tokens(Val(payloads(collected)))
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
