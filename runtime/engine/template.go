package engine

import "fmt"

// Append is the slot index sentinel that places a value after the base
// tokens instead of splicing it in.
const Append = -1

// Slot is one named insertion for Template.Run. Insertions apply in list
// order; two slots mapped to the same index land with the later one first,
// because each splice shifts what was inserted before it.
type Slot struct {
	Name  string
	Token Token
}

// Template builds parametrized aliases: a fixed base token list plus named
// insertion points. Run splices values into a clone of the base and wraps
// the result as an Early step, so one template stamps out any number of
// independent operators.
type Template struct {
	base  []Token
	slots map[string]int
}

// NewTemplate returns a template over a copy of base. slots maps a slot
// name to its insertion index in base, or to Append.
func NewTemplate(base []Token, slots map[string]int) *Template {
	toks := make([]Token, len(base))
	copy(toks, base)
	m := make(map[string]int, len(slots))
	for name, idx := range slots {
		m[name] = idx
	}
	return &Template{base: toks, slots: m}
}

// Run clones the base, splices each slot value at its mapped index in the
// order given, and returns the result as an Early step with the requested
// priority. Unknown slot names are an error.
func (t *Template) Run(values []Slot, priority Priority) (*Early, error) {
	toks := make([]Token, len(t.base), len(t.base)+len(values))
	copy(toks, t.base)

	for _, sv := range values {
		idx, ok := t.slots[sv.Name]
		if !ok {
			return nil, fmt.Errorf("template has no slot %q", sv.Name)
		}
		if idx == Append || idx >= len(toks) {
			toks = append(toks, sv.Token)
			continue
		}
		if idx < 0 {
			return nil, fmt.Errorf("slot %q has invalid index %d", sv.Name, idx)
		}
		toks = append(toks[:idx], append([]Token{sv.Token}, toks[idx:]...)...)
	}

	return NewEarly(toks, priority), nil
}
