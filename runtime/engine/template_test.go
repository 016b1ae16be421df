package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestTemplateSplicesSlots verifies slot values land at their mapped
// indexes and Append lands after the base tokens.
func TestTemplateSplicesSlots(t *testing.T) {
	pipe := NewPipe(Break)
	inc := Func(func(args ...any) any { return args[0].(int) + 1 })

	tmpl := NewTemplate(
		[]Token{Op(pipe)},
		map[string]int{"fn": 1, "extra": Append},
	)

	step, err := tmpl.Run([]Slot{
		{Name: "fn", Token: Val(inc)},
	}, Break)
	require.NoError(t, err)

	// The alias behaves like authoring [pipe, inc] directly.
	p := New([]Token{Op(step)})
	if got := p.Call(4); got != 5 {
		t.Errorf("Call(4) = %v, want 5", got)
	}
}

// TestTemplateAliasEquivalence verifies a template-produced alias matches
// the directly authored sequence it expands to.
func TestTemplateAliasEquivalence(t *testing.T) {
	pipe := NewPipe(Break)
	f := Func(func(args ...any) any { return args[0].(int) * 2 })
	g := Func(func(args ...any) any { return args[0].(int) - 1 })

	tmpl := NewTemplate([]Token{Op(pipe), Val(f)}, map[string]int{"next": Append})
	step, err := tmpl.Run([]Slot{{Name: "next", Token: Val(g)}}, Break)
	require.NoError(t, err)

	direct := New([]Token{Op(pipe), Val(f), Val(g)})
	aliased := New([]Token{Op(step)})

	if want, got := direct.Call(10), aliased.Call(10); got != want {
		t.Errorf("aliased Call(10) = %v, direct = %v", got, want)
	}
}

// TestTemplateSameIndexOrder verifies that when two slots map to the same
// index, the later insertion lands before the earlier one: each splice
// shifts what was already inserted.
func TestTemplateSameIndexOrder(t *testing.T) {
	tmpl := NewTemplate(
		[]Token{Op(NewBase(Break))},
		map[string]int{"a": 1, "b": 1},
	)

	step, err := tmpl.Run([]Slot{
		{Name: "a", Token: Val("a")},
		{Name: "b", Token: Val("b")},
	}, Break)
	require.NoError(t, err)

	got := DrainValues(New([]Token{Op(step)}).Gen())
	if diff := cmp.Diff([]any{"b", "a"}, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateUnknownSlot(t *testing.T) {
	tmpl := NewTemplate([]Token{Op(NewBase(Break))}, map[string]int{"known": Append})

	_, err := tmpl.Run([]Slot{{Name: "mystery", Token: Val(1)}}, Break)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mystery")
}

// TestTemplateRunsAreIndependent verifies one template stamps out aliases
// that do not share spliced state.
func TestTemplateRunsAreIndependent(t *testing.T) {
	tmpl := NewTemplate([]Token{Op(NewBase(Break))}, map[string]int{"v": Append})

	s1, err := tmpl.Run([]Slot{{Name: "v", Token: Val(1)}}, Break)
	require.NoError(t, err)
	s2, err := tmpl.Run([]Slot{{Name: "v", Token: Val(2)}}, Break)
	require.NoError(t, err)

	got1 := DrainValues(New([]Token{Op(s1)}).Gen())
	got2 := DrainValues(New([]Token{Op(s2)}).Gen())

	if diff := cmp.Diff([]any{1}, got1); diff != "" {
		t.Errorf("first alias mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2}, got2); diff != "" {
		t.Errorf("second alias mismatch (-want +got):\n%s", diff)
	}
}
