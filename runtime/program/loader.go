// Package program loads token programs from YAML documents.
//
// A document names a format version, a scope shape, and an ordered list of
// entries; each entry contributes one token. Documents are validated against
// a JSON Schema before any token is built, so the builder only ever sees
// well-shaped input. This layer is a convenience around the engine: programs
// built directly in Go never pass through here.
package program

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stepflow-lang/stepflow/runtime/engine"
)

// Document is the decoded shape of a program file.
type Document struct {
	Version string  `yaml:"version"`
	Scope   string  `yaml:"scope,omitempty"`
	Program []Entry `yaml:"program"`
}

// Entry is one token of a program document. Exactly one field is set.
type Entry struct {
	Value   *yaml.Node `yaml:"value,omitempty"`
	Literal *yaml.Node `yaml:"literal,omitempty"`
	Step    *StepSpec  `yaml:"step,omitempty"`
	Close   *yaml.Node `yaml:"close,omitempty"` // true, or the id of the addressed step
}

// UnmarshalYAML decodes the node fields by value and keeps pointers only for
// keys that were present. yaml.v3 cannot decode directly into a *yaml.Node
// field: its Node short-circuit checks the destination type before pointers
// are dereferenced, so pointer fields fall through to ordinary struct
// decoding and fail.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	var plain struct {
		Value   yaml.Node `yaml:"value"`
		Literal yaml.Node `yaml:"literal"`
		Step    *StepSpec `yaml:"step"`
		Close   yaml.Node `yaml:"close"`
	}
	if err := node.Decode(&plain); err != nil {
		return err
	}
	e.Step = plain.Step
	if plain.Value.Kind != 0 {
		e.Value = &plain.Value
	}
	if plain.Literal.Kind != 0 {
		e.Literal = &plain.Literal
	}
	if plain.Close.Kind != 0 {
		e.Close = &plain.Close
	}
	return nil
}

// StepSpec describes a step token. In YAML it is either a bare kind name or
// a mapping with kind, priority, id, and (for alias steps) a prefix program.
type StepSpec struct {
	Kind     string  `yaml:"kind"`
	Priority string  `yaml:"priority,omitempty"` // "break" (default) or "fold"
	ID       string  `yaml:"id,omitempty"`
	Prefix   []Entry `yaml:"prefix,omitempty"`
}

// UnmarshalYAML accepts both the scalar shorthand and the full mapping form.
func (s *StepSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.Kind)
	}
	type plain StepSpec
	return node.Decode((*plain)(s))
}

// Program is a loaded, validated program ready to evaluate.
type Program struct {
	Version string
	Scope   string
	Tokens  []engine.Token

	doc *Document
}

// Load reads, validates, and builds a program from r.
func Load(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return Parse(data)
}

// LoadFile is Load over a file path.
func LoadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening program: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Parse validates data against the document schema and builds the tokens.
func Parse(data []byte) (*Program, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	b := &builder{steps: make(map[string]engine.Step)}
	tokens, err := b.build(doc.Program)
	if err != nil {
		return nil, err
	}

	scope := doc.Scope
	if scope == "" {
		scope = "map"
	}
	return &Program{
		Version: doc.Version,
		Scope:   scope,
		Tokens:  tokens,
		doc:     &doc,
	}, nil
}

// Process builds a fresh engine Process over the program's tokens.
func (p *Program) Process() *engine.Process {
	var opts []engine.Option
	if p.Scope == "list" {
		opts = append(opts, engine.WithListScope())
	}
	return engine.New(p.Tokens, opts...)
}

// builder turns entries into tokens, tracking step ids so closers can
// address earlier steps.
type builder struct {
	steps map[string]engine.Step
}

func (b *builder) build(entries []Entry) ([]engine.Token, error) {
	tokens := make([]engine.Token, 0, len(entries))
	for i, e := range entries {
		tok, err := b.token(e)
		if err != nil {
			return nil, fmt.Errorf("program entry %d: %w", i, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (b *builder) token(e Entry) (engine.Token, error) {
	switch {
	case e.Value != nil:
		v, err := decodeNode(e.Value)
		if err != nil {
			return engine.Token{}, err
		}
		return engine.Val(v), nil

	case e.Literal != nil:
		v, err := decodeNode(e.Literal)
		if err != nil {
			return engine.Token{}, err
		}
		return engine.Lit(v), nil

	case e.Step != nil:
		s, err := b.step(e.Step)
		if err != nil {
			return engine.Token{}, err
		}
		return engine.Op(s), nil

	case e.Close != nil:
		var id string
		if err := e.Close.Decode(&id); err == nil && id != "" && id != "true" {
			target, ok := b.steps[id]
			if !ok {
				return engine.Token{}, fmt.Errorf("closer addresses unknown step id %q", id)
			}
			return engine.CloseFor(target), nil
		}
		return engine.Close(), nil
	}
	return engine.Token{}, fmt.Errorf("entry sets none of value, literal, step, close")
}

func (b *builder) step(spec *StepSpec) (engine.Step, error) {
	priority := engine.Break
	switch spec.Priority {
	case "", "break":
	case "fold":
		priority = engine.Fold
	default:
		return nil, fmt.Errorf("unknown priority %q", spec.Priority)
	}

	var s engine.Step
	if spec.Kind == "alias" {
		prefix, err := b.build(spec.Prefix)
		if err != nil {
			return nil, fmt.Errorf("alias prefix: %w", err)
		}
		s = engine.NewEarly(prefix, priority)
	} else {
		factory, ok := kinds[spec.Kind]
		if !ok {
			return nil, unknownKindError(spec.Kind)
		}
		s = factory(priority)
	}

	if spec.ID != "" {
		if _, dup := b.steps[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", spec.ID)
		}
		b.steps[spec.ID] = s
	}
	return s, nil
}

func decodeNode(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return normalize(v), nil
}

// normalize rewrites yaml.v3 generic output into the engine's dynamic value
// shapes: string-keyed maps and []any lists.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, el := range t {
			t[k] = normalize(el)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, el := range t {
			m[fmt.Sprint(k)] = normalize(el)
		}
		return m
	case []any:
		for i, el := range t {
			t[i] = normalize(el)
		}
		return t
	default:
		return v
	}
}

// unknownKindError attaches a fuzzy-matched suggestion when one is close.
func unknownKindError(kind string) error {
	msg := fmt.Sprintf("unknown step kind %q", kind)
	if suggestion := closestKind(kind); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("%s", msg)
}
