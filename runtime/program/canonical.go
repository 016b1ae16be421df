package program

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"
)

// CanonicalProgram is the intermediate form for deterministic hashing. It is
// built purely from the document, so the same file always produces the same
// digest regardless of how the host constructed or reloaded it.
type CanonicalProgram struct {
	Version string
	Scope   string
	Entries []CanonicalEntry
}

// CanonicalEntry is one program entry in canonical form. Dynamic values are
// carried as their JSON encoding; CBOR then fixes the byte-level layout.
type CanonicalEntry struct {
	Kind     string // "value", "literal", "step", "close"
	Value    string // JSON-encoded payload for value/literal/close entries
	Step     string // step kind
	Priority uint8
	ID       string
	Prefix   []CanonicalEntry
}

// Canonicalize converts the loaded program into canonical form.
func (p *Program) Canonicalize() (*CanonicalProgram, error) {
	entries, err := canonicalEntries(p.doc.Program)
	if err != nil {
		return nil, err
	}
	return &CanonicalProgram{
		Version: p.Version,
		Scope:   p.Scope,
		Entries: entries,
	}, nil
}

func canonicalEntries(entries []Entry) ([]CanonicalEntry, error) {
	out := make([]CanonicalEntry, len(entries))
	for i, e := range entries {
		ce, err := canonicalEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = ce
	}
	return out, nil
}

func canonicalEntry(e Entry) (CanonicalEntry, error) {
	switch {
	case e.Value != nil:
		v, err := encodeNode(e.Value)
		return CanonicalEntry{Kind: "value", Value: v}, err

	case e.Literal != nil:
		v, err := encodeNode(e.Literal)
		return CanonicalEntry{Kind: "literal", Value: v}, err

	case e.Step != nil:
		ce := CanonicalEntry{
			Kind: "step",
			Step: e.Step.Kind,
			ID:   e.Step.ID,
		}
		if e.Step.Priority == "fold" {
			ce.Priority = 1
		}
		if len(e.Step.Prefix) > 0 {
			prefix, err := canonicalEntries(e.Step.Prefix)
			if err != nil {
				return CanonicalEntry{}, err
			}
			ce.Prefix = prefix
		}
		return ce, nil

	case e.Close != nil:
		v, err := encodeNode(e.Close)
		return CanonicalEntry{Kind: "close", Value: v}, err
	}
	return CanonicalEntry{}, fmt.Errorf("empty entry")
}

func encodeNode(n *yaml.Node) (string, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return "", err
	}
	data, err := json.Marshal(normalize(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalBinary encodes the canonical program with CBOR canonical options,
// giving a deterministic byte stream for hashing.
func (cp *CanonicalProgram) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("creating CBOR encoder: %w", err)
	}

	// Alias breaks marshaler recursion.
	type canonicalProgramAlias CanonicalProgram
	data, err := encMode.Marshal((*canonicalProgramAlias)(cp))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Hash computes the SHA-256 of the canonical encoding.
func (cp *CanonicalProgram) Hash() ([32]byte, error) {
	data, err := cp.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Digest derives the short display digest shown in CLI output, e.g.
// "flow:91c2a0d45b31e7f8". Derivation goes through HKDF-SHA3 so digests are
// stable per program but unlinkable to the raw content hash.
func (p *Program) Digest() (string, error) {
	cp, err := p.Canonicalize()
	if err != nil {
		return "", fmt.Errorf("canonicalizing program: %w", err)
	}
	hash, err := cp.Hash()
	if err != nil {
		return "", fmt.Errorf("hashing program: %w", err)
	}

	info := []byte("stepflow/digest/v1")
	kdf := hkdf.New(sha3.New256, hash[:], nil, info)
	short := make([]byte, 8)
	if _, err := kdf.Read(short); err != nil {
		return "", fmt.Errorf("deriving digest: %w", err)
	}
	return "flow:" + hex.EncodeToString(short), nil
}
