package program

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const digestDoc = `
version: v1
program:
  - step: get
  - value: a
`

// TestDigestDeterministic verifies the same document always derives the
// same display digest.
func TestDigestDeterministic(t *testing.T) {
	p1, err := Parse([]byte(digestDoc))
	require.NoError(t, err)
	p2, err := Parse([]byte(digestDoc))
	require.NoError(t, err)

	d1, err := p1.Digest()
	require.NoError(t, err)
	d2, err := p2.Digest()
	require.NoError(t, err)

	require.Equal(t, d1, d2)
	require.True(t, strings.HasPrefix(d1, "flow:"), "digest %q should carry the flow prefix", d1)
}

// TestDigestChangesWithContent verifies distinct programs derive distinct
// digests.
func TestDigestChangesWithContent(t *testing.T) {
	p1, err := Parse([]byte(digestDoc))
	require.NoError(t, err)
	p2, err := Parse([]byte(strings.Replace(digestDoc, "value: a", "value: b", 1)))
	require.NoError(t, err)

	d1, err := p1.Digest()
	require.NoError(t, err)
	d2, err := p2.Digest()
	require.NoError(t, err)

	require.NotEqual(t, d1, d2)
}

// TestDigestSensitiveToPriority verifies structural fields feed the hash,
// not just payload values.
func TestDigestSensitiveToPriority(t *testing.T) {
	fold := `
version: v1
program:
  - step: {kind: get, priority: fold}
`
	brk := `
version: v1
program:
  - step: {kind: get, priority: break}
`
	p1, err := Parse([]byte(fold))
	require.NoError(t, err)
	p2, err := Parse([]byte(brk))
	require.NoError(t, err)

	d1, err := p1.Digest()
	require.NoError(t, err)
	d2, err := p2.Digest()
	require.NoError(t, err)

	require.NotEqual(t, d1, d2)
}

// TestCanonicalMarshalStable verifies canonical CBOR bytes are identical
// across loads of the same document.
func TestCanonicalMarshalStable(t *testing.T) {
	p1, err := Parse([]byte(digestDoc))
	require.NoError(t, err)
	p2, err := Parse([]byte(digestDoc))
	require.NoError(t, err)

	c1, err := p1.Canonicalize()
	require.NoError(t, err)
	c2, err := p2.Canonicalize()
	require.NoError(t, err)

	b1, err := c1.MarshalBinary()
	require.NoError(t, err)
	b2, err := c2.MarshalBinary()
	require.NoError(t, err)

	require.Equal(t, b1, b2)
}
