package modset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactDedupFirstSeenOrder(t *testing.T) {
	f := NewFilter(NewExactDedup(0))

	assert.True(t, f.Add([]byte("a")))
	assert.True(t, f.Add([]byte("b")))
	assert.False(t, f.Add([]byte("a")))
	assert.True(t, f.Add([]byte("c")))

	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, f.Unique())
}

func TestExactDedupIdempotent(t *testing.T) {
	// Running the deduplicator over its own
	// output yields the same output.
	first := NewFilter(NewExactDedup(0))
	for _, m := range [][]byte{[]byte("x"), []byte("y"), []byte("x"), []byte("z")} {
		first.Add(m)
	}

	second := NewFilter(NewExactDedup(0))
	for _, m := range first.Unique() {
		second.Add(m)
	}

	assert.Equal(t, first.Unique(), second.Unique())
}

func TestBloomDedupDetectsDuplicates(t *testing.T) {
	d := NewBloomDedup(1000, 1e-6)
	assert.False(t, d.Seen([]byte("modulus-a")))
	assert.True(t, d.Seen([]byte("modulus-a")))
	assert.False(t, d.Seen([]byte("modulus-b")))
}

func TestFilterTwoUsersSameKeyDedupes(t *testing.T) {
	// Two users list the same key verbatim, one
	// lists a distinct key; expect exactly two unique moduli.
	f := NewFilter(NewExactDedup(0))
	sharedKey := []byte{0x01, 0x02, 0x03}
	distinctKey := []byte{0x04, 0x05, 0x06}

	f.Add(sharedKey)
	f.Add(sharedKey)
	f.Add(distinctKey)

	assert.Len(t, f.Unique(), 2)
}
