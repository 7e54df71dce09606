package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekNextAccept(t *testing.T) {
	r := New("ab")
	ch, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, 'a', ch)
	assert.Equal(t, 0, r.Pos(), "Peek should not advance Pos")

	assert.True(t, r.Accept('a'))
	assert.Equal(t, 1, r.Pos(), "Accept should advance Pos")
	assert.False(t, r.Accept('z'), "Accept('z') should fail on 'b'")

	ch, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, 'b', ch)
	assert.True(t, r.Done(), "reader should be Done after consuming both runes")
}

func TestUnicodePositionsAreCharacterOffsets(t *testing.T) {
	r := New("日本語x")
	assert.Equal(t, 4, r.Len(), "Len() should count characters, not bytes")

	r.Next()
	r.Next()
	r.Next()
	ch, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', ch)
	assert.Equal(t, 3, r.Pos())
}

func TestSkipSpace(t *testing.T) {
	r := New("   x")
	r.SkipSpace()
	ch, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', ch)
}

func TestSlice(t *testing.T) {
	r := New("hello")
	assert.Equal(t, "ell", r.Slice(1, 4))
}
