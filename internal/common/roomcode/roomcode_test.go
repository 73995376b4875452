package roomcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_UsesAlphabetOnly(t *testing.T) {
	g := New(&Config{Seed: 42})

	for i := 0; i < 1000; i++ {
		code := g.Generate()
		require.Len(t, code, DefaultLength)
		assert.True(t, Valid(code), "code %q", code)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
	}
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	a := New(&Config{Seed: 7})
	b := New(&Config{Seed: 7})

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestGenerate_CustomLength(t *testing.T) {
	g := New(&Config{Seed: 1, Length: 6})
	assert.Len(t, g.Generate(), 6)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AB12", Normalize(" ab12 "))
	assert.Equal(t, "", Normalize("   "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("AB12"))
	assert.False(t, Valid("AB1"))
	assert.False(t, Valid("ABO1"))
	assert.False(t, Valid("AB01"))
	assert.False(t, Valid(strings.ToLower("abcd")))
}
