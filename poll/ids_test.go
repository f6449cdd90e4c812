package poll

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Len(t, id, idLength)
		for _, r := range id {
			require.True(t, strings.ContainsRune(idAlphabet, r), "unexpected rune %q in %q", r, id)
		}
	}
}

func TestNewIDSpread(t *testing.T) {
	// Not a uniqueness guarantee, but a thousand draws colliding would
	// point at a broken generator.
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %q after %d draws", id, i)
		seen[id] = true
	}
}
