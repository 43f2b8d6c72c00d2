package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("client", 2, 0))
	assert.True(t, l.Allow("client", 2, 0))
	assert.False(t, l.Allow("client", 2, 0))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0))
}

func TestAllowRefills(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("client", 1, 1000))
	assert.False(t, l.Allow("client", 1, 0))

	// at 1000 tokens/s any measurable elapsed time restores a token
	assert.Eventually(t, func() bool {
		return l.Allow("client", 1, 1000)
	}, 500*time.Millisecond, 5*time.Millisecond)
}
