package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttemptLimiter(t *testing.T) {
	l := newAttemptLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1|a@example.com"), "attempt %d within limit", i+1)
	}
	assert.False(t, l.allow("10.0.0.1|a@example.com"), "fourth attempt blocked")

	// Independent keys each get their own window.
	assert.True(t, l.allow("10.0.0.2|a@example.com"))
}

func TestAttemptLimiterWindowReset(t *testing.T) {
	l := newAttemptLimiter(1, 10*time.Millisecond)

	assert.True(t, l.allow("k"))
	assert.False(t, l.allow("k"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, l.allow("k"), "window expired, counter resets")
}
