package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per IP")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 31, rl.RetryAfter("1.2.3.4"))
	assert.Zero(t, rl.RetryAfter("9.9.9.9"))

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "window reset")

	now = now.Add(5 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.buckets)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	defer rl.Stop()
	for range 100 {
		assert.True(t, rl.Allow("1.2.3.4"))
	}
	rl.Stop()
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
