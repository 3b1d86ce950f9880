package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalRateLimiterBurst(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         3,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}
	rl := NewLocalRateLimiter(config)
	defer rl.Stop()

	// burst capacity admits the first three, then the bucket is empty
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client-a"), "request %d should be allowed", i)
	}
	assert.False(t, rl.Allow("client-a"))

	// other clients have their own bucket
	assert.True(t, rl.Allow("client-b"))
}

func TestLocalRateLimiterRefill(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}
	rl := NewLocalRateLimiter(config)
	defer rl.Stop()

	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow("client"))
}
