package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys are independent")

	now = now.Add(500 * time.Millisecond)
	assert.False(t, l.Allow("a"))
	now = now.Add(500 * time.Millisecond)
	assert.True(t, l.Allow("a"))

	now = now.Add(time.Hour)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "refill is capped at burst")
}

func TestLimiterDropsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.maxKeys = 3
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("k%d", i))
	}
	now = now.Add(time.Hour)
	assert.True(t, l.Allow("fresh"))
	assert.Len(t, l.m, 1)
}
