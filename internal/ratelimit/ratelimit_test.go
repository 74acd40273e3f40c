package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowPerKeyBurst(t *testing.T) {
	krl := New(1, 2, 0)
	defer krl.Stop()

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	krl.now = func() time.Time { return fixed }

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"), "burst exhausted")

	assert.True(t, krl.Allow("10.0.0.2"), "other keys are independent")

	fixed = fixed.Add(time.Second)
	assert.True(t, krl.Allow("10.0.0.1"), "token refilled after a second")
}

func TestSweepEvictsIdleKeys(t *testing.T) {
	krl := New(10, 10, 0)
	defer krl.Stop()
	krl.idleTTL = time.Minute

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := start
	krl.now = func() time.Time { return current }

	krl.Allow("old")
	current = start.Add(50 * time.Second)
	krl.Allow("fresh")

	current = start.Add(90 * time.Second)
	krl.sweep()

	assert.Equal(t, 1, krl.Len())
	krl.mu.Lock()
	_, ok := krl.entries["fresh"]
	krl.mu.Unlock()
	assert.True(t, ok)
}
