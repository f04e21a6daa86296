package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	t.Parallel()

	b := Backoff{Min: 10 * time.Second, Max: 60 * time.Second, K: 2}
	assert.Equal(t, time.Duration(0), b.DelayBefore())

	steps := []time.Duration{20 * time.Second, 40 * time.Second, 60 * time.Second, 60 * time.Second}
	for _, expect := range steps {
		d := b.DelayAfter(false)
		// time passes between Update and DelayBefore
		assert.True(t, d <= expect && d > expect-time.Second, "delay=%s expect=%s", d, expect)
	}

	d := b.DelayAfter(true)
	assert.True(t, d <= b.Min && d > b.Min-time.Second, "delay=%s after success", d)
}

func TestBackoffElapsed(t *testing.T) {
	t.Parallel()

	b := Backoff{Min: time.Millisecond, Max: time.Millisecond, K: 1}
	b.Update(false)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, time.Duration(0), b.DelayBefore())
}

func TestBackoffJitter(t *testing.T) {
	t.Parallel()

	spread := false
	for i := 0; i < 20; i++ {
		b := Backoff{Min: time.Second, Max: 8 * time.Second, K: 2, Jitter: 0.5}
		b.Update(false)
		d := b.DelayBefore()
		assert.True(t, d > 900*time.Millisecond && d <= 1500*time.Millisecond, "delay=%s", d)
		if d > 1100*time.Millisecond {
			spread = true
		}
		// success drops jitter
		b.Update(true)
		d = b.DelayBefore()
		assert.True(t, d <= time.Second && d > 900*time.Millisecond, "delay=%s", d)
	}
	assert.True(t, spread)
}
