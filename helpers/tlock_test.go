package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/log2"
)

func TestTLockReentry(t *testing.T) {
	t.Parallel()
	lk := &TLock{Log: log2.NewTest(t, log2.LDebug)}
	require.True(t, lk.Lock("dispatch"))
	h, where := lk.Holder()
	assert.Equal(t, "dispatch", h)
	assert.Contains(t, where, "tlock_test.go")

	// same holder must not deadlock
	assert.False(t, lk.Lock("dispatch"))
	assert.False(t, lk.TryLockWait("dispatch", 3, time.Millisecond))

	lk.Unlock("dispatch")
	h, _ = lk.Holder()
	assert.Equal(t, "", h)
	require.True(t, lk.Lock("http"))
	lk.Unlock("http")
}

func TestTLockTryWait(t *testing.T) {
	t.Parallel()
	lk := &TLock{Log: log2.NewTest(t, log2.LDebug)}
	require.True(t, lk.Lock("dispatch"))
	assert.False(t, lk.TryLockWait("http", 3, time.Millisecond))

	done := make(chan bool)
	go func() { done <- lk.TryLockWait("http", 1000, time.Millisecond) }()
	time.Sleep(5 * time.Millisecond)
	lk.Unlock("dispatch")
	assert.True(t, <-done)
	lk.Unlock("http")
}
