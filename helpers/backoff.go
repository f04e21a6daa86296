package helpers

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/temoto/atomic_clock"
)

// Backoff is limited exponential retry delay with optional jitter.
// Zero value has no delay until first Failure.
//
//   for {
//     time.Sleep(b.DelayBefore())
//     err := op()
//     b.Update(err == nil)
//   }
type Backoff struct {
	next int64 // atomic align
	last atomic_clock.Clock

	Min time.Duration
	Max time.Duration // 0 means unlimited
	K   float32
	// failure delay grows by random part up to this fraction
	Jitter float32
	Res    time.Duration // default=1ms
}

// DelayAfter records op result and returns delay before next attempt.
func (b *Backoff) DelayAfter(success bool) time.Duration {
	atomic.CompareAndSwapInt64(&b.next, 0, int64(b.Min))
	b.Update(success)
	return b.DelayBefore()
}

// DelayBefore returns remaining part of current delay, 0 after success or
// when delay already passed.
func (b *Backoff) DelayBefore() time.Duration {
	next := time.Duration(atomic.LoadInt64(&b.next))
	if next == 0 {
		return 0
	}
	since := atomic_clock.Since(&b.last)
	if since >= next {
		return 0
	}
	return b.round(next - since)
}

func (b *Backoff) Update(success bool) {
	var next time.Duration
	if !success {
		next = time.Duration(float32(atomic.LoadInt64(&b.next)) * b.K)
	}
	next = b.limit(next)
	if !success && b.Jitter > 0 {
		next += time.Duration(rand.Float32() * b.Jitter * float32(next))
	}
	b.last.SetNow()
	atomic.StoreInt64(&b.next, int64(next))
}

func (b *Backoff) Reset() { b.Update(true) }

func (b *Backoff) limit(d time.Duration) time.Duration {
	if d < b.Min {
		d = b.Min
	}
	if b.Max != 0 && d > b.Max {
		d = b.Max
	}
	return b.round(d)
}

func (b *Backoff) round(d time.Duration) time.Duration {
	res := b.Res
	if res == 0 {
		res = time.Millisecond
	}
	return d / res * res
}
