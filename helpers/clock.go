package helpers

import (
	"sort"
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests use ManualClock to fire them explicitly.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	c   *ManualClock
	at  time.Duration
	seq uint64
	f   func()
}

func (self *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.seq++
	t := &manualTimer{c: self, at: self.now + d, seq: self.seq, f: f}
	self.timers = append(self.timers, t)
	return t
}

// Advance moves time forward and runs every due callback in deadline order.
// Callbacks run without the clock lock and may schedule new timers.
func (self *ManualClock) Advance(d time.Duration) {
	self.mu.Lock()
	self.now += d
	self.mu.Unlock()
	for {
		t := self.popDue()
		if t == nil {
			return
		}
		t.f()
	}
}

func (self *ManualClock) Pending() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.timers)
}

func (self *ManualClock) popDue() *manualTimer {
	self.mu.Lock()
	defer self.mu.Unlock()
	sort.Slice(self.timers, func(i, j int) bool {
		a, b := self.timers[i], self.timers[j]
		return a.at < b.at || (a.at == b.at && a.seq < b.seq)
	})
	if len(self.timers) == 0 || self.timers[0].at > self.now {
		return nil
	}
	t := self.timers[0]
	self.timers = self.timers[1:]
	return t
}

func (self *manualTimer) Stop() bool {
	c := self.c
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.timers {
		if t == self {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
