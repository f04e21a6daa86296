package helpers

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/temoto/tpanel/log2"
)

// TLock is a mutex that remembers its holder.
// Acquiring it again under the same holder name is logged and refused
// instead of deadlocking. TryLockWait gives up after bounded retries.
type TLock struct {
	Log *log2.Log

	once   sync.Once
	sem    chan struct{}
	mu     sync.Mutex
	holder string
	where  string
}

func (self *TLock) init() { self.once.Do(func() { self.sem = make(chan struct{}, 1) }) }

// Lock blocks until acquired. Returns false (without locking) on re-acquire.
func (self *TLock) Lock(holder string) bool {
	self.init()
	if self.reentry(holder) {
		return false
	}
	self.sem <- struct{}{}
	self.acquired(holder, 2)
	return true
}

// TryLockWait makes up to tries attempts, sleeping delay between them.
func (self *TLock) TryLockWait(holder string, tries int, delay time.Duration) bool {
	self.init()
	if self.reentry(holder) {
		return false
	}
	for i := 0; ; i++ {
		select {
		case self.sem <- struct{}{}:
			self.acquired(holder, 2)
			return true
		default:
		}
		if i+1 >= tries {
			h, w := self.Holder()
			self.Log.Errorf("tlock holder=%s gave up after %d tries, held by %s at %s", holder, tries, h, w)
			return false
		}
		time.Sleep(delay)
	}
}

func (self *TLock) Unlock(holder string) {
	self.mu.Lock()
	if self.holder != holder {
		self.Log.Errorf("tlock unlock holder=%s but held by %s", holder, self.holder)
	}
	self.holder, self.where = "", ""
	self.mu.Unlock()
	select {
	case <-self.sem:
	default:
		panic("code error tlock unlock of unlocked")
	}
}

// Holder returns current holder name and acquire location.
func (self *TLock) Holder() (string, string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.holder, self.where
}

func (self *TLock) reentry(holder string) bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	if holder != "" && self.holder == holder {
		self.Log.Errorf("tlock re-acquire holder=%s already held at %s", holder, self.where)
		return true
	}
	return false
}

func (self *TLock) acquired(holder string, depth int) {
	where := "???"
	if _, file, line, ok := runtime.Caller(depth); ok {
		where = fmt.Sprintf("%s:%d", file, line)
	}
	self.mu.Lock()
	self.holder, self.where = holder, where
	self.mu.Unlock()
}
