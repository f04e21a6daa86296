// Package engine is the command registry and the serialized dispatcher.
// Handlers run one at a time; events submitted meanwhile are queued.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/atomic_clock"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/log2"
)

const ContextKey = "run/engine"

const lockHolder = "dispatch"

type ErrNotResolved struct{ msg string }

func NewErrNotResolved(mnemonic string) ErrNotResolved {
	return ErrNotResolved{msg: fmt.Sprintf("mnemonic=%s not resolved", mnemonic)}
}
func (e ErrNotResolved) Error() string { return e.msg }

type Handler interface {
	Do(ctx context.Context, cmd amx.Command) error
}

type Func struct {
	Name string
	F    func(ctx context.Context, cmd amx.Command) error
}

func (self Func) Do(ctx context.Context, cmd amx.Command) error { return self.F(ctx, cmd) }
func (self Func) String() string                                { return self.Name }

type task struct {
	ctx context.Context
	ev  amx.Event
	f   func()
}

type Stats struct {
	Processed uint64
	Dropped   uint64
	Failed    uint64
	LastEvent time.Duration // since last event, 0 if none
}

type Engine struct {
	Log *log2.Log

	lk       sync.RWMutex
	handlers map[string]Handler

	// state lock, held by dispatch while a task runs
	state helpers.TLock

	qmu     sync.Mutex
	pending []task
	busy    bool

	decoder   *amx.Decoder
	fragments map[int]*amx.Reassembler

	processed uint64
	dropped   uint64
	failed    uint64
	lastEvent atomic_clock.Clock

	profile struct {
		// optimistic field access guard; fastpath=0 -> profiling disabled, don't touch mutex
		fastpath uint32

		sync.Mutex // fields below access guard

		re  *regexp.Regexp
		min time.Duration
		fun ProfileFunc
	}
}

func NewEngine(log *log2.Log) *Engine {
	self := &Engine{
		Log:       log,
		handlers:  make(map[string]Handler, 128),
		fragments: make(map[int]*amx.Reassembler),
	}
	self.state.Log = log
	return self
}

// SetDecoder enables codepage conversion of string events, nil disables.
func (self *Engine) SetDecoder(d *amx.Decoder) { self.decoder = d }

// Register binds exact mnemonic, last registration wins.
func (self *Engine) Register(mnemonic string, h Handler) {
	self.lk.Lock()
	if _, ok := self.handlers[mnemonic]; ok {
		self.Log.Debugf("engine register mnemonic=%s replaces previous", mnemonic)
	}
	self.handlers[mnemonic] = h
	self.lk.Unlock()
}

func (self *Engine) RegisterFunc(name string, f func(ctx context.Context, cmd amx.Command) error, aliases ...string) {
	h := Func{Name: name, F: f}
	self.Register(name, h)
	for _, a := range aliases {
		self.Register(a, h)
	}
}

func (self *Engine) Resolve(mnemonic string) (Handler, error) {
	self.lk.RLock()
	defer self.lk.RUnlock()
	if h, ok := self.handlers[mnemonic]; ok {
		return h, nil
	}
	return nil, NewErrNotResolved(mnemonic)
}

// List returns sorted registered mnemonics.
func (self *Engine) List() []string {
	self.lk.RLock()
	r := make([]string, 0, len(self.handlers))
	for k := range self.handlers {
		r = append(r, k)
	}
	self.lk.RUnlock()
	sort.Strings(r)
	return r
}

// SubmitEvent is the single inbound entry point. If another event is being
// processed the new one is queued and SubmitEvent returns immediately.
func (self *Engine) SubmitEvent(ctx context.Context, ev amx.Event) {
	self.lastEvent.SetNow()
	self.enqueue(task{ctx: ctx, ev: ev})
}

// SubmitCommand is shortcut for string event.
func (self *Engine) SubmitCommand(ctx context.Context, port int, text string) {
	self.SubmitEvent(ctx, amx.String(port, text))
}

// Post schedules f in dispatch context. Timers and animation completions
// use it to mutate engine state.
func (self *Engine) Post(f func()) {
	self.enqueue(task{ctx: context.Background(), f: f})
}

func (self *Engine) enqueue(t task) {
	self.qmu.Lock()
	self.pending = append(self.pending, t)
	if self.busy {
		self.qmu.Unlock()
		return
	}
	self.busy = true
	for len(self.pending) != 0 {
		next := self.pending[0]
		self.pending = self.pending[1:]
		self.qmu.Unlock()
		self.run(next)
		self.qmu.Lock()
	}
	self.pending = nil
	self.busy = false
	self.qmu.Unlock()
}

// Pending returns number of queued tasks.
func (self *Engine) Pending() int {
	self.qmu.Lock()
	defer self.qmu.Unlock()
	return len(self.pending)
}

func (self *Engine) run(t task) {
	if !self.state.Lock(lockHolder) {
		return
	}
	defer self.state.Unlock(lockHolder)
	defer func() {
		if r := recover(); r != nil {
			atomic.AddUint64(&self.failed, 1)
			self.Log.Errorf("engine dispatch panic: %v", r)
		}
	}()
	if t.f != nil {
		t.f()
		return
	}
	self.dispatch(t.ctx, t.ev)
}

// Inspect runs f while no event is being dispatched. Gives up after bounded
// wait and returns false.
func (self *Engine) Inspect(holder string, f func()) bool {
	if !self.state.TryLockWait(holder, 50, 10*time.Millisecond) {
		return false
	}
	defer self.state.Unlock(holder)
	f()
	return true
}

func (self *Engine) dispatch(ctx context.Context, ev amx.Event) {
	text := ev.CommandText()
	if ev.Kind == amx.EventString {
		// declared length counts codepage bytes, decode assembled command only
		fr := self.fragments[ev.Port]
		if fr == nil {
			fr = &amx.Reassembler{}
			self.fragments[ev.Port] = fr
		}
		var complete bool
		if text, complete = fr.Feed(text, ev.Length); !complete {
			self.Log.Debugf("engine fragment port=%d buffered", ev.Port)
			return
		}
		decoded, err := self.decoder.Decode(text)
		if err != nil {
			self.Log.Warning(err)
		}
		text = decoded
	}
	if text == "" {
		atomic.AddUint64(&self.dropped, 1)
		self.Log.Warningf("engine empty command %s", ev.String())
		return
	}

	mnemonic, _, _ := amx.SplitMnemonic(text)
	h, err := self.Resolve(mnemonic)
	if err != nil {
		atomic.AddUint64(&self.dropped, 1)
		self.Log.Warningf("engine drop %q: %v", text, err)
		return
	}
	def, ok := amx.LookupDef(mnemonic)
	if !ok {
		def = amx.DefaultDef
	}
	cmd, err := amx.Parse(def, ev.Port, text)
	if err != nil {
		atomic.AddUint64(&self.dropped, 1)
		self.Log.Warningf("engine drop %q: %v", text, err)
		return
	}
	cmd.Device = ev.Device

	tbegin := time.Now()
	err = h.Do(ctx, cmd)
	if profFun, profMin := self.matchProfile(mnemonic); profFun != nil {
		if duration := time.Since(tbegin); duration >= profMin {
			profFun(cmd, duration)
		}
	}
	atomic.AddUint64(&self.processed, 1)
	if err != nil {
		atomic.AddUint64(&self.failed, 1)
		err = errors.Annotatef(err, "engine %s", cmd.String())
		if errors.IsNotValid(errors.Cause(err)) {
			self.Log.Warning(err)
		} else {
			self.Log.Error(err)
		}
	}
}

func (self *Engine) Stats() Stats {
	s := Stats{
		Processed: atomic.LoadUint64(&self.processed),
		Dropped:   atomic.LoadUint64(&self.dropped),
		Failed:    atomic.LoadUint64(&self.failed),
	}
	if !self.lastEvent.IsZero() {
		s.LastEvent = atomic_clock.Since(&self.lastEvent)
	}
	return s
}

// Test `error` or `Handler` against ErrNotResolved
func IsNotResolved(x interface{}) bool {
	e, _ := x.(error)
	if e == nil {
		return false
	}
	_, ok := errors.Cause(e).(ErrNotResolved)
	return ok
}
