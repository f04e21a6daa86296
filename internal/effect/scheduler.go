package effect

import (
	"fmt"
	"sync"
	"time"

	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/log2"
)

type Transition struct {
	Handle      handle.Handle
	Entering    bool
	Effect      Effect
	Duration    time.Duration
	From, To    project.Rect
	FromOpacity float64
	ToOpacity   float64
	// Unique per started transition. Completion with a token that is no
	// longer current is stale.
	Token uint64
}

func (t Transition) String() string {
	dir := "out"
	if t.Entering {
		dir = "in"
	}
	return fmt.Sprintf("%s %s %s %v token=%d", t.Handle.String(), t.Effect.String(), dir, t.Duration, t.Token)
}

// Completion is called from timer goroutine once a transition ends.
type Completion func(Transition)

type running struct {
	tr    Transition
	timer helpers.Timer
}

// Scheduler tracks popups being animated. Safe for concurrent use.
type Scheduler struct {
	log   *log2.Log
	clock helpers.Clock

	mu      sync.Mutex
	done    Completion
	seq     uint64
	running map[handle.Handle]*running
}

func NewScheduler(log *log2.Log, clock helpers.Clock) *Scheduler {
	if clock == nil {
		clock = helpers.RealClock{}
	}
	return &Scheduler{
		log:     log,
		clock:   clock,
		running: make(map[handle.Handle]*running),
	}
}

func (self *Scheduler) OnComplete(f Completion) {
	self.mu.Lock()
	self.done = f
	self.mu.Unlock()
}

// Start begins a transition of popup h placed at r.
// Returns false for non-popup handle, effect None or zero duration.
// A transition already running for h is stopped first.
func (self *Scheduler) Start(h handle.Handle, spec Spec, r project.Rect, entering bool) (Transition, bool) {
	if !h.IsSubPage() {
		return Transition{}, false
	}
	e, d, end := spec.pick(entering)
	if e == None || d <= 0 {
		return Transition{}, false
	}
	if old, ok := self.Stop(h); ok {
		self.log.Debugf("effect restart %s, stopped %s", h.String(), old.String())
	}

	tr := Transition{Handle: h, Entering: entering, Effect: e, Duration: d}
	tr.From, tr.To, tr.FromOpacity, tr.ToOpacity = Geometry(e, r, entering, end)

	self.mu.Lock()
	defer self.mu.Unlock()
	self.seq++
	tr.Token = self.seq
	token := tr.Token
	run := &running{tr: tr}
	self.running[h] = run
	run.timer = self.clock.AfterFunc(d, func() { self.finish(h, token) })
	self.log.Debugf("effect start %s", tr.String())
	return tr, true
}

func (self *Scheduler) finish(h handle.Handle, token uint64) {
	self.mu.Lock()
	run, ok := self.running[h]
	if !ok || run.tr.Token != token {
		self.mu.Unlock()
		self.log.Debugf("effect stale completion %s token=%d", h.String(), token)
		return
	}
	delete(self.running, h)
	done := self.done
	self.mu.Unlock()

	if done != nil {
		done(run.tr)
	}
}

// Stop cancels running transition without completion callback.
func (self *Scheduler) Stop(h handle.Handle) (Transition, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	run, ok := self.running[h]
	if !ok {
		return Transition{}, false
	}
	delete(self.running, h)
	if run.timer != nil {
		run.timer.Stop()
	}
	return run.tr, true
}

func (self *Scheduler) StopAll() {
	self.mu.Lock()
	defer self.mu.Unlock()
	for h, run := range self.running {
		if run.timer != nil {
			run.timer.Stop()
		}
		delete(self.running, h)
	}
}

func (self *Scheduler) Animating(h handle.Handle) (Transition, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	run, ok := self.running[h]
	if !ok {
		return Transition{}, false
	}
	return run.tr, true
}
