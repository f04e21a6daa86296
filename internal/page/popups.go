package page

import (
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/log2"
)

// PostFunc schedules f to run in the engine dispatch context.
type PostFunc func(f func())

// Popups enforces group exclusion, z-order, modality and timeouts.
// Methods must be called from dispatch context. Timer and animation
// callbacks are posted back through PostFunc.
type Popups struct {
	log     *log2.Log
	reg     *Registry
	surface render.Surface
	fx      *effect.Scheduler
	clock   helpers.Clock
	post    PostFunc
}

func NewPopups(log *log2.Log, reg *Registry, fx *effect.Scheduler, clock helpers.Clock, post PostFunc) *Popups {
	if clock == nil {
		clock = helpers.RealClock{}
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	self := &Popups{
		log:     log,
		reg:     reg,
		surface: reg.Surface(),
		fx:      fx,
		clock:   clock,
		post:    post,
	}
	fx.OnComplete(func(tr effect.Transition) {
		self.post(func() { self.complete(tr) })
	})
	return self
}

func (self *Popups) Registry() *Registry { return self.reg }

// FlipPage makes named page active. Popups of the old page are hidden
// without animation and its popup session ends.
func (self *Popups) FlipPage(name string) bool {
	p, err := self.reg.LoadPage(name)
	if err != nil {
		self.log.Errorf("flip page=%s err=%v", name, err)
		return false
	}
	old := self.reg.Active()
	if old == p {
		self.log.Debugf("flip page=%s already active", name)
		return true
	}
	if old != nil {
		self.closeAll(old, false)
		self.surface.SetVisible(old.Handle, false)
	}
	self.reg.setActive(p)
	self.surface.SetPage(p.Handle, p.Width, p.Height)
	self.surface.SetBackground(p.Handle, p.Background, p.Width, p.Height, p.FillColor, 255)
	self.reg.displayAll(p.Buttons)
	self.surface.SetVisible(p.Handle, true)
	self.log.Debugf("flip page=%s id=%d", p.Name, p.ID)
	return true
}

// FlipPrevious returns to page active before the last flip.
func (self *Popups) FlipPrevious() bool {
	prev := self.reg.Previous()
	if prev == nil {
		self.log.Debugf("flip previous: none")
		return false
	}
	return self.FlipPage(prev.Name)
}

// Show makes popup visible on the active page. Other visible members of its
// group are hidden first. Already visible popup only restarts its timeout.
func (self *Popups) Show(name string) {
	sp, err := self.reg.DeliverSubPage(name)
	if err != nil {
		self.log.Warningf("show popup=%s err=%v", name, err)
		return
	}
	self.show(self.reg.Active(), sp)
}

func (self *Popups) show(p *Page, sp *SubPage) {
	if sp.Group != "" {
		for _, other := range p.SubPages() {
			if other != sp && other.Group == sp.Group && other.Visible() {
				self.hide(p, other, true)
			}
		}
	}

	switch sp.State {
	case Visible, Showing:
		self.startTimeout(sp)
		return
	case Hiding:
		// reverse hide in progress, keep z unless stack was reset meanwhile
		self.fx.Stop(sp.Handle)
		if sp.Z == ZInvalid {
			p.zCounter++
			sp.Z = p.zCounter
		}
		sp.State = Visible
		self.surface.SetVisible(sp.Handle, true)
		self.startTimeout(sp)
		return
	}

	p.attach(sp)
	p.zCounter++
	sp.Z = p.zCounter
	self.surface.SetSubPage(sp.View())
	self.surface.SetBackground(sp.Handle, sp.Background, sp.Rect.Width, sp.Rect.Height, sp.FillColor, 255)
	self.reg.displayAll(sp.Buttons)
	if tr, ok := self.fx.Start(sp.Handle, sp.Anim, sp.Rect, true); ok {
		sp.State = Showing
		self.surface.Animate(tr)
	} else {
		sp.State = Visible
	}
	self.surface.SetVisible(sp.Handle, true)
	self.startTimeout(sp)
	self.log.Debugf("show popup=%s page=%s z=%d state=%s", sp.Name, p.Name, sp.Z, sp.State.String())
}

// Hide is no-op for unknown or not visible popup.
func (self *Popups) Hide(name string) {
	sp := self.reg.GetSubPageByName(name)
	if sp == nil {
		self.log.Debugf("hide popup=%s not loaded", name)
		return
	}
	p := self.reg.GetPage(sp.parent)
	if p == nil {
		return
	}
	self.hide(p, sp, true)
}

func (self *Popups) hide(p *Page, sp *SubPage, animate bool) {
	if sp.State == Hidden {
		p.detach(sp)
		return
	}
	self.stopTimeout(sp)
	if sp.State == Hiding {
		if animate {
			return
		}
		self.fx.Stop(sp.Handle)
		self.finishHide(p, sp)
		return
	}
	if animate {
		if tr, ok := self.fx.Start(sp.Handle, sp.Anim, sp.Rect, false); ok {
			sp.State = Hiding
			self.surface.Animate(tr)
			self.log.Debugf("hide popup=%s animating", sp.Name)
			return
		}
	} else {
		self.fx.Stop(sp.Handle)
	}
	self.finishHide(p, sp)
}

func (self *Popups) finishHide(p *Page, sp *SubPage) {
	sp.State = Hidden
	self.surface.SetVisible(sp.Handle, false)
	if sp.Z != ZInvalid && sp.Z == p.zCounter && p.zCounter > 0 {
		p.zCounter--
	}
	sp.Z = ZInvalid
	p.detach(sp)
	self.log.Debugf("hidden popup=%s page=%s zcounter=%d", sp.Name, p.Name, p.zCounter)
}

// Kill hides popup on every page without animation and discards it.
// Next reference reads it from project again.
func (self *Popups) Kill(name string) {
	sp := self.reg.GetSubPageByName(name)
	if sp == nil {
		self.log.Debugf("kill popup=%s not loaded", name)
		return
	}
	parent := handle.Page(sp.parent)
	self.stopTimeout(sp)
	self.fx.Stop(sp.Handle)
	for _, p := range self.reg.Pages() {
		if p.attached(sp) || sp.parent == p.ID {
			if sp.State != Hidden {
				self.finishHide(p, sp)
			}
			p.detach(sp)
		}
	}
	sp.State = Hidden
	self.surface.DropSubPage(sp.Handle, parent)
	self.reg.discard(sp)
	self.log.Debugf("killed popup=%s", sp.Name)
}

// Toggle hides visible popup, shows otherwise.
func (self *Popups) Toggle(name string) {
	if sp := self.reg.GetSubPageByName(name); sp != nil && sp.Visible() {
		if p := self.reg.GetPage(sp.parent); p != nil {
			self.hide(p, sp, true)
			return
		}
	}
	self.Show(name)
}

// CloseAllOnPage hides every popup attached to named page, empty name means
// active page, and resets its z-order counter.
func (self *Popups) CloseAllOnPage(name string) {
	p := self.reg.Active()
	if name != "" {
		p = self.reg.GetPageByName(name)
	}
	if p == nil {
		self.log.Debugf("close all popups page=%q not loaded", name)
		return
	}
	self.closeAll(p, true)
}

// CloseAll hides popups on all pages.
func (self *Popups) CloseAll() {
	for _, p := range self.reg.Pages() {
		self.closeAll(p, true)
	}
}

func (self *Popups) closeAll(p *Page, animate bool) {
	for _, sp := range p.SubPages() {
		self.hide(p, sp, animate)
		// still animating; z belongs to the old stack
		if sp.State == Hiding {
			sp.Z = ZInvalid
		}
	}
	p.zCounter = 0
}

// SetGroup changes membership without changing visibility.
func (self *Popups) SetGroup(name, group string) {
	sp, err := self.reg.LoadSubPage(name)
	if err != nil {
		self.log.Warningf("set group popup=%s err=%v", name, err)
		return
	}
	sp.Group = group
}

// ClearGroup removes all popups from group.
func (self *Popups) ClearGroup(group string) {
	for _, sp := range self.reg.SubPages() {
		if sp.Group == group {
			sp.Group = ""
		}
	}
}

// RemoveFromGroup clears group of popup if it is a member.
func (self *Popups) RemoveFromGroup(name, group string) {
	sp := self.reg.GetSubPageByName(name)
	if sp == nil {
		info, err := self.reg.src.SubPage(name)
		if err != nil {
			self.log.Warningf("remove from group popup=%s err=%v", name, err)
			return
		}
		if info.Group != group {
			return
		}
		if sp, err = self.reg.LoadSubPage(name); err != nil {
			return
		}
	}
	if group == "" || sp.Group == group {
		sp.Group = ""
	}
}

// TopModal returns highest visible modal popup of active page.
func (self *Popups) TopModal() *SubPage {
	p := self.reg.Active()
	if p == nil {
		return nil
	}
	for _, sp := range p.VisibleSubPages() {
		if sp.Modal {
			return sp
		}
	}
	return nil
}

// Update applies f to popup, reading it from project if needed.
func (self *Popups) Update(name string, f func(sp *SubPage)) bool {
	sp, err := self.reg.LoadSubPage(name)
	if err != nil {
		self.log.Warningf("popup=%s err=%v", name, err)
		return false
	}
	f(sp)
	return true
}

func (self *Popups) SetModal(name string, modal bool) {
	self.Update(name, func(sp *SubPage) { sp.Modal = modal })
}

// SetTimeout in 1/10 s, 0 disables. Visible popup restarts its timer.
func (self *Popups) SetTimeout(name string, tenths int) {
	self.Update(name, func(sp *SubPage) {
		sp.Timeout = tenths
		if sp.Visible() {
			self.startTimeout(sp)
		}
	})
}

// SetMinimized collapses or restores a collapsible visible popup.
func (self *Popups) SetMinimized(sp *SubPage, min bool) {
	if !sp.Collapsible || !sp.Visible() || sp.minimized == min {
		return
	}
	sp.minimized = min
	if min {
		self.surface.MinimizeSubPage(sp.Handle)
	} else {
		self.surface.MaximizeSubPage(sp.Handle)
	}
}

func (self *Popups) startTimeout(sp *SubPage) {
	self.stopTimeout(sp)
	if sp.Timeout <= 0 {
		return
	}
	sp.timeoutSeq++
	seq := sp.timeoutSeq
	sp.timer = self.clock.AfterFunc(helpers.DeciSecond(sp.Timeout), func() {
		self.post(func() { self.expire(sp, seq) })
	})
}

func (self *Popups) stopTimeout(sp *SubPage) {
	if sp.timer != nil {
		sp.timer.Stop()
		sp.timer = nil
	}
	sp.timeoutSeq++
}

func (self *Popups) expire(sp *SubPage, seq uint64) {
	if sp.timeoutSeq != seq || self.reg.GetSubPage(sp.ID) != sp || !sp.Visible() {
		return
	}
	sp.timer = nil
	p := self.reg.GetPage(sp.parent)
	if p == nil {
		return
	}
	self.log.Debugf("popup=%s timeout", sp.Name)
	self.hide(p, sp, true)
}

func (self *Popups) complete(tr effect.Transition) {
	sp := self.reg.GetSubPage(tr.Handle.Owner())
	if sp == nil {
		self.log.Debugf("effect completion for discarded %s", tr.Handle.String())
		return
	}
	if tr.Entering {
		if sp.State == Showing {
			sp.State = Visible
		}
		return
	}
	if sp.State != Hiding {
		return
	}
	p := self.reg.GetPage(sp.parent)
	if p == nil {
		sp.State = Hidden
		sp.Z = ZInvalid
		return
	}
	self.finishHide(p, sp)
}

// Reset stops timers and animations, then drops all pages.
func (self *Popups) Reset() {
	self.fx.StopAll()
	for _, sp := range self.reg.SubPages() {
		self.stopTimeout(sp)
	}
	self.reg.Reset()
}
