// Package page keeps live pages, popups and buttons created from project
// descriptors, and the popup coordinator on top of them.
package page

import (
	"sort"

	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
)

// ZInvalid is z-order of a popup not stacked on any page.
const ZInvalid = -1

type Button struct {
	Handle handle.Handle
	Info   *project.ButtonInfo
	Name   string
	Rect   project.Rect
	// per instance look, mutable copy of Info.States
	Looks     []project.StateInfo
	Instance  int
	Active    bool
	Level     int
	RangeLow  int
	RangeHigh int
	Visible   bool
	Enabled   bool
	WordWrap  bool
}

func newButton(owner int, info *project.ButtonInfo) *Button {
	b := &Button{
		Handle:    handle.Object(owner, info.Index),
		Info:      info,
		Name:      info.Name,
		Rect:      info.Rect(),
		Looks:     make([]project.StateInfo, len(info.States)),
		RangeLow:  info.RangeLow,
		RangeHigh: info.RangeHigh,
		Visible:   !info.Hidden,
		Enabled:   !info.Disabled,
	}
	copy(b.Looks, info.States)
	if len(b.Looks) == 0 {
		b.Looks = make([]project.StateInfo, 1)
	}
	if b.RangeHigh == 0 && b.RangeLow == 0 {
		b.RangeHigh = 255
	}
	return b
}

func (self *Button) Type() string {
	if self.Info.Type == "" {
		return project.ButtonGeneral
	}
	return self.Info.Type
}

func (self *Button) StateCount() int { return len(self.Looks) }

// SetActive switches general button between instance 0 (off) and 1 (on).
func (self *Button) SetActive(active bool) {
	self.Active = active
	if active && len(self.Looks) > 1 {
		self.Instance = 1
	} else {
		self.Instance = 0
	}
}

// SetLevel clamps v into range. Multistate bargraph picks instance
// proportional to level.
func (self *Button) SetLevel(v int) {
	if v < self.RangeLow {
		v = self.RangeLow
	}
	if v > self.RangeHigh {
		v = self.RangeHigh
	}
	self.Level = v
	if self.Type() == project.ButtonMultistateBargraph {
		span := self.RangeHigh - self.RangeLow
		n := len(self.Looks)
		if span > 0 && n > 0 {
			i := n * (v - self.RangeLow) / span
			if i >= n {
				i = n - 1
			}
			self.Instance = i
		}
	}
}

// Instances calls f for looks addressed by protocol state number:
// 0 means all instances, n means instance n-1. Returns false if out of range.
func (self *Button) Instances(state int, f func(i int, look *project.StateInfo)) bool {
	if state == 0 {
		for i := range self.Looks {
			f(i, &self.Looks[i])
		}
		return true
	}
	i := state - 1
	if i < 0 || i >= len(self.Looks) {
		return false
	}
	f(i, &self.Looks[i])
	return true
}

func (self *Button) Look() project.StateInfo {
	if self.Instance >= 0 && self.Instance < len(self.Looks) {
		return self.Looks[self.Instance]
	}
	return project.StateInfo{}
}

func (self *Button) View() render.ButtonView {
	return render.ButtonView{
		Handle:      self.Handle,
		Parent:      self.Handle.OwnerHandle(),
		Name:        self.Name,
		Rect:        self.Rect,
		Instance:    self.Instance,
		Look:        self.Look(),
		Level:       self.Level,
		Active:      self.Active,
		Visible:     self.Visible,
		Enabled:     self.Enabled,
		Passthrough: self.Info.Passthrough,
		WordWrap:    self.WordWrap,
	}
}

func newButtons(owner int, infos []project.ButtonInfo) []*Button {
	bs := make([]*Button, len(infos))
	for i := range infos {
		bs[i] = newButton(owner, &infos[i])
	}
	return bs
}

func findButton(bs []*Button, index int) *Button {
	for _, b := range bs {
		if b.Handle.ObjectID() == index {
			return b
		}
	}
	return nil
}

// buttonAt: last matching button in list order is on top.
func buttonAt(bs []*Button, x, y int) *Button {
	var found *Button
	for _, b := range bs {
		if b.Visible && b.Rect.Contains(x, y) {
			found = b
		}
	}
	return found
}

type Page struct {
	ID         int
	Name       string
	Handle     handle.Handle
	Width      int
	Height     int
	FillColor  string
	Background string
	Buttons    []*Button

	subpages []*SubPage
	zCounter int
}

func newPage(info *project.PageInfo) *Page {
	return &Page{
		ID:         info.ID,
		Name:       info.Name,
		Handle:     handle.Page(info.ID),
		Width:      info.Width,
		Height:     info.Height,
		FillColor:  info.FillColor,
		Background: info.Background,
		Buttons:    newButtons(info.ID, info.Buttons),
	}
}

func (self *Page) Button(index int) *Button { return findButton(self.Buttons, index) }

// ButtonAt finds topmost visible button containing page point.
func (self *Page) ButtonAt(x, y int) *Button { return buttonAt(self.Buttons, x, y) }

// ZCounter is the top z-order assigned in current popup session.
func (self *Page) ZCounter() int { return self.zCounter }

// SubPages attached to the page, in attach order.
func (self *Page) SubPages() []*SubPage {
	r := make([]*SubPage, len(self.subpages))
	copy(r, self.subpages)
	return r
}

// Visible attached popups, highest z first.
func (self *Page) VisibleSubPages() []*SubPage {
	r := make([]*SubPage, 0, len(self.subpages))
	for _, sp := range self.subpages {
		if sp.Visible() {
			r = append(r, sp)
		}
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].Z > r[j].Z })
	return r
}

func (self *Page) attached(sp *SubPage) bool {
	for _, x := range self.subpages {
		if x == sp {
			return true
		}
	}
	return false
}

func (self *Page) attach(sp *SubPage) {
	if !self.attached(sp) {
		self.subpages = append(self.subpages, sp)
	}
	sp.parent = self.ID
}

func (self *Page) detach(sp *SubPage) {
	for i, x := range self.subpages {
		if x == sp {
			self.subpages = append(self.subpages[:i], self.subpages[i+1:]...)
			break
		}
	}
	if sp.parent == self.ID {
		sp.parent = 0
	}
}

type State uint8

const (
	Hidden State = iota
	Showing
	Visible
	Hiding
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Visible:
		return "visible"
	case Hiding:
		return "hiding"
	}
	return "invalid"
}

type SubPage struct {
	ID          int
	Name        string
	Handle      handle.Handle
	Group       string
	Rect        project.Rect
	FillColor   string
	Background  string
	Anim        effect.Spec
	Timeout     int // 1/10 s
	Modal       bool
	Collapsible bool
	Draggable   bool
	Buttons     []*Button

	Z     int
	State State

	parent     int
	timer      helpers.Timer
	timeoutSeq uint64
	minimized  bool
}

func newSubPage(info *project.SubPageInfo) *SubPage {
	return &SubPage{
		ID:         info.ID,
		Name:       info.Name,
		Handle:     handle.Page(info.ID),
		Group:      info.Group,
		Rect:       info.Rect(),
		FillColor:  info.FillColor,
		Background: info.Background,
		Anim: effect.Spec{
			ShowEffect: effect.Parse(info.ShowEffect),
			ShowTime:   info.ShowTime,
			HideEffect: effect.Parse(info.HideEffect),
			HideTime:   info.HideTime,
			Offset:     info.Offset,
		},
		Timeout:     info.Timeout,
		Modal:       info.Modal,
		Collapsible: info.Collapsible,
		Buttons:     newButtons(info.ID, info.Buttons),
		Z:           ZInvalid,
	}
}

// Visible includes show transition in progress.
func (self *SubPage) Visible() bool { return self.State == Visible || self.State == Showing }

func (self *SubPage) Minimized() bool { return self.minimized }

// Parent is id of page the popup is attached to, 0 if none.
func (self *SubPage) Parent() int { return self.parent }

func (self *SubPage) Button(index int) *Button { return findButton(self.Buttons, index) }

// ButtonAt takes screen coordinates.
func (self *SubPage) ButtonAt(x, y int) *Button {
	return buttonAt(self.Buttons, x-self.Rect.Left, y-self.Rect.Top)
}

func (self *SubPage) View() render.SubPageView {
	return render.SubPageView{
		Handle:      self.Handle,
		Parent:      handle.Page(self.parent),
		Name:        self.Name,
		Rect:        self.Rect,
		Anim:        self.Anim,
		Modal:       self.Modal,
		Collapsible: self.Collapsible,
		Z:           self.Z,
	}
}
