package render

import (
	"sync"

	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
)

// Intent is one recorded Surface call.
type Intent struct {
	Op      string
	Handle  handle.Handle
	Parent  handle.Handle
	Button  ButtonView
	SubPage SubPageView
	Text    string
	Int     int
	Bool    bool
	Anim    effect.Transition
}

// Recorder captures intents for tests and the HTTP status page.
type Recorder struct {
	mu      sync.Mutex
	intents []Intent
}

var _ Surface = &Recorder{}

func (self *Recorder) add(i Intent) {
	self.mu.Lock()
	self.intents = append(self.intents, i)
	self.mu.Unlock()
}

func (self *Recorder) Intents() []Intent {
	self.mu.Lock()
	defer self.mu.Unlock()
	r := make([]Intent, len(self.intents))
	copy(r, self.intents)
	return r
}

// Filter returns intents with given op in call order.
func (self *Recorder) Filter(op string) []Intent {
	self.mu.Lock()
	defer self.mu.Unlock()
	var r []Intent
	for _, i := range self.intents {
		if i.Op == op {
			r = append(r, i)
		}
	}
	return r
}

// Buttons returns DisplayButton views for h.
func (self *Recorder) Buttons(h handle.Handle) []ButtonView {
	var r []ButtonView
	for _, i := range self.Filter("DisplayButton") {
		if i.Button.Handle == h {
			r = append(r, i.Button)
		}
	}
	return r
}

func (self *Recorder) Reset() {
	self.mu.Lock()
	self.intents = nil
	self.mu.Unlock()
}

func (self *Recorder) SetPage(h handle.Handle, width, height int) {
	self.add(Intent{Op: "SetPage", Handle: h, Int: width * height})
}
func (self *Recorder) SetSubPage(v SubPageView) {
	self.add(Intent{Op: "SetSubPage", Handle: v.Handle, Parent: v.Parent, SubPage: v, Bool: v.Modal})
}
func (self *Recorder) SetBackground(h handle.Handle, image string, width, height int, color string, opacity int) {
	self.add(Intent{Op: "SetBackground", Handle: h, Text: color, Int: opacity})
}
func (self *Recorder) DisplayButton(v ButtonView) {
	self.add(Intent{Op: "DisplayButton", Handle: v.Handle, Parent: v.Parent, Button: v})
}
func (self *Recorder) DropPage(h handle.Handle) { self.add(Intent{Op: "DropPage", Handle: h}) }
func (self *Recorder) DropSubPage(h, parent handle.Handle) {
	self.add(Intent{Op: "DropSubPage", Handle: h, Parent: parent})
}
func (self *Recorder) DropButton(h handle.Handle) { self.add(Intent{Op: "DropButton", Handle: h}) }
func (self *Recorder) MinimizeSubPage(h handle.Handle) {
	self.add(Intent{Op: "MinimizeSubPage", Handle: h})
}
func (self *Recorder) MaximizeSubPage(h handle.Handle) {
	self.add(Intent{Op: "MaximizeSubPage", Handle: h})
}
func (self *Recorder) PlayVideo(h, parent handle.Handle, r project.Rect, v Video) {
	self.add(Intent{Op: "PlayVideo", Handle: h, Parent: parent, Text: v.URL})
}
func (self *Recorder) PlaySound(file string) { self.add(Intent{Op: "PlaySound", Text: file}) }
func (self *Recorder) StopSound() { self.add(Intent{Op: "StopSound"}) }
func (self *Recorder) SetVolume(level int) { self.add(Intent{Op: "SetVolume", Int: level}) }
func (self *Recorder) ShowKeyboard(init, prompt string, private bool) {
	self.add(Intent{Op: "ShowKeyboard", Text: init + "|" + prompt, Bool: private})
}
func (self *Recorder) ShowKeypad(init, prompt string, private bool) {
	self.add(Intent{Op: "ShowKeypad", Text: init + "|" + prompt, Bool: private})
}
func (self *Recorder) ShowSetup() { self.add(Intent{Op: "ShowSetup"}) }
func (self *Recorder) Shutdown() { self.add(Intent{Op: "Shutdown"}) }
func (self *Recorder) RepaintWindows() { self.add(Intent{Op: "RepaintWindows"}) }
func (self *Recorder) SetVisible(h handle.Handle, visible bool) {
	self.add(Intent{Op: "SetVisible", Handle: h, Bool: visible})
}
func (self *Recorder) Animate(tr effect.Transition) {
	self.add(Intent{Op: "Animate", Handle: tr.Handle, Bool: tr.Entering, Anim: tr})
}
