package render

import (
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/log2"
)

// Log surface writes intents to log at debug level.
// Used by headless daemon and console.
type Log struct{ L *log2.Log }

var _ Surface = Log{}

func (self Log) SetPage(h handle.Handle, width, height int) {
	self.L.Debugf("render page=%s size=%dx%d", h.String(), width, height)
}
func (self Log) SetSubPage(v SubPageView) {
	self.L.Debugf("render popup=%s name=%s parent=%s rect=%v z=%d modal=%t", v.Handle.String(), v.Name, v.Parent.String(), v.Rect, v.Z, v.Modal)
}
func (self Log) SetBackground(h handle.Handle, image string, width, height int, color string, opacity int) {
	self.L.Debugf("render background=%s image=%s size=%dx%d color=%s opacity=%d", h.String(), image, width, height, color, opacity)
}
func (self Log) DisplayButton(v ButtonView) {
	self.L.Debugf("render button=%s name=%s instance=%d active=%t level=%d visible=%t look=%+v",
		v.Handle.String(), v.Name, v.Instance, v.Active, v.Level, v.Visible, v.Look)
}
func (self Log) DropPage(h handle.Handle) { self.L.Debugf("render drop page=%s", h.String()) }
func (self Log) DropSubPage(h, parent handle.Handle) {
	self.L.Debugf("render drop popup=%s parent=%s", h.String(), parent.String())
}
func (self Log) DropButton(h handle.Handle) { self.L.Debugf("render drop button=%s", h.String()) }
func (self Log) MinimizeSubPage(h handle.Handle) { self.L.Debugf("render minimize=%s", h.String()) }
func (self Log) MaximizeSubPage(h handle.Handle) { self.L.Debugf("render maximize=%s", h.String()) }
func (self Log) PlayVideo(h, parent handle.Handle, r project.Rect, v Video) {
	self.L.Debugf("render video=%s parent=%s rect=%v url=%s", h.String(), parent.String(), r, v.URL)
}
func (self Log) PlaySound(file string) { self.L.Debugf("render sound=%s", file) }
func (self Log) StopSound() { self.L.Debugf("render sound stop") }
func (self Log) SetVolume(level int) { self.L.Debugf("render volume=%d", level) }
func (self Log) ShowKeyboard(init, prompt string, private bool) {
	self.L.Debugf("render keyboard init=%q prompt=%q private=%t", init, prompt, private)
}
func (self Log) ShowKeypad(init, prompt string, private bool) {
	self.L.Debugf("render keypad init=%q prompt=%q private=%t", init, prompt, private)
}
func (self Log) ShowSetup() { self.L.Debugf("render setup") }
func (self Log) Shutdown() { self.L.Infof("render shutdown requested") }
func (self Log) RepaintWindows() { self.L.Debugf("render repaint") }
func (self Log) SetVisible(h handle.Handle, visible bool) {
	self.L.Debugf("render visible=%s %t", h.String(), visible)
}
func (self Log) Animate(tr effect.Transition) { self.L.Debugf("render animate %s", tr.String()) }
