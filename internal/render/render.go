// Package render is the outbound render intent interface. The engine decides
// what should be on screen and calls Surface; a toolkit draws it.
package render

import (
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
)

type ButtonView struct {
	Handle handle.Handle
	Parent handle.Handle
	Name   string
	Rect   project.Rect
	// current instance (state) index and its look
	Instance    int
	Look        project.StateInfo
	Level       int
	Active      bool
	Visible     bool
	Enabled     bool
	Passthrough bool
	// marquee/word wrap
	WordWrap bool
}

type SubPageView struct {
	Handle      handle.Handle
	Parent      handle.Handle
	Name        string
	Rect        project.Rect
	Anim        effect.Spec
	Modal       bool
	Collapsible bool
	Z           int
}

type Video struct {
	URL      string
	User     string
	Password string
}

type Surface interface {
	SetPage(h handle.Handle, width, height int)
	SetSubPage(v SubPageView)
	SetBackground(h handle.Handle, image string, width, height int, color string, opacity int)
	DisplayButton(v ButtonView)
	DropPage(h handle.Handle)
	DropSubPage(h, parent handle.Handle)
	DropButton(h handle.Handle)
	MinimizeSubPage(h handle.Handle)
	MaximizeSubPage(h handle.Handle)
	PlayVideo(h, parent handle.Handle, r project.Rect, v Video)
	PlaySound(file string)
	StopSound()
	SetVolume(level int)
	ShowKeyboard(init, prompt string, private bool)
	ShowKeypad(init, prompt string, private bool)
	ShowSetup()
	Shutdown()
	RepaintWindows()
	SetVisible(h handle.Handle, visible bool)
	Animate(tr effect.Transition)
}

type Noop struct{}

var _ Surface = Noop{}

func (Noop) SetPage(handle.Handle, int, int) {}
func (Noop) SetSubPage(SubPageView) {}
func (Noop) SetBackground(handle.Handle, string, int, int, string, int) {}
func (Noop) DisplayButton(ButtonView) {}
func (Noop) DropPage(handle.Handle) {}
func (Noop) DropSubPage(handle.Handle, handle.Handle) {}
func (Noop) DropButton(handle.Handle) {}
func (Noop) MinimizeSubPage(handle.Handle) {}
func (Noop) MaximizeSubPage(handle.Handle) {}
func (Noop) PlayVideo(handle.Handle, handle.Handle, project.Rect, Video) {}
func (Noop) PlaySound(string) {}
func (Noop) StopSound() {}
func (Noop) SetVolume(int) {}
func (Noop) ShowKeyboard(string, string, bool) {}
func (Noop) ShowKeypad(string, string, bool) {}
func (Noop) ShowSetup() {}
func (Noop) Shutdown() {}
func (Noop) RepaintWindows() {}
func (Noop) SetVisible(handle.Handle, bool) {}
func (Noop) Animate(effect.Transition) {}
