// Package effect schedules show/hide transitions of popups.
package effect

import (
	"strings"
	"time"

	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/project"
)

type Effect uint8

const (
	None Effect = iota
	Fade
	SlideLeft
	SlideRight
	SlideTop
	SlideBottom
	SlideLeftFade
	SlideRightFade
	SlideTopFade
	SlideBottomFade
)

var effectNames = [...]string{
	None:            "none",
	Fade:            "fade",
	SlideLeft:       "slide to left",
	SlideRight:      "slide to right",
	SlideTop:        "slide to top",
	SlideBottom:     "slide to bottom",
	SlideLeftFade:   "slide to left fade",
	SlideRightFade:  "slide to right fade",
	SlideTopFade:    "slide to top fade",
	SlideBottomFade: "slide to bottom fade",
}

func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return "invalid"
}

// Parse maps @PSE/@PHE effect names, unknown names are None.
func Parse(name string) Effect {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	for e, s := range effectNames {
		if s == name {
			return Effect(e)
		}
	}
	return None
}

func (e Effect) Fades() bool {
	return e == Fade || (e >= SlideLeftFade && e <= SlideBottomFade)
}

func (e Effect) Slides() bool {
	return e >= SlideLeft && e <= SlideBottomFade
}

// slide direction without fade
func (e Effect) slide() Effect {
	if e >= SlideLeftFade && e <= SlideBottomFade {
		return e - (SlideLeftFade - SlideLeft)
	}
	return e
}

type Point struct{ X, Y int }

// Spec is per-popup animation configuration. Times in 1/10 s.
type Spec struct {
	ShowEffect Effect
	ShowTime   int
	HideEffect Effect
	HideTime   int
	Offset     int
	ShowEnd    *Point
	HideEnd    *Point
}

func (s Spec) ShowDuration() time.Duration { return helpers.DeciSecond(s.ShowTime) }
func (s Spec) HideDuration() time.Duration { return helpers.DeciSecond(s.HideTime) }

func (s Spec) pick(entering bool) (Effect, time.Duration, *Point) {
	if entering {
		return s.ShowEffect, s.ShowDuration(), s.ShowEnd
	}
	return s.HideEffect, s.HideDuration(), s.HideEnd
}

// Geometry computes start and end rectangle and opacity of a transition
// for popup placed at r.
func Geometry(e Effect, r project.Rect, entering bool, end *Point) (from, to project.Rect, fromOpacity, toOpacity float64) {
	rest := r
	if entering && end != nil {
		rest.Left, rest.Top = end.X, end.Y
	}
	off := rest
	switch e.slide() {
	case SlideBottom:
		off.Top = rest.Top + rest.Height*2
	case SlideLeft:
		off.Left = rest.Left - rest.Width
	case SlideRight:
		off.Left = rest.Left + rest.Width
	case SlideTop:
		off.Top = rest.Top - rest.Height
	}
	if !entering && end != nil && e.Slides() {
		off.Left, off.Top = end.X, end.Y
	}

	fromOpacity, toOpacity = 1, 1
	if e.Fades() {
		fromOpacity, toOpacity = 0, 1
	}
	if entering {
		return off, rest, fromOpacity, toOpacity
	}
	return rest, off, toOpacity, fromOpacity
}
