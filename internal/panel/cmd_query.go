package panel

import (
	"context"
	"strconv"

	"github.com/temoto/tpanel/internal/addr"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/page"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/tele"
)

// Custom event types of query replies.
const (
	EventTypeText          = 1001
	EventTypeBitmap        = 1002
	EventTypeIcon          = 1003
	EventTypeTextJustify   = 1004
	EventTypeBitmapJustify = 1005
	EventTypeIconJustify   = 1006
	EventTypeFont          = 1007
	EventTypeTextEffect    = 1008
	EventTypeTextEffectClr = 1009
	EventTypeWordWrap      = 1010
	EventTypeBorderColor   = 1011
	EventTypeFillColor     = 1012
	EventTypeTextColor     = 1013
	EventTypeBorderName    = 1014
	EventTypeOpacity       = 1015
)

type queryFunc func(b *page.Button, look *project.StateInfo) string

func itoa(n int) string { return strconv.Itoa(n) }

func (self *Panel) registerQueryCommands() {
	e := self.Engine
	e.RegisterFunc("?BCB", self.cmdQuery(EventTypeBorderColor, func(_ *page.Button, l *project.StateInfo) string { return l.BorderColor }))
	e.RegisterFunc("?BCF", self.cmdQuery(EventTypeFillColor, func(_ *page.Button, l *project.StateInfo) string { return l.FillColor }))
	e.RegisterFunc("?BCT", self.cmdQuery(EventTypeTextColor, func(_ *page.Button, l *project.StateInfo) string { return l.TextColor }))
	e.RegisterFunc("?BMP", self.cmdQuery(EventTypeBitmap, func(_ *page.Button, l *project.StateInfo) string { return l.Bitmap }))
	e.RegisterFunc("?BOP", self.cmdQuery(EventTypeOpacity, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.Opacity) }))
	e.RegisterFunc("?BRD", self.cmdQuery(EventTypeBorderName, func(_ *page.Button, l *project.StateInfo) string { return l.BorderName }))
	e.RegisterFunc("?BWW", self.cmdQuery(EventTypeWordWrap, func(b *page.Button, _ *project.StateInfo) string {
		if b.WordWrap {
			return "1"
		}
		return "0"
	}))
	e.RegisterFunc("?FON", self.cmdQuery(EventTypeFont, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.Font) }))
	e.RegisterFunc("?ICO", self.cmdQuery(EventTypeIcon, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.Icon) }))
	e.RegisterFunc("?JSB", self.cmdQuery(EventTypeBitmapJustify, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.BitmapJustify) }))
	e.RegisterFunc("?JSI", self.cmdQuery(EventTypeIconJustify, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.IconJustify) }))
	e.RegisterFunc("?JST", self.cmdQuery(EventTypeTextJustify, func(_ *page.Button, l *project.StateInfo) string { return itoa(l.TextJustify) }))
	e.RegisterFunc("?TEC", self.cmdQuery(EventTypeTextEffectClr, func(_ *page.Button, l *project.StateInfo) string { return l.TextEffectColor }))
	e.RegisterFunc("?TEF", self.cmdQuery(EventTypeTextEffect, func(_ *page.Button, l *project.StateInfo) string { return l.TextEffect }))
	e.RegisterFunc("?TXT", self.cmdQuery(EventTypeText, func(_ *page.Button, l *project.StateInfo) string { return l.Text }))
}

// cmdQuery answers ?XXX-addr,instance with one custom event per addressed
// instance of the first matched button. Reply goes to the button channel.
func (self *Panel) cmdQuery(typ int, f queryFunc) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		if err := cmd.RequireParams(1); err != nil {
			return err
		}
		state, err := cmd.ParamInt(0)
		if err != nil {
			return err
		}
		bs, err := self.buttons(cmd, addr.CategoryAnalog)
		if len(bs) == 0 {
			return err
		}
		b := bs[0]
		ok := b.Instances(state, func(i int, look *project.StateInfo) {
			text := f(b, look)
			self.Sender.SendCustomEvent(tele.CustomEvent{
				Port:     b.Info.ChannelPort,
				Channel:  b.Info.Channel,
				Instance: i + 1,
				Value:    len(text),
				Length:   len(text),
				Text:     text,
				Type:     typ,
			})
		})
		if !ok {
			self.Log.Warningf("%s button=%s instance=%d out of range 1..%d", cmd.Mnemonic, b.Handle.String(), state, b.StateCount())
		}
		return err
	}
}
