package panel

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/addr"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/page"
	"github.com/temoto/tpanel/internal/project"
)

func (self *Panel) registerButtonCommands() {
	e := self.Engine
	e.RegisterFunc("^BAT", self.cmdLook(func(l *project.StateInfo, v string) error { l.Text += v; return nil }))
	e.RegisterFunc("^BCB", self.cmdLook(func(l *project.StateInfo, v string) error { l.BorderColor = v; return nil }))
	e.RegisterFunc("^BCF", self.cmdLook(func(l *project.StateInfo, v string) error { l.FillColor = v; return nil }))
	e.RegisterFunc("^BCT", self.cmdLook(func(l *project.StateInfo, v string) error { l.TextColor = v; return nil }))
	e.RegisterFunc("^BMP", self.cmdLook(func(l *project.StateInfo, v string) error { l.Bitmap = v; return nil }))
	e.RegisterFunc("^BRD", self.cmdLook(func(l *project.StateInfo, v string) error { l.BorderName = v; return nil }))
	e.RegisterFunc("^TEC", self.cmdLook(func(l *project.StateInfo, v string) error { l.TextEffectColor = v; return nil }))
	e.RegisterFunc("^TEF", self.cmdLook(func(l *project.StateInfo, v string) error { l.TextEffect = v; return nil }))
	e.RegisterFunc("^TXT", self.cmdLook(func(l *project.StateInfo, v string) error { l.Text = v; return nil }))
	e.RegisterFunc("^BOP", self.cmdLook(setInt(0, 255, func(l *project.StateInfo, n int) { l.Opacity = n })))
	e.RegisterFunc("^FON", self.cmdLook(setInt(0, 0xffff, func(l *project.StateInfo, n int) { l.Font = n })))
	e.RegisterFunc("^ICO", self.cmdLook(setInt(0, 0xffff, func(l *project.StateInfo, n int) { l.Icon = n })))
	e.RegisterFunc("^JSB", self.cmdLook(setInt(0, 9, func(l *project.StateInfo, n int) { l.BitmapJustify = n })))
	e.RegisterFunc("^JSI", self.cmdLook(setInt(0, 9, func(l *project.StateInfo, n int) { l.IconJustify = n })))
	e.RegisterFunc("^JST", self.cmdLook(setInt(0, 9, func(l *project.StateInfo, n int) { l.TextJustify = n })))
	e.RegisterFunc("^UNI", self.cmdLook(func(l *project.StateInfo, v string) error {
		s, err := decodeUnicode(v)
		l.Text = s
		return err
	}))
	e.RegisterFunc("^BSP", self.cmdPosition)
	e.RegisterFunc("^BWW", self.cmdWordWrap)
	e.RegisterFunc("^ENA", self.cmdEnable)
	e.RegisterFunc("^SHO", self.cmdShow)
	e.RegisterFunc("^GLH", self.cmdRange(true))
	e.RegisterFunc("^GLL", self.cmdRange(false))
}

type lookFunc func(look *project.StateInfo, value string) error

func setInt(min, max int, f func(look *project.StateInfo, n int)) lookFunc {
	return func(look *project.StateInfo, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < min || n > max {
			return errors.NotValidf("value %q (range %d..%d)", v, min, max)
		}
		f(look, n)
		return nil
	}
}

// cmdLook handles ^XXX-addr,instance,value commands changing per instance
// look. Value may be missing, e.g. ^TXT-1,0 clears text.
func (self *Panel) cmdLook(f lookFunc) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		value := strings.Join(cmd.Params[min(1, len(cmd.Params)):], ",")
		var ferr error
		err := self.eachInstance(cmd, 1, func(b *page.Button, look *project.StateInfo) {
			if ferr != nil {
				return
			}
			ferr = f(look, value)
		})
		if ferr != nil {
			return errors.Annotatef(ferr, "%s", cmd.Mnemonic)
		}
		return err
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// decodeUnicode reads UCS-2 text as groups of 4 hex digits.
func decodeUnicode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s)%4 != 0 {
		return "", errors.NotValidf("unicode hex length %d", len(s))
	}
	units := make([]uint16, 0, len(s)/4)
	for i := 0; i < len(s); i += 4 {
		u, err := strconv.ParseUint(s[i:i+4], 16, 16)
		if err != nil {
			return "", errors.NotValidf("unicode hex %q", s[i:i+4])
		}
		units = append(units, uint16(u))
	}
	return string(utf16.Decode(units)), nil
}

// ^BSP-addr,left|top|right|bottom|center... aligns button inside its parent.
func (self *Panel) cmdPosition(ctx context.Context, cmd amx.Command) error {
	return self.eachButton(cmd, addr.CategoryAnalog, 1, func(b *page.Button) error {
		pw, ph, ok := self.parentSize(b)
		if !ok {
			return errors.Errorf("%s button=%s parent not loaded", cmd.Mnemonic, b.Handle.String())
		}
		r := b.Rect
		for _, p := range cmd.Params {
			switch strings.ToLower(strings.TrimSpace(p)) {
			case "left":
				r.Left = 0
			case "right":
				r.Left = pw - r.Width
			case "top":
				r.Top = 0
			case "bottom":
				r.Top = ph - r.Height
			case "center", "centre":
				r.Left = (pw - r.Width) / 2
				r.Top = (ph - r.Height) / 2
			default:
				return errors.NotValidf("%s position %q", cmd.Mnemonic, p)
			}
		}
		b.Rect = r
		return nil
	})
}

func (self *Panel) parentSize(b *page.Button) (int, int, bool) {
	id := b.Handle.Owner()
	if p := self.Registry.GetPage(id); p != nil {
		return p.Width, p.Height, true
	}
	if sp := self.Registry.GetSubPage(id); sp != nil {
		return sp.Rect.Width, sp.Rect.Height, true
	}
	return 0, 0, false
}

// ^BWW-addr,instance,0|1. Word wrap is per button, instance is ignored.
func (self *Panel) cmdWordWrap(ctx context.Context, cmd amx.Command) error {
	if err := cmd.RequireParams(2); err != nil {
		return err
	}
	ww, err := parseBool(cmd.Param(1))
	if err != nil {
		return errors.Annotatef(err, "%s", cmd.Mnemonic)
	}
	return self.eachButton(cmd, addr.CategoryAnalog, 2, func(b *page.Button) error {
		b.WordWrap = ww
		return nil
	})
}

// ^ENA-addr,0|1
func (self *Panel) cmdEnable(ctx context.Context, cmd amx.Command) error {
	en, err := parseBool(cmd.Param(0))
	if err != nil {
		return errors.Annotatef(err, "%s", cmd.Mnemonic)
	}
	return self.eachButton(cmd, addr.CategoryAnalog, 1, func(b *page.Button) error {
		b.Enabled = en
		return nil
	})
}

// ^SHO-addr,0|1
func (self *Panel) cmdShow(ctx context.Context, cmd amx.Command) error {
	show, err := parseBool(cmd.Param(0))
	if err != nil {
		return errors.Annotatef(err, "%s", cmd.Mnemonic)
	}
	return self.eachButton(cmd, addr.CategoryAnalog, 1, func(b *page.Button) error {
		b.Visible = show
		if !show && self.Registry.OnScreen(b.Handle) {
			self.Surface.DropButton(b.Handle)
		}
		return nil
	})
}

// ^GLH/^GLL-addr,limit change bargraph range. Addressed through level map.
func (self *Panel) cmdRange(high bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		limit, err := cmd.ParamInt(0)
		if err != nil {
			return err
		}
		if high && limit < 1 {
			return errors.NotValidf("%s upper limit %d", cmd.Mnemonic, limit)
		}
		return self.eachButton(cmd, addr.CategoryLevel, 1, func(b *page.Button) error {
			if high {
				b.RangeHigh = limit
			} else {
				b.RangeLow = limit
			}
			if b.RangeLow >= b.RangeHigh {
				self.Log.Warningf("%s button=%s empty range %d..%d", cmd.Mnemonic, b.Handle.String(), b.RangeLow, b.RangeHigh)
			}
			b.SetLevel(b.Level)
			return nil
		})
	}
}
