package panel

import (
	"github.com/temoto/tpanel/internal/page"
)

// Touch routes screen press/release into dispatch context.
func (self *Panel) Touch(x, y int, pressed bool) {
	self.Engine.Post(func() { self.touch(x, y, pressed) })
}

func (self *Panel) touch(x, y int, pressed bool) {
	if !pressed {
		if b := self.pressed; b != nil {
			self.pressed = nil
			self.Sender.SendChannel(b.Info.ChannelPort, b.Info.Channel, false)
		}
		return
	}

	b := self.hit(x, y)
	if b == nil || !b.Visible || !b.Enabled {
		return
	}
	self.Log.Debugf("touch x=%d y=%d button=%s %s", x, y, b.Handle.String(), b.Name)
	if b.Info.Channel > 0 {
		self.pressed = b
		self.Sender.SendChannel(b.Info.ChannelPort, b.Info.Channel, true)
	}
	if b.Info.PageFlip != "" {
		self.Popups.FlipPage(b.Info.PageFlip)
	}
}

// hit finds button under the point. A visible modal popup takes all input.
// Press on empty area of a collapsible popup toggles it minimized.
func (self *Panel) hit(x, y int) *page.Button {
	if modal := self.Popups.TopModal(); modal != nil {
		if !modal.Rect.Contains(x, y) {
			return nil
		}
		return modal.ButtonAt(x, y)
	}
	if sp := self.Registry.CoordMatch(x, y); sp != nil {
		b := sp.ButtonAt(x, y)
		if b == nil && sp.Collapsible {
			self.Popups.SetMinimized(sp, !sp.Minimized())
		}
		return b
	}
	return self.Registry.CoordMatchPage(x, y)
}
