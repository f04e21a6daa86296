// Package input reads Linux evdev touchscreen and feeds panel touches.
package input

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/tpanel/log2"
)

const TouchTag = "touch"

// linux/input-event-codes.h
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03

	absX           uint16 = 0x00
	absY           uint16 = 0x01
	absMtPositionX uint16 = 0x35
	absMtPositionY uint16 = 0x36

	btnTouch uint16 = 0x14a
)

type TouchFunc func(x, y int, pressed bool)

// Touch collapses evdev frames into press/release calls.
// Coordinates are taken as is, device must report screen pixels.
type Touch struct {
	Log *log2.Log
	f   io.ReadCloser
	fun TouchFunc

	x, y    int
	down    bool
	changed bool
}

func NewTouch(log *log2.Log, device string, fun TouchFunc) (*Touch, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s device=%s", TouchTag, device)
	}
	return NewTouchReader(log, f, fun), nil
}

func NewTouchReader(log *log2.Log, r io.ReadCloser, fun TouchFunc) *Touch {
	return &Touch{Log: log, f: r, fun: fun}
}

func (self *Touch) String() string { return TouchTag }

// Feed applies one event. Touch state change is reported on frame end.
func (self *Touch) Feed(ev inputevent.InputEvent) {
	switch ev.Type {
	case evAbs:
		switch ev.Code {
		case absX, absMtPositionX:
			self.x = int(ev.Value)
		case absY, absMtPositionY:
			self.y = int(ev.Value)
		}
	case evKey:
		if ev.Code == btnTouch {
			down := ev.Value != int32(inputevent.KeyStateUp)
			if down != self.down {
				self.down = down
				self.changed = true
			}
		}
	case evSyn:
		if self.changed {
			self.changed = false
			self.Log.Debugf("%s x=%d y=%d pressed=%t", TouchTag, self.x, self.y, self.down)
			self.fun(self.x, self.y, self.down)
		}
	}
}

// Run reads device until error or a is stopped.
func (self *Touch) Run(a *alive.Alive) error {
	go func() {
		<-a.StopChan()
		self.f.Close()
	}()
	for {
		ev, err := inputevent.ReadOne(self.f)
		if err != nil {
			if !a.IsRunning() || err == io.EOF {
				return nil
			}
			return errors.Annotate(err, TouchTag)
		}
		self.Feed(ev)
	}
}
