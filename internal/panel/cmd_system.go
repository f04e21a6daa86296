package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/addr"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/project"
)

const (
	DefaultBeepSound       = "beep.wav"
	DefaultDoubleBeepSound = "double-beep.wav"
)

// system buttons reset by BLINK: connection, battery and clock indicators
var blinkResetChannels = []int{141, 142, 143, 151, 152, 153, 154, 155, 156, 157, 158}

func (self *Panel) registerSystemCommands() {
	e := self.Engine
	e.RegisterFunc("ON", self.cmdChannel(true))
	e.RegisterFunc("OFF", self.cmdChannel(false))
	e.RegisterFunc("LEVEL", self.cmdLevel)
	e.RegisterFunc("BLINK", self.cmdBlink)

	e.RegisterFunc("^VER?", self.cmdVersion)
	e.RegisterFunc("^MODEL?", self.cmdModel)
	e.RegisterFunc("BEEP", self.cmdBeep(false), "^ABP", "ABEEP")
	e.RegisterFunc("DBEEP", self.cmdBeep(true), "^ADB", "ADBEEP")
	e.RegisterFunc("@SOU", self.cmdSound, "^SOU")
	e.RegisterFunc("^STP", self.cmdSetup, "SETUP")
	e.RegisterFunc("SHUTDOWN", self.cmdShutdown)

	e.RegisterFunc("@AKB", self.cmdKeyboard(false), "AKEYB")
	e.RegisterFunc("@PKB", self.cmdKeyboard(true), "^PKB")
	e.RegisterFunc("@AKP", self.cmdKeypad(false), "AKEYP", "@EKP", "@TKP", "^TKP", "@VKB", "^VKB")
	e.RegisterFunc("@PKP", self.cmdKeypad(true), "^PKP", "PKEYP")
	e.RegisterFunc("@AKR", self.cmdKeyboardRemove, "AKEYR")
}

// ON-ch / OFF-ch switch general buttons of channel map.
func (self *Panel) cmdChannel(on bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		ch, err := cmd.ParamInt(0)
		if err != nil {
			return err
		}
		if ch <= 0 {
			return errors.NotValidf("%s channel %d", cmd.Mnemonic, ch)
		}
		cmd.Channels = []int{ch}
		bs, err := self.buttons(cmd, addr.CategoryState)
		for _, b := range bs {
			if b.Type() != project.ButtonGeneral {
				continue
			}
			b.SetActive(on)
			self.Registry.Display(b)
		}
		return err
	}
}

// LEVEL-ch,value sets bargraphs of level map.
func (self *Panel) cmdLevel(ctx context.Context, cmd amx.Command) error {
	ch, err := cmd.ParamInt(0)
	if err != nil {
		return err
	}
	level, err := cmd.ParamInt(1)
	if err != nil {
		return err
	}
	if ch <= 0 {
		return errors.NotValidf("%s channel %d", cmd.Mnemonic, ch)
	}
	cmd.Channels = []int{ch}
	bs, err := self.buttons(cmd, addr.CategoryLevel)
	if len(bs) == 0 && err == nil {
		self.Log.Debugf("LEVEL port=%d channel=%d no bargraphs", cmd.Port, ch)
	}
	for _, b := range bs {
		switch b.Type() {
		case project.ButtonBargraph, project.ButtonMultistateBargraph:
			b.SetLevel(level)
			self.Registry.Display(b)
		}
	}
	return err
}

// BLINK-h:m:s,y-m-d,weekday,ON|OFF is the controller heartbeat.
func (self *Panel) cmdBlink(ctx context.Context, cmd amx.Command) error {
	if err := cmd.RequireParams(4); err != nil {
		return err
	}
	var b amx.Blink
	if _, err := fmt.Sscanf(cmd.Param(0), "%d:%d:%d", &b.Hour, &b.Minute, &b.Second); err != nil {
		return errors.NotValidf("BLINK time %q", cmd.Param(0))
	}
	if _, err := fmt.Sscanf(cmd.Param(1), "%d-%d-%d", &b.Year, &b.Month, &b.Day); err != nil {
		return errors.NotValidf("BLINK date %q", cmd.Param(1))
	}
	wd, err := cmd.ParamInt(2)
	if err != nil {
		return err
	}
	b.Weekday = wd
	b.LED = strings.EqualFold(strings.TrimSpace(cmd.Param(3)), "ON")
	self.blink = b

	sys := amx.Command{Port: 0, Mnemonic: cmd.Mnemonic, Channels: blinkResetChannels}
	bs, err := self.buttons(sys, addr.CategoryAnalog)
	for _, bt := range bs {
		bt.SetActive(false)
		self.Registry.Display(bt)
	}
	return err
}

func (self *Panel) systemPort() int {
	return self.config.SystemPort
}

// ^VER? replies ^VER-<version> on system port channel 0.
func (self *Panel) cmdVersion(ctx context.Context, cmd amx.Command) error {
	self.Sender.SendCommand(self.systemPort(), "^VER-"+self.config.Version)
	return nil
}

func (self *Panel) cmdModel(ctx context.Context, cmd amx.Command) error {
	self.Sender.SendCommand(self.systemPort(), "^MODEL-"+self.config.Model)
	return nil
}

func (self *Panel) cmdBeep(double bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		if double {
			self.Surface.PlaySound(self.config.DoubleBeepSound)
		} else {
			self.Surface.PlaySound(self.config.BeepSound)
		}
		return nil
	}
}

// @SOU-file plays sound listed in project map.
func (self *Panel) cmdSound(ctx context.Context, cmd amx.Command) error {
	if err := cmd.RequireParams(1); err != nil {
		return err
	}
	file := strings.TrimSpace(cmd.Param(0))
	if !self.Addr.SoundExists(file) {
		return errors.NotFoundf("%s sound=%s", cmd.Mnemonic, file)
	}
	self.Surface.PlaySound(file)
	return nil
}

func (self *Panel) cmdSetup(ctx context.Context, cmd amx.Command) error {
	self.Surface.ShowSetup()
	return nil
}

func (self *Panel) cmdShutdown(ctx context.Context, cmd amx.Command) error {
	self.Log.Infof("shutdown requested by controller")
	self.Surface.Shutdown()
	return nil
}

// @AKB-init;prompt. Empty init reuses last one. Private keyboard never
// remembers text.
func (self *Panel) cmdKeyboard(private bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		text, prompt := cmd.Param(0), cmd.Param(1)
		if !private {
			if text == "" {
				text = self.akbText
			} else {
				self.akbText = text
			}
		}
		self.Surface.ShowKeyboard(text, prompt, private)
		return nil
	}
}

func (self *Panel) cmdKeypad(private bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		text, prompt := cmd.Param(0), cmd.Param(1)
		if !private {
			if text == "" {
				text = self.akpText
			} else {
				self.akpText = text
			}
		}
		self.Surface.ShowKeypad(text, prompt, private)
		return nil
	}
}

// @AKR removes keyboard or keypad overlay.
func (self *Panel) cmdKeyboardRemove(ctx context.Context, cmd amx.Command) error {
	self.Surface.RepaintWindows()
	return nil
}
