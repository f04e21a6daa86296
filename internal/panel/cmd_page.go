package panel

import (
	"context"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/page"
)

func (self *Panel) registerPageCommands() {
	e := self.Engine
	e.RegisterFunc("PAGE", self.cmdPage, "^PGE")
	e.RegisterFunc("@APG", self.cmdAddToGroup)
	e.RegisterFunc("@CPG", self.cmdClearGroup)
	e.RegisterFunc("@DPG", self.cmdRemoveFromGroup)
	e.RegisterFunc("@PDR", self.cmdDraggable)
	e.RegisterFunc("@PHE", self.cmdEffect(false))
	e.RegisterFunc("@PSE", self.cmdEffect(true))
	e.RegisterFunc("@PHP", self.cmdEffectEnd(false))
	e.RegisterFunc("@PSP", self.cmdEffectEnd(true))
	e.RegisterFunc("@PHT", self.cmdEffectTime(false))
	e.RegisterFunc("@PST", self.cmdEffectTime(true))
	e.RegisterFunc("@PPA", self.cmdCloseAllOnPage, "^PPA")
	e.RegisterFunc("@PPF", self.cmdPopupHide, "^PPF", "PPOF")
	e.RegisterFunc("@PPG", self.cmdPopupToggle, "^PPG", "PPOG")
	e.RegisterFunc("@PPK", self.cmdPopupKill, "^PPK")
	e.RegisterFunc("@PPM", self.cmdPopupModal, "^PPM")
	e.RegisterFunc("@PPN", self.cmdPopupShow, "^PPN", "PPON")
	e.RegisterFunc("@PPT", self.cmdPopupTimeout, "^PPT")
	e.RegisterFunc("@PPX", self.cmdCloseAll, "^PPX")
}

// popupName returns required first parameter.
func popupName(cmd amx.Command) (string, error) {
	if err := cmd.RequireParams(1); err != nil {
		return "", err
	}
	name := strings.TrimSpace(cmd.Param(0))
	if name == "" {
		return "", errors.NotValidf("%s empty popup name", cmd.Mnemonic)
	}
	return name, nil
}

// PAGE-name flips to page. Name "-" or empty returns to previous page.
func (self *Panel) cmdPage(ctx context.Context, cmd amx.Command) error {
	name := strings.TrimSpace(cmd.Param(0))
	if name == "" {
		self.Popups.FlipPrevious()
		return nil
	}
	self.Popups.FlipPage(name)
	return nil
}

// @APG-popup;group adds popup to group and shows it.
func (self *Panel) cmdAddToGroup(ctx context.Context, cmd amx.Command) error {
	if err := cmd.RequireParams(2); err != nil {
		return err
	}
	name, group := strings.TrimSpace(cmd.Param(0)), strings.TrimSpace(cmd.Param(1))
	self.Popups.SetGroup(name, group)
	self.Popups.Show(name)
	return nil
}

// @CPG-group
func (self *Panel) cmdClearGroup(ctx context.Context, cmd amx.Command) error {
	if err := cmd.RequireParams(1); err != nil {
		return err
	}
	self.Popups.ClearGroup(strings.TrimSpace(cmd.Param(0)))
	return nil
}

// @DPG-popup;group
func (self *Panel) cmdRemoveFromGroup(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	self.Popups.RemoveFromGroup(name, strings.TrimSpace(cmd.Param(1)))
	return nil
}

// @PDR-popup;0|1
func (self *Panel) cmdDraggable(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	drag, err := parseBool(cmd.Param(1))
	if err != nil {
		return err
	}
	self.Popups.Update(name, func(sp *page.SubPage) { sp.Draggable = drag })
	return nil
}

// @PSE/@PHE-popup;effect name
func (self *Panel) cmdEffect(show bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		name, err := popupName(cmd)
		if err != nil {
			return err
		}
		e := effect.Parse(cmd.Param(1))
		self.Popups.Update(name, func(sp *page.SubPage) {
			if show {
				sp.Anim.ShowEffect = e
			} else {
				sp.Anim.HideEffect = e
			}
		})
		return nil
	}
}

// @PSP/@PHP-popup;x,y sets position where the transition ends.
// Separator is ';' so coordinates arrive as one parameter.
func (self *Panel) cmdEffectEnd(show bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		name, err := popupName(cmd)
		if err != nil {
			return err
		}
		var end *effect.Point
		if s := strings.TrimSpace(cmd.Param(1)); s != "" {
			pt, err := parsePoint(s)
			if err != nil {
				return errors.Annotatef(err, "%s", cmd.Mnemonic)
			}
			end = &pt
		}
		self.Popups.Update(name, func(sp *page.SubPage) {
			if show {
				sp.Anim.ShowEnd = end
			} else {
				sp.Anim.HideEnd = end
			}
		})
		return nil
	}
}

func parsePoint(s string) (effect.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return effect.Point{}, errors.NotValidf("position %q", s)
	}
	x, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return effect.Point{}, errors.NotValidf("position %q", s)
	}
	return effect.Point{X: x, Y: y}, nil
}

// @PST/@PHT-popup;tenths
func (self *Panel) cmdEffectTime(show bool) func(context.Context, amx.Command) error {
	return func(ctx context.Context, cmd amx.Command) error {
		name, err := popupName(cmd)
		if err != nil {
			return err
		}
		t, err := cmd.ParamInt(1)
		if err != nil {
			return err
		}
		if t < 0 {
			return errors.NotValidf("%s negative time %d", cmd.Mnemonic, t)
		}
		self.Popups.Update(name, func(sp *page.SubPage) {
			if show {
				sp.Anim.ShowTime = t
			} else {
				sp.Anim.HideTime = t
			}
		})
		return nil
	}
}

// @PPA-page, empty means active page.
func (self *Panel) cmdCloseAllOnPage(ctx context.Context, cmd amx.Command) error {
	self.Popups.CloseAllOnPage(strings.TrimSpace(cmd.Param(0)))
	return nil
}

// @PPX
func (self *Panel) cmdCloseAll(ctx context.Context, cmd amx.Command) error {
	self.Popups.CloseAll()
	return nil
}

// @PPF-popup[;page]
func (self *Panel) cmdPopupHide(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	if self.otherPage(cmd, name) {
		return nil
	}
	self.Popups.Hide(name)
	return nil
}

// @PPG-popup[;page]
func (self *Panel) cmdPopupToggle(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	if self.otherPage(cmd, name) {
		return nil
	}
	self.Popups.Toggle(name)
	return nil
}

// @PPK-popup
func (self *Panel) cmdPopupKill(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	self.Popups.Kill(name)
	return nil
}

// @PPM-popup;modal|nonmodal
func (self *Panel) cmdPopupModal(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	var modal bool
	switch strings.ToLower(strings.TrimSpace(cmd.Param(1))) {
	case "modal", "1":
		modal = true
	case "nonmodal", "0":
	default:
		return errors.NotValidf("%s mode %q", cmd.Mnemonic, cmd.Param(1))
	}
	self.Popups.SetModal(name, modal)
	return nil
}

// @PPN-popup[;page]. Page other than active is not supported, popups are
// always shown on the active page.
func (self *Panel) cmdPopupShow(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	if self.otherPage(cmd, name) {
		return nil
	}
	self.Popups.Show(name)
	return nil
}

// otherPage reports optional ;page parameter naming a page which is not active.
func (self *Panel) otherPage(cmd amx.Command, popup string) bool {
	pname := strings.TrimSpace(cmd.Param(1))
	if pname == "" {
		return false
	}
	if p := self.Registry.Active(); p == nil || !strings.EqualFold(p.Name, pname) {
		self.Log.Debugf("%s popup=%s page=%s is not active, ignored", cmd.Mnemonic, popup, pname)
		return true
	}
	return false
}

// @PPT-popup;tenths, 0 or empty clears timeout.
func (self *Panel) cmdPopupTimeout(ctx context.Context, cmd amx.Command) error {
	name, err := popupName(cmd)
	if err != nil {
		return err
	}
	t := 0
	if strings.TrimSpace(cmd.Param(1)) != "" {
		if t, err = cmd.ParamInt(1); err != nil {
			return err
		}
	}
	self.Popups.SetTimeout(name, t)
	return nil
}
