// Package panel binds protocol mnemonics to operations on pages, popups and
// buttons. Panel is the engine state: everything handlers touch hangs off it.
package panel

import (
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/addr"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/effect"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/page"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

// DefaultSystemPort is used for identity replies when config has zero.
const DefaultSystemPort = 1

type Config struct {
	Device          int
	SystemPort      int
	Version         string
	Model           string
	BeepSound       string
	DoubleBeepSound string
}

type Panel struct {
	Log      *log2.Log
	Engine   *engine.Engine
	Addr     *addr.Resolver
	Registry *page.Registry
	Popups   *page.Popups
	Effects  *effect.Scheduler
	Surface  render.Surface
	Sender   tele.Sender

	config Config
	// last init text of keyboard and keypad
	akbText string
	akpText string
	pressed *page.Button
	blink   amx.Blink
}

// New builds panel state over project source and registers command handlers
// in eng. Nil surface, sender or clock get no-op/real defaults.
func New(log *log2.Log, eng *engine.Engine, src project.Source, surface render.Surface, sender tele.Sender, clock helpers.Clock, config Config) *Panel {
	if surface == nil {
		surface = render.Noop{}
	}
	if sender == nil {
		sender = tele.Noop{}
	}
	if config.SystemPort == 0 {
		config.SystemPort = DefaultSystemPort
	}
	if config.BeepSound == "" {
		config.BeepSound = DefaultBeepSound
	}
	if config.DoubleBeepSound == "" {
		config.DoubleBeepSound = DefaultDoubleBeepSound
	}
	reg := page.NewRegistry(log, src, surface)
	fx := effect.NewScheduler(log, clock)
	self := &Panel{
		Log:      log,
		Engine:   eng,
		Addr:     addr.NewResolver(log, src),
		Registry: reg,
		Popups:   page.NewPopups(log, reg, fx, clock, eng.Post),
		Effects:  fx,
		Surface:  surface,
		Sender:   sender,
		config:   config,
	}
	self.RegisterCommands()
	return self
}

func (self *Panel) Config() Config { return self.config }

func (self *Panel) RegisterCommands() {
	self.registerPageCommands()
	self.registerButtonCommands()
	self.registerQueryCommands()
	self.registerSystemCommands()
}

// Reset drops all live pages and popups, next reference reads project again.
func (self *Panel) Reset() {
	self.pressed = nil
	self.Popups.Reset()
	self.Addr.Reload()
}

// Blink returns last controller heartbeat.
func (self *Panel) Blink() amx.Blink { return self.blink }

// buttons resolves command address to live buttons. Empty resolution is not
// an error. Partial collection is still returned with the load error.
func (self *Panel) buttons(cmd amx.Command, cat addr.Category) ([]*page.Button, error) {
	entries, err := self.Addr.FindButtons(cmd.Port, cmd.Channels, cat)
	if err != nil {
		return nil, errors.Annotatef(err, "%s", cmd.Mnemonic)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	bs, err := self.Registry.CollectButtons(entries)
	return bs, errors.Trace(err)
}

// eachInstance applies f to addressed instances of every button and displays
// changed buttons. First parameter is the instance number, 0 means all.
func (self *Panel) eachInstance(cmd amx.Command, minParams int, f func(b *page.Button, look *project.StateInfo)) error {
	if err := cmd.RequireParams(minParams); err != nil {
		return err
	}
	state, err := cmd.ParamInt(0)
	if err != nil {
		return err
	}
	bs, err := self.buttons(cmd, addr.CategoryAnalog)
	for _, b := range bs {
		ok := b.Instances(state, func(_ int, look *project.StateInfo) { f(b, look) })
		if !ok {
			self.Log.Warningf("%s button=%s instance=%d out of range 1..%d", cmd.Mnemonic, b.Handle.String(), state, b.StateCount())
			continue
		}
		self.Registry.Display(b)
	}
	return err
}

// eachButton applies f to every addressed button and displays it.
func (self *Panel) eachButton(cmd amx.Command, cat addr.Category, minParams int, f func(b *page.Button) error) error {
	if err := cmd.RequireParams(minParams); err != nil {
		return err
	}
	bs, err := self.buttons(cmd, cat)
	for _, b := range bs {
		if ferr := f(b); ferr != nil {
			return ferr
		}
		self.Registry.Display(b)
	}
	return err
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "on", "true":
		return true, nil
	case "0", "off", "false", "":
		return false, nil
	}
	return false, errors.NotValidf("boolean %q", s)
}
