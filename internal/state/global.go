package state

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/panel"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Clock        helpers.Clock
	Config       *Config
	Engine       *engine.Engine
	Files        FullReader
	Log          *log2.Log
	Panel        *panel.Panel
	Project      *project.Memory
	Surface      render.Surface
	// Sender is Tele when bridge is enabled
	Sender tele.Sender
	Tele   *tele.Bridge

	session Session
	persist Persist
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	g.Log.Infof("build version=%s", g.BuildVersion)
	if g.Config.Panel.LogDebug {
		g.Log.SetLevel(log2.LDebug)
	}
	if g.Clock == nil {
		g.Clock = helpers.RealClock{}
	}
	if g.Surface == nil {
		g.Surface = render.Log{L: g.Log}
	}

	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = "./tmp-tpanel-db"
		if g.Config.Persist.Enabled || g.Config.Tele.Enabled {
			g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
		}
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)

	// Since tele is remote error reporting mechanism, it must be inited before anything else
	if g.Tele == nil {
		g.Tele = tele.NewBridge()
	}
	if g.Config.Tele.PersistPath == "" {
		g.Config.Tele.PersistPath = filepath.Join(g.Config.Persist.Root, "tele")
	}
	// Tele.Init gets g.Log clone before SetErrorFunc, so Tele.Log.Error doesn't recurse on itself
	if err := g.Tele.Init(ctx, g.Log.Clone(log2.LInfo), g.Config.Tele, g.Engine.SubmitEvent); err != nil {
		return errors.Annotate(err, "tele init")
	}
	if g.Config.Tele.Enabled {
		if g.Sender == nil {
			g.Sender = g.Tele
		}
		g.Log.SetErrorFunc(g.Tele.Error)
	}
	if g.Sender == nil {
		g.Sender = tele.Noop{}
	}

	if g.BuildVersion == "unknown" {
		g.Error(fmt.Errorf("build version is not set, please use script/build"))
	} else if g.Config.Tele.Enabled && strings.HasSuffix(g.BuildVersion, "-dirty") {
		g.Error(fmt.Errorf("running development build with uncommited changes, bad idea for production"))
	}

	if err := g.initProject(); err != nil {
		return err
	}
	if err := g.initEngine(); err != nil {
		return err
	}

	pcfg := panel.Config{
		Device:          g.Config.Panel.Device,
		SystemPort:      g.Config.Panel.SystemPort,
		Version:         g.Config.Panel.Version,
		Model:           g.Config.Panel.Model,
		BeepSound:       g.Config.Panel.BeepSound,
		DoubleBeepSound: g.Config.Panel.DoubleBeepSound,
	}
	if pcfg.Version == "" {
		pcfg.Version = g.BuildVersion
	}
	if pcfg.Model == "" {
		pcfg.Model = g.Project.Project().Model
	}
	g.Panel = panel.New(g.Log, g.Engine, g.Project, g.Surface, g.Sender, g.Clock, pcfg)

	if err := g.persist.Init("session", &g.session, g.Config.Persist.Root, g.Config.Persist.Enabled, g.Log); err != nil {
		return errors.Annotate(err, "session")
	}
	return g.start(ctx)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Fatal(err)
	}
}

func (g *Global) initProject() error {
	if g.Project != nil {
		return nil
	}
	path := g.Config.Project.Path
	if path == "" {
		return errors.NotValidf("config: project.path=empty")
	}
	b, err := g.readFile(path)
	if err != nil {
		return err
	}
	g.Project, err = project.Decode(b)
	if err != nil {
		return errors.Annotatef(err, "project path=%s", path)
	}

	if mapPath := g.Config.Project.MapPath; mapPath != "" {
		b, err = g.readFile(mapPath)
		if err != nil {
			return err
		}
		m, err := project.ReadMapXML(bytes.NewReader(b))
		if err != nil {
			return errors.Annotatef(err, "project map path=%s", mapPath)
		}
		g.Project.SetMap(*m)
	}
	return nil
}

func (g *Global) readFile(name string) ([]byte, error) {
	norm := g.Files.Normalize(name)
	b, err := g.Files.ReadAll(norm)
	if err != nil {
		return nil, errors.Annotatef(err, "read path=%s", norm)
	}
	if b == nil {
		return nil, errors.NotFoundf("path=%s", norm)
	}
	return b, nil
}

func (g *Global) initEngine() error {
	errs := make([]error, 0)

	dec, err := amx.NewDecoder(g.Config.Panel.Charset)
	if err != nil {
		errs = append(errs, errors.Annotate(err, "config: panel.charset"))
	}
	g.Engine.SetDecoder(dec)

	if pcfg := g.Config.Panel.Profile; pcfg.Regexp != "" {
		if re, err := regexp.Compile(pcfg.Regexp); err != nil {
			errs = append(errs, err)
		} else {
			format := pcfg.LogFormat
			if format == "" {
				format = `engine profile command=%s time=%s`
			}
			min := time.Duration(pcfg.MinUs) * time.Microsecond
			g.Engine.SetProfile(re, min, func(cmd amx.Command, td time.Duration) { g.Log.Debugf(format, cmd.String(), td) })
		}
	}

	return helpers.FoldErrors(errs)
}

// start shows start page, runs on_start commands, then restores saved session.
func (g *Global) start(ctx context.Context) error {
	port := g.Panel.Config().SystemPort
	startPage := g.Config.Panel.StartPage
	if startPage == "" {
		if ps := g.Project.Project().Pages; len(ps) != 0 {
			startPage = ps[0].Name
		}
	}
	if startPage != "" {
		g.Engine.SubmitCommand(ctx, port, "PAGE-"+startPage)
	}

	errs := make([]error, 0)
	for i, text := range g.Config.Panel.OnStart {
		mnemonic, _, _ := amx.SplitMnemonic(text)
		if _, err := g.Engine.Resolve(mnemonic); err != nil {
			errs = append(errs, errors.Annotatef(err, "config: panel.on_start[%d]", i))
			continue
		}
		g.Engine.SubmitCommand(ctx, port, text)
	}

	if err := g.persist.Load(); err != nil {
		g.Error(err)
	} else {
		for _, text := range g.session.Commands() {
			g.Engine.SubmitCommand(ctx, port, text)
		}
	}
	return helpers.FoldErrors(errs)
}

// SaveSession stores active page and visible popups.
func (g *Global) SaveSession() error {
	if !g.persist.Enabled() {
		return nil
	}
	if !g.Engine.Inspect("session", func() { g.session.Capture(g.Panel) }) {
		return errors.Errorf("session capture timeout")
	}
	g.session.Time = time.Now().UnixNano()
	return g.persist.Store()
}

// Session returns last captured or restored session.
func (g *Global) Session() Session { return g.session }

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(err)
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait(5 * time.Second)
		g.Log.Fatal(errors.ErrorStack(err))
		os.Exit(1)
	}
}

func (g *Global) Stop() {
	g.Alive.Stop()
}

func (g *Global) StopWait(timeout time.Duration) bool {
	g.Alive.Stop()
	select {
	case <-g.Alive.WaitChan():
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close saves session and stops controller bridge.
func (g *Global) Close() {
	if err := g.SaveSession(); err != nil {
		g.Error(err)
	}
	if g.Tele != nil {
		g.Tele.Close()
	}
}
