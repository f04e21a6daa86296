// Sorry, workaround to import cycles.
package state_new

import (
	"context"
	"os"
	"testing"

	"github.com/temoto/alive/v2"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/internal/state"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

func NewContext(log *log2.Log, files state.FullReader) (context.Context, *state.Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &state.Global{
		Alive:  alive.NewAlive(),
		Engine: engine.NewEngine(log),
		Files:  files,
		Log:    log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, engine.ContextKey, g.Engine)
	ctx = context.WithValue(ctx, state.ContextKey, g)

	return ctx, g
}

// TestEnv exposes recorders installed by NewTestContext.
type TestEnv struct {
	Surface *render.Recorder
	Sender  *tele.Recorder
	Clock   *helpers.ManualClock
}

// NewTestContext builds initialized Global over sample project.
// Config may refer to "sample.hcl" as project.path.
func NewTestContext(t testing.TB, confString string) (context.Context, *state.Global, *TestEnv) {
	fs := state.NewMockFullReader(map[string]string{
		"test-inline": confString,
		"sample.hcl":  project.SampleHCL,
	})

	var log *log2.Log
	if os.Getenv("tpanel_test_log_stderr") == "1" {
		log = log2.NewStderr(log2.LDebug) // useful with panics
	} else {
		log = log2.NewTest(t, log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, fs)
	env := &TestEnv{
		Surface: &render.Recorder{},
		Sender:  &tele.Recorder{},
		Clock:   &helpers.ManualClock{},
	}
	g.BuildVersion = "test"
	g.Surface = env.Surface
	g.Sender = env.Sender
	g.Clock = env.Clock
	cfg, err := state.ReadConfig(log, fs, "test-inline")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Project.Path == "" {
		cfg.Project.Path = "sample.hcl"
	}
	if err := g.Init(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	return ctx, g, env
}
