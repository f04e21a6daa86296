package state

import (
	"context"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

const testMapXML = `<?xml version="1.0" encoding="UTF-8"?>
<root>
 <am>
  <me><p>3</p><c>33</c><pg>1</pg><bt>1</bt></me>
 </am>
 <sm>
  <me><i>gong.wav</i></me>
 </sm>
</root>`

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, context.Context)
		expectErr string
	}
	cases := []Case{
		{"empty", "", nil, "project.path=empty"},

		{"panel", `
project { path = "sample.hcl" }
panel { system_port = 5  version = "2.0"  start_page = "Lights" }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 5, g.Panel.Config().SystemPort)
				assert.Equal(t, "2.0", g.Panel.Config().Version)
				assert.Equal(t, "MVP-5200i", g.Panel.Config().Model)
				require.NotNil(t, g.Panel.Registry.Active())
				assert.Equal(t, "Lights", g.Panel.Registry.Active().Name)
			},
			"",
		},

		{"start-page-default", `project { path = "sample.hcl" }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, "Main", g.Panel.Registry.Active().Name)
				assert.Equal(t, "test", g.Panel.Config().Version)
			},
			"",
		},

		{"on-start", `
project { path = "sample.hcl" }
panel { on_start = ["@PPN-Dialog", "^TXT-9,0,Hi"] }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				dialog := g.Panel.Registry.GetSubPageByName("Dialog")
				require.NotNil(t, dialog)
				assert.True(t, dialog.Visible())
				title := g.Panel.Registry.GetPage(1).Button(1)
				assert.Equal(t, "Hi", title.Looks[0].Text)
			},
			"",
		},

		{"map-xml", `project { path = "sample.hcl"  map_path = "map.xma" }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				m, err := g.Project.Map()
				require.NoError(t, err)
				require.Len(t, m.Analog, 1)
				assert.Equal(t, 33, m.Analog[0].Channel)
				assert.Equal(t, []string{"gong.wav"}, m.Sounds)
			},
			"",
		},

		{"include-normalize", `
project { path = "sample.hcl" }
include "./empty" {}`,
			nil, ""},

		{"include-optional", `
include "panel-port-7" {}
include "non-exist" { optional = true }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 7, g.Config.Panel.SystemPort)
			}, ""},

		{"include-overwrites", `
panel { system_port = 1 }
include "panel-port-7" {}`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 7, g.Panel.Config().SystemPort)
			}, ""},

		{"profile", `
project { path = "sample.hcl" }
panel { profile { regexp = "^PAGE$"  min_us = 0 } }`,
			nil, ""},

		{"error-on-start-unknown", `
project { path = "sample.hcl" }
panel { on_start = ["PAGE-Lights", "NOPE-1"] }`,
			nil, "panel.on_start[1]"},
		{"error-charset", `
project { path = "sample.hcl" }
panel { charset = "no-such-charset" }`,
			nil, "panel.charset"},
		{"error-project-missing", `project { path = "nope.hcl" }`, nil, "nope.hcl not found"},
		{"error-include-missing", `include "non-exist" {}`, nil, "config required name=non-exist"},
		{"error-syntax", `hello`, nil, "key 'hello' expected start of object"},
		{"error-include-loop", `include "include-loop" {}`, nil, "config include loop: from=include-loop include=include-loop"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)

			fs := NewMockFullReader(map[string]string{
				"test-inline":  c.input,
				"empty":        "",
				"panel-port-7": "project { path = \"sample.hcl\" }\npanel { system_port = 7 }",
				"include-loop": `include "include-loop" {}`,
				"sample.hcl":   project.SampleHCL,
				"map.xma":      testMapXML,
			})
			// state_new.NewContext duplicate, import cycle
			g := &Global{
				Alive:        alive.NewAlive(),
				BuildVersion: "test",
				Clock:        &helpers.ManualClock{},
				Engine:       engine.NewEngine(log),
				Files:        fs,
				Log:          log,
				Sender:       &tele.Recorder{},
				Surface:      &render.Recorder{},
			}
			ctx := context.Background()
			ctx = context.WithValue(ctx, log2.ContextKey, log)
			ctx = context.WithValue(ctx, ContextKey, g)

			cfg, err := ReadConfig(log, fs, "test-inline")
			if err == nil {
				err = g.Init(ctx, cfg)
			}
			if c.expectErr == "" {
				if err != nil {
					t.Fatalf("error expected=nil actual='%v'", errors.ErrorStack(err))
				}
				if c.check != nil {
					c.check(t, ctx)
				}
			} else {
				require.Error(t, err)
				if !strings.Contains(err.Error(), c.expectErr) {
					t.Fatalf("error expected='%s' actual='%v'", c.expectErr, err)
				}
			}
		}
	}
	for _, c := range cases {
		t.Run(c.name, mkCheck(c))
	}
}
