// Validate config and project without side effects.
package check

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/cmd/tpanel/subcmd"
	"github.com/temoto/tpanel/internal/state"
)

var Mod = subcmd.Mod{Name: "check", Short: "validate config and project", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	config.Tele.Enabled = false
	config.Persist.Enabled = false
	if err := g.Init(ctx, config); err != nil {
		return errors.Annotate(err, "check init")
	}
	if err := g.Project.CheckMap(); err != nil {
		return errors.Annotate(err, "check map")
	}

	p := g.Project.Project()
	m, _ := g.Project.Map()
	fmt.Printf("project=%s model=%s pages=%d popups=%d\n", p.Name, p.Model, len(p.Pages), len(p.SubPages))
	fmt.Printf("map state=%d analog=%d level=%d string=%d sounds=%d\n", len(m.State), len(m.Analog), len(m.Level), len(m.Strings), len(m.Sounds))
	fmt.Printf("commands=%d\n", len(g.Engine.List()))
	return nil
}
