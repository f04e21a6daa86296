// Support sub-commands in tpanel application.
package subcmd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/temoto/tpanel/internal/state"
	state_new "github.com/temoto/tpanel/internal/state/new"
	"github.com/temoto/tpanel/log2"
)

type Mod struct {
	Name  string
	Short string
	Main  func(context.Context, *state.Config) error
}

// Command wraps mod: sets up logger and Global context, reads config.
func Command(m Mod, configPath *string, buildVersion string) *cobra.Command {
	if m.Name == "" {
		panic(fmt.Sprintf("code error Name='' module=%#v", m))
	}
	return &cobra.Command{
		Use:   m.Name,
		Short: m.Short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			log := log2.NewStderr(log2.LInfo)
			if SdNotify("start") {
				// we're under systemd, assume systemd journal logging, remove timestamp
				log.SetFlags(log2.LServiceFlags)
			} else {
				log.SetFlags(log2.LInteractiveFlags)
			}

			ctx, g := state_new.NewContext(log, state.NewOsFullReader("."))
			g.BuildVersion = buildVersion
			config, err := state.ReadConfig(log, g.Files, *configPath)
			if err != nil {
				return errors.Annotatef(err, "config=%s", *configPath)
			}
			return m.Main(ctx, config)
		},
	}
}

func SdNotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log2.NewStderr(log2.LError).Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
