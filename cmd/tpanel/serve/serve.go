// Main, user facing mode of operation.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/tpanel/cmd/tpanel/subcmd"
	"github.com/temoto/tpanel/internal/httpapi"
	"github.com/temoto/tpanel/internal/input"
	"github.com/temoto/tpanel/internal/state"
	"golang.org/x/sync/errgroup"
)

var Mod = subcmd.Mod{Name: "panel", Short: "run panel daemon", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	g.Log.Debugf("config=%+v", g.Config)

	eg, egctx := errgroup.WithContext(ctx)
	// run worker as alive task, first failure stops everything
	spawn := func(name string, f func() error) {
		if !g.Alive.Add(1) {
			return
		}
		eg.Go(func() error {
			defer g.Alive.Done()
			err := f()
			if err != nil {
				g.Log.Errorf("%s stopped err=%v", name, err)
			}
			return errors.Annotate(err, name)
		})
	}

	if g.Config.Input.Enabled {
		touch, err := input.NewTouch(g.Log, g.Config.Input.TouchDevice, g.Panel.Touch)
		if err != nil {
			return err
		}
		spawn(touch.String(), func() error { return touch.Run(g.Alive) })
	}
	if listen := g.Config.HTTP.Listen; listen != "" {
		srv := httpapi.New(g.Log, g.Panel, g.BuildVersion)
		spawn("http", func() error { return srv.Run(g.Alive, listen) })
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	eg.Go(func() error {
		select {
		case sig := <-sigs:
			g.Log.Infof("signal=%v stopping", sig)
		case <-egctx.Done():
		case <-g.Alive.StopChan():
		}
		g.Stop()
		return nil
	})

	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Infof("panel init complete")

	err := eg.Wait()
	subcmd.SdNotify(daemon.SdNotifyStopping)
	g.Close()
	g.Alive.Wait()
	return err
}
