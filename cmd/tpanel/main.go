package main

import (
	"os"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/temoto/tpanel/cmd/tpanel/check"
	"github.com/temoto/tpanel/cmd/tpanel/console"
	"github.com/temoto/tpanel/cmd/tpanel/serve"
	"github.com/temoto/tpanel/cmd/tpanel/subcmd"
	"github.com/temoto/tpanel/log2"
)

var BuildVersion string = "unknown" // set by ldflags -X

var modules = []subcmd.Mod{
	serve.Mod,
	console.Mod,
	check.Mod,
}

func main() {
	configPath := "tpanel.hcl"
	root := &cobra.Command{
		Use:           "tpanel",
		Short:         "touch panel command engine",
		Version:       BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "config file")
	for _, m := range modules {
		root.AddCommand(subcmd.Command(m, &configPath, BuildVersion))
	}

	if err := root.Execute(); err != nil {
		log2.NewStderr(log2.LError).Error(errors.ErrorStack(err))
		os.Exit(1)
	}
}
