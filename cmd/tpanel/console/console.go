// Interactive command console over fully initialized panel.
package console

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/tpanel/cmd/tpanel/subcmd"
	"github.com/temoto/tpanel/helpers/cli"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/state"
	"github.com/temoto/tpanel/internal/tele"
)

const usage = `syntax: one command per line
- COMMAND        submit command string on system port, e.g. PAGE-Main
- PORT:COMMAND   submit on port, e.g. 5:ON-200
- /touch X,Y     press and release at screen point
- /status        active page and visible popups
- /list          registered mnemonics
- /help
`

var Mod = subcmd.Mod{Name: "console", Short: "interactive command console", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	if !config.Tele.Enabled {
		g.Sender = tele.Log{L: g.Log}
	}
	g.MustInit(ctx, config)

	cli.MainLoop("tpanel-console", newExecutor(ctx), newCompleter(ctx))
	g.Close()
	return nil
}

func newCompleter(ctx context.Context) func(d prompt.Document) []prompt.Suggest {
	g := state.GetGlobal(ctx)
	mnemonics := g.Engine.List()
	suggests := make([]prompt.Suggest, 0, len(mnemonics)+4)
	for _, m := range mnemonics {
		suggests = append(suggests, prompt.Suggest{Text: m})
	}
	for _, m := range []string{"/help", "/list", "/status", "/touch"} {
		suggests = append(suggests, prompt.Suggest{Text: m})
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}

func newExecutor(ctx context.Context) func(string) {
	g := state.GetGlobal(ctx)

	return func(line string) {
		if err := execLine(ctx, g, line); err != nil {
			g.Log.Errorf(errors.ErrorStack(err))
		}
	}
}

var rePort = regexp.MustCompile(`^(\d+):(.+)$`)

// parseLine splits optional PORT: prefix.
func parseLine(line string, defaultPort int) (int, string) {
	if m := rePort.FindStringSubmatch(line); m != nil {
		port, err := strconv.Atoi(m[1])
		if err == nil {
			return port, m[2]
		}
	}
	return defaultPort, line
}

func execLine(ctx context.Context, g *state.Global, line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil
	case line == "/help":
		fmt.Print(usage)
		return nil
	case line == "/list":
		fmt.Println(strings.Join(g.Engine.List(), " "))
		return nil
	case line == "/status":
		fmt.Println(status(g))
		return nil
	case strings.HasPrefix(line, "/touch"):
		var x, y int
		if _, err := fmt.Sscanf(strings.TrimSpace(strings.TrimPrefix(line, "/touch")), "%d,%d", &x, &y); err != nil {
			return errors.NotValidf("touch point %q", line)
		}
		g.Panel.Touch(x, y, true)
		g.Panel.Touch(x, y, false)
		return nil
	case strings.HasPrefix(line, "/"):
		return errors.NotSupportedf("console command %q", line)
	}

	port, text := parseLine(line, g.Panel.Config().SystemPort)
	mnemonic, _, _ := amx.SplitMnemonic(text)
	if _, err := g.Engine.Resolve(mnemonic); err != nil {
		return err
	}
	before := g.Engine.Stats()
	g.Engine.SubmitCommand(ctx, port, text)
	after := g.Engine.Stats()
	if after.Failed != before.Failed || after.Dropped != before.Dropped {
		return errors.Errorf("command failed, see log")
	}
	return nil
}

func status(g *state.Global) string {
	var b strings.Builder
	g.Engine.Inspect("console", func() {
		p := g.Panel.Registry.Active()
		if p == nil {
			b.WriteString("no active page")
			return
		}
		fmt.Fprintf(&b, "page=%s id=%d", p.Name, p.ID)
		for _, sp := range p.VisibleSubPages() {
			fmt.Fprintf(&b, "\n- popup=%s z=%d state=%s group=%s modal=%t", sp.Name, sp.Z, sp.State.String(), sp.Group, sp.Modal)
		}
	})
	return b.String()
}
