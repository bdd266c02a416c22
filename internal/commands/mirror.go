package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"fintrack/internal/worker"
)

// --- Mirror Command ---

type mirrorCmd struct {
	app *App
	to  string
}

func (*mirrorCmd) Name() string     { return "mirror" }
func (*mirrorCmd) Synopsis() string { return "copy every transaction to another backend" }
func (*mirrorCmd) Usage() string {
	return `mirror -to csv|sqlite|sheets

  Replaces the target backend's transactions with the ones in DATA_BACKEND.
  The target uses the same CSV_FILE, SQLITE_DB_PATH or GOOGLE_* settings.
`
}

func (c *mirrorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "Target backend")
}

func (c *mirrorCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.to == "" || c.app.OpenStore == nil {
		f.Usage()
		return subcommands.ExitUsageError
	}
	dst, closeDst, err := c.app.OpenStore(ctx, c.to)
	if err != nil {
		return c.app.fail(err)
	}
	defer closeDst()

	res, err := worker.NewMirror(c.app.Service.Store(), dst, c.app.Logger).Sync(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	if res.Unchanged {
		c.app.printMarkdown(fmt.Sprintf("`%s` already matches `%s` (%d transactions).\n", res.Destination, res.Source, res.Copied))
	} else {
		c.app.printMarkdown(fmt.Sprintf("Copied **%d** transactions from `%s` to `%s`.\n", res.Copied, res.Source, res.Destination))
	}
	return subcommands.ExitSuccess
}
