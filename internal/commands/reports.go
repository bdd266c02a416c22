package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

// --- Budget Command ---

type budgetCmd struct {
	app *App
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "compare this month's expenses with the budget" }
func (*budgetCmd) Usage() string {
	return `budget

  Shows the current month's expense total against MONTHLY_BUDGET.
`
}

func (*budgetCmd) SetFlags(*flag.FlagSet) {}

func (c *budgetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status, err := c.app.Service.Budget(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.show(c.app.Renderer.Budget(status))
}

// --- Summary Command ---

type summaryCmd struct {
	app *App
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "income, expense and savings for this month" }
func (*summaryCmd) Usage() string {
	return `summary

  Totals the current month's income and expenses.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sum, err := c.app.Service.Summary(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.show(c.app.Renderer.Summary(sum))
}
