package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// --- List Command ---

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list every transaction in stored order" }
func (*listCmd) Usage() string {
	return `list

  Prints all transactions as a table.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := c.app.Service.List(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.show(c.app.Renderer.List(txs))
}

// txFlags are the editable fields shared by add and edit.
type txFlags struct {
	date        string
	typ         string
	category    string
	amount      string
	description string
}

func (t *txFlags) register(f *flag.FlagSet, defaultDate, defaultType string) {
	f.StringVar(&t.date, "date", defaultDate, "Transaction date (YYYY-MM-DD)")
	f.StringVar(&t.typ, "type", defaultType, "Transaction type: income or expense")
	f.StringVar(&t.category, "category", "", "Category")
	f.StringVar(&t.amount, "amount", "", "Amount, dot or comma decimal separator")
	f.StringVar(&t.description, "description", "", "Free text description")
}

// --- Add Command ---

type addCmd struct {
	app *App
	txFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new income or expense" }
func (*addCmd) Usage() string {
	return `add -amount <amount> [-date <date>] [-type income|expense] [-category <category>] [-description <text>]

  Appends a transaction. Its id is one more than the last stored id.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.register(f, "", string(core.Expense))
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	date := c.date
	if date == "" {
		date = c.app.Service.Today()
	}
	fields, err := core.ParseFields(date, c.typ, c.category, c.amount, c.description)
	if err != nil {
		return c.app.fail(err)
	}
	t, err := c.app.Service.Create(ctx, fields)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.show(c.app.Renderer.Transaction(services.ActionCreated, t))
}

// --- Edit Command ---

type editCmd struct {
	app *App
	id  int
	txFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of an existing transaction" }
func (*editCmd) Usage() string {
	return `edit -id <id> [-date <date>] [-type income|expense] [-category <category>] [-amount <amount>] [-description <text>]

  Only the flags given are changed; the other fields keep their stored value.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Id of the transaction to edit")
	c.register(f, "", "")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := visited(f)
	if !set["id"] {
		f.Usage()
		return subcommands.ExitUsageError
	}

	current, err := c.app.Service.Get(ctx, c.id)
	if err != nil {
		return c.app.fail(err)
	}
	fields := current.Fields()
	if set["date"] {
		fields.Date = core.CleanText(c.date)
	}
	if set["type"] {
		fields.Type = core.TransactionType(core.CleanText(c.typ))
	}
	if set["category"] {
		fields.Category = core.CleanText(c.category)
	}
	// The stored amount is kept as is; only a new one is validated.
	if set["amount"] {
		amt, err := core.ParseAmount(c.amount)
		if err != nil {
			return c.app.fail(&core.ValidationError{Field: "amount", Value: c.amount, Err: err})
		}
		fields.Amount = amt
	}
	if set["description"] {
		fields.Description = core.CleanText(c.description)
	}

	t, err := c.app.Service.Update(ctx, c.id, fields)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.show(c.app.Renderer.Transaction(services.ActionUpdated, t))
}

// --- Delete Command ---

type deleteCmd struct {
	app *App
	id  int
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a transaction and renumber the rest" }
func (*deleteCmd) Usage() string {
	return `delete -id <id>

  Removes every transaction with the id, then renumbers the remaining ones
  from 1. Deleting an unknown id changes nothing.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.id, "id", 0, "Id of the transaction to delete")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !visited(f)["id"] {
		f.Usage()
		return subcommands.ExitUsageError
	}
	removed, err := c.app.Service.Delete(ctx, c.id)
	if err != nil {
		return c.app.fail(err)
	}
	if !removed {
		c.app.printMarkdown(fmt.Sprintf("No transaction with id **%d**; nothing deleted.\n", c.id))
		return subcommands.ExitSuccess
	}
	c.app.printMarkdown(fmt.Sprintf("Transaction **%d** deleted; remaining transactions renumbered.\n", c.id))
	return subcommands.ExitSuccess
}

// visited returns the names of the flags set on the command line.
func visited(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}
