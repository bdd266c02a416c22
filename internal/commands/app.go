// Package commands implements the fintrackctl subcommands over the
// transaction service.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// App is shared by every subcommand.
type App struct {
	Service  *services.TransactionService
	Renderer *report.Renderer

	// Plain prints raw markdown instead of rendering it for the terminal.
	Plain bool
	// Style is the glamour style name, "dark" when empty.
	Style string

	// OpenStore builds another configured backend by name, for mirror.
	OpenStore func(ctx context.Context, backend string) (store.Store, func(), error)

	// Logger is handed to background work such as mirror. Nil falls back to
	// the default logger.
	Logger *log.Logger

	Out io.Writer
	Err io.Writer
}

// Register adds the subcommands to the commander.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&listCmd{app: app}, "transactions")
	c.Register(&addCmd{app: app}, "transactions")
	c.Register(&editCmd{app: app}, "transactions")
	c.Register(&deleteCmd{app: app}, "transactions")

	c.Register(&budgetCmd{app: app}, "reports")
	c.Register(&summaryCmd{app: app}, "reports")

	c.Register(&mirrorCmd{app: app}, "storage")
}

func (a *App) stdout() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

func (a *App) stderr() io.Writer {
	if a.Err != nil {
		return a.Err
	}
	return os.Stderr
}

// printMarkdown renders md for the terminal, or prints it raw when Plain is
// set or glamour fails.
func (a *App) printMarkdown(md string) {
	if !a.Plain {
		style := a.Style
		if style == "" {
			style = "dark"
		}
		if out, err := glamour.Render(md, style); err == nil {
			fmt.Fprint(a.stdout(), out)
			return
		}
	}
	fmt.Fprint(a.stdout(), md)
}

// fail reports err on stderr. Every error is a failure exit; the message
// names NotFound and validation problems plainly.
func (a *App) fail(err error) subcommands.ExitStatus {
	var verr *core.ValidationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintf(a.stderr(), "Error: %v\n", err)
	case errors.As(err, &verr):
		fmt.Fprintf(a.stderr(), "Invalid %s %q: %v\n", verr.Field, verr.Value, verr.Err)
	default:
		fmt.Fprintf(a.stderr(), "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

// show renders a report and prints it.
func (a *App) show(md string, err error) subcommands.ExitStatus {
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}
