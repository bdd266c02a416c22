package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"fintrack/internal/cli"
	"fintrack/internal/commands"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/store"
)

func main() {
	cli.LoadEnvFile()

	app := &commands.App{}
	flag.BoolVar(&app.Plain, "plain", false, "print raw markdown instead of rendering it")
	flag.StringVar(&app.Style, "style", "dark", "glamour style used to render markdown")
	verbose := flag.Bool("v", false, "log to stderr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commands.Register(commander, app)

	flag.Parse()

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), logOut).WithComponent(log.ComponentCLI)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	svc, cleanup, err := cli.BuildService(ctx, cfg, logger)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	app.Service = svc
	app.Renderer = report.New(cfg.Currency)
	app.Logger = logger
	app.OpenStore = func(ctx context.Context, name string) (store.Store, func(), error) {
		return cli.OpenStore(ctx, cfg, logger, name)
	}

	status := commander.Execute(ctx)
	cleanup()
	os.Exit(int(status))
}
