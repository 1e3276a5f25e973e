package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/MIkhsanPasaribu/studyhub/internal/cli"
	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite database path. Defaults to <config dir>/studyhub/studyhub.db." type:"path" env:"STUDYHUB_DB"`
	Owner   string `help:"Owner id that records are scoped to." default:"local" env:"STUDYHUB_OWNER"`
	Debug   bool   `help:"Write debug logs to stderr as well as the log file." env:"STUDYHUB_DEBUG"`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Report   cli.ReportCmd   `cmd:"" help:"Print focus and task analytics for a range."`
	Calendar cli.CalendarCmd `cmd:"" help:"Print a month calendar with events."`
	Export   cli.ExportCmd   `cmd:"" help:"Export a range report to CSV or JSON."`
	Keyring  struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the remote database connection string."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the remote database connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("studyhub"),
		kong.Description("Focus timer, tasks, calendar and study analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	logDir, err := logger.DefaultLogDir()
	if err == nil {
		err = logger.Init(logger.Config{Debug: CLI.Debug, LogDir: logDir})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	appCtx := &cli.Context{
		DBPath: CLI.DB,
		Owner:  CLI.Owner,
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
