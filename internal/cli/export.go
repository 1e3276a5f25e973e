package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/export"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

type ExportCmd struct {
	Format string `help:"Output format (csv, json)." enum:"csv,json" default:"csv"`
	Range  string `help:"Range to export (daily, weekly, monthly)." enum:"daily,weekly,monthly" default:"weekly"`
	Out    string `help:"Directory to write into. Defaults to ~/studyhub-exports." type:"path"`
	Source string `help:"Postgres DSN or 'keyring' to read remote records instead of the local store." env:"STUDYHUB_SOURCE"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	rng, err := analytics.ParseRange(c.Range)
	if err != nil {
		return err
	}

	dir := c.Out
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, "studyhub-exports")
	}

	bg := context.Background()
	src, closeSrc, err := ctx.OpenSource(bg, c.Source)
	if err != nil {
		return err
	}
	defer closeSrc()

	rep, err := report.Build(bg, src, ctx.Owner, rng, ctx.now())
	if err != nil {
		return err
	}
	paths, err := export.Write(rep, c.Format, dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(ctx.out(), "✓ Wrote %s\n", p)
	}
	return nil
}
