package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

type ReportCmd struct {
	Range  string `help:"Range to summarize (daily, weekly, monthly)." enum:"daily,weekly,monthly" default:"weekly"`
	Source string `help:"Postgres DSN or 'keyring' to read remote records instead of the local store." env:"STUDYHUB_SOURCE"`
}

func (c *ReportCmd) Run(ctx *Context) error {
	rng, err := analytics.ParseRange(c.Range)
	if err != nil {
		return err
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
	printReport(ctx, rep)
	return nil
}

func printReport(ctx *Context, rep *report.Report) {
	out := ctx.out()
	fmt.Fprintf(out, "%s report for %s (%s to %s)\n\n",
		strings.ToUpper(rep.Range.String()[:1])+rep.Range.String()[1:], ctx.Owner,
		rep.Window.Start.Format("2006-01-02 15:04"), rep.Window.End.Format("2006-01-02 15:04"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total focus\t%d min\n", rep.Summary.TotalMinutes)
	fmt.Fprintf(w, "Daily average\t%d min\n", rep.Summary.AverageDailyMinutes)
	fmt.Fprintf(w, "Busiest day\t%s\n", rep.Summary.BusiestDayLabel())
	fmt.Fprintf(w, "Task completion\t%d%%\n", rep.Completion.CompletionRate)
	w.Flush()

	if len(rep.Summary.Categories) == 0 {
		fmt.Fprintln(out, "\nNo focus sessions in this range.")
		return
	}

	fmt.Fprintln(out, "\nBy category:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range rep.Summary.Categories {
		fmt.Fprintf(w, "  %s\t%d min\t%d%%\n", c.Category, c.Minutes, c.Percentage)
	}
	w.Flush()
}
