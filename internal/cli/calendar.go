package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/analytics"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/report"
)

const cellWidth = 14

type CalendarCmd struct {
	Month  string `help:"Month to show (YYYY-MM). Defaults to the current month."`
	Shift  int    `help:"Months to move from --month, e.g. -1 for the previous month."`
	Source string `help:"Postgres DSN or 'keyring' to read remote records instead of the local store." env:"STUDYHUB_SOURCE"`
}

// resolveMonth returns the first day of the requested month in local time.
func (c *CalendarCmd) resolveMonth(now time.Time) (time.Time, error) {
	ref := analytics.FirstOfMonth(now)
	if c.Month != "" {
		t, err := time.ParseInLocation("2006-01", c.Month, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid month %q, use YYYY-MM", c.Month)
		}
		ref = t
	}
	return analytics.ShiftMonth(ref, c.Shift), nil
}

func (c *CalendarCmd) Run(ctx *Context) error {
	ref, err := c.resolveMonth(ctx.now())
	if err != nil {
		return err
	}

	bg := context.Background()
	src, closeSrc, err := ctx.OpenSource(bg, c.Source)
	if err != nil {
		return err
	}
	defer closeSrc()

	grid, err := report.Month(bg, src, ctx.Owner, ref)
	if err != nil {
		return err
	}
	printMonth(ctx, ref, grid)
	return nil
}

func printMonth(ctx *Context, ref time.Time, grid []analytics.CalendarDay) {
	out := ctx.out()
	fmt.Fprintf(out, "%s\n\n", ref.Format("January 2006"))

	var header strings.Builder
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header.WriteString(pad(d, cellWidth))
	}
	fmt.Fprintln(out, strings.TrimRight(header.String(), " "))

	for week := 0; week+7 <= len(grid); week += 7 {
		days := grid[week : week+7]
		lines := make([]strings.Builder, 4)
		for _, day := range days {
			num := fmt.Sprintf("%2d", day.Date.Day())
			if !day.InCurrentMonth {
				num = fmt.Sprintf("(%d)", day.Date.Day())
			}
			lines[0].WriteString(pad(num, cellWidth))

			visible, more := day.Visible(2)
			for i := range 2 {
				text := ""
				if i < len(visible) {
					text = visible[i].Title
				}
				lines[i+1].WriteString(pad(text, cellWidth))
			}
			extra := ""
			if more > 0 {
				extra = fmt.Sprintf("+%d more", more)
			}
			lines[3].WriteString(pad(extra, cellWidth))
		}
		for i := range lines {
			if s := strings.TrimRight(lines[i].String(), " "); s != "" {
				fmt.Fprintln(out, s)
			}
		}
		fmt.Fprintln(out)
	}

	var upcoming []models.CalendarEvent
	seen := map[string]bool{}
	for _, day := range grid {
		for _, e := range day.Events {
			if day.InCurrentMonth && !seen[e.ID] {
				seen[e.ID] = true
				upcoming = append(upcoming, e)
			}
		}
	}
	if len(upcoming) == 0 {
		fmt.Fprintln(out, "No events this month.")
		return
	}
	fmt.Fprintln(out, "Events:")
	for _, e := range upcoming {
		start, end := e.Span()
		span := models.DateKey(start)
		if !start.Equal(end) {
			span += " to " + models.DateKey(end)
		}
		fmt.Fprintf(out, "  %s  %s\n", span, e.Title)
	}
}

// pad fits s into a column of width w, cutting long titles.
func pad(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w-2]) + "… "
	}
	return s + strings.Repeat(" ", w-len(r))
}
