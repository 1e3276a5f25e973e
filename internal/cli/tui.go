package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MIkhsanPasaribu/studyhub/internal/notify"
	"github.com/MIkhsanPasaribu/studyhub/internal/tui"
)

type TuiCmd struct {
	Quiet bool `help:"Disable desktop notifications." env:"STUDYHUB_QUIET"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	s, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var n notify.Notifier = notify.NewDesktop()
	if c.Quiet {
		n = notify.Discard{}
	}

	p := tea.NewProgram(tui.NewApp(s, ctx.Owner, n), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
