package sessions

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/tui"
)

// ShopCmd opens the interactive shopping screen on a list, resuming its
// open session if there is one.
type ShopCmd struct {
	List string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
}

func (c *ShopCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	ctrl, resumed, err := ctx.Service.OpenSession(l.ID)
	if err != nil {
		return err
	}
	if resumed {
		fmt.Printf("Resuming shopping on %s (%s elapsed)\n", l.Name, ctrl.Elapsed())
	}

	p := tea.NewProgram(tui.NewModel(ctx.Service, ctrl, settings), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("shopping screen failed: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Summary() != nil {
		printSummary(ctx, m.Summary())
		return nil
	}
	fmt.Printf("Session on %s is still open. Run 'basket shop %s' to continue.\n", l.Name, l.Name)
	return nil
}
