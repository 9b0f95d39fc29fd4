package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/basket/internal/format"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StatePicking:
		content = m.viewPicking()
	case StateConfirmEnd:
		content = m.viewConfirmEnd()
	case StateSummary:
		content = m.viewSummary()
	default:
		content = m.items.View()
	}

	parts := []string{m.viewHeader(), content}
	if m.err != "" {
		parts = append(parts, dangerStyle.Render("✗ "+m.err))
	}
	parts = append(parts, m.help.View(m))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewHeader() string {
	list := m.ctrl.List()
	clock := clockStyle.Render("⏱ " + m.ctrl.Elapsed())
	total := totalStyle.Render(format.Currency(m.symbol, m.ctrl.RunningTotal()))
	picked := mutedStyle.Render(fmt.Sprintf("%d picked", len(m.ctrl.Session().Items)))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		listTitle(list.Name, list.ColorName), "  ", clock, "  ", total, "  ", picked) + "\n"
}

func (m Model) viewPicking() string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Picking %s", m.picking.Name),
		"",
		m.form.View(),
	))
}

func (m Model) viewConfirmEnd() string {
	return lipgloss.Place(m.width, max(m.height-6, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("End this shopping trip?"),
			fmt.Sprintf("Total so far: %s", format.Currency(m.symbol, m.ctrl.RunningTotal())),
			"The list will be marked as completed.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewSummary() string {
	s := m.summary
	var b strings.Builder
	fmt.Fprintf(&b, "Trip finished in %s\n", format.Minutes(s.Duration))
	fmt.Fprintf(&b, "Items bought: %d\n", len(s.Items))
	fmt.Fprintf(&b, "Total: %s\n", totalStyle.Render(format.Currency(m.symbol, s.Total)))
	if len(s.Split) > 0 {
		b.WriteString("\nBy who asked:\n")
		for _, share := range s.Split {
			fmt.Fprintf(&b, "  %-16s %s\n", share.Author, format.Currency(m.symbol, share.Total))
		}
	}
	b.WriteString("\n" + mutedStyle.Render("press enter to close"))
	return boxStyle.Render(b.String())
}
