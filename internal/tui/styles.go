package tui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
)

// listColors maps list color tags to terminal colors.
var listColors = map[string]lipgloss.Color{
	"PastelBlue":   lipgloss.Color("153"),
	"PastelGreen":  lipgloss.Color("157"),
	"PastelYellow": lipgloss.Color("229"),
	"PastelRed":    lipgloss.Color("217"),
	"PastelOrange": lipgloss.Color("223"),
	"PastelPurple": lipgloss.Color("183"),
	"PastelCyan":   lipgloss.Color("159"),
	"PastelGray":   lipgloss.Color("252"),
}

func listTitle(name, color string) string {
	bg, ok := listColors[color]
	if !ok {
		bg = listColors["PastelGray"]
	}
	return titleStyle.Background(bg).Render("🛒 " + name)
}
