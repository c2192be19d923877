package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for terminal rendering, mirroring the in-game colors.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CC0000"))
	bossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#990000"))
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AA0000"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
)

// Terminal renders r for a terminal using lipgloss colors.
func Terminal(r Reading, size int) string {
	m := Bar(r.Health, size)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(r.Team + " Health"))
	sb.WriteString(" ")
	sb.WriteString(bossStyle.Render("(" + r.Boss + ")"))
	sb.WriteString("\n")
	sb.WriteString(frameStyle.Render("["))
	sb.WriteString(filledStyle.Render(strings.Repeat(barChar, m.Filled)))
	sb.WriteString(emptyStyle.Render(strings.Repeat(barChar, m.Empty)))
	sb.WriteString(frameStyle.Render("]"))
	sb.WriteString(" ")
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.Current)))
	sb.WriteString(frameStyle.Render("/"))
	sb.WriteString(fmt.Sprintf("%d", m.Max))
	return sb.String()
}
