package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for the terminal colors used across the
// diagnostic renderers below. Single source of truth; never use inline
// lipgloss.Color literals elsewhere in this package.
var (
	ColorCyan        = lipgloss.Color("14")
	colorGreen       = lipgloss.Color("82")
	ColorYellow      = lipgloss.Color("220")
	colorRed         = lipgloss.Color("196")
	colorGreenCheck  = lipgloss.Color("10")
)

var (
	styleNoun = lipgloss.NewStyle().Foreground(ColorCyan)
	styleDim  = lipgloss.NewStyle().Faint(true)
)

// FormatComponentLine renders a component id with a color-coded enabled/
// disabled suffix, mirroring the resource-status line renderer this CLI
// family uses for other domains.
//
// Format: c:<id>  enabled
//
// For a disabled component the reason is rendered in place of "enabled".
func FormatComponentLine(id string, reason string) string {
	prefix := styleDim.Render("c:")
	styledID := styleNoun.Render(id)
	if reason == "" {
		return prefix + styledID + "  " + lipgloss.NewStyle().Foreground(colorGreen).Render("enabled")
	}
	return prefix + styledID + "  " + lipgloss.NewStyle().Foreground(colorRed).Render("disabled: "+reason)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatRequiredChain renders a component's resolved link order.
//
// Format: ▸ <id> ← a, b, c
func FormatRequiredChain(id string, required []string) string {
	bullet := styleNoun.Render("▸")
	comp := styleNoun.Render(id)
	arrow := styleDim.Render("←")
	rest := ""
	for i, r := range required {
		if i > 0 {
			rest += ", "
		}
		rest += r
	}
	return fmt.Sprintf("%s %s %s %s", bullet, comp, arrow, styleDim.Render(rest))
}
