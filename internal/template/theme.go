package template

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// ---------------------------------------------------------------------------
// Dialog styles
// ---------------------------------------------------------------------------

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Background(colorBase).
			Padding(0, 2)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorMauve).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dialogCTAStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	dialogHintStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1)
)
