package ui

import "github.com/charmbracelet/lipgloss"

// Dracula-ish palette.
var (
	colorBg        = lipgloss.Color("#282a36")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorFgDim     = lipgloss.Color("#6272a4")
	colorSelection = lipgloss.Color("#44475a")
	colorCyan      = lipgloss.Color("#8be9fd")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorRed       = lipgloss.Color("#ff5555")
	colorPurple    = lipgloss.Color("#bd93f9")
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	styleHeaderLabel = lipgloss.NewStyle().
				Foreground(colorFgDim)

	styleHeaderValue = lipgloss.NewStyle().
				Foreground(colorCyan)

	styleLive = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	styleFrozen = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorSelection).
			Bold(true)

	styleMomentum = lipgloss.NewStyle().
			Foreground(colorPurple)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorFgDim)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorFg).
			Bold(true)

	styleConsoleLine = lipgloss.NewStyle().
				Foreground(colorFg)

	styleAxis = lipgloss.NewStyle().
			Foreground(colorFgDim)

	styleAxisLabel = lipgloss.NewStyle().
			Foreground(colorFgDim)

	styleAnchor = lipgloss.NewStyle().
			Foreground(colorFgDim)

	styleHelpBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Background(colorBg).
			Padding(1, 2)

	styleHelpTitle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	styleHelpKey = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	styleHelpDesc = lipgloss.NewStyle().
			Foreground(colorFg)

	styleWaiting = lipgloss.NewStyle().
			Foreground(colorFgDim)
)
