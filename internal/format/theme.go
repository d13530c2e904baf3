package format

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
}

var (
	darkPalette = palette{
		primary:   lipgloss.Color("#6C8EEF"),
		secondary: lipgloss.Color("#9ECBFF"),
		text:      lipgloss.Color("#CDD6F4"),
		muted:     lipgloss.Color("#7F849C"),
	}
	lightPalette = palette{
		primary:   lipgloss.Color("#1E40AF"),
		secondary: lipgloss.Color("#0E7490"),
		text:      lipgloss.Color("#1F2937"),
		muted:     lipgloss.Color("#6B7280"),
	}
)

func paletteFor(theme string) palette {
	if theme == "light" {
		return lightPalette
	}
	return darkPalette
}

// ApplyTheme adjusts the terminal colours for a dark or light background
func ApplyTheme(theme string) {
	if theme == "light" {
		headerKeyColor = color.New(color.FgBlue)
		urlColor = color.New(color.FgHiBlack, color.Underline)
		return
	}
	headerKeyColor = color.New(color.FgCyan)
	urlColor = color.New(color.FgBlue)
}
