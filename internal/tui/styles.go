package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorPeak    lipgloss.Color = "#fab387"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorSurface lipgloss.Color = "#313244"
	colorAxis    lipgloss.Color = "#585b70"
)

// shades runs from no cases to a full-scale count.
var shades = []lipgloss.Color{
	"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
	"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	textStyle      = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	peakStyle      = lipgloss.NewStyle().Foreground(colorPeak).Bold(true)
	barStyle       = lipgloss.NewStyle().Foreground(colorAccent)
	statusStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface)
	keyStyle       = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// shadeFor maps a count onto the shade ramp, saturating at scale.
func shadeFor(total, scale int64) lipgloss.Color {
	if scale <= 0 || total <= 0 {
		return shades[0]
	}
	f := float64(total) / float64(scale)
	if f > 1 {
		f = 1
	}
	return shades[int(f*float64(len(shades)-1))]
}
