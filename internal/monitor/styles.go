package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/nodehealth/internal/health"
)

// Screen geometry. The layout is fixed; smaller terminals get a resize
// message instead.
const (
	ScreenWidth  = 80
	ScreenHeight = 25

	alertPaneWidth  = 76
	alertRows       = 5
	alertNameWidth  = 25
	statsPaneWidth  = 55
	statsNameWidth  = 35
	statRows        = 10
	timerValueCol   = 45
	healthPaneWidth = 18
	healthRows      = 9
	detailWidth     = 78
	detailRows      = 24
	scrollBarWidth  = 2
)

// Dashboard color palette. Basic ANSI colors so the screen reads the same on
// a serial console as on a modern terminal.
const (
	ColorHealthy  = lipgloss.Color("2") // Green
	ColorWarning  = lipgloss.Color("3") // Yellow
	ColorCritical = lipgloss.Color("1") // Red
	ColorAccent   = lipgloss.Color("6") // Cyan, for keys the operator can press
	ColorBorder   = lipgloss.Color("7")

	ColorTextSecondary = lipgloss.Color("7")
)

var (
	ScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder)

	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// Column headings and the interval value are shown in reverse video
	HeadingStyle = lipgloss.NewStyle().Reverse(true)

	KeyStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)

	GoodStyle    = lipgloss.NewStyle().Foreground(ColorHealthy)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorCritical)
)

// StatusStyle returns the style a check is drawn in.
func StatusStyle(s health.Status) lipgloss.Style {
	switch s {
	case health.StatusGood:
		return GoodStyle
	case health.StatusWarning:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// truncate cuts s to at most width runes.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

// pad truncates or right-pads s to exactly width runes.
func pad(s string, width int) string {
	s = truncate(s, width)
	if n := width - len([]rune(s)); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

// padStyled right-pads already styled text to width visible columns.
func padStyled(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// keyHint renders text with one key picked out, e.g. "press b to ...".
func keyHint(before, key, after string) string {
	return before + KeyStyle.Render(key) + after
}
