package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetailView renders the full-screen output of a check's diagnostic
// with its scroll bar and the way back.
func (m Model) renderDetailView() string {
	bar := renderScrollBar(m.detailScroll, detailRows, "m", "n")
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(detailWidth-scrollBarWidth).Render(m.detailViewport.View()),
		strings.Join(bar, "\n"),
	)

	footer := keyHint("press ", "b", " to return to the previous screen")
	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}
