package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/nodehealth/internal/health"
)

const (
	loadingText   = "Loading..."
	resizeMessage = "Please do not resize your screen to smaller than the borders while using the tool, resize to continue"
)

// renderDashboard renders the main screen.
func (m Model) renderDashboard() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderStatsPane(),
		" ",
		m.renderHealthPane(),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderAlertPane(),
		panes,
	)
	return ScreenStyle.Render(body)
}

// renderHeader renders the node name and version.
func (m Model) renderHeader() string {
	title := fmt.Sprintf("Node: %s  %s", m.node.Role, m.node.Version)
	return strings.Repeat(" ", 19) + HeaderStyle.Render(truncate(title, ScreenWidth-21))
}

// renderAlertPane renders up to alertRows alerts, errors first, above the
// quit hint.
func (m Model) renderAlertPane() string {
	lines := make([]string, 0, alertRows+1)

	if m.report == nil {
		lines = append(lines, loadingText)
	} else {
		for _, a := range m.report.Alerts.Errors {
			lines = append(lines, alertLine(a, ErrorStyle, " ERROR:", "!!!"+a.Message+"!!!"))
		}
		for _, a := range m.report.Alerts.Warnings {
			lines = append(lines, alertLine(a, WarningStyle, " WARNING:", a.Message))
		}
		if len(lines) > alertRows {
			lines = lines[:alertRows]
		}
	}

	for len(lines) < alertRows {
		lines = append(lines, "")
	}
	lines = append(lines, keyHint("Press ", "q", " to quit"))

	return PaneStyle.Width(alertPaneWidth).Render(strings.Join(lines, "\n"))
}

func alertLine(a health.Alert, style lipgloss.Style, tag, message string) string {
	label := padStyled(truncate(a.Name, alertNameWidth-len(tag)-1)+style.Render(tag), alertNameWidth)
	return label + truncate(message, alertPaneWidth-alertNameWidth)
}

// renderStatsPane renders the statistics table with its scroll bar and the
// refresh interval line.
func (m Model) renderStatsPane() string {
	heading := pad(pad("Statistic Name", statsNameWidth)+"Statistic Value", statsPaneWidth)
	lines := []string{HeadingStyle.Render(heading)}

	tableWidth := statsPaneWidth - scrollBarWidth
	rows := make([]string, statRows)
	if m.stats == nil {
		rows[0] = loadingText
	} else {
		start, end := m.statScroll.Window()
		for i := start; i < end; i++ {
			v := m.stats.Values[i]
			rows[i-start] = pad(v.Name, statsNameWidth-1) + " " + v.Formatted()
		}
	}

	bar := renderScrollBar(m.statScroll, statRows, "k", "j")
	for i, row := range rows {
		lines = append(lines, pad(truncate(row, tableWidth), tableWidth)+bar[i])
	}

	timer := keyHint("press ", "+", " or ") + keyHint("", "-", " to change the refresh interval:")
	timer = padStyled(timer, timerValueCol) + HeadingStyle.Render(fmt.Sprintf("%d", int(m.interval.Seconds())))
	lines = append(lines, timer)

	return PaneStyle.Width(statsPaneWidth).Render(strings.Join(lines, "\n"))
}

// renderHealthPane lists every check in its status colour. Non-GOOD checks
// carry the digit that opens their detail view.
func (m Model) renderHealthPane() string {
	lines := []string{
		HeaderStyle.Render("HEALTH STATUS"),
		HeaderStyle.Render(strings.Repeat("-", healthPaneWidth)),
	}

	entries := make([]string, healthRows)
	if m.report == nil {
		entries[0] = loadingText
	} else {
		index := 0
		for i, e := range m.report.Statuses {
			if i >= healthRows {
				break
			}
			marker := " "
			if e.Status != health.StatusGood {
				marker = KeyStyle.Render(fmt.Sprintf("%d", index))
				index++
			}
			entries[i] = marker + StatusStyle(e.Status).Render(truncate(e.Name, healthPaneWidth-1))
		}
	}
	lines = append(lines, entries...)
	lines = append(lines, "Press # for info")

	return PaneStyle.Width(healthPaneWidth).Render(strings.Join(lines, "\n"))
}
