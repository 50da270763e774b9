package monitor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFitsScreen(t *testing.T, view string) {
	t.Helper()
	lines := strings.Split(view, "\n")
	assert.LessOrEqual(t, len(lines), ScreenHeight)
	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), ScreenWidth, "line %d too wide: %q", i, line)
	}
}

func TestView_LoadingPlaceholders(t *testing.T) {
	h := newHarness(11)
	view := h.model.View()

	assert.Contains(t, view, "Node: sprout  v1.0-170301")
	assert.Equal(t, 3, strings.Count(view, "Loading..."), "alerts, stats and health panes")
	assert.Contains(t, view, "Press q to quit")
	assert.Contains(t, view, "Press # for info")
	assertFitsScreen(t, view)
	assert.Len(t, strings.Split(view, "\n"), ScreenHeight)
}

func TestView_Alerts(t *testing.T) {
	h := newHarness(0)
	h.send(HealthMsg{Report: failingReport()})
	view := h.model.View()

	assert.Contains(t, view, "ETCD CLUSTER ERROR:")
	assert.Contains(t, view, "!!!ETCD CLUSTER UNHEALTHY!!!")
	assert.Contains(t, view, "DISK USE WARNING:")
	assert.NotContains(t, view, "!!!DISK USE HIGH!!!")

	// Errors are listed before warnings
	assert.Less(t, strings.Index(view, "ETCD CLUSTER ERROR:"), strings.Index(view, "DISK USE WARNING:"))
	assertFitsScreen(t, view)
}

func TestView_AlertsCappedAtFive(t *testing.T) {
	report := health.Report{}
	for i := 0; i < 4; i++ {
		report.Alerts.Errors = append(report.Alerts.Errors, health.Alert{Name: fmt.Sprintf("ERR%d", i), Message: "bad"})
		report.Alerts.Warnings = append(report.Alerts.Warnings, health.Alert{Name: fmt.Sprintf("WARN%d", i), Message: "meh"})
	}

	h := newHarness(0)
	h.send(HealthMsg{Report: report})
	view := h.model.View()

	for i := 0; i < 4; i++ {
		assert.Contains(t, view, fmt.Sprintf("ERR%d ERROR:", i))
	}
	assert.Contains(t, view, "WARN0 WARNING:")
	assert.NotContains(t, view, "WARN1 WARNING:")
}

func TestView_AlertMessageColumn(t *testing.T) {
	line := alertLine(health.Alert{Name: "CPU USE", Message: "CPU USE HIGH"}, WarningStyle, " WARNING:", "CPU USE HIGH")
	assert.Equal(t, "CPU USE WARNING:         CPU USE HIGH", line)
	assert.Equal(t, alertNameWidth, strings.Index(line, "CPU USE HIGH"))
}

func TestView_HealthPaneDigits(t *testing.T) {
	h := newHarness(0)
	h.send(HealthMsg{Report: failingReport()})
	view := h.model.View()

	assert.Contains(t, view, "HEALTH STATUS")
	assert.Contains(t, view, " CPU USE")
	assert.Contains(t, view, "0DISK USE")
	assert.Contains(t, view, " NODE")
	assert.Contains(t, view, "1ETCD CLUSTER")
}

func TestView_StatsTable(t *testing.T) {
	h := newHarness(12)
	h.send(StatsMsg{Snapshot: snapshot(12)})
	view := h.model.View()

	assert.Contains(t, view, "Statistic Name")
	assert.Contains(t, view, "Statistic Value")
	assert.Contains(t, view, "Statistic A")
	assert.Contains(t, view, "Statistic J")
	assert.NotContains(t, view, "Statistic K", "only ten rows fit")
	assert.Contains(t, view, "↓j")
	assert.NotContains(t, view, "↑k")
	assert.Contains(t, view, "press + or - to change the refresh interval: 5")

	h.press("j")
	h.press("j")
	view = h.model.View()
	assert.NotContains(t, view, "Statistic A ")
	assert.Contains(t, view, "Statistic L")
	assert.Contains(t, view, "↑k")
	assert.NotContains(t, view, "↓j")
	assertFitsScreen(t, view)
}

func TestView_StatValueColumn(t *testing.T) {
	h := newHarness(1)
	h.send(StatsMsg{Snapshot: snapshot(2)})

	var row string
	for _, line := range strings.Split(h.model.View(), "\n") {
		if strings.Contains(line, "Statistic B") {
			row = line
		}
	}
	require.NotEmpty(t, row)

	// Inside the outer and pane borders the value starts at the name width
	inner := []rune(row)[2:]
	assert.Equal(t, "10", strings.TrimSpace(string(inner[statsNameWidth:statsNameWidth+4])))
}

func TestView_TimerFollowsInterval(t *testing.T) {
	h := newHarness(0)
	h.press("+")
	assert.Contains(t, h.model.View(), "press + or - to change the refresh interval: 10")
}

func TestView_DetailScreen(t *testing.T) {
	h := newHarness(0)
	h.send(HealthMsg{Report: failingReport()})

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("line %02d", i))
	}
	h.details.outputs[health.CheckDisk] = strings.Join(lines, "\n")

	cmd := h.press("0")
	h.send(cmd())
	view := h.model.View()

	assert.Contains(t, view, "press b to return to the previous screen")
	assert.Contains(t, view, "line 00")
	assert.Contains(t, view, "line 23")
	assert.NotContains(t, view, "line 24")
	assert.Contains(t, view, "↓n")
	assert.NotContains(t, view, "↑m")
	assertFitsScreen(t, view)

	h.press("n")
	view = h.model.View()
	assert.NotContains(t, view, "line 00")
	assert.Contains(t, view, "line 24")
	assert.Contains(t, view, "↑m")
}

func TestView_LongDetailLinesAreCut(t *testing.T) {
	h := newHarness(0)
	h.send(HealthMsg{Report: failingReport()})
	h.details.outputs[health.CheckDisk] = strings.Repeat("x", 200)

	cmd := h.press("0")
	h.send(cmd())
	assertFitsScreen(t, h.model.View())
}
