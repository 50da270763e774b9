package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/rileyhilliard/nodehealth/internal/logger"
	"github.com/rileyhilliard/nodehealth/internal/node"
	"github.com/rileyhilliard/nodehealth/internal/stats"
)

// Pauser is a background loop the dashboard holds while a detail view is
// open.
type Pauser interface {
	Pause()
	Resume()
}

// Sampling is the statistics loop as seen by the dashboard.
type Sampling interface {
	Pauser
	Interval() time.Duration
	AdjustInterval(steps int) time.Duration
}

// Details maps failure digits to checks and runs their detail diagnostics.
// *health.Registry satisfies it.
type Details interface {
	Update(failing []string)
	Name(i int) (string, bool)
	Detail(ctx context.Context, name string) (string, error)
}

// Options configures the dashboard model.
type Options struct {
	Node     node.Info
	Details  Details
	Checks   Pauser
	Sampling Sampling
	// StatRows is how many statistics the table will hold.
	StatRows int
	Log      logger.Logger
	// Context bounds the detail diagnostics. Defaults to context.Background.
	Context context.Context
}

// Model is the Bubble Tea model for the node health dashboard.
type Model struct {
	node     node.Info
	details  Details
	checks   Pauser
	sampling Sampling
	log      logger.Logger
	ctx      context.Context

	width    int
	height   int
	screen   Screen
	showHelp bool
	quitting bool

	// nil until the first report or snapshot arrives
	report     *health.Report
	stats      *stats.Snapshot
	statScroll ScrollState
	interval   time.Duration

	detailName     string
	detailSeq      int
	detailLoading  bool
	detailScroll   ScrollState
	detailViewport viewport.Model

	keys KeyMap
	help help.Model
}

// NewModel creates the dashboard model.
func NewModel(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := Model{
		node:           opts.Node,
		details:        opts.Details,
		checks:         opts.Checks,
		sampling:       opts.Sampling,
		log:            opts.Log,
		ctx:            opts.Context,
		statScroll:     NewScrollState(opts.StatRows, statRows),
		interval:       stats.DefaultInterval,
		detailScroll:   NewScrollState(0, detailRows),
		detailViewport: viewport.New(detailWidth-scrollBarWidth, detailRows),
		keys:           DefaultKeyMap(),
		help:           help.New(),
	}
	if opts.Sampling != nil {
		m.interval = opts.Sampling.Interval()
	}
	return m
}

// Init sets the terminal title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(fmt.Sprintf("nodehealth: %s", m.node.Role))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The panes have fixed heights; re-applying them keeps both offsets
		// in range after a resize.
		m.statScroll.SetVisible(statRows)
		m.detailScroll.SetVisible(detailRows)
		m.syncDetailViewport()

	case HealthMsg:
		r := msg.Report
		m.report = &r
		if m.details != nil {
			m.details.Update(r.Failing)
		}

	case StatsMsg:
		s := msg.Snapshot
		m.stats = &s
		m.statScroll.SetTotal(len(s.Values))

	case detailMsg:
		if m.screen != ScreenDetail || msg.seq != m.detailSeq {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.log.Warn("detail view for %s failed: %v", msg.name, msg.err)
			m.setDetailContent(fmt.Sprintf("Unable to gather details for %s:\n\n%v", msg.name, msg.err))
		} else {
			m.setDetailContent(msg.output)
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.tooSmall() {
		return resizeMessage
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.screen == ScreenDetail {
		return m.renderDetailView()
	}
	return m.renderDashboard()
}

// Screen returns the active screen.
func (m Model) Screen() Screen { return m.screen }

// tooSmall reports whether the terminal is below the fixed layout size.
// Before the first size message arrives the size is unknown and assumed fine.
func (m Model) tooSmall() bool {
	if m.width == 0 && m.height == 0 {
		return false
	}
	return m.width < ScreenWidth || m.height < ScreenHeight
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *Model) adjustInterval(steps int) {
	if m.sampling == nil {
		return
	}
	m.interval = m.sampling.AdjustInterval(steps)
}

// openDetail switches to the detail view of the check at failure index i.
// Indexes with no failing check are ignored.
func (m *Model) openDetail(i int) tea.Cmd {
	if m.details == nil {
		return nil
	}
	name, ok := m.details.Name(i)
	if !ok {
		return nil
	}

	if m.checks != nil {
		m.checks.Pause()
	}
	if m.sampling != nil {
		m.sampling.Pause()
	}

	m.screen = ScreenDetail
	m.detailName = name
	m.detailSeq++
	m.detailLoading = true
	m.setDetailContent(loadingText)

	seq, details, ctx := m.detailSeq, m.details, m.ctx
	return func() tea.Msg {
		out, err := details.Detail(ctx, name)
		return detailMsg{seq: seq, name: name, output: out, err: err}
	}
}

// closeDetail returns to the main screen and resumes the background loops.
func (m *Model) closeDetail() {
	if m.checks != nil {
		m.checks.Resume()
	}
	if m.sampling != nil {
		m.sampling.Resume()
	}
	m.screen = ScreenMain
	m.detailName = ""
	m.detailLoading = false
	m.setDetailContent("")
}

// setDetailContent loads text into the detail viewport, scrolled to the top.
// Lines are cut to the viewport width so each one takes exactly one row.
func (m *Model) setDetailContent(text string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(strings.TrimRight(line, "\r"), "\t", "    ")
		lines[i] = truncate(line, m.detailViewport.Width)
	}
	m.detailViewport.SetContent(strings.Join(lines, "\n"))
	m.detailScroll = NewScrollState(len(lines), detailRows)
	m.syncDetailViewport()
}

func (m *Model) syncDetailViewport() {
	m.detailViewport.SetYOffset(m.detailScroll.Offset())
}
