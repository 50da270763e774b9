package monitor

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is the view the dashboard is showing.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenDetail
)

// KeyMap holds the dashboard's key bindings. Letters match either case.
type KeyMap struct {
	Quit         key.Binding
	ForceQuit    key.Binding
	IntervalUp   key.Binding
	IntervalDown key.Binding
	StatsUp      key.Binding
	StatsDown    key.Binding
	Select       key.Binding
	DetailUp     key.Binding
	DetailDown   key.Binding
	Back         key.Binding
	Help         key.Binding
	Close        key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "Q"), key.WithHelp("q", "quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		IntervalUp:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "lengthen stats interval")),
		IntervalDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorten stats interval")),
		StatsUp:      key.NewBinding(key.WithKeys("k", "K"), key.WithHelp("k", "scroll stats up")),
		StatsDown:    key.NewBinding(key.WithKeys("j", "J"), key.WithHelp("j", "scroll stats down")),
		Select: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "details of a failing check"),
		),
		DetailUp:   key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "scroll details up")),
		DetailDown: key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "scroll details down")),
		Back:       key.NewBinding(key.WithKeys("b", "B"), key.WithHelp("b", "back to main screen")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Select, k.Back, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.IntervalUp, k.IntervalDown, k.StatsUp, k.StatsDown},
		{k.Select, k.DetailUp, k.DetailDown, k.Back, k.Help},
	}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return true, m.quit()
	}

	// Below the minimum size only ctrl+c gets through
	if m.tooSmall() {
		return true, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return true, m.quit()
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Close) {
			m.showHelp = false
		}
		return true, nil
	}

	if m.screen == ScreenDetail {
		switch {
		case key.Matches(msg, m.keys.DetailUp):
			m.detailScroll.Up()
			m.syncDetailViewport()
			return true, nil
		case key.Matches(msg, m.keys.DetailDown):
			m.detailScroll.Down()
			m.syncDetailViewport()
			return true, nil
		case key.Matches(msg, m.keys.Back):
			m.closeDetail()
			return true, nil
		}
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.IntervalUp):
		m.adjustInterval(1)
		return true, nil
	case key.Matches(msg, m.keys.IntervalDown):
		m.adjustInterval(-1)
		return true, nil
	case key.Matches(msg, m.keys.StatsUp):
		m.statScroll.Up()
		return true, nil
	case key.Matches(msg, m.keys.StatsDown):
		m.statScroll.Down()
		return true, nil
	case key.Matches(msg, m.keys.Select):
		i, err := strconv.Atoi(msg.String())
		if err != nil {
			return false, nil
		}
		return true, m.openDetail(i)
	}

	return false, nil
}
