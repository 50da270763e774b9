package monitor

import "strings"

// ScrollState is a window of visible rows over a longer list. The offset
// always stays within [0, max(0, total-visible)].
type ScrollState struct {
	offset  int
	total   int
	visible int
}

// NewScrollState creates a state at the top of the list.
func NewScrollState(total, visible int) ScrollState {
	s := ScrollState{}
	s.SetVisible(visible)
	s.SetTotal(total)
	return s
}

// Offset returns the index of the first visible row.
func (s ScrollState) Offset() int { return s.offset }

// Total returns the number of rows in the list.
func (s ScrollState) Total() int { return s.total }

// Visible returns the number of rows that fit on screen.
func (s ScrollState) Visible() int { return s.visible }

// MaxOffset returns the largest allowed offset.
func (s ScrollState) MaxOffset() int {
	if s.total <= s.visible {
		return 0
	}
	return s.total - s.visible
}

// CanScrollUp reports whether rows are hidden above the window.
func (s ScrollState) CanScrollUp() bool { return s.offset > 0 }

// CanScrollDown reports whether rows are hidden below the window.
func (s ScrollState) CanScrollDown() bool { return s.offset < s.MaxOffset() }

// Up moves the window one row up. It returns false at the top.
func (s *ScrollState) Up() bool {
	if !s.CanScrollUp() {
		return false
	}
	s.offset--
	return true
}

// Down moves the window one row down. It returns false at the bottom.
func (s *ScrollState) Down() bool {
	if !s.CanScrollDown() {
		return false
	}
	s.offset++
	return true
}

// Reset moves the window back to the top.
func (s *ScrollState) Reset() { s.offset = 0 }

// SetTotal changes the list length, keeping the offset in range.
func (s *ScrollState) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	s.total = n
	s.clamp()
}

// SetVisible changes the window height, keeping the offset in range.
func (s *ScrollState) SetVisible(n int) {
	if n < 0 {
		n = 0
	}
	s.visible = n
	s.clamp()
}

// Window returns the half-open range of visible rows.
func (s ScrollState) Window() (start, end int) {
	end = s.offset + s.visible
	if end > s.total {
		end = s.total
	}
	return s.offset, end
}

func (s *ScrollState) clamp() {
	if s.offset > s.MaxOffset() {
		s.offset = s.MaxOffset()
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// renderScrollBar draws a two column bar of height rows. The top row shows
// the up arrow and its key while rows are hidden above, the bottom row the
// down arrow and its key while rows are hidden below.
func renderScrollBar(s ScrollState, height int, up, down string) []string {
	rows := make([]string, height)
	blank := strings.Repeat(" ", scrollBarWidth)
	for i := range rows {
		rows[i] = blank
	}
	if height == 0 {
		return rows
	}
	if s.CanScrollUp() {
		rows[0] = "↑" + KeyStyle.Render(up)
	}
	if s.CanScrollDown() {
		rows[height-1] = "↓" + KeyStyle.Render(down)
	}
	return rows
}
