// Package monitor implements the node health dashboard.
//
// The dashboard is a fixed 80x25 screen with four parts: a header naming the
// node, an alert pane, a scrollable statistics table and the health pane
// listing every check. Pressing the digit shown beside a failing check opens
// a full-screen detail view with the output of that check's diagnostic.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the latest health report and statistics snapshot, scroll
//     positions, and which screen is showing
//   - Update: keystrokes, resizes, and messages from the background loops
//   - View: renders the active screen
//
// # Message Flow
//
// The check scheduler and the statistics loop run in their own goroutines and
// never touch display state. They publish through a Bridge, which forwards
// each report or snapshot into the program with program.Send:
//
//  1. the scheduler publishes a health.Report as HealthMsg
//  2. the statistics loop publishes a stats.Snapshot as StatsMsg
//  3. Update stores the value and View redraws
//
// Opening a detail view pauses both loops so the screen doesn't change under
// the operator; going back resumes them.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	+ / -       - Lengthen / shorten the statistics window
//	k / j       - Scroll the statistics table
//	0-9         - Open the detail view for a failing check
//	m / n       - Scroll the detail view
//	b           - Back to the main screen
//	?           - Toggle help overlay
package monitor
