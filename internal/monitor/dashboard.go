package monitor

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	nherrors "github.com/rileyhilliard/nodehealth/internal/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Worker is a background loop feeding the dashboard. It runs until ctx is
// cancelled.
type Worker func(ctx context.Context, bridge *Bridge) error

// Run starts the dashboard and its workers. Workers run in background
// goroutines while the TUI runs in the calling one. Run returns once the
// operator quits and every worker has stopped.
func Run(ctx context.Context, opts Options, workers ...Worker) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nherrors.New(nherrors.ErrTUI,
			"The dashboard needs an interactive terminal",
			"Run nodehealth from a terminal session, not a pipe or a cron job")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Context = ctx
	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	bridge := NewBridge(program)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error { return w(gctx, bridge) })
	}

	_, runErr := program.Run()
	// Quitting stops the workers; a worker blocked in Send is released
	// once the program has exited.
	cancel()
	waitErr := g.Wait()

	if runErr != nil {
		return nherrors.WrapWithCode(runErr, nherrors.ErrTUI, "The dashboard stopped unexpectedly", "")
	}
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return waitErr
	}
	return nil
}
