package exec

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunner_SimpleCommand(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}

	out, err := r.Run(context.Background(), "echo hello")

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestLocalRunner_CommandWithPipe(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}

	out, err := r.Run(context.Background(), "printf 'Usage of /: 42%% of 9GB' | tr ' ' '_'")

	require.NoError(t, err)
	assert.Equal(t, "Usage_of_/:_42%_of_9GB", out)
}

func TestLocalRunner_NonZeroExit(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}

	out, err := r.Run(context.Background(), "echo partial; echo broken >&2; exit 3")

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, stderrors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Error(), "broken")
	assert.Equal(t, "partial\n", out)
}

func TestLocalRunner_StderrNotInOutput(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}

	out, err := r.Run(context.Background(), "echo noise >&2; echo data")

	require.NoError(t, err)
	assert.Equal(t, "data\n", out)
}

func TestLocalRunner_DefaultShell(t *testing.T) {
	r := &LocalRunner{}

	out, err := r.Run(context.Background(), "echo default")

	require.NoError(t, err)
	assert.Equal(t, "default\n", out)
}

func TestLocalRunner_ContextCancel(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, "sleep 5")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestLocalRunner_ContextCancelStopsChildProcesses(t *testing.T) {
	r := &LocalRunner{Shell: "/bin/sh"}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	// The shell has to fork for sleep, which would otherwise keep the
	// output pipes open until it finished.
	start := time.Now()
	out, err := r.Run(ctx, "sleep 5; echo done")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var exitErr *ExitError
	assert.False(t, stderrors.As(err, &exitErr), "cancellation is not an exit status")
	assert.Empty(t, out)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExitError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with stderr",
			err:  &ExitError{Command: "df", Code: 1, Stderr: "df: /mnt: no such file\n"},
			want: `"df" exited with status 1: df: /mnt: no such file`,
		},
		{
			name: "without stderr",
			err:  &ExitError{Command: "monit summary", Code: 2},
			want: `"monit summary" exited with status 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
