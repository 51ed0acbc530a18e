package tool

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

// TestExecRunnerRun tests running a real process.
// Uses /bin/echo-equivalents that exist on every supported platform.
func TestExecRunnerRun(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell utilities")
	}

	r := NewExecRunner()

	t.Run("captures combined output", func(t *testing.T) {
		t.Parallel()

		out, err := r.Run(context.Background(), "echo", "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(string(out)); got != "hello" {
			t.Errorf("got %q, want %q", got, "hello")
		}
	})

	t.Run("returns error for missing binary", func(t *testing.T) {
		t.Parallel()

		if _, err := r.Run(context.Background(), "netsweep-no-such-binary"); err == nil {
			t.Error("expected error for missing binary")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := r.Run(ctx, "sleep", "10"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

// TestExecRunnerLookPath tests binary resolution on the search path.
func TestExecRunnerLookPath(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell utilities")
	}

	r := NewExecRunner()

	if _, err := r.LookPath("echo"); err != nil {
		t.Errorf("expected echo on PATH: %v", err)
	}
	if _, err := r.LookPath("netsweep-no-such-binary"); err == nil {
		t.Error("expected error for missing binary")
	}
}
