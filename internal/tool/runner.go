package tool

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// Names of the external scanner binaries netsweep depends on.
// These are collaborators, not reimplemented: nmap covers the discovery
// sweep and all enumeration, masscan covers fast full-range port scans.
const (
	// Nmap is the host-sweep and OS/service/version-detection scanner.
	Nmap = "nmap"

	// Masscan is the full-range fast port scanner.
	Masscan = "masscan"
)

// Runner executes an external scanner and returns its combined output.
// Implementations must block until the process exits.
//
// The pipeline never inspects a scanner's exit status directly; stages
// that tolerate tool failure log the error and keep going, so Run
// returns whatever output was produced alongside the error.
type Runner interface {
	// Run executes the named binary with the given arguments and
	// returns its combined stdout and stderr. The context cancels the
	// child process when the run is interrupted.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Lookup resolves a binary name on the search path.
// It is a separate interface from Runner so preflight can verify tool
// presence without being able to execute anything.
type Lookup interface {
	// LookPath returns the full path of the named binary, or an error
	// if it is not found on the search path.
	LookPath(name string) (string, error)
}

// ExecRunner runs external tools via os/exec. It is the only Runner
// used outside of tests.
type ExecRunner struct {
	// logger receives a debug record per invocation.
	logger *slog.Logger
}

// ExecRunnerOption configures an ExecRunner.
type ExecRunnerOption func(*ExecRunner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.logger = logger
	}
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run implements Runner using exec.CommandContext, so cancelling the
// run's context kills the child process.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.logger.Debug("running external tool",
		"tool", name,
		"args", strings.Join(args, " "),
	)

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // Tool name and args are built from validated config
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Debug("external tool exited with error",
			"tool", name,
			"error", err,
		)
	}
	return out, err
}

// LookPath implements Lookup via exec.LookPath.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
