package scanner

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/tool"
	"github.com/netsweep/netsweep/internal/workspace"
)

// HostEnumerator runs the deep enumeration scan against one host at a
// time: OS fingerprinting, aggressive timing, no ping assumption, and
// the default script set, with output persisted into the host's
// directory.
type HostEnumerator struct {
	// runner executes the enumeration scanner.
	runner tool.Runner

	// ws provides the per-host output directories.
	ws *workspace.Workspace

	// format selects the scanner's output file format.
	format model.OutputFormat

	// logger for structured logging.
	logger *slog.Logger
}

// HostEnumeratorOption configures a HostEnumerator.
type HostEnumeratorOption func(*HostEnumerator)

// WithHostEnumeratorLogger sets a custom logger.
func WithHostEnumeratorLogger(logger *slog.Logger) HostEnumeratorOption {
	return func(e *HostEnumerator) {
		e.logger = logger
	}
}

// NewHostEnumerator creates a HostEnumerator writing results in the
// given output format.
func NewHostEnumerator(runner tool.Runner, ws *workspace.Workspace, format model.OutputFormat, opts ...HostEnumeratorOption) *HostEnumerator {
	e := &HostEnumerator{
		runner: runner,
		ws:     ws,
		format: format,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Enumerate deep-scans a single host, writing results to the host-data
// file in the host's directory, and hands the directory tree back to
// the invoking user afterwards. Exactly one invocation per host.
//
// The scanner's exit status is discarded: an unreachable host produces
// a file saying so, and the pipeline continues with the next host.
// Only a failure to create the output directory is an error.
func (e *HostEnumerator) Enumerate(ctx context.Context, h model.Host) (string, error) {
	dir, err := e.ws.EnsureHostDir(h)
	if err != nil {
		return "", err
	}

	outFile := filepath.Join(dir, config.HostDataFile)
	args := []string{"-A", "-O", "-T4", "-Pn"}
	args = append(args, e.format.Args(outFile)...)
	args = append(args, h.String())

	if _, err := e.runner.Run(ctx, tool.Nmap, args...); err != nil {
		e.logger.Debug("host enumeration exited with error",
			"host", h,
			"error", err,
		)
	}

	e.ws.FixOwnership(h)
	return config.HostDataFile, nil
}
