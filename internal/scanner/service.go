package scanner

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/tool"
	"github.com/netsweep/netsweep/internal/workspace"
)

// ServiceEnumerator fingerprints the service behind a single open port:
// version detection at maximum intensity with the default script set,
// restricted to exactly that port and protocol.
type ServiceEnumerator struct {
	// runner executes the fingerprinting scanner.
	runner tool.Runner

	// ws provides the per-host output directories.
	ws *workspace.Workspace

	// format selects the scanner's output file format.
	format model.OutputFormat

	// logger for structured logging.
	logger *slog.Logger
}

// ServiceEnumeratorOption configures a ServiceEnumerator.
type ServiceEnumeratorOption func(*ServiceEnumerator)

// WithServiceEnumeratorLogger sets a custom logger.
func WithServiceEnumeratorLogger(logger *slog.Logger) ServiceEnumeratorOption {
	return func(e *ServiceEnumerator) {
		e.logger = logger
	}
}

// NewServiceEnumerator creates a ServiceEnumerator writing results in
// the given output format.
func NewServiceEnumerator(runner tool.Runner, ws *workspace.Workspace, format model.OutputFormat, opts ...ServiceEnumeratorOption) *ServiceEnumerator {
	e := &ServiceEnumerator{
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

// Enumerate fingerprints one port record, writing results to a file
// named by the port number so records for the same host never collide,
// then hands the directory tree back to the invoking user.
// Exactly one invocation per record.
//
// Only two protocol classes exist: TCP gets a plain port selector,
// anything else is scanned as UDP. As with host enumeration, the
// scanner's exit status is discarded.
func (e *ServiceEnumerator) Enumerate(ctx context.Context, rec model.PortRecord) (string, error) {
	dir, err := e.ws.EnsureHostDir(rec.Host)
	if err != nil {
		return "", err
	}

	args := []string{"-sV", "--version-intensity", "9", "-sC", "-Pn"}
	if rec.Protocol != model.ProtocolTCP {
		args = append(args, "-sU")
	}
	args = append(args, "-p"+strconv.Itoa(rec.Port))
	args = append(args, e.format.Args(filepath.Join(dir, rec.OutputFile()))...)
	args = append(args, rec.Host.String())

	if _, err := e.runner.Run(ctx, tool.Nmap, args...); err != nil {
		e.logger.Debug("service enumeration exited with error",
			"record", rec.String(),
			"error", err,
		)
	}

	e.ws.FixOwnership(rec.Host)
	return rec.OutputFile(), nil
}
