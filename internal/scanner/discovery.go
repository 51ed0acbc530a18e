package scanner

import (
	"context"
	"log/slog"

	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/tool"
)

// DiscoverySweep finds live hosts in a target range using the sweep
// scanner in no-port mode. The range string is opaque and passed
// through verbatim.
type DiscoverySweep struct {
	// runner executes the sweep scanner.
	runner tool.Runner

	// logger for structured logging.
	logger *slog.Logger
}

// DiscoveryOption configures a DiscoverySweep.
type DiscoveryOption func(*DiscoverySweep)

// WithDiscoveryLogger sets a custom logger for the sweep.
func WithDiscoveryLogger(logger *slog.Logger) DiscoveryOption {
	return func(d *DiscoverySweep) {
		d.logger = logger
	}
}

// NewDiscoverySweep creates a discovery sweep backed by the runner.
func NewDiscoverySweep(runner tool.Runner, opts ...DiscoveryOption) *DiscoverySweep {
	d := &DiscoverySweep{runner: runner}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Discover sweeps the target range and returns the live hosts in the
// order the tool reported them.
//
// -sn disables port scanning and -n disables DNS resolution, so the
// sweep stays cheap and every report line carries a bare address.
// A tool error is logged and the output parsed anyway: a half-finished
// sweep still names real hosts, and an empty one yields an empty
// sequence the rest of the pipeline handles as a no-op.
func (d *DiscoverySweep) Discover(ctx context.Context, targetRange string) []model.Host {
	out, err := d.runner.Run(ctx, tool.Nmap, "-n", "-sn", targetRange)
	if err != nil {
		d.logger.Warn("discovery sweep exited with error",
			"range", targetRange,
			"error", err,
		)
	}
	d.logger.Debug("discovery sweep output", "raw", string(out))

	hosts := ParseSweep(out)
	d.logger.Info("discovery sweep complete",
		"range", targetRange,
		"hosts", len(hosts),
	)
	return hosts
}
