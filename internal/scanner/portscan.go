package scanner

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/tool"
)

// fullRangeSpec covers the entire TCP and UDP port space in the fast
// scanner's native notation.
const fullRangeSpec = "-p1-65535,U:1-65535"

// PortScanner runs the fast port scanner against a single host across
// the full TCP and UDP port ranges and parses the open-port lines into
// structured records.
type PortScanner struct {
	// runner executes the fast port scanner.
	runner tool.Runner

	// iface is the network interface the scanner binds to.
	iface string

	// rate is the packet rate in packets per second.
	rate int

	// logger for structured logging.
	logger *slog.Logger
}

// PortScannerOption configures a PortScanner.
type PortScannerOption func(*PortScanner)

// WithPortScannerLogger sets a custom logger.
func WithPortScannerLogger(logger *slog.Logger) PortScannerOption {
	return func(s *PortScanner) {
		s.logger = logger
	}
}

// NewPortScanner creates a PortScanner bound to the given interface at
// the given packet rate.
func NewPortScanner(runner tool.Runner, iface string, rate int, opts ...PortScannerOption) *PortScanner {
	s := &PortScanner{
		runner: runner,
		iface:  iface,
		rate:   rate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan port-scans a single host and returns its open-port records in
// the order the tool reported them.
//
// --wait 0 skips the scanner's post-scan listening window; the rate
// limit is the only pacing. Tool errors are logged and whatever output
// was produced is parsed as-is.
func (s *PortScanner) Scan(ctx context.Context, h model.Host) []model.PortRecord {
	args := []string{
		fullRangeSpec,
		"--rate", strconv.Itoa(s.rate),
		"-e", s.iface,
		"--wait", "0",
		h.String(),
	}

	out, err := s.runner.Run(ctx, tool.Masscan, args...)
	if err != nil {
		s.logger.Warn("port scan exited with error",
			"host", h,
			"error", err,
		)
	}
	s.logger.Debug("port scan output", "host", h, "raw", string(out))

	records := ParseOpenPorts(out)
	for _, rec := range records {
		s.logger.Debug("parsed open port", "record", rec.String())
	}
	return records
}
