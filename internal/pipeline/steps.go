package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/scanner"
	"github.com/netsweep/netsweep/internal/tool"
	"github.com/netsweep/netsweep/internal/workspace"
)

// Console colors for stage output.
var (
	stageColor = color.New(color.FgCyan)
	hostColor  = color.New(color.FgGreen)
)

// DiscoveryStep sweeps the target range and records the live hosts.
type DiscoveryStep struct {
	// sweep performs the host discovery.
	sweep *scanner.DiscoverySweep

	// out receives console progress output.
	out io.Writer
}

// NewDiscoveryStep creates the discovery stage.
func NewDiscoveryStep(sweep *scanner.DiscoverySweep, out io.Writer) *DiscoveryStep {
	return &DiscoveryStep{sweep: sweep, out: out}
}

// Name returns the step name.
func (s *DiscoveryStep) Name() string {
	return "discovery"
}

// Do executes the discovery sweep and prints the count and each host.
// An empty result is not an error: the remaining stages simply have
// nothing to iterate over.
func (s *DiscoveryStep) Do(ctx context.Context, report *model.RunReport) error {
	stageColor.Fprintf(s.out, "[*] sweeping %s for live hosts\n", report.TargetRange)

	hosts := s.sweep.Discover(ctx, report.TargetRange)

	fmt.Fprintf(s.out, "%d hosts discovered\n", len(hosts))
	for _, h := range hosts {
		report.AddHost(h)
		hostColor.Fprintf(s.out, "  %s\n", h)
	}
	return nil
}

// HostEnumStep deep-enumerates every discovered host into its own
// output directory.
type HostEnumStep struct {
	// enum performs the per-host enumeration.
	enum *scanner.HostEnumerator

	// workers limits concurrent enumerations. 1 means sequential.
	workers int

	// out receives console progress output.
	out io.Writer

	// mu guards report mutation when workers > 1.
	mu sync.Mutex
}

// NewHostEnumStep creates the host enumeration stage.
func NewHostEnumStep(enum *scanner.HostEnumerator, workers int, out io.Writer) *HostEnumStep {
	if workers < 1 {
		workers = 1
	}
	return &HostEnumStep{enum: enum, workers: workers, out: out}
}

// Name returns the step name.
func (s *HostEnumStep) Name() string {
	return "host_enumeration"
}

// Do enumerates each host exactly once. Hosts are independent, so the
// work fans out over an errgroup bounded by the worker count; each
// worker only touches its own host directory by absolute path.
func (s *HostEnumStep) Do(ctx context.Context, report *model.RunReport) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, h := range report.Hosts {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			stageColor.Fprintf(s.out, "[*] enumerating %s\n", h)

			name, err := s.enum.Enumerate(ctx, h)
			if err != nil {
				return err
			}

			s.mu.Lock()
			report.AddHostFile(h, name)
			s.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// PortScanStep fast-scans every discovered host across the full TCP
// and UDP port space and accumulates one flat record sequence.
type PortScanStep struct {
	// ps performs the per-host port scan.
	ps *scanner.PortScanner

	// out receives console progress output.
	out io.Writer
}

// NewPortScanStep creates the port scanning stage.
func NewPortScanStep(ps *scanner.PortScanner, out io.Writer) *PortScanStep {
	return &PortScanStep{ps: ps, out: out}
}

// Name returns the step name.
func (s *PortScanStep) Name() string {
	return "port_scan"
}

// Do scans hosts one at a time. The fast scanner saturates the
// configured packet rate on its own, so running several instances
// against the same interface would just fight over the budget.
func (s *PortScanStep) Do(ctx context.Context, report *model.RunReport) error {
	for _, h := range report.Hosts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stageColor.Fprintf(s.out, "[*] port scanning %s\n", h)

		records := s.ps.Scan(ctx, h)
		for _, rec := range records {
			report.AddPort(rec)
		}
		fmt.Fprintf(s.out, "%s: %d open ports\n", h, len(records))
	}
	return nil
}

// ServiceEnumStep fingerprints the service behind every open-port
// record, one file per port in the record's host directory.
type ServiceEnumStep struct {
	// enum performs the per-port fingerprinting.
	enum *scanner.ServiceEnumerator

	// workers limits concurrent fingerprint scans. 1 means sequential.
	workers int

	// out receives console progress output.
	out io.Writer

	// mu guards report mutation when workers > 1.
	mu sync.Mutex
}

// NewServiceEnumStep creates the service fingerprinting stage.
func NewServiceEnumStep(enum *scanner.ServiceEnumerator, workers int, out io.Writer) *ServiceEnumStep {
	if workers < 1 {
		workers = 1
	}
	return &ServiceEnumStep{enum: enum, workers: workers, out: out}
}

// Name returns the step name.
func (s *ServiceEnumStep) Name() string {
	return "service_enumeration"
}

// Do fingerprints each record exactly once. Records write to files
// parameterized by port number, so parallel workers on the same host
// never collide.
func (s *ServiceEnumStep) Do(ctx context.Context, report *model.RunReport) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, rec := range report.Ports {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			stageColor.Fprintf(s.out, "[*] fingerprinting %s\n", rec)

			name, err := s.enum.Enumerate(ctx, rec)
			if err != nil {
				return err
			}

			s.mu.Lock()
			report.AddHostFile(rec.Host, name)
			s.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// DefaultPipeline assembles the standard four-stage reconnaissance
// pipeline from a validated configuration. Stage order is fixed:
// discovery, host enumeration, port scan, service enumeration.
func DefaultPipeline(cfg *config.Config, runner tool.Runner, ws *workspace.Workspace, logger *slog.Logger, out io.Writer) *Pipeline {
	p := New(
		WithLogger(logger),
		WithContinueOnError(false),
	)

	sweep := scanner.NewDiscoverySweep(runner, scanner.WithDiscoveryLogger(logger))
	hostEnum := scanner.NewHostEnumerator(runner, ws, cfg.OutputFormat, scanner.WithHostEnumeratorLogger(logger))
	portScan := scanner.NewPortScanner(runner, cfg.Interface, cfg.Rate, scanner.WithPortScannerLogger(logger))
	svcEnum := scanner.NewServiceEnumerator(runner, ws, cfg.OutputFormat, scanner.WithServiceEnumeratorLogger(logger))

	p.AddSteps(
		NewDiscoveryStep(sweep, out),
		NewHostEnumStep(hostEnum, cfg.Workers, out),
		NewPortScanStep(portScan, out),
		NewServiceEnumStep(svcEnum, cfg.Workers, out),
	)

	return p
}
