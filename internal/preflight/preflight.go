package preflight

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/tool"
)

// banner is printed before the checks run.
const banner = `
              _
  _ __   ___| |_ _____      _____  ___ _ __
 | '_ \ / _ \ __/ __\ \ /\ / / _ \/ _ \ '_ \
 | | | |  __/ |_\__ \\ V  V /  __/  __/ |_) |
 |_| |_|\___|\__|___/ \_/\_/ \___|\___| .__/
                                      |_|
`

// Environment errors. Configuration errors come from config.Validate.
var (
	// ErrNotRoot is returned when the effective user is not the
	// superuser. Raw-socket scanning and OS fingerprinting both
	// require root.
	ErrNotRoot = errors.New("netsweep must run as root (try sudo)")

	// ErrToolNotFound is returned when a required external scanner
	// binary is not on the search path. Wrapped with the tool name.
	ErrToolNotFound = errors.New("required tool not found on PATH")
)

// Preflight validates privilege level, required inputs, and external
// tool presence before the pipeline starts.
type Preflight struct {
	// lookup resolves binaries on the search path.
	lookup tool.Lookup

	// out receives the banner.
	out io.Writer

	// geteuid returns the effective user ID. Swappable for tests.
	geteuid func() int
}

// Option configures a Preflight.
type Option func(*Preflight)

// WithOutput sets the banner destination. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Preflight) {
		p.out = w
	}
}

// WithEUID overrides the effective-UID source. Used by tests.
func WithEUID(f func() int) Option {
	return func(p *Preflight) {
		p.geteuid = f
	}
}

// New creates a Preflight that resolves tools through the given lookup.
func New(lookup tool.Lookup, opts ...Option) *Preflight {
	p := &Preflight{
		lookup:  lookup,
		out:     os.Stdout,
		geteuid: os.Geteuid,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check prints the banner and validates the run environment.
// Order matters: configuration first so a typo'd flag is reported
// before privilege problems, then privilege, then tool presence.
// The first failure is returned; nothing external has run yet at that
// point, so a failed preflight leaves no partial output behind.
func (p *Preflight) Check(cfg *config.Config) error {
	p.printBanner()

	if err := cfg.Validate(); err != nil {
		return err
	}

	if p.geteuid() != 0 {
		return ErrNotRoot
	}

	for _, name := range []string{tool.Nmap, tool.Masscan} {
		if _, err := p.lookup.LookPath(name); err != nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
	}

	return nil
}

// printBanner writes the colored startup banner.
func (p *Preflight) printBanner() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Fprint(p.out, banner)
	yellow.Fprintln(p.out, "automated network reconnaissance — for authorized testing only")
	fmt.Fprintln(p.out)
}
