package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/netsweep/netsweep/internal/model"
)

// Default configuration values.
const (
	// DefaultRate is the masscan packet rate in packets per second.
	// 500 pps is conservative enough not to melt small office networks
	// while still finishing a full 65535-port sweep in reasonable time.
	DefaultRate = 500

	// DefaultWorkers is the number of hosts or ports enumerated
	// concurrently. The default of 1 preserves strictly sequential
	// execution; raise it only on networks that tolerate parallel
	// aggressive scans.
	DefaultWorkers = 1

	// DefaultOutputFormat is the scanner output format used when the
	// selector is unset in the config file. The CLI still requires an
	// explicit --output-type.
	DefaultOutputFormat = model.FormatAll

	// HostDataFile is the fixed file name the deep enumeration output
	// is written to inside each host directory.
	HostDataFile = "host-data"

	// AppName is the application name used for XDG directory paths.
	AppName = "netsweep"
)

// Config holds all configuration options for a netsweep run.
// It is built once from CLI flags (plus the optional config file) and
// passed explicitly to each component; nothing mutates it after
// Validate() succeeds.
type Config struct {
	// TargetRange is the target range in scanner-native notation
	// (e.g. "10.0.0.1-254"). It is opaque to netsweep and passed
	// through verbatim to the discovery tool. Required.
	TargetRange string

	// Interface is the network interface the port scanner binds to.
	// Required.
	Interface string

	// OutputFormat selects the enumeration scanner's output format.
	// Required on the CLI; see model.ParseOutputFormat for the
	// recognized values and the combined-all-formats fallback.
	OutputFormat model.OutputFormat

	// BaseDir is the directory per-host output directories are rooted
	// at. Defaults to the process's initial working directory.
	BaseDir string

	// Rate is the masscan packet rate in packets per second.
	Rate int

	// Workers is the number of hosts (and later, port records)
	// processed concurrently during enumeration. 1 means sequential.
	Workers int

	// Debug enables verbose diagnostic printing, including raw scanner
	// output and every parsed record.
	Debug bool

	// Silent suppresses all non-error output.
	Silent bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// .netsweep is searched for in the current and home directories.
	ConfigFilePath string

	// JSONReport outputs the run report as JSON instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport outputs the run report as Markdown instead of
	// text. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the run report to this path instead of stdout.
	ReportFile string

	// SaveToDB saves the run's hosts and ports to the history database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values. Required fields
// (TargetRange, Interface, OutputFormat) are intentionally left empty
// so Validate() can catch missing inputs.
func NewConfig() *Config {
	return &Config{
		Rate:     DefaultRate,
		Workers:  DefaultWorkers,
		SaveToDB: true,
		DBDir:    XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for netsweep.
// On Linux: ~/.local/share/netsweep
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for netsweep.
// On Linux: ~/.config/netsweep
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks that the configuration is complete and coherent.
// It returns the first error found; fixing one missing input often
// changes what else matters. Called once after flag parsing, before
// preflight runs any tool lookups.
func (c *Config) Validate() error {
	if c.TargetRange == "" {
		return ErrNoRange
	}
	if c.Interface == "" {
		return ErrNoInterface
	}
	if c.OutputFormat == "" {
		return ErrNoOutputFormat
	}
	if c.Rate <= 0 {
		return ErrInvalidRate
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
