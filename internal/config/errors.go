package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and checked with errors.Is().
// Each missing required input gets its own sentinel so the CLI can fail
// fast with a precise message before any external scanner is invoked.
var (
	// ErrNoRange is returned when no target IP range is specified.
	ErrNoRange = errors.New("no target range specified: use --ip-range (e.g. 10.0.0.1-254)")

	// ErrNoInterface is returned when no network interface is specified.
	ErrNoInterface = errors.New("no network interface specified: use --interface (e.g. eth0)")

	// ErrNoOutputFormat is returned when no output format is specified.
	ErrNoOutputFormat = errors.New("no output format specified: use --output-type (xml, normal, kiddie, grep, or all)")

	// ErrInvalidRate is returned when the packet rate is not positive.
	// A zero rate would make masscan wait forever.
	ErrInvalidRate = errors.New("invalid packet rate: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// A worker count of zero would mean no enumeration at all.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one report format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
