package model

import "fmt"

// OutputFormat selects the file format the enumeration scanner writes
// its per-host and per-port results in.
//
// The mapping to scanner switches is resolved by ordinary equality.
// Earlier generations of this tool had a broken selector where the grep
// branch always matched; the explicit enum below replaces that behavior
// with one branch per recognized value and "all" as the fallback.
type OutputFormat string

// Recognized output formats.
const (
	// FormatXML writes XML output (-oX).
	FormatXML OutputFormat = "xml"

	// FormatNormal writes human-readable output (-oN).
	FormatNormal OutputFormat = "normal"

	// FormatKiddie writes script-kiddie output (-oS).
	FormatKiddie OutputFormat = "kiddie"

	// FormatGrep writes grepable output (-oG).
	FormatGrep OutputFormat = "grep"

	// FormatAll writes every format at once (-oA).
	FormatAll OutputFormat = "all"
)

// String returns the format name.
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat maps a user-supplied format selector to an
// OutputFormat. Unrecognized values fall back to FormatAll rather than
// erroring, matching the combined-all-formats default of the original
// selector.
func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatXML, FormatNormal, FormatKiddie, FormatGrep, FormatAll:
		return OutputFormat(s)
	default:
		return FormatAll
	}
}

// Switch returns the nmap output switch for the format.
func (f OutputFormat) Switch() string {
	switch f {
	case FormatXML:
		return "-oX"
	case FormatNormal:
		return "-oN"
	case FormatKiddie:
		return "-oS"
	case FormatGrep:
		return "-oG"
	default:
		return "-oA"
	}
}

// Args returns the output arguments for an nmap invocation writing to
// the given file path.
func (f OutputFormat) Args(path string) []string {
	return []string{f.Switch(), path}
}

// MarshalText implements encoding.TextMarshaler for YAML/JSON output.
func (f OutputFormat) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unlike
// ParseOutputFormat it rejects unrecognized values, because a config
// file typo should be an error rather than a silent fallback.
func (f *OutputFormat) UnmarshalText(text []byte) error {
	switch v := OutputFormat(text); v {
	case FormatXML, FormatNormal, FormatKiddie, FormatGrep, FormatAll:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown output format %q", string(text))
	}
}
