package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/netsweep/netsweep/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Plain text with ASCII formatting so the output pipes cleanly into
// files and other tools regardless of terminal capabilities.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("netsweep run report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "Range:     %s\n", report.TargetRange)
	fmt.Fprintf(&sb, "Interface: %s\n", report.Interface)
	fmt.Fprintf(&sb, "Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Elapsed:   %s\n", report.Elapsed().Round(time.Millisecond))
	if report.Cancelled {
		sb.WriteString("Status:    cancelled (partial results)\n")
	} else if report.ErrorMessage != "" {
		fmt.Fprintf(&sb, "Status:    error - %s\n", report.ErrorMessage)
	} else {
		sb.WriteString("Status:    complete\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Hosts discovered: %d\n", len(report.Hosts))
	for _, h := range report.Hosts {
		fmt.Fprintf(&sb, "  %s\n", h)
		for _, rec := range report.PortsForHost(h) {
			fmt.Fprintf(&sb, "    %s/%d open\n", rec.Protocol, rec.Port)
		}
		for _, f := range report.HostFiles[h] {
			fmt.Fprintf(&sb, "    -> %s\n", f)
		}
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Open ports total: %d\n", len(report.Ports))

	return w.output.Write([]byte(sb.String()))
}
