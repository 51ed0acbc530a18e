package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/netsweep/netsweep/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, suited
// for documentation and sharing scan results in tickets or wikis.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeHosts(md, report)
	w.writePorts(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("netsweep Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target Range", "`" + report.TargetRange + "`"},
			{"Interface", "`" + report.Interface + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Hosts Discovered", strconv.Itoa(len(report.Hosts))},
			{"Open Ports", strconv.Itoa(len(report.Ports))},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.RunReport) string {
	if report.Cancelled {
		return "cancelled (partial results)"
	}
	if report.ErrorMessage != "" {
		return "error - " + report.ErrorMessage
	}
	return "complete"
}

// writeHosts writes the per-host result file table.
func (w *MarkdownWriter) writeHosts(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Hosts")
	md.PlainText("")

	if len(report.Hosts) == 0 {
		md.PlainText("No live hosts discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Hosts))
	for _, h := range report.Hosts {
		rows = append(rows, []string{
			"`" + h.String() + "`",
			strconv.Itoa(len(report.PortsForHost(h))),
			strconv.Itoa(len(report.HostFiles[h])),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Host", "Open Ports", "Result Files"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePorts writes the open-port table in discovery order.
func (w *MarkdownWriter) writePorts(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Open Ports")
	md.PlainText("")

	if len(report.Ports) == 0 {
		md.PlainText("No open ports discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Ports))
	for _, rec := range report.Ports {
		rows = append(rows, []string{
			"`" + rec.Host.String() + "`",
			rec.Protocol.String(),
			strconv.Itoa(rec.Port),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Host", "Protocol", "Port"},
		Rows:   rows,
	})
	md.PlainText("")
}
