package model

import "time"

// RunReport is the main result structure for a single netsweep run.
// It is threaded through the pipeline and accumulates results from each
// stage: discovered hosts, open-port records, and the files written per
// host. A run that discovered nothing is still a successful run.
type RunReport struct {
	// TargetRange is the scanner-native range notation the run scanned,
	// passed through verbatim to the discovery tool.
	TargetRange string `json:"target_range"`

	// Interface is the network interface the port scan was bound to.
	Interface string `json:"interface"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed. Zero while still running.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Hosts are the live hosts in the order the discovery tool reported
	// them. Not sorted, not deduplicated.
	Hosts []Host `json:"hosts"`

	// Ports are all open-port records from all hosts, in discovery
	// order. Records for one host are contiguous but the slice is not
	// otherwise grouped.
	Ports []PortRecord `json:"ports"`

	// HostFiles maps each host to the result files written into its
	// output directory.
	HostFiles map[Host][]string `json:"host_files,omitempty"`

	// PerformedStages lists the pipeline stages that ran, in order.
	PerformedStages []string `json:"performed_stages"`

	// Cancelled is true when the run was interrupted before finishing.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error holds the first fatal error, if any. Not serialized.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRunReport creates a report for a run against the given range and
// interface, stamped with the current time.
func NewRunReport(targetRange, iface string) *RunReport {
	return &RunReport{
		TargetRange: targetRange,
		Interface:   iface,
		StartedAt:   time.Now(),
		HostFiles:   make(map[Host][]string),
	}
}

// AddHost appends a discovered host in reported order.
func (r *RunReport) AddHost(h Host) {
	r.Hosts = append(r.Hosts, h)
}

// AddPort appends an open-port record in discovery order.
func (r *RunReport) AddPort(p PortRecord) {
	r.Ports = append(r.Ports, p)
}

// AddHostFile records that a result file was written into the host's
// output directory.
func (r *RunReport) AddHostFile(h Host, name string) {
	if r.HostFiles == nil {
		r.HostFiles = make(map[Host][]string)
	}
	r.HostFiles[h] = append(r.HostFiles[h], name)
}

// PortsForHost returns the open-port records belonging to the host,
// preserving discovery order.
func (r *RunReport) PortsForHost(h Host) []PortRecord {
	var out []PortRecord
	for _, p := range r.Ports {
		if p.Host == h {
			out = append(out, p)
		}
	}
	return out
}

// Finish stamps the completion time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now()
}

// Elapsed returns the run duration. If the run has not finished it
// returns the time since the run started.
func (r *RunReport) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
