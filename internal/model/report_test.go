package model

import (
	"reflect"
	"testing"
)

// TestRunReportAccumulation tests that hosts and ports accumulate in
// insertion order without deduplication.
func TestRunReportAccumulation(t *testing.T) {
	t.Parallel()

	r := NewRunReport("10.0.0.1-2", "eth0")

	r.AddHost("10.0.0.1")
	r.AddHost("10.0.0.2")
	r.AddHost("10.0.0.1") // duplicates flow through unchanged

	want := []Host{"10.0.0.1", "10.0.0.2", "10.0.0.1"}
	if !reflect.DeepEqual(r.Hosts, want) {
		t.Errorf("Hosts = %v, want %v", r.Hosts, want)
	}

	r.AddPort(PortRecord{Host: "10.0.0.1", Protocol: ProtocolTCP, Port: 80})
	r.AddPort(PortRecord{Host: "10.0.0.2", Protocol: ProtocolUDP, Port: 53})
	r.AddPort(PortRecord{Host: "10.0.0.1", Protocol: ProtocolUDP, Port: 53})

	if len(r.Ports) != 3 {
		t.Fatalf("expected 3 port records, got %d", len(r.Ports))
	}
}

// TestRunReportPortsForHost tests per-host filtering preserves order.
func TestRunReportPortsForHost(t *testing.T) {
	t.Parallel()

	r := NewRunReport("10.0.0.1-2", "eth0")
	r.AddPort(PortRecord{Host: "10.0.0.1", Protocol: ProtocolTCP, Port: 80})
	r.AddPort(PortRecord{Host: "10.0.0.2", Protocol: ProtocolTCP, Port: 22})
	r.AddPort(PortRecord{Host: "10.0.0.1", Protocol: ProtocolUDP, Port: 53})

	got := r.PortsForHost("10.0.0.1")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Port != 80 || got[1].Port != 53 {
		t.Errorf("order not preserved: %v", got)
	}

	if got := r.PortsForHost("10.0.0.99"); got != nil {
		t.Errorf("expected nil for unknown host, got %v", got)
	}
}

// TestRunReportHostFiles tests result file tracking.
func TestRunReportHostFiles(t *testing.T) {
	t.Parallel()

	r := NewRunReport("10.0.0.1-2", "eth0")
	r.AddHostFile("10.0.0.1", "host-data")
	r.AddHostFile("10.0.0.1", "port-80")

	want := []string{"host-data", "port-80"}
	if !reflect.DeepEqual(r.HostFiles["10.0.0.1"], want) {
		t.Errorf("HostFiles = %v, want %v", r.HostFiles["10.0.0.1"], want)
	}
}

// TestRunReportFinish tests completion stamping and elapsed time.
func TestRunReportFinish(t *testing.T) {
	t.Parallel()

	r := NewRunReport("10.0.0.1-2", "eth0")
	if !r.FinishedAt.IsZero() {
		t.Error("FinishedAt should be zero before Finish")
	}

	r.Finish()
	if r.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set after Finish")
	}
	if r.Elapsed() < 0 {
		t.Errorf("Elapsed() = %v, want non-negative", r.Elapsed())
	}
}
