package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/model"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan" {
			t.Errorf("expected use 'scan', got %q", cmd.Use)
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has ip-range flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("ip-range")
		if flag == nil {
			t.Fatal("expected ip-range flag")
		}
		if flag.Shorthand != "r" {
			t.Errorf("expected shorthand 'r', got %q", flag.Shorthand)
		}
	})

	t.Run("has interface flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("interface")
		if flag == nil {
			t.Fatal("expected interface flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has output-type flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output-type")
		if flag == nil {
			t.Fatal("expected output-type flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has debug flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("debug")
		if flag == nil {
			t.Fatal("expected debug flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has silent flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("silent")
		if flag == nil {
			t.Fatal("expected silent flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has rate flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("rate")
		if flag == nil {
			t.Fatal("expected rate flag")
		}
		if flag.DefValue != "500" {
			t.Errorf("expected default '500', got %q", flag.DefValue)
		}
	})

	t.Run("has workers flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("workers")
		if flag == nil {
			t.Fatal("expected workers flag")
		}
		if flag.DefValue != "1" {
			t.Errorf("expected default '1', got %q", flag.DefValue)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("takes no positional arguments", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})
}

// TestBuildConfig tests config construction from flags and files.
func TestBuildConfig(t *testing.T) {
	t.Run("flags populate config", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "ip-range", "10.0.0.1-254")
		mustSetFlag(t, cmd, "interface", "eth0")
		mustSetFlag(t, cmd, "output-type", "xml")
		mustSetFlag(t, cmd, "rate", "2000")
		mustSetFlag(t, cmd, "workers", "4")
		mustSetFlag(t, cmd, "debug", "true")

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.TargetRange != "10.0.0.1-254" {
			t.Errorf("TargetRange = %q", cfg.TargetRange)
		}
		if cfg.Interface != "eth0" {
			t.Errorf("Interface = %q", cfg.Interface)
		}
		if cfg.OutputFormat != model.FormatXML {
			t.Errorf("OutputFormat = %q", cfg.OutputFormat)
		}
		if cfg.Rate != 2000 {
			t.Errorf("Rate = %d", cfg.Rate)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d", cfg.Workers)
		}
		if !cfg.Debug {
			t.Error("expected Debug to be true")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("unrecognized output type falls back to all", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "ip-range", "10.0.0.1-254")
		mustSetFlag(t, cmd, "interface", "eth0")
		mustSetFlag(t, cmd, "output-type", "banana")

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OutputFormat != model.FormatAll {
			t.Errorf("expected fallback to all, got %q", cfg.OutputFormat)
		}
	})

	t.Run("config file supplies defaults", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		content := "interface: wlan0\noutputType: grep\nrate: 1500\n"
		if err := os.WriteFile(filepath.Join(dir, ".netsweep"), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "ip-range", "10.0.0.1-254")

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Interface != "wlan0" {
			t.Errorf("Interface = %q, want wlan0 from file", cfg.Interface)
		}
		if cfg.OutputFormat != model.FormatGrep {
			t.Errorf("OutputFormat = %q, want grep from file", cfg.OutputFormat)
		}
		if cfg.Rate != 1500 {
			t.Errorf("Rate = %d, want 1500 from file", cfg.Rate)
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		content := "interface: wlan0\nrate: 1500\n"
		if err := os.WriteFile(filepath.Join(dir, ".netsweep"), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "ip-range", "10.0.0.1-254")
		mustSetFlag(t, cmd, "interface", "eth0")
		mustSetFlag(t, cmd, "rate", "3000")

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Interface != "eth0" {
			t.Errorf("Interface = %q, want flag to win", cfg.Interface)
		}
		if cfg.Rate != 3000 {
			t.Errorf("Rate = %d, want flag to win", cfg.Rate)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "config", "/nonexistent/netsweep.yaml")

		if _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("no-history disables database saving", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewScanCmd()
		mustSetFlag(t, cmd, "no-history", "true")

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})
}

// mustSetFlag sets a flag value or fails the test.
func mustSetFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set flag %s: %v", name, err)
	}
}

// TestOutputReport tests report output routing.
func TestOutputReport(t *testing.T) {
	runReport := model.NewRunReport("10.0.0.1-254", "eth0")
	runReport.AddHost("10.0.0.1")
	runReport.AddPort(model.PortRecord{Host: "10.0.0.1", Protocol: model.ProtocolTCP, Port: 22})
	runReport.Finish()

	t.Run("writes JSON report to file", func(t *testing.T) {
		reportPath := filepath.Join(t.TempDir(), "out", "report.json")

		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = reportPath

		if err := outputReport(cfg, runReport); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report file: %v", err)
		}

		var decoded model.RunReport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report file is not valid JSON: %v", err)
		}
		if decoded.TargetRange != "10.0.0.1-254" {
			t.Errorf("TargetRange = %q", decoded.TargetRange)
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		reportPath := filepath.Join(t.TempDir(), "report.md")

		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = reportPath

		if err := outputReport(cfg, runReport); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report file: %v", err)
		}
		if !strings.Contains(string(data), "# netsweep Run Report") {
			t.Error("expected markdown heading in report file")
		}
	})

	t.Run("silent run without file writes nothing", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Silent = true

		if err := outputReport(cfg, runReport); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
