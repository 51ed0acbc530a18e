package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/database"
	"github.com/netsweep/netsweep/internal/log"
	"github.com/netsweep/netsweep/internal/model"
	"github.com/netsweep/netsweep/internal/pipeline"
	"github.com/netsweep/netsweep/internal/preflight"
	"github.com/netsweep/netsweep/internal/report"
	"github.com/netsweep/netsweep/internal/tool"
	"github.com/netsweep/netsweep/internal/workspace"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the full reconnaissance pipeline against a target range",
		Long: `Scan runs the reconnaissance pipeline against a target range.

The pipeline executes four fixed stages in order:
1. Discovery     - nmap ping sweep to find live hosts
2. Enumeration   - nmap deep scan (-A -O) per host into <host>/host-data
3. Port scan     - masscan over all 65535 TCP and UDP ports
4. Services      - nmap version/script scan per open port into <host>/port-<N>

Each live host gets its own directory under the base directory. When run
via sudo, result files are chowned back to the invoking user.

Examples:
  # Scan a range, writing all nmap output formats
  sudo netsweep scan -r 10.0.0.1-254 -i eth0 -o all

  # XML output only, with verbose diagnostics
  sudo netsweep scan -r 192.168.1.0/24 -i wlan0 -o xml -d

  # Faster masscan rate and four parallel enumeration workers
  sudo netsweep scan -r 10.0.0.1-254 -i eth0 -o grep --rate 2000 --workers 4

  # Suppress everything except errors
  sudo netsweep scan -r 10.0.0.1-254 -i eth0 -o normal -s

Configuration file (.netsweep) example:
  interface: eth0
  outputType: all
  rate: 1000
  workers: 2
  dir: /opt/recon`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	// Target flags
	cmd.Flags().StringP("ip-range", "r", "",
		"Target range in scanner notation (e.g. 10.0.0.1-254 or 192.168.1.0/24)")
	cmd.Flags().StringP("interface", "i", "",
		"Network interface the port scanner binds to (e.g. eth0)")
	cmd.Flags().StringP("output-type", "o", "",
		"Scanner output format: xml, normal, kiddie, grep, or all (unrecognized values fall back to all)")

	// Behavior flags
	cmd.Flags().BoolP("debug", "d", false,
		"Print raw scanner output and every parsed record")
	cmd.Flags().BoolP("silent", "s", false,
		"Suppress all output except errors")
	cmd.Flags().Int("rate", config.DefaultRate,
		"masscan packet rate in packets per second")
	cmd.Flags().Int("workers", config.DefaultWorkers,
		"Number of hosts enumerated concurrently (1 = sequential)")
	cmd.Flags().String("dir", "",
		"Base directory for per-host output (default: current directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .netsweep in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run report to this file instead of stdout")
	cmd.Flags().Bool("no-history", false,
		"Do not save the run to the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Set up structured logging before anything can fail
	logger := log.NewLogger(os.Stderr, cfg.Debug, cfg.Silent)
	slog.SetDefault(logger)

	// Silent runs drop all console output; errors still reach stderr
	// through the logger.
	out := io.Writer(os.Stdout)
	if cfg.Silent {
		out = io.Discard
	}

	runner := tool.NewExecRunner(tool.WithRunnerLogger(logger))

	// Banner, config validation, root check, tool presence. Nothing
	// external has run if this fails.
	pf := preflight.New(runner, preflight.WithOutput(out))
	if err := pf.Check(cfg); err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, runner, logger, out)
}

// buildConfig creates a Config from the config file and cobra flags.
// File values are applied first, then flags, so explicit flags win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags override file values.
	if v, err := cmd.Flags().GetString("ip-range"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.TargetRange = v
	}

	if v, err := cmd.Flags().GetString("interface"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.Interface = v
	}

	if v, err := cmd.Flags().GetString("output-type"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.OutputFormat = model.ParseOutputFormat(v)
	}

	if cmd.Flags().Changed("rate") {
		if cfg.Rate, err = cmd.Flags().GetInt("rate"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}

	if v, err := cmd.Flags().GetString("dir"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.BaseDir = v
	}

	if cfg.Debug, err = cmd.Flags().GetBool("debug"); err != nil {
		return nil, err
	}

	if cfg.Silent, err = cmd.Flags().GetBool("silent"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}

	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}

	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.SaveToDB = false
	}

	return cfg, nil
}

// runScan executes the pipeline and handles the results.
func runScan(ctx context.Context, cfg *config.Config, runner tool.Runner, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting run",
		"range", cfg.TargetRange,
		"interface", cfg.Interface,
		"format", cfg.OutputFormat,
		"workers", cfg.Workers,
		"saveToDB", cfg.SaveToDB,
	)

	ws, err := workspace.New(cfg.BaseDir, workspace.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to set up workspace: %w", err)
	}

	runReport := model.NewRunReport(cfg.TargetRange, cfg.Interface)
	p := pipeline.DefaultPipeline(cfg, runner, ws, logger, out)

	startTime := time.Now()
	runErr := p.Execute(ctx, runReport)
	runReport.Finish()

	if runErr == nil {
		fmt.Fprintf(out, "\nRun completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
	} else if errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(out, "\nRun cancelled after %s, keeping partial results\n\n",
			time.Since(startTime).Round(time.Millisecond))
	}

	// Report and save even partial results. A cancelled run still
	// produced host directories worth recording.
	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report failed", "error", err)
	}
	if err := saveRunReport(ctx, cfg, runReport, logger); err != nil {
		logger.Error("failed to save run report", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		if cfg.Silent && !cfg.JSONReport && !cfg.MarkdownReport {
			// Silent runs skip the stdout text report entirely.
			return nil
		}
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(runReport)
	return err
}

// saveRunReport saves the run report to the history database if enabled.
func saveRunReport(ctx context.Context, cfg *config.Config, runReport *model.RunReport, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	// The run context may already be cancelled after an interrupt;
	// saving partial results must still succeed.
	ctx = context.WithoutCancel(ctx)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRunReport(ctx, runReport); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Info("run report saved to database", "range", runReport.TargetRange, "dir", cfg.DBDir)
	return nil
}
