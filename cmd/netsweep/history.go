package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/database"
	"github.com/netsweep/netsweep/internal/model"
)

// Exposure direction labels for run comparisons.
const (
	exposureWidened   = "widened"
	exposureNarrowed  = "narrowed"
	exposureUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command lists saved runs and compares their open-port surface.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target-range]",
		Short: "List saved runs and compare their open-port surface",
		Long: `History inspects runs saved in the local database.

Without flags it lists all runs for the given target range. With --diff
it compares the latest two runs and shows which ports appeared, which
closed, and how the exposed surface changed overall.

Examples:
  # List runs for a range
  netsweep history 10.0.0.1-254

  # List every target range with saved runs
  netsweep history --list-ranges

  # Compare the latest two runs for a range
  netsweep history --diff 10.0.0.1-254

  # Compare the latest run with a specific earlier run by ID
  netsweep history --diff --with-run-id 5 10.0.0.1-254

  # Output comparison in JSON format
  netsweep history --diff --json 10.0.0.1-254`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-ranges", "L", false,
		"List all target ranges with saved runs")
	cmd.Flags().Bool("diff", false,
		"Compare the latest two runs for the target range")
	cmd.Flags().Int64("with-run-id", 0,
		"Compare the latest run with a specific run ID (use the plain listing to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listRanges, err := cmd.Flags().GetBool("list-ranges")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database so a bad
	// invocation never takes the write lock.
	var targetRange string
	if !listRanges {
		if len(args) == 0 {
			return errors.New("target range is required (use --list-ranges to see saved ranges)")
		}
		targetRange = args[0]
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listRanges {
		return listSavedRanges(ctx, db)
	}

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	if !diff {
		return listRunHistory(ctx, db, targetRange)
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, targetRange, withRunID, jsonOutput)
}

// listSavedRanges lists all target ranges that have saved runs.
func listSavedRanges(ctx context.Context, db *database.ScanDB) error {
	runs, err := db.ListRuns(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs found in the database.")
		fmt.Println("\nUse 'netsweep scan' to run a scan and save its results.")
		return nil
	}

	// Runs are newest first; keep the first occurrence of each range.
	seen := make(map[string]int)
	var ranges []string
	for _, r := range runs {
		if _, ok := seen[r.TargetRange]; !ok {
			ranges = append(ranges, r.TargetRange)
		}
		seen[r.TargetRange]++
	}

	fmt.Printf("Saved target ranges (%d):\n\n", len(ranges))
	for _, rng := range ranges {
		fmt.Printf("  %-24s  %d run(s)\n", rng, seen[rng])
	}
	fmt.Println("\nUse 'netsweep history <range>' to see the runs for a range.")

	return nil
}

// listRunHistory lists all saved runs for a target range.
func listRunHistory(ctx context.Context, db *database.ScanDB, targetRange string) error {
	runs, err := db.ListRuns(ctx, targetRange)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", targetRange)
		fmt.Println("\nUse 'netsweep scan' to scan this range.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", targetRange, len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Hosts", "Open Ports")
	fmt.Println("  " + strings.Repeat("-", 50))

	for _, r := range runs {
		fmt.Printf("  %-6d  %-20s  %-8d  %d\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.HostCount,
			r.PortCount,
		)
	}

	fmt.Println("\nUse 'netsweep history --diff <range>' to compare the latest two runs.")

	return nil
}

// ComparisonResult holds the result of comparing two runs.
type ComparisonResult struct {
	// TargetRange is the compared range.
	TargetRange string `json:"target_range"`

	// PreviousRun contains metadata about the earlier run.
	PreviousRun RunMetadata `json:"previous_run"`

	// CurrentRun contains metadata about the later run.
	CurrentRun RunMetadata `json:"current_run"`

	// NewPorts are open ports present only in the current run.
	NewPorts []model.PortRecord `json:"new_ports,omitempty"`

	// ClosedPorts are open ports present only in the previous run.
	ClosedPorts []model.PortRecord `json:"closed_ports,omitempty"`

	// UnchangedCount is the number of ports open in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// NewHosts are hosts that answered only in the current run.
	NewHosts []model.Host `json:"new_hosts,omitempty"`

	// LostHosts are hosts that answered only in the previous run.
	LostHosts []model.Host `json:"lost_hosts,omitempty"`

	// ExposureDirection is "widened", "narrowed", or "unchanged".
	ExposureDirection string `json:"exposure_direction"`
}

// RunMetadata contains metadata about a run for comparison display.
type RunMetadata struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// HostCount is the number of hosts discovered.
	HostCount int `json:"host_count"`

	// PortCount is the number of open ports found.
	PortCount int `json:"port_count"`
}

// runComparison compares the latest run against an earlier one.
func runComparison(ctx context.Context, db *database.ScanDB, targetRange string, withRunID int64, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, targetRange)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", targetRange)
	}
	if len(runs) < 2 && withRunID == 0 {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	// Latest run is always the current one.
	current, err := db.GetRunReport(ctx, runs[0].ID)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", runs[0].ID, err)
	}

	var previous *model.RunReport
	if withRunID > 0 {
		previous, err = db.GetRunReport(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run %d: %w", withRunID, err)
		}
		if previous == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		if previous.TargetRange != targetRange {
			return fmt.Errorf("run ID %d scanned %s, not %s", withRunID, previous.TargetRange, targetRange)
		}
	} else {
		previous, err = db.GetRunReport(ctx, runs[1].ID)
		if err != nil {
			return fmt.Errorf("failed to get run %d: %w", runs[1].ID, err)
		}
	}

	result := compareRuns(previous, current)

	if jsonOutput {
		return outputComparisonJSON(result)
	}
	return outputComparisonText(result)
}

// compareRuns compares two run reports by their open-port surface.
func compareRuns(previous, current *model.RunReport) *ComparisonResult {
	result := &ComparisonResult{
		TargetRange: current.TargetRange,
		PreviousRun: RunMetadata{
			StartedAt: previous.StartedAt,
			HostCount: len(previous.Hosts),
			PortCount: len(previous.Ports),
		},
		CurrentRun: RunMetadata{
			StartedAt: current.StartedAt,
			HostCount: len(current.Hosts),
			PortCount: len(current.Ports),
		},
	}

	previousPorts := make(map[string]model.PortRecord, len(previous.Ports))
	for _, rec := range previous.Ports {
		previousPorts[rec.String()] = rec
	}
	currentPorts := make(map[string]model.PortRecord, len(current.Ports))
	for _, rec := range current.Ports {
		currentPorts[rec.String()] = rec
	}

	for _, rec := range current.Ports {
		if _, exists := previousPorts[rec.String()]; !exists {
			result.NewPorts = append(result.NewPorts, rec)
		} else {
			result.UnchangedCount++
		}
	}
	for _, rec := range previous.Ports {
		if _, exists := currentPorts[rec.String()]; !exists {
			result.ClosedPorts = append(result.ClosedPorts, rec)
		}
	}

	previousHosts := make(map[model.Host]struct{}, len(previous.Hosts))
	for _, h := range previous.Hosts {
		previousHosts[h] = struct{}{}
	}
	currentHosts := make(map[model.Host]struct{}, len(current.Hosts))
	for _, h := range current.Hosts {
		currentHosts[h] = struct{}{}
	}

	for _, h := range current.Hosts {
		if _, exists := previousHosts[h]; !exists {
			result.NewHosts = append(result.NewHosts, h)
		}
	}
	for _, h := range previous.Hosts {
		if _, exists := currentHosts[h]; !exists {
			result.LostHosts = append(result.LostHosts, h)
		}
	}

	switch {
	case len(result.NewPorts) > len(result.ClosedPorts):
		result.ExposureDirection = exposureWidened
	case len(result.NewPorts) < len(result.ClosedPorts):
		result.ExposureDirection = exposureNarrowed
	default:
		result.ExposureDirection = exposureUnchanged
	}

	return result
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Run Comparison: %s\n", result.TargetRange)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nExposure: %s\n", formatExposureDirection(result.ExposureDirection))

	fmt.Printf("\nPrevious run: %s\n", result.PreviousRun.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current run:  %s\n", result.CurrentRun.StartedAt.Format("2006-01-02 15:04:05"))

	fmt.Println("\nSummary:")
	fmt.Printf("  %-12s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 46))
	fmt.Printf("  %-12s  %-10d  %-10d  %-10s\n", "Hosts",
		result.PreviousRun.HostCount, result.CurrentRun.HostCount,
		formatDelta(result.CurrentRun.HostCount-result.PreviousRun.HostCount))
	fmt.Printf("  %-12s  %-10d  %-10d  %-10s\n", "Open ports",
		result.PreviousRun.PortCount, result.CurrentRun.PortCount,
		formatDelta(result.CurrentRun.PortCount-result.PreviousRun.PortCount))

	if len(result.NewHosts) > 0 {
		fmt.Printf("\nNew Hosts (%d):\n", len(result.NewHosts))
		for _, h := range result.NewHosts {
			fmt.Printf("  [+] %s\n", h)
		}
	}
	if len(result.LostHosts) > 0 {
		fmt.Printf("\nLost Hosts (%d):\n", len(result.LostHosts))
		for _, h := range result.LostHosts {
			fmt.Printf("  [-] %s\n", h)
		}
	}

	if len(result.NewPorts) > 0 {
		fmt.Printf("\nNew Open Ports (%d):\n", len(result.NewPorts))
		for _, rec := range result.NewPorts {
			fmt.Printf("  [+] %s\n", rec)
		}
	}
	if len(result.ClosedPorts) > 0 {
		fmt.Printf("\nClosed Ports (%d):\n", len(result.ClosedPorts))
		for _, rec := range result.ClosedPorts {
			fmt.Printf("  [-] %s\n", rec)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d open ports\n", result.UnchangedCount)
	}

	return nil
}

// formatExposureDirection formats the exposure direction for display.
func formatExposureDirection(direction string) string {
	switch direction {
	case exposureWidened:
		return "WIDENED (more ports exposed)"
	case exposureNarrowed:
		return "NARROWED (fewer ports exposed)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
