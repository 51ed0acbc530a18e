package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/netsweep/netsweep/internal/model"
)

// ScanDB provides SQLite-based storage for run reports.
// A single database file holds all runs; per-run host and port detail
// lives in the serialized report.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunSummary is one row of run history metadata, without the full
// report payload.
type RunSummary struct {
	// ID is the run's database identifier.
	ID int64

	// TargetRange is the range the run scanned.
	TargetRange string

	// StartedAt is when the run began.
	StartedAt time.Time

	// HostCount is the number of hosts discovered.
	HostCount int

	// PortCount is the number of open-port records.
	PortCount int
}

// Open opens or creates a ScanDB in the specified directory.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "netsweep.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Runs store one complete run report as JSON plus query columns.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target_range TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		host_count INTEGER NOT NULL,
		port_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_range ON runs(target_range);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Open ports are denormalized for per-host queries and diffs.
	CREATE TABLE IF NOT EXISTS open_ports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		host TEXT NOT NULL,
		protocol TEXT NOT NULL,
		port INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ports_run ON open_ports(run_id);
	CREATE INDEX IF NOT EXISTS idx_ports_host ON open_ports(host);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRunReport saves a completed run report.
func (sdb *ScanDB) SaveRunReport(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (target_range, started_at, host_count, port_count, report_json)
		 VALUES (?, ?, ?, ?, ?)`,
		report.TargetRange,
		report.StartedAt.UTC().Format(time.RFC3339),
		len(report.Hosts),
		len(report.Ports),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	for _, rec := range report.Ports {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO open_ports (run_id, host, protocol, port) VALUES (?, ?, ?, ?)`,
			runID, rec.Host.String(), rec.Protocol.String(), rec.Port,
		); err != nil {
			return fmt.Errorf("failed to save open port: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns run history metadata for a target range, newest
// first. An empty range lists every run.
func (sdb *ScanDB) ListRuns(ctx context.Context, targetRange string) ([]RunSummary, error) {
	query := `
	SELECT id, target_range, started_at, host_count, port_count
	FROM runs
	`
	args := make([]any, 0, 1)
	if targetRange != "" {
		query += " WHERE target_range = ?"
		args = append(args, targetRange)
	}
	query += " ORDER BY started_at DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		if err := rows.Scan(&r.ID, &r.TargetRange, &started, &r.HostCount, &r.PortCount); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunReport retrieves a run's full report by ID.
// Returns nil without error when the run does not exist.
func (sdb *ScanDB) GetRunReport(ctx context.Context, id int64) (*model.RunReport, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE id = ?`, id,
	).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &report, nil
}

// GetLatestRunReport retrieves the most recent run report for a range.
// Returns nil without error when no run exists.
func (sdb *ScanDB) GetLatestRunReport(ctx context.Context, targetRange string) (*model.RunReport, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE target_range = ? ORDER BY started_at DESC LIMIT 1`,
		targetRange,
	).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &report, nil
}

// HostPorts returns the open ports recorded for a host across the
// given run, in insertion order.
func (sdb *ScanDB) HostPorts(ctx context.Context, runID int64, host model.Host) ([]model.PortRecord, error) {
	rows, err := sdb.db.QueryContext(ctx,
		`SELECT host, protocol, port FROM open_ports WHERE run_id = ? AND host = ? ORDER BY id`,
		runID, host.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query host ports: %w", err)
	}
	defer rows.Close()

	var records []model.PortRecord
	for rows.Next() {
		var h, proto string
		var port int
		if err := rows.Scan(&h, &proto, &port); err != nil {
			return nil, fmt.Errorf("failed to scan port row: %w", err)
		}
		p, err := model.ParseProtocol(proto)
		if err != nil {
			return nil, fmt.Errorf("corrupt port row: %w", err)
		}
		records = append(records, model.PortRecord{Host: model.Host(h), Protocol: p, Port: port})
	}
	return records, rows.Err()
}

// parseTimestamp parses the timestamp formats SQLite hands back
// depending on how the value was stored.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
