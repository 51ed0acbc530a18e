// Package database provides SQLite-based storage for run history.
// Every completed run is saved with its full report, so later runs
// against the same range can be compared and the history command can
// show how a network's exposed surface changed over time.
package database
