// Package model defines the core data types shared across netsweep:
// discovered hosts, open-port records, output formats, and the run report
// that accumulates results as the pipeline executes.
package model
