// Package tool abstracts the external scanner binaries netsweep shells
// out to. The Runner interface isolates the pipeline from process
// execution so tests can substitute canned scanner output, and Lookup
// lets preflight verify required binaries before any scan begins.
package tool
