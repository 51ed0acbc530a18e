// Package preflight validates the environment before any scanner runs:
// superuser privilege, required external binaries on the search path,
// and a complete run configuration. Every failure is fatal; there are
// no retries and no partial runs.
package preflight
