// Package workspace manages the per-host output directories a run
// writes scanner results into. Directories are addressed by absolute
// path rather than by changing the process working directory, so
// enumeration can safely run in parallel.
//
// Because the scanners run with elevated privilege, every write is
// followed by an ownership fix that hands the directory tree back to
// the invoking (sudo) user. Ownership failures never fail the run.
package workspace
