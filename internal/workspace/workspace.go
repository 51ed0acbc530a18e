package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/netsweep/netsweep/internal/model"
)

// dirPerm is the permission for created host directories.
// Group access is kept so the invoking user's primary group can read
// results after the ownership fix.
const dirPerm = 0750

// Workspace creates and owns the per-host output directory layout:
// one directory per host under the base directory, named by the host's
// address string.
type Workspace struct {
	// baseDir is the absolute directory host directories are rooted at.
	baseDir string

	// uid and gid identify the invoking user the result tree is handed
	// back to after privileged writes. Both are -1 when no ownership
	// fix should be attempted.
	uid int
	gid int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets a custom logger for the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithOwner overrides the uid/gid the result tree is chowned to.
// Used by tests; production code derives the owner from SUDO_USER.
func WithOwner(uid, gid int) Option {
	return func(w *Workspace) {
		w.uid = uid
		w.gid = gid
	}
}

// New creates a Workspace rooted at baseDir. If baseDir is empty the
// process's current working directory is used, matching where results
// have always landed. The invoking user is resolved from SUDO_USER so
// root-owned scanner output can be handed back after every write.
func New(baseDir string, opts ...Option) (*Workspace, error) {
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		baseDir = cwd
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	w := &Workspace{
		baseDir: abs,
		uid:     -1,
		gid:     -1,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}

	// Only derive an owner when none was injected. A missing or
	// unresolvable SUDO_USER leaves the fix disabled rather than
	// failing the run.
	if w.uid == -1 && w.gid == -1 {
		if uid, gid, ok := invokingUser(); ok {
			w.uid = uid
			w.gid = gid
		}
	}

	return w, nil
}

// invokingUser resolves the login user behind a sudo invocation.
// Returns ok=false when the tool is not running under sudo or the
// lookup fails.
func invokingUser() (uid, gid int, ok bool) {
	name := os.Getenv("SUDO_USER")
	if name == "" {
		return 0, 0, false
	}

	u, err := user.Lookup(name)
	if err != nil {
		return 0, 0, false
	}

	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, false
	}
	gid, err = strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, false
	}
	return uid, gid, true
}

// BaseDir returns the absolute base directory of the workspace.
func (w *Workspace) BaseDir() string {
	return w.baseDir
}

// HostDir returns the absolute output directory path for a host.
// The directory is not created; use EnsureHostDir for that.
func (w *Workspace) HostDir(h model.Host) string {
	return filepath.Join(w.baseDir, h.String())
}

// EnsureHostDir creates the host's output directory if absent and
// returns its absolute path. Calling it repeatedly for the same host
// is idempotent: exactly one directory exists afterwards.
func (w *Workspace) EnsureHostDir(h model.Host) (string, error) {
	dir := w.HostDir(h)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create host directory %s: %w", dir, err)
	}
	return dir, nil
}

// FixOwnership recursively reassigns ownership of the host's directory
// tree to the invoking user and primary group. The underlying scanners
// run as root and leave root-owned files behind; this hands them back.
//
// Ownership failures are logged and swallowed: a failed chown must
// never halt the pipeline.
func (w *Workspace) FixOwnership(h model.Host) {
	if w.uid < 0 || w.gid < 0 {
		return
	}

	dir := w.HostDir(h)
	err := filepath.WalkDir(dir, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chown(path, w.uid, w.gid)
	})
	if err != nil {
		w.logger.Error("failed to fix ownership",
			"dir", dir,
			"uid", w.uid,
			"gid", w.gid,
			"error", err,
		)
	}
}
