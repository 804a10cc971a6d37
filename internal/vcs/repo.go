package vcs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MetaDir is the metadata directory whose existence marks a repository.
const MetaDir = ".svcs"

const (
	objectsDir  = "objects"
	commitsName = "commits.json"
	stagingName = "staging.json"
	headName    = "HEAD"
	configName  = "config.json"
)

// commitMessageLayout formats the generated message of a commit made
// without one.
const commitMessageLayout = "2006-01-02 15:04:05"

// Options configures how a Repository is opened.
type Options struct {
	// Logger receives operation milestones. Nil discards.
	Logger *slog.Logger

	// Config is written by Init. Ignored by Open, which reads the
	// repository's own config file. Nil means DefaultConfig.
	Config *Config

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Repository is the top-level facade over one working-directory root.
// Ledger, staging and HEAD are re-read from disk by every operation; only
// the object store handle is kept.
type Repository struct {
	root   string
	meta   string
	Store  *ObjectStore
	Config Config
	logger *slog.Logger
	now    func() time.Time
}

// Init creates a repository at root. It fails with ErrAlreadyInitialized
// if the metadata directory already exists.
func Init(root string, opts Options) (*Repository, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create root %s: %w", root, err)
	}
	abs, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	meta := filepath.Join(abs, MetaDir)
	if _, err := os.Stat(meta); err == nil {
		return nil, &PathError{Op: "init", Path: abs, Err: ErrAlreadyInitialized}
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
		cfg.V = schemaVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, dir := range []string{meta, filepath.Join(meta, objectsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := writeMeta(filepath.Join(meta, configName), cfg); err != nil {
		return nil, err
	}
	if err := writeMeta(filepath.Join(meta, commitsName), ledgerFile{V: schemaVersion, Commits: []Commit{}}); err != nil {
		return nil, err
	}
	if err := writeMeta(filepath.Join(meta, stagingName), stagingFile{V: schemaVersion, Entries: map[string]StagingEntry{}}); err != nil {
		return nil, err
	}
	if err := (Head{path: filepath.Join(meta, headName)}).Write(0); err != nil {
		return nil, err
	}

	r, err := open(abs, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Info("initialized repository", "root", abs, "hash", cfg.Hash)
	return r, nil
}

// Open binds to an existing repository at root. It fails with
// ErrNotRepository if root has no metadata directory.
func Open(root string, opts Options) (*Repository, error) {
	abs, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	return open(abs, opts)
}

func open(root string, opts Options) (*Repository, error) {
	meta := filepath.Join(root, MetaDir)
	if fi, err := os.Stat(meta); err != nil || !fi.IsDir() {
		return nil, &PathError{Op: "open", Path: root, Err: ErrNotRepository}
	}

	cfg, err := LoadConfig(filepath.Join(meta, configName))
	if err != nil {
		return nil, err
	}
	hasher, err := NewHasher(cfg.Hash)
	if err != nil {
		return nil, err
	}
	store, err := NewObjectStore(filepath.Join(meta, objectsDir), hasher)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Repository{
		root:   root,
		meta:   meta,
		Store:  store,
		Config: cfg,
		logger: logger,
		now:    now,
	}, nil
}

// resolveRoot makes root absolute and resolves symlinks so containment
// checks compare like with like.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &PathError{Op: "open", Path: abs, Err: ErrFileNotFound}
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", abs, err)
	}
	return resolved, nil
}

// Root returns the absolute working-directory root.
func (r *Repository) Root() string { return r.root }

// Logger returns the logger the repository reports to.
func (r *Repository) Logger() *slog.Logger { return r.logger }

// MetaPath returns the path to the .svcs/ metadata directory.
func (r *Repository) MetaPath() string { return r.meta }

// Ledger loads the commit history.
func (r *Repository) Ledger() (*Ledger, error) {
	return LoadLedger(filepath.Join(r.meta, commitsName))
}

// Staging loads the staging area.
func (r *Repository) Staging() (*StagingArea, error) {
	return LoadStagingArea(filepath.Join(r.meta, stagingName))
}

// Head returns the HEAD pointer.
func (r *Repository) Head() Head {
	return Head{path: filepath.Join(r.meta, headName)}
}

// relPath maps an absolute, symlink-resolved path to its slash-separated
// repository-relative form, rejecting anything outside the root or inside
// the metadata directory.
func (r *Repository) relPath(abs string) (string, error) {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRepository
	}
	rel = filepath.ToSlash(rel)
	if rel == MetaDir || strings.HasPrefix(rel, MetaDir+"/") {
		return "", ErrOutsideRepository
	}
	return rel, nil
}

// AddFile stages the file at path. Relative paths are resolved against
// the process working directory.
func (r *Repository) AddFile(path string) (*StagingEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Op: "add", Path: abs, Err: ErrFileNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, &PathError{Op: "add", Path: abs, Err: ErrNotAFile}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", abs, err)
	}
	rel, err := r.relPath(resolved)
	if err != nil {
		return nil, &PathError{Op: "add", Path: abs, Err: err}
	}

	staging, err := r.Staging()
	if err != nil {
		return nil, err
	}
	digest, size, err := r.Store.PutFile(resolved)
	if err != nil {
		return nil, err
	}
	entry := StagingEntry{
		Path:     rel,
		Hash:     digest,
		Size:     size,
		Modified: fi.ModTime().UTC(),
	}
	if err := staging.Stage(entry); err != nil {
		return nil, err
	}
	r.logger.Debug("staged file", "path", rel, "hash", digest, "size", size)
	return &entry, nil
}

// AddFiles stages each path in turn. Failures do not stop the remaining
// paths; they are joined into the returned error.
func (r *Repository) AddFiles(paths ...string) ([]StagingEntry, error) {
	var (
		staged []StagingEntry
		errs   []error
	)
	for _, p := range paths {
		e, err := r.AddFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		staged = append(staged, *e)
	}
	return staged, errors.Join(errs...)
}

// Commit records the staged entries as a new commit, points HEAD at it
// and clears staging. An empty message is replaced by a timestamped one.
// If any step fails the earlier ones are undone.
func (r *Repository) Commit(message string) (*Commit, error) {
	staging, err := r.Staging()
	if err != nil {
		return nil, err
	}
	if staging.Len() == 0 {
		return nil, ErrNothingStaged
	}
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	head := r.Head()
	parent, err := head.Read()
	if err != nil {
		return nil, err
	}

	now := r.now()
	if message == "" {
		message = "Commit at " + now.Format(commitMessageLayout)
	}
	c := Commit{
		ID:        ledger.Len() + 1,
		Message:   message,
		Timestamp: now.UTC(),
		Files:     staging.Entries(),
		Parent:    parent,
	}

	if err := ledger.Append(c); err != nil {
		return nil, fmt.Errorf("append commit: %w", err)
	}
	if err := head.Write(c.ID); err != nil {
		r.rollbackCommit(ledger, head, c.ID-1, parent)
		return nil, err
	}
	if err := staging.Clear(); err != nil {
		r.rollbackCommit(ledger, head, c.ID-1, parent)
		return nil, fmt.Errorf("clear staging: %w", err)
	}

	r.logger.Debug("created commit", "id", c.ID, "parent", c.Parent, "files", len(c.Files))
	return &c, nil
}

func (r *Repository) rollbackCommit(ledger *Ledger, head Head, keep, prevHead int) {
	if err := ledger.truncate(keep); err != nil {
		r.logger.Error("rollback ledger failed", "error", err)
	}
	if err := head.Write(prevHead); err != nil {
		r.logger.Error("rollback HEAD failed", "error", err)
	}
}

// Show looks a commit up by id.
func (r *Repository) Show(id int) (*Commit, error) {
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	return ledger.Get(id)
}

// CurrentCommit resolves HEAD. It returns nil when there is no commit yet
// or HEAD names a commit the ledger does not hold.
func (r *Repository) CurrentCommit() (*Commit, error) {
	id, err := r.Head().Read()
	if err != nil || id == 0 {
		return nil, err
	}
	c, err := r.Show(id)
	if errors.Is(err, ErrCommitNotFound) {
		return nil, nil
	}
	return c, err
}

// LogResult is the newest-first commit history.
type LogResult struct {
	Commits []Commit `json:"commits" yaml:"commits"`
	Total   int      `json:"total" yaml:"total"`
	Head    int      `json:"head" yaml:"head"`
}

// Log returns the last limit commits, newest first. limit <= 0 returns all.
func (r *Repository) Log(limit int) (*LogResult, error) {
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	if ledger.Len() == 0 {
		return nil, ErrNoCommits
	}
	head, err := r.Head().Read()
	if err != nil {
		return nil, err
	}

	all := ledger.All()
	if limit > 0 && limit < len(all) {
		all = all[len(all)-limit:]
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return &LogResult{Commits: all, Total: ledger.Len(), Head: head}, nil
}

// Status summarises the repository.
type Status struct {
	Root         string         `json:"root" yaml:"root"`
	Head         *Commit        `json:"head,omitempty" yaml:"head,omitempty"`
	TotalCommits int            `json:"total_commits" yaml:"total_commits"`
	Staged       []StagingEntry `json:"staged" yaml:"staged"`
}

// Status reports HEAD, the commit count and the staged entries.
func (r *Repository) Status() (*Status, error) {
	staging, err := r.Staging()
	if err != nil {
		return nil, err
	}
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	current, err := r.CurrentCommit()
	if err != nil {
		return nil, err
	}
	return &Status{
		Root:         r.root,
		Head:         current,
		TotalCommits: ledger.Len(),
		Staged:       staging.Sorted(),
	}, nil
}
