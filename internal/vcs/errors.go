package vcs

import (
	"errors"
	"fmt"
)

// Precondition faults abort the operation with no state change.
var (
	ErrNotRepository      = errors.New("not an svcs repository")
	ErrAlreadyInitialized = errors.New("repository already initialized")
	ErrFileNotFound       = errors.New("file not found")
	ErrNotAFile           = errors.New("not a regular file")
	ErrOutsideRepository  = errors.New("file not in repository")
	ErrArchiveNotFound    = errors.New("snapshot archive not found")
	ErrUnsafeArchivePath  = errors.New("archive entry escapes repository")
	ErrArchiveConflict    = errors.New("archive entries overlap")
	ErrInvalidCommit      = errors.New("invalid commit id")
	ErrCommitNotFound     = errors.New("commit not found")
)

// Emptiness faults: callers report these as a no-op rather than a failure.
var (
	ErrNothingStaged       = errors.New("no changes staged for commit")
	ErrNoCommits           = errors.New("no commits found")
	ErrInsufficientHistory = errors.New("need at least 2 commits to show diff")
)

// Consistency faults.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrCorruptObject      = errors.New("object content does not match digest")
	ErrUnsupportedVersion = errors.New("unsupported metadata version")
)

// IsEmptiness reports whether err is one of the emptiness faults.
func IsEmptiness(err error) bool {
	return errors.Is(err, ErrNothingStaged) ||
		errors.Is(err, ErrNoCommits) ||
		errors.Is(err, ErrInsufficientHistory)
}

// PathError records the path that triggered a precondition fault.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// CommitError records the commit id that could not be resolved.
type CommitError struct {
	ID  int
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit #%d: %v", e.ID, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
