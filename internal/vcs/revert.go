package vcs

import (
	"fmt"
	"os"
	"path/filepath"
)

// SkippedFile is a commit entry revert could not materialise because its
// blob is missing or corrupt.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Hash   Digest `json:"hash" yaml:"hash"`
	Reason string `json:"reason" yaml:"reason"`
}

// RevertResult reports what a revert wrote.
type RevertResult struct {
	Commit   Commit        `json:"commit" yaml:"commit"`
	Restored []string      `json:"restored" yaml:"restored"`
	Skipped  []SkippedFile `json:"skipped" yaml:"skipped"`
}

// Revert writes every file of commit id into the working tree and points
// HEAD at it. A file whose blob cannot be read is skipped and reported;
// the rest are still restored. Working-tree files the commit does not
// mention are left alone, and the ledger and staging area are untouched.
func (r *Repository) Revert(id int) (*RevertResult, error) {
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	c, err := ledger.Get(id)
	if err != nil {
		return nil, err
	}

	res := &RevertResult{Commit: *c, Restored: []string{}, Skipped: []SkippedFile{}}
	for _, e := range c.SortedFiles() {
		target := filepath.Join(r.root, filepath.FromSlash(e.Path))
		if _, err := r.relPath(target); err != nil {
			res.Skipped = append(res.Skipped, SkippedFile{Path: e.Path, Hash: e.Hash, Reason: err.Error()})
			continue
		}

		data, err := r.Store.Get(e.Hash)
		if err != nil {
			r.logger.Warn("skipping file with unreadable object", "path", e.Path, "hash", e.Hash, "error", err)
			res.Skipped = append(res.Skipped, SkippedFile{Path: e.Path, Hash: e.Hash, Reason: err.Error()})
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("create parent of %s: %w", e.Path, err)
		}
		if err := SafeWrite(target, data, 0644); err != nil {
			return nil, fmt.Errorf("restore %s: %w", e.Path, err)
		}
		res.Restored = append(res.Restored, e.Path)
	}

	if err := r.Head().Write(id); err != nil {
		return nil, err
	}
	r.logger.Debug("reverted", "id", id, "restored", len(res.Restored), "skipped", len(res.Skipped))
	return res, nil
}
