package vcs

import (
	"sort"
	"time"
)

// schemaVersion is written as "v" in every metadata file.
const schemaVersion = 1

// StagingEntry is one path -> blob association, staged or committed.
type StagingEntry struct {
	Path     string    `json:"path" yaml:"path"`
	Hash     Digest    `json:"hash" yaml:"hash"`
	Size     int64     `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// Commit is an immutable snapshot of path -> blob associations. Parent is
// 0 for the first commit.
type Commit struct {
	ID        int                     `json:"id" yaml:"id"`
	Message   string                  `json:"message" yaml:"message"`
	Timestamp time.Time               `json:"timestamp" yaml:"timestamp"`
	Files     map[string]StagingEntry `json:"files" yaml:"files"`
	Parent    int                     `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// SortedFiles returns the commit's entries in lexical path order.
func (c *Commit) SortedFiles() []StagingEntry {
	return sortEntries(c.Files)
}

func sortEntries(m map[string]StagingEntry) []StagingEntry {
	out := make([]StagingEntry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func copyEntries(m map[string]StagingEntry) map[string]StagingEntry {
	out := make(map[string]StagingEntry, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
