package present

import (
	"time"

	"github.com/systemshift/svcs/internal/vcs"
)

// InitReport describes a newly created repository.
type InitReport struct {
	Root string            `json:"root" yaml:"root"`
	Meta string            `json:"meta" yaml:"meta"`
	Hash vcs.HashAlgorithm `json:"hash" yaml:"hash"`
}

// FileReport is a file entry with its digest in both renderings.
type FileReport struct {
	Path     string     `json:"path" yaml:"path"`
	Hash     vcs.Digest `json:"hash" yaml:"hash"`
	CID      string     `json:"cid,omitempty" yaml:"cid,omitempty"`
	Size     int64      `json:"size" yaml:"size"`
	Modified time.Time  `json:"modified" yaml:"modified"`
}

// CommitReport is a commit with its files in path order.
type CommitReport struct {
	ID        int          `json:"id" yaml:"id"`
	Message   string       `json:"message" yaml:"message"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Parent    int          `json:"parent" yaml:"parent"`
	Current   bool         `json:"current" yaml:"current"`
	Files     []FileReport `json:"files" yaml:"files"`
}

// StatusReport is vcs.Status with CIDs attached.
type StatusReport struct {
	Root         string        `json:"root" yaml:"root"`
	Head         *CommitReport `json:"head,omitempty" yaml:"head,omitempty"`
	TotalCommits int           `json:"total_commits" yaml:"total_commits"`
	Staged       []FileReport  `json:"staged" yaml:"staged"`
}

// WarningReport carries a no-op outcome in structured output.
type WarningReport struct {
	Warning string `json:"warning" yaml:"warning"`
}

func fileReports(entries []vcs.StagingEntry, h *vcs.Hasher) []FileReport {
	out := make([]FileReport, len(entries))
	for i, e := range entries {
		out[i] = FileReport{Path: e.Path, Hash: e.Hash, Size: e.Size, Modified: e.Modified}
		if h != nil {
			if c, err := h.CID(e.Hash); err == nil {
				out[i].CID = c
			}
		}
	}
	return out
}

func commitReport(c *vcs.Commit, head int, h *vcs.Hasher) *CommitReport {
	return &CommitReport{
		ID:        c.ID,
		Message:   c.Message,
		Timestamp: c.Timestamp,
		Parent:    c.Parent,
		Current:   c.ID == head,
		Files:     fileReports(c.SortedFiles(), h),
	}
}
