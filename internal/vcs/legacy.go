package vcs

import (
	"encoding/json"
	"math"
	"time"
)

// Repositories written before the versioned schema hold a bare JSON array
// of commits and a bare object of staged entries, with float unix times.

type legacyEntry struct {
	Hash     Digest  `json:"hash"`
	Size     int64   `json:"size"`
	Modified float64 `json:"modified"`
}

type legacyCommit struct {
	ID        int                    `json:"id"`
	Message   string                 `json:"message"`
	Timestamp float64                `json:"timestamp"`
	Files     map[string]legacyEntry `json:"files"`
	Parent    *int                   `json:"parent"`
}

func unixFloat(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func (e legacyEntry) upgrade(path string) StagingEntry {
	return StagingEntry{Path: path, Hash: e.Hash, Size: e.Size, Modified: unixFloat(e.Modified)}
}

func upgradeEntries(m map[string]legacyEntry) map[string]StagingEntry {
	out := make(map[string]StagingEntry, len(m))
	for path, e := range m {
		out[path] = e.upgrade(path)
	}
	return out
}

func decodeLegacyCommits(data []byte) ([]Commit, error) {
	var old []legacyCommit
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, err
	}
	commits := make([]Commit, 0, len(old))
	for _, c := range old {
		parent := 0
		if c.Parent != nil {
			parent = *c.Parent
		}
		commits = append(commits, Commit{
			ID:        c.ID,
			Message:   c.Message,
			Timestamp: unixFloat(c.Timestamp),
			Files:     upgradeEntries(c.Files),
			Parent:    parent,
		})
	}
	return commits, nil
}

func decodeLegacyStaging(data []byte) (map[string]StagingEntry, error) {
	var old map[string]legacyEntry
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, err
	}
	return upgradeEntries(old), nil
}
