package vcs

import (
	"encoding/json"
	"fmt"
)

// StagingArea is the pending path -> blob mapping for the next commit.
// Last write for a path wins; every mutation is persisted immediately.
type StagingArea struct {
	path    string
	entries map[string]StagingEntry
}

type stagingFile struct {
	V       int                     `json:"v"`
	Entries map[string]StagingEntry `json:"entries"`
}

// LoadStagingArea reads the staging file at path. A missing file is an
// empty staging area.
func LoadStagingArea(path string) (*StagingArea, error) {
	s := &StagingArea{path: path, entries: make(map[string]StagingEntry)}
	data, err := readMeta(path)
	if err != nil || data == nil {
		return s, err
	}

	v, versioned := schemaOf(data)
	if !versioned {
		entries, err := decodeLegacyStaging(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		s.entries = entries
		return s, nil
	}
	if err := checkSchema(path, v); err != nil {
		return nil, err
	}

	var f stagingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for p, e := range f.Entries {
		e.Path = p
		s.entries[p] = e
	}
	return s, nil
}

// Stage inserts or overwrites the entry for e.Path.
func (s *StagingArea) Stage(e StagingEntry) error {
	prev, had := s.entries[e.Path]
	s.entries[e.Path] = e
	if err := s.save(); err != nil {
		if had {
			s.entries[e.Path] = prev
		} else {
			delete(s.entries, e.Path)
		}
		return err
	}
	return nil
}

// Entries returns a copy of the staged mapping.
func (s *StagingArea) Entries() map[string]StagingEntry {
	return copyEntries(s.entries)
}

// Sorted returns the staged entries in lexical path order.
func (s *StagingArea) Sorted() []StagingEntry {
	return sortEntries(s.entries)
}

// Len returns the number of staged paths.
func (s *StagingArea) Len() int { return len(s.entries) }

// Clear empties the staging area.
func (s *StagingArea) Clear() error {
	prev := s.entries
	s.entries = make(map[string]StagingEntry)
	if err := s.save(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

func (s *StagingArea) save() error {
	return writeMeta(s.path, stagingFile{V: schemaVersion, Entries: s.entries})
}
