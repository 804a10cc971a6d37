package vcs

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ledger is the append-only, ordered commit history. Commit ids are dense
// and start at 1, so the commit with id n sits at index n-1 in a ledger
// nobody has edited by hand; Get still scans rather than relying on that.
type Ledger struct {
	path    string
	commits []Commit
}

type ledgerFile struct {
	V       int      `json:"v"`
	Commits []Commit `json:"commits"`
}

// LoadLedger reads the ledger at path. A missing file is an empty ledger.
func LoadLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path}
	data, err := readMeta(path)
	if err != nil || data == nil {
		return l, err
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		commits, err := decodeLegacyCommits(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		l.commits = commits
		return l, nil
	}

	v, _ := schemaOf(data)
	if err := checkSchema(path, v); err != nil {
		return nil, err
	}
	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range f.Commits {
		for p, e := range f.Commits[i].Files {
			e.Path = p
			f.Commits[i].Files[p] = e
		}
	}
	l.commits = f.Commits
	return l, nil
}

// Len returns the number of commits.
func (l *Ledger) Len() int { return len(l.commits) }

// All returns the commits oldest first.
func (l *Ledger) All() []Commit {
	out := make([]Commit, len(l.commits))
	copy(out, l.commits)
	return out
}

// Get looks a commit up by id.
func (l *Ledger) Get(id int) (*Commit, error) {
	for i := range l.commits {
		if l.commits[i].ID == id {
			c := l.commits[i]
			return &c, nil
		}
	}
	return nil, &CommitError{ID: id, Err: ErrCommitNotFound}
}

// Append adds c to the end of the ledger and persists it. c.ID must be
// Len()+1.
func (l *Ledger) Append(c Commit) error {
	if want := len(l.commits) + 1; c.ID != want {
		return fmt.Errorf("append commit #%d: next id is %d", c.ID, want)
	}
	l.commits = append(l.commits, c)
	if err := l.save(); err != nil {
		l.commits = l.commits[:len(l.commits)-1]
		return err
	}
	return nil
}

// truncate drops every commit after the first n. Only used to undo an
// Append whose surrounding commit failed.
func (l *Ledger) truncate(n int) error {
	if n >= len(l.commits) {
		return nil
	}
	l.commits = l.commits[:n]
	return l.save()
}

func (l *Ledger) save() error {
	commits := l.commits
	if commits == nil {
		commits = []Commit{}
	}
	return writeMeta(l.path, ledgerFile{V: schemaVersion, Commits: commits})
}
