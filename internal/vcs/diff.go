package vcs

import "sort"

// Modification is a path present in both commits with differing digests.
type Modification struct {
	Path      string `json:"path" yaml:"path"`
	OldHash   Digest `json:"old_hash" yaml:"old_hash"`
	NewHash   Digest `json:"new_hash" yaml:"new_hash"`
	SizeDelta int64  `json:"size_delta" yaml:"size_delta"`
}

// DiffResult compares two file maps. All lists are in lexical path order.
type DiffResult struct {
	From     int            `json:"from" yaml:"from"`
	To       int            `json:"to" yaml:"to"`
	Added    []string       `json:"added" yaml:"added"`
	Deleted  []string       `json:"deleted" yaml:"deleted"`
	Modified []Modification `json:"modified" yaml:"modified"`
}

// Empty reports the explicit "no changes" outcome.
func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Deleted) == 0 && len(d.Modified) == 0
}

// ModifiedPaths returns the paths of Modified.
func (d *DiffResult) ModifiedPaths() []string {
	out := make([]string, len(d.Modified))
	for i, m := range d.Modified {
		out[i] = m.Path
	}
	return out
}

// DiffFiles compares file maps a and b. Digest equality is the only
// identity test; size is reported but never decides.
func DiffFiles(a, b map[string]StagingEntry) DiffResult {
	res := DiffResult{
		Added:    []string{},
		Deleted:  []string{},
		Modified: []Modification{},
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			res.Added = append(res.Added, p)
		}
	}
	var common []string
	for p := range a {
		if _, ok := b[p]; ok {
			common = append(common, p)
		} else {
			res.Deleted = append(res.Deleted, p)
		}
	}
	sort.Strings(res.Added)
	sort.Strings(res.Deleted)
	sort.Strings(common)

	for _, p := range common {
		old, cur := a[p], b[p]
		if old.Hash != cur.Hash {
			res.Modified = append(res.Modified, Modification{
				Path:      p,
				OldHash:   old.Hash,
				NewHash:   cur.Hash,
				SizeDelta: cur.Size - old.Size,
			})
		}
	}
	return res
}

// Diff compares two commits. Zero ids mean "omitted": with both omitted
// the last two commits are compared; otherwise a missing first defaults
// to len-1 and a missing second to len.
func (r *Repository) Diff(first, second int) (*DiffResult, error) {
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	n := ledger.Len()
	if n == 0 {
		return nil, ErrNoCommits
	}

	if first == 0 && second == 0 {
		if n < 2 {
			return nil, ErrInsufficientHistory
		}
		first, second = n-1, n
	}
	if first == 0 {
		first = n - 1
	}
	if second == 0 {
		second = n
	}

	a, err := ledger.Get(first)
	if err != nil {
		return nil, &CommitError{ID: first, Err: ErrInvalidCommit}
	}
	b, err := ledger.Get(second)
	if err != nil {
		return nil, &CommitError{ID: second, Err: ErrInvalidCommit}
	}

	res := DiffFiles(a.Files, b.Files)
	res.From, res.To = a.ID, b.ID
	return &res, nil
}
