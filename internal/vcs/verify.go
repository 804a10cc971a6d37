package vcs

import "errors"

// MissingObject is a digest referenced by staging or a commit with no
// backing blob.
type MissingObject struct {
	Hash Digest `json:"hash" yaml:"hash"`
	Path string `json:"path" yaml:"path"`
	// Commit is 0 for a staged reference.
	Commit int `json:"commit" yaml:"commit"`
}

// VerifyResult reports an integrity check. It is clean when both lists
// are empty.
type VerifyResult struct {
	Checked int             `json:"checked" yaml:"checked"`
	Corrupt []Digest        `json:"corrupt" yaml:"corrupt"`
	Missing []MissingObject `json:"missing" yaml:"missing"`
}

// Clean reports whether no problem was found.
func (v *VerifyResult) Clean() bool {
	return len(v.Corrupt) == 0 && len(v.Missing) == 0
}

// Verify re-hashes every stored object and checks that every digest named
// by staging or the ledger has a blob. It never modifies anything.
func (r *Repository) Verify() (*VerifyResult, error) {
	digests, err := r.Store.List()
	if err != nil {
		return nil, err
	}
	res := &VerifyResult{Corrupt: []Digest{}, Missing: []MissingObject{}}
	for _, d := range digests {
		res.Checked++
		if _, err := r.Store.Get(d); err != nil {
			if !errors.Is(err, ErrCorruptObject) {
				return nil, err
			}
			res.Corrupt = append(res.Corrupt, d)
		}
	}

	staging, err := r.Staging()
	if err != nil {
		return nil, err
	}
	ledger, err := r.Ledger()
	if err != nil {
		return nil, err
	}
	check := func(commit int, entries []StagingEntry) {
		for _, e := range entries {
			if !r.Store.Has(e.Hash) {
				res.Missing = append(res.Missing, MissingObject{Hash: e.Hash, Path: e.Path, Commit: commit})
			}
		}
	}
	check(0, staging.Sorted())
	for _, c := range ledger.All() {
		check(c.ID, c.SortedFiles())
	}
	return res, nil
}
