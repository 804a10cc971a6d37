package vcs

import (
	"os"
	"testing"
)

func TestVerify_Clean(t *testing.T) {
	r := openTestRepo(t)
	mustAdd(t, r, writeFile(t, r, "a.txt", "a"))
	mustCommit(t, r, "one")
	mustAdd(t, r, writeFile(t, r, "b.txt", compressible(4096)))
	if _, err := r.Compact(); err != nil {
		t.Fatal(err)
	}

	res, err := r.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Clean() || res.Checked != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestVerify_FindsCorruptAndMissing(t *testing.T) {
	r := openTestRepo(t)
	a := mustAdd(t, r, writeFile(t, r, "a.txt", "a"))
	b := mustAdd(t, r, writeFile(t, r, "b.txt", "b"))
	mustCommit(t, r, "one")
	staged := mustAdd(t, r, writeFile(t, r, "c.txt", "c"))

	os.WriteFile(r.Store.path(a.Hash), []byte("flipped"), 0644)
	os.Remove(r.Store.path(b.Hash))
	os.Remove(r.Store.path(staged.Hash))

	res, err := r.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Clean() {
		t.Fatal("expected problems")
	}
	if len(res.Corrupt) != 1 || res.Corrupt[0] != a.Hash {
		t.Errorf("corrupt = %v", res.Corrupt)
	}
	if len(res.Missing) != 2 {
		t.Fatalf("missing = %+v", res.Missing)
	}
	if res.Missing[0].Commit != 0 || res.Missing[0].Path != "c.txt" {
		t.Errorf("staged reference not reported first: %+v", res.Missing[0])
	}
	if res.Missing[1].Commit != 1 || res.Missing[1].Hash != b.Hash {
		t.Errorf("committed reference = %+v", res.Missing[1])
	}
}
