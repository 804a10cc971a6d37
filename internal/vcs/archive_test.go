package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	r := openTestRepo(t)
	mustAdd(t, r, writeFile(t, r, "a.txt", "alpha"))
	mustCommit(t, r, "one")
	writeFile(t, r, "dir/b.txt", "beta")
	writeFile(t, r, "untracked.txt", "gamma")

	snap, err := r.Snapshot("backup")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if filepath.Base(snap.Path) != "backup.zip" || filepath.Dir(snap.Path) != r.Root() {
		t.Errorf("snapshot path = %s", snap.Path)
	}
	if snap.Files != 3 || snap.Size == 0 {
		t.Errorf("snapshot = %+v", snap)
	}

	writeFile(t, r, "a.txt", "changed")
	writeFile(t, r, "later.txt", "added after snapshot")
	os.RemoveAll(filepath.Join(r.Root(), "dir"))

	res, err := r.Restore(snap.Path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if res.Files != 3 {
		t.Errorf("restored %d files, want 3", res.Files)
	}
	for rel, want := range map[string]string{"a.txt": "alpha", "dir/b.txt": "beta", "untracked.txt": "gamma"} {
		if got := readTree(t, r, rel); got != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
	if _, err := os.Stat(filepath.Join(r.Root(), "later.txt")); !os.IsNotExist(err) {
		t.Error("file created after the snapshot survived restore")
	}
	// The archive lived in the tree and was removed along with it.
	if _, err := os.Stat(snap.Path); !os.IsNotExist(err) {
		t.Error("archive inside the tree should be cleared by restore")
	}

	// Metadata is untouched.
	if readHead(t, r) != 1 {
		t.Error("restore changed HEAD")
	}
	ledger, _ := r.Ledger()
	if ledger.Len() != 1 {
		t.Error("restore changed the ledger")
	}
}

func TestSnapshot_ExcludesMetadataAndItself(t *testing.T) {
	r := openTestRepo(t)
	mustAdd(t, r, writeFile(t, r, "a.txt", "a"))

	snap, err := r.Snapshot("")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(snap.Path), "snapshot_") || !strings.HasSuffix(snap.Path, ".zip") {
		t.Errorf("default name = %s", snap.Path)
	}

	zr, err := zip.OpenReader(snap.Path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if strings.HasPrefix(f.Name, MetaDir) || strings.HasSuffix(f.Name, ".zip") {
			t.Errorf("archive contains %s", f.Name)
		}
	}
	if len(names) != 1 || names[0] != "a.txt" {
		t.Errorf("entries = %v, want [a.txt]", names)
	}
}

func TestSnapshot_DefaultNameUsesClock(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	r, err := Init(t.TempDir(), Options{Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, r, "a.txt", "a")
	snap, err := r.Snapshot("")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if filepath.Base(snap.Path) != "snapshot_1700000000.zip" {
		t.Errorf("name = %s", filepath.Base(snap.Path))
	}
}

func TestSnapshot_ConfiguredDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapshotDir = "backups"
	r, err := Init(t.TempDir(), Options{Config: &cfg})
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, r, "a.txt", "a")
	snap, err := r.Snapshot("x.zip")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Path != filepath.Join(r.Root(), "backups", "x.zip") {
		t.Errorf("path = %s", snap.Path)
	}
}

func TestRestore_ArchiveNotFound(t *testing.T) {
	r := openTestRepo(t)
	writeFile(t, r, "a.txt", "keep")
	_, err := r.Restore(filepath.Join(r.Root(), "nope.zip"))
	if !errors.Is(err, ErrArchiveNotFound) {
		t.Fatalf("err = %v, want ErrArchiveNotFound", err)
	}
	if readTree(t, r, "a.txt") != "keep" {
		t.Error("failed restore touched the tree")
	}
}

func TestRestore_RejectsUnsafeEntries(t *testing.T) {
	// The zip reader may refuse non-local names itself; either way the
	// restore must fail before touching the tree.
	tests := []struct {
		name  string
		local bool
	}{
		{"../evil.txt", false},
		{"/etc/evil", false},
		{"a/../../evil", false},
		{".svcs/HEAD", true},
		{".svcs", true},
	}
	for _, tt := range tests {
		name := tt.name
		t.Run(name, func(t *testing.T) {
			r := openTestRepo(t)
			writeFile(t, r, "a.txt", "keep")

			archive := filepath.Join(t.TempDir(), "bad.zip")
			f, err := os.Create(archive)
			if err != nil {
				t.Fatal(err)
			}
			zw := zip.NewWriter(f)
			w, _ := zw.Create("ok.txt")
			w.Write([]byte("ok"))
			w, _ = zw.Create(name)
			w.Write([]byte("evil"))
			zw.Close()
			f.Close()

			_, err = r.Restore(archive)
			if err == nil {
				t.Fatal("expected restore to fail")
			}
			if tt.local && !errors.Is(err, ErrUnsafeArchivePath) {
				t.Fatalf("err = %v, want ErrUnsafeArchivePath", err)
			}
			if readTree(t, r, "a.txt") != "keep" {
				t.Error("rejected archive still cleared the tree")
			}
		})
	}
}

func TestArchiveEntryPath(t *testing.T) {
	good := map[string]string{
		"a.txt":       "a.txt",
		"dir/b.txt":   "dir/b.txt",
		"./c.txt":     "c.txt",
		"dir\\d.txt":  "dir/d.txt",
		"x/../y.txt":  "y.txt",
		".svcsrc":     ".svcsrc",
		"time:12.txt": "time:12.txt",
	}
	for in, want := range good {
		got, err := archiveEntryPath(in)
		if err != nil || got != want {
			t.Errorf("archiveEntryPath(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

// writeZip builds an archive outside the tree. Names ending in "/" become
// directory entries.
func writeZip(t *testing.T, names ...string) string {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "third-party.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(name, "/") {
			w.Write([]byte("content of " + name))
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return archive
}

func TestRestore_RejectsOverlappingEntries(t *testing.T) {
	tests := map[string][]string{
		"file then nested": {"a", "a/b"},
		"nested then file": {"a/b/c.txt", "a/b"},
		"duplicate file":   {"x.txt", "y.txt", "x.txt"},
		"dir entry clash":  {"d/", "d"},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			r := openTestRepo(t)
			writeFile(t, r, "keep.txt", "keep")

			_, err := r.Restore(writeZip(t, entries...))
			if !errors.Is(err, ErrArchiveConflict) {
				t.Fatalf("err = %v, want ErrArchiveConflict", err)
			}
			if readTree(t, r, "keep.txt") != "keep" {
				t.Error("rejected archive still cleared the tree")
			}
		})
	}
}

func TestRestore_DirectoryEntries(t *testing.T) {
	r := openTestRepo(t)
	res, err := r.Restore(writeZip(t, "d/", "d/e.txt", "empty/"))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if res.Files != 1 || readTree(t, r, "d/e.txt") != "content of d/e.txt" {
		t.Errorf("result = %+v", res)
	}
	if fi, err := os.Stat(filepath.Join(r.Root(), "empty")); err != nil || !fi.IsDir() {
		t.Errorf("empty dir not restored: %v", err)
	}
}
