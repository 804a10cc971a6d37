package vcs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*ObjectStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "objects")
	s, err := NewObjectStore(dir, mustHasher(t, HashSHA256))
	if err != nil {
		t.Fatalf("NewObjectStore: %v", err)
	}
	return s, dir
}

func TestObjectStore_PutDedup(t *testing.T) {
	s, dir := openTestStore(t)

	d1, err := s.Put([]byte("same bytes"))
	if err != nil {
		t.Fatalf("Put 1: %v", err)
	}
	d2, err := s.Put([]byte("same bytes"))
	if err != nil {
		t.Fatalf("Put 2: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("digests differ: %s vs %s", d1, d2)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one blob on disk, got %d", len(entries))
	}
	if entries[0].Name() != string(d1) {
		t.Errorf("blob named %s, want %s", entries[0].Name(), d1)
	}
}

func TestObjectStore_GetRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	d, _ := s.Put([]byte("hello"))
	if d != helloSHA256 {
		t.Fatalf("digest = %s", d)
	}
	got, err := s.Get(d)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Get = %q", got)
	}
}

func TestObjectStore_GetMissing(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Get(helloSHA256)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestObjectStore_GetDetectsCorruption(t *testing.T) {
	s, dir := openTestStore(t)
	d, _ := s.Put([]byte("hello"))
	if err := os.WriteFile(filepath.Join(dir, string(d)), []byte("jello"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(d); !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("err = %v, want ErrCorruptObject", err)
	}
}

func TestObjectStore_PutFileMatchesPut(t *testing.T) {
	s, dir := openTestStore(t)
	data := bytes.Repeat([]byte("stream me\n"), 5000)
	src := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(src, data, 0644); err != nil {
		t.Fatal(err)
	}

	d, n, err := s.PutFile(src)
	if err != nil {
		t.Fatalf("PutFile: %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("size = %d, want %d", n, len(data))
	}
	want, _ := s.hasher.Sum(data)
	if d != want {
		t.Errorf("digest = %s, want %s", d, want)
	}

	// A second PutFile of the same content leaves one blob and no tempfiles.
	if _, _, err := s.PutFile(src); err != nil {
		t.Fatalf("PutFile again: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry in objects dir, got %d", len(entries))
	}
}

func TestObjectStore_ListIgnoresForeignFiles(t *testing.T) {
	s, dir := openTestStore(t)
	a, _ := s.Put([]byte("a"))
	b, _ := s.Put([]byte("b"))
	os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644)

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List = %v, want 2 digests", got)
	}
	if !(got[0] < got[1]) || (got[0] != a && got[0] != b) {
		t.Errorf("List not sorted or wrong: %v", got)
	}
}

func TestObjectStore_BLAKE3(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "objects")
	s, err := NewObjectStore(dir, mustHasher(t, HashBLAKE3))
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.Put([]byte("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if d == helloSHA256 {
		t.Error("blake3 store produced the sha256 digest")
	}
	got, err := s.Get(d)
	if err != nil || string(got) != "hello" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}
