package vcs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ObjectStore manages content-addressed immutable blobs on disk, one file
// per digest.
type ObjectStore struct {
	dir    string // path to objects/ directory
	hasher *Hasher
}

// ObjectInfo describes a stored blob as it sits on disk.
type ObjectInfo struct {
	Digest Digest
	Size   int64 // on-disk size
	Packed bool
}

// NewObjectStore creates an ObjectStore at the given directory.
func NewObjectStore(dir string, hasher *Hasher) (*ObjectStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create objects dir: %w", err)
	}
	return &ObjectStore{dir: dir, hasher: hasher}, nil
}

// Hasher returns the hasher digests are computed with.
func (s *ObjectStore) Hasher() *Hasher { return s.hasher }

func (s *ObjectStore) path(d Digest) string {
	return filepath.Join(s.dir, string(d))
}

// Put writes data to the object store, returning its digest.
// If the object already exists, this is a no-op.
func (s *ObjectStore) Put(data []byte) (Digest, error) {
	d, err := s.hasher.Sum(data)
	if err != nil {
		return "", err
	}
	if s.Has(d) {
		return d, nil
	}
	if err := SafeWrite(s.path(d), data, 0644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return d, nil
}

// PutFile streams the file at path into the store without holding it in
// memory. It returns the digest and the number of bytes hashed.
func (s *ObjectStore) PutFile(path string) (Digest, int64, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	h, err := s.hasher.New()
	if err != nil {
		tmp.Close()
		return "", 0, err
	}
	n, err := io.Copy(io.MultiWriter(tmp, h), src)
	if err != nil {
		tmp.Close()
		return "", n, fmt.Errorf("copy %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", n, fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", n, fmt.Errorf("close temp file: %w", err)
	}

	d, err := s.hasher.FromSum(h.Sum(nil))
	if err != nil {
		return "", n, err
	}
	if s.Has(d) {
		return d, n, nil
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", n, fmt.Errorf("chmod object: %w", err)
	}
	if err := os.Rename(tmpName, s.path(d)); err != nil {
		return "", n, fmt.Errorf("rename object: %w", err)
	}
	return d, n, nil
}

// Get reads an object by digest, unpacking compacted objects. The returned
// bytes always hash to d; anything else is ErrCorruptObject.
func (s *ObjectStore) Get(d Digest) ([]byte, error) {
	raw, err := os.ReadFile(s.path(d))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read object %s: %w", d, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", d, err)
	}

	if isPacked(raw) {
		if data, err := unpack(raw); err == nil && s.matches(d, data) {
			return data, nil
		}
	}
	if s.matches(d, raw) {
		return raw, nil
	}
	return nil, fmt.Errorf("read object %s: %w", d, ErrCorruptObject)
}

func (s *ObjectStore) matches(d Digest, data []byte) bool {
	got, err := s.hasher.Sum(data)
	return err == nil && got == d
}

// Has checks if an object exists.
func (s *ObjectStore) Has(d Digest) bool {
	_, err := os.Stat(s.path(d))
	return err == nil
}

// Stat reports the on-disk size and encoding of an object.
func (s *ObjectStore) Stat(d Digest) (ObjectInfo, error) {
	f, err := os.Open(s.path(d))
	if errors.Is(err, fs.ErrNotExist) {
		return ObjectInfo{}, fmt.Errorf("stat object %s: %w", d, ErrObjectNotFound)
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object %s: %w", d, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object %s: %w", d, err)
	}
	head := make([]byte, packHeadLen)
	n, _ := io.ReadFull(f, head)
	_, _, perr := parsePackHeader(head[:n], fi.Size())
	return ObjectInfo{Digest: d, Size: fi.Size(), Packed: perr == nil}, nil
}

// List returns every stored digest in lexical order. Leftover tempfiles
// and foreign files are ignored.
func (s *ObjectStore) List() ([]Digest, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	digests := make([]Digest, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isHexDigest(e.Name()) {
			continue
		}
		digests = append(digests, Digest(e.Name()))
	}
	sort.Slice(digests, func(i, j int) bool { return digests[i] < digests[j] })
	return digests, nil
}

// DiskUsage sums the on-disk size of every stored object.
func (s *ObjectStore) DiskUsage() (int64, error) {
	digests, err := s.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, d := range digests {
		info, err := os.Stat(s.path(d))
		if err != nil {
			return 0, fmt.Errorf("stat object %s: %w", d, err)
		}
		total += info.Size()
	}
	return total, nil
}

// rewrite replaces the on-disk encoding of an existing object.
func (s *ObjectStore) rewrite(d Digest, encoded []byte) error {
	if err := SafeWrite(s.path(d), encoded, 0644); err != nil {
		return fmt.Errorf("rewrite object %s: %w", d, err)
	}
	return nil
}
