package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const snapshotExt = ".zip"

// SnapshotResult describes a written archive.
type SnapshotResult struct {
	Path  string `json:"path" yaml:"path"`
	Files int    `json:"files" yaml:"files"`
	Size  int64  `json:"size" yaml:"size"`
}

// RestoreResult describes an extracted archive.
type RestoreResult struct {
	Archive string `json:"archive" yaml:"archive"`
	Files   int    `json:"files" yaml:"files"`
}

// snapshotDir is where archives are written: the root unless the config
// names another directory.
func (r *Repository) snapshotDir() string {
	dir := r.Config.SnapshotDir
	switch {
	case dir == "":
		return r.root
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(r.root, dir)
	}
}

// Snapshot archives the working tree, staged or not, committed or not,
// into a zip bundle. The metadata directory and the archive itself are
// left out. An empty name becomes snapshot_<unix seconds>.
func (r *Repository) Snapshot(name string) (*SnapshotResult, error) {
	if name == "" {
		name = fmt.Sprintf("snapshot_%d", r.now().Unix())
	}
	if !strings.HasSuffix(name, snapshotExt) {
		name += snapshotExt
	}
	dir := r.snapshotDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	archive, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}

	files, err := r.treeFiles(archive)
	if err != nil {
		return nil, err
	}

	err = SafeWriteFunc(archive, 0644, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
		for _, rel := range files {
			if err := addToZip(zw, r.root, rel); err != nil {
				return err
			}
		}
		return zw.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("write snapshot %s: %w", archive, err)
	}

	fi, err := os.Stat(archive)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	r.logger.Debug("wrote snapshot", "path", archive, "files", len(files), "size", fi.Size())
	return &SnapshotResult{Path: archive, Files: len(files), Size: fi.Size()}, nil
}

// treeFiles lists regular files under the root as slash-separated
// relative paths, skipping the metadata directory and exclude.
func (r *Repository) treeFiles(exclude string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(r.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == r.meta {
				return filepath.SkipDir
			}
			return nil
		}
		if p == exclude || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk working tree: %w", err)
	}
	return files, nil
}

func addToZip(zw *zip.Writer, root, rel string) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	fi, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", rel, err)
	}
	hdr.Name = rel
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", rel, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive %s: %w", rel, err)
	}
	return nil
}

// Restore replaces everything in the working tree except the metadata
// directory with the contents of the archive at archivePath. The archive
// is read and validated before anything is deleted, so an archive inside
// the tree survives its own restore and an archive that could not be
// extracted completely changes nothing.
func (r *Repository) Restore(archivePath string) (*RestoreResult, error) {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", archivePath, err)
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Op: "restore", Path: abs, Err: ErrArchiveNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", abs, err)
	}

	rels, err := checkArchive(zr.File)
	if err != nil {
		return nil, err
	}

	if err := r.clearTree(); err != nil {
		return nil, err
	}

	files := 0
	for i, f := range zr.File {
		rel := rels[i]
		target := filepath.Join(r.root, filepath.FromSlash(rel))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, fmt.Errorf("create %s: %w", rel, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return nil, err
		}
		files++
	}
	r.logger.Debug("restored snapshot", "archive", abs, "files", files)
	return &RestoreResult{Archive: abs, Files: files}, nil
}

// archiveEntryPath normalises a zip entry name and rejects names that
// would land outside the root or inside the metadata directory.
func archiveEntryPath(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || filepath.IsAbs(name) || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, "../") {
		return "", ErrUnsafeArchivePath
	}
	if clean == MetaDir || strings.HasPrefix(clean, MetaDir+"/") {
		return "", ErrUnsafeArchivePath
	}
	return clean, nil
}

// checkArchive resolves every entry name before anything is deleted. Besides
// unsafe names it rejects overlapping entries: the same file twice, or a
// file where another entry needs a directory.
func checkArchive(entries []*zip.File) ([]string, error) {
	rels := make([]string, len(entries))
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for i, f := range entries {
		rel, err := archiveEntryPath(f.Name)
		if err != nil {
			return nil, &PathError{Op: "restore", Path: f.Name, Err: err}
		}
		rels[i] = rel
		if f.FileInfo().IsDir() {
			dirs[rel] = true
		} else {
			if files[rel] {
				return nil, &PathError{Op: "restore", Path: f.Name, Err: ErrArchiveConflict}
			}
			files[rel] = true
		}
		for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
			dirs[dir] = true
		}
	}
	for i, rel := range rels {
		if files[rel] && dirs[rel] {
			return nil, &PathError{Op: "restore", Path: entries[i].Name, Err: ErrArchiveConflict}
		}
	}
	return rels, nil
}

// clearTree removes every top-level entry of the root except the
// metadata directory.
func (r *Repository) clearTree() error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("read working tree: %w", err)
	}
	for _, e := range entries {
		if e.Name() == MetaDir {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.root, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", f.Name, err)
	}
	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}
