package fuse

import (
	"context"
	"sort"
	"strings"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/svcs/internal/vcs"
)

// treeEntry is one immediate child of a directory inside a commit's tree.
type treeEntry struct {
	Name  string
	Dir   bool
	Entry vcs.StagingEntry // zero for directories
}

// treeChildren lists the immediate children of dir ("" for the top level)
// implied by the slash-separated paths in files, sorted by name.
func treeChildren(files map[string]vcs.StagingEntry, dir string) []treeEntry {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	seen := make(map[string]bool)
	var out []treeEntry
	for p, e := range files {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok || rest == "" {
			continue
		}
		name, _, nested := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		te := treeEntry{Name: name, Dir: nested}
		if !nested {
			te.Entry = e
		}
		out = append(out, te)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TreeDir is a directory inside commits/<id>/files/.
type TreeDir struct {
	fs.Inode
	repo   *vcs.Repository
	commit *vcs.Commit
	dir    string // slash-separated, "" for files/ itself
}

var _ = (fs.NodeLookuper)((*TreeDir)(nil))
var _ = (fs.NodeReaddirer)((*TreeDir)(nil))
var _ = (fs.NodeGetattrer)((*TreeDir)(nil))

func (d *TreeDir) childPath(name string) string {
	if d.dir == "" {
		return name
	}
	return d.dir + "/" + name
}

func (d *TreeDir) inoFor(rel string) uint64 {
	p := commitPath(d.commit.ID) + "/files"
	if rel != "" {
		p += "/" + rel
	}
	return stableIno(p)
}

func (d *TreeDir) ino() uint64 { return d.inoFor(d.dir) }

func (d *TreeDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = d.ino()
	out.SetTimes(nil, &d.commit.Timestamp, nil)
	return fs.OK
}

func (d *TreeDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	children := treeChildren(d.commit.Files, d.dir)
	entries := make([]fuse.DirEntry, len(children))
	for i, c := range children {
		mode := uint32(syscall.S_IFREG)
		if c.Dir {
			mode = syscall.S_IFDIR
		}
		entries[i] = fuse.DirEntry{Name: c.Name, Mode: mode, Ino: d.inoFor(d.childPath(c.Name))}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *TreeDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	for _, c := range treeChildren(d.commit.Files, d.dir) {
		if c.Name != name {
			continue
		}
		rel := d.childPath(name)
		if c.Dir {
			sub := &TreeDir{repo: d.repo, commit: d.commit, dir: rel}
			return d.NewInode(ctx, sub, fs.StableAttr{Mode: syscall.S_IFDIR, Ino: sub.ino()}), fs.OK
		}
		f := &BlobFile{repo: d.repo, entry: c.Entry, ino: d.inoFor(rel)}
		return d.NewInode(ctx, f, fs.StableAttr{Mode: syscall.S_IFREG, Ino: f.ino}), fs.OK
	}
	return nil, syscall.ENOENT
}

// BlobFile is a committed file. Its content is read from the object store
// once per open.
type BlobFile struct {
	fs.Inode
	repo  *vcs.Repository
	entry vcs.StagingEntry
	ino   uint64
}

var _ = (fs.NodeGetattrer)((*BlobFile)(nil))
var _ = (fs.NodeReader)((*BlobFile)(nil))
var _ = (fs.NodeOpener)((*BlobFile)(nil))

// blobHandle holds the decoded content for one open file.
type blobHandle struct {
	data []byte
}

func (f *BlobFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0444
	out.Size = uint64(f.entry.Size)
	out.Ino = f.ino
	out.SetTimes(nil, &f.entry.Modified, nil)
	return fs.OK
}

func (f *BlobFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	data, err := f.repo.Store.Get(f.entry.Hash)
	if err != nil {
		f.repo.Logger().Warn("read blob for mount", "path", f.entry.Path, "hash", f.entry.Hash, "error", err)
		return nil, 0, syscall.EIO
	}
	return &blobHandle{data: data}, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (f *BlobFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	h, ok := fh.(*blobHandle)
	if !ok {
		return nil, syscall.EBADF
	}
	return fuse.ReadResultData(readAt(h.data, len(dest), off)), fs.OK
}
