package fuse

import (
	"context"
	"encoding/json"
	"strconv"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/svcs/internal/vcs"
)

// CommitsDir lists every commit in the ledger as a directory named by id.
// Layout: commits/<id>/message, commits/<id>/commit.json, commits/<id>/files/
type CommitsDir struct {
	fs.Inode
	repo *vcs.Repository
}

var _ = (fs.NodeLookuper)((*CommitsDir)(nil))
var _ = (fs.NodeReaddirer)((*CommitsDir)(nil))
var _ = (fs.NodeGetattrer)((*CommitsDir)(nil))

func commitPath(id int) string {
	return "commits/" + strconv.Itoa(id)
}

func (d *CommitsDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("commits")
	return fs.OK
}

func (d *CommitsDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	ledger, err := d.repo.Ledger()
	if err != nil {
		return nil, syscall.EIO
	}
	commits := ledger.All()
	entries := make([]fuse.DirEntry, len(commits))
	for i, c := range commits {
		entries[i] = fuse.DirEntry{
			Name: strconv.Itoa(c.ID),
			Mode: syscall.S_IFDIR,
			Ino:  stableIno(commitPath(c.ID)),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *CommitsDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	id, err := strconv.Atoi(name)
	if err != nil || id < 1 {
		return nil, syscall.ENOENT
	}
	c, err := d.repo.Show(id)
	if err != nil {
		return nil, syscall.ENOENT
	}
	child := d.NewInode(ctx, &CommitDir{repo: d.repo, commit: c}, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno(commitPath(id)),
	})
	return child, fs.OK
}

// CommitDir is a single commit. Commits are immutable, so its contents are
// fixed once looked up.
type CommitDir struct {
	fs.Inode
	repo   *vcs.Repository
	commit *vcs.Commit
}

var _ = (fs.NodeLookuper)((*CommitDir)(nil))
var _ = (fs.NodeReaddirer)((*CommitDir)(nil))
var _ = (fs.NodeGetattrer)((*CommitDir)(nil))

func (d *CommitDir) path(name string) string {
	return commitPath(d.commit.ID) + "/" + name
}

func (d *CommitDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno(commitPath(d.commit.ID))
	out.SetTimes(nil, &d.commit.Timestamp, nil)
	return fs.OK
}

func (d *CommitDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries := []fuse.DirEntry{
		{Name: "message", Mode: syscall.S_IFREG, Ino: stableIno(d.path("message"))},
		{Name: "commit.json", Mode: syscall.S_IFREG, Ino: stableIno(d.path("commit.json"))},
		{Name: "files", Mode: syscall.S_IFDIR, Ino: stableIno(d.path("files"))},
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *CommitDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	switch name {
	case "message":
		f := &StaticFile{data: []byte(d.commit.Message + "\n"), ino: stableIno(d.path(name))}
		return d.NewInode(ctx, f, fs.StableAttr{Mode: syscall.S_IFREG, Ino: f.ino}), fs.OK

	case "commit.json":
		data, err := json.MarshalIndent(d.commit, "", "  ")
		if err != nil {
			return nil, syscall.EIO
		}
		f := &StaticFile{data: append(data, '\n'), ino: stableIno(d.path(name))}
		return d.NewInode(ctx, f, fs.StableAttr{Mode: syscall.S_IFREG, Ino: f.ino}), fs.OK

	case "files":
		t := &TreeDir{repo: d.repo, commit: d.commit}
		return d.NewInode(ctx, t, fs.StableAttr{Mode: syscall.S_IFDIR, Ino: t.ino()}), fs.OK

	default:
		return nil, syscall.ENOENT
	}
}

// StaticFile serves a fixed byte slice.
type StaticFile struct {
	fs.Inode
	data []byte
	ino  uint64
}

var _ = (fs.NodeGetattrer)((*StaticFile)(nil))
var _ = (fs.NodeReader)((*StaticFile)(nil))
var _ = (fs.NodeOpener)((*StaticFile)(nil))

func (f *StaticFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0444
	out.Size = uint64(len(f.data))
	out.Ino = f.ino
	return fs.OK
}

func (f *StaticFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (f *StaticFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return fuse.ReadResultData(readAt(f.data, len(dest), off)), fs.OK
}
