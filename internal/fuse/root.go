package fuse

import (
	"context"
	"strconv"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/svcs/internal/vcs"
)

// RootNode is the mountpoint directory. Contains "HEAD" and "commits/".
type RootNode struct {
	fs.Inode
	repo *vcs.Repository
}

var _ = (fs.NodeOnAdder)((*RootNode)(nil))
var _ = (fs.NodeGetattrer)((*RootNode)(nil))

func (r *RootNode) OnAdd(ctx context.Context) {
	headInode := r.NewPersistentInode(ctx, &HeadFile{repo: r.repo}, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  stableIno("HEAD"),
	})
	r.AddChild("HEAD", headInode, true)

	commitsInode := r.NewPersistentInode(ctx, &CommitsDir{repo: r.repo}, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("commits"),
	})
	r.AddChild("commits", commitsInode, true)
}

func (r *RootNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("/")
	return fs.OK
}

// HeadFile returns the current commit id, re-read on every access so a
// commit or revert made while mounted shows up.
type HeadFile struct {
	fs.Inode
	repo *vcs.Repository
}

var _ = (fs.NodeGetattrer)((*HeadFile)(nil))
var _ = (fs.NodeReader)((*HeadFile)(nil))
var _ = (fs.NodeOpener)((*HeadFile)(nil))

func (f *HeadFile) headBytes() []byte {
	id, err := f.repo.Head().Read()
	if err != nil {
		id = 0
	}
	return []byte(strconv.Itoa(id) + "\n")
}

func (f *HeadFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0444
	out.Size = uint64(len(f.headBytes()))
	out.Ino = stableIno("HEAD")
	return fs.OK
}

func (f *HeadFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_DIRECT_IO, fs.OK
}

func (f *HeadFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return fuse.ReadResultData(readAt(f.headBytes(), len(dest), off)), fs.OK
}

// readAt returns the window of data a read of n bytes at off covers.
func readAt(data []byte, n int, off int64) []byte {
	if off < 0 || off >= int64(len(data)) {
		return nil
	}
	end := off + int64(n)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[off:end]
}
