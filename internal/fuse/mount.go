package fuse

import (
	"fmt"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/svcs/internal/vcs"
)

// cacheTimeout is how long the kernel may cache entries and attributes.
// Commits never change; HEAD is served with direct I/O.
const cacheTimeout = time.Second

func mountOptions(debug bool) *fs.Options {
	timeout := cacheTimeout
	return &fs.Options{
		EntryTimeout: &timeout,
		AttrTimeout:  &timeout,
		MountOptions: gofuse.MountOptions{
			FsName:        "svcs",
			Name:          "svcs",
			Options:       []string{"ro"},
			DisableXAttrs: true,
			Debug:         debug,
		},
	}
}

// MountFS serves repo's history read-only at mountpoint until the returned
// server is unmounted.
func MountFS(mountpoint string, repo *vcs.Repository, debug bool) (*gofuse.Server, error) {
	server, err := fs.Mount(mountpoint, &RootNode{repo: repo}, mountOptions(debug))
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", mountpoint, err)
	}
	return server, nil
}
