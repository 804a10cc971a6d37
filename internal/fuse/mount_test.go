package fuse

import (
	"slices"
	"testing"
)

func TestMountOptions(t *testing.T) {
	for _, debug := range []bool{false, true} {
		opts := mountOptions(debug)
		if !slices.Contains(opts.MountOptions.Options, "ro") {
			t.Errorf("mount options %v lack ro", opts.MountOptions.Options)
		}
		if opts.MountOptions.FsName != "svcs" || !opts.MountOptions.DisableXAttrs {
			t.Errorf("mount options = %+v", opts.MountOptions)
		}
		if opts.MountOptions.Debug != debug {
			t.Errorf("debug = %v, want %v", opts.MountOptions.Debug, debug)
		}
		if opts.EntryTimeout == nil || *opts.EntryTimeout != cacheTimeout ||
			opts.AttrTimeout == nil || *opts.AttrTimeout != cacheTimeout {
			t.Error("cache timeouts not set")
		}
	}
}
