package fuse

import (
	"reflect"
	"testing"

	"github.com/systemshift/svcs/internal/vcs"
)

func files(paths ...string) map[string]vcs.StagingEntry {
	m := make(map[string]vcs.StagingEntry, len(paths))
	for _, p := range paths {
		m[p] = vcs.StagingEntry{Path: p, Hash: vcs.Digest("h-" + p), Size: int64(len(p))}
	}
	return m
}

func names(entries []treeEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
		if e.Dir {
			out[i] += "/"
		}
	}
	return out
}

func TestTreeChildren_TopLevel(t *testing.T) {
	f := files("z.txt", "a/b.txt", "a/c/d.txt", "m.txt")
	got := names(treeChildren(f, ""))
	want := []string{"a/", "m.txt", "z.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTreeChildren_Nested(t *testing.T) {
	f := files("a/b.txt", "a/c/d.txt", "ab/x.txt")
	got := names(treeChildren(f, "a"))
	want := []string{"b.txt", "c/"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	children := treeChildren(f, "a/c")
	if len(children) != 1 || children[0].Entry.Hash != "h-a/c/d.txt" {
		t.Errorf("a/c children = %+v", children)
	}
}

func TestTreeChildren_Missing(t *testing.T) {
	if got := treeChildren(files("a.txt"), "nope"); len(got) != 0 {
		t.Errorf("got %v, want nothing", got)
	}
}

func TestReadAt(t *testing.T) {
	data := []byte("0123456789")
	tests := []struct {
		n    int
		off  int64
		want string
	}{
		{4, 0, "0123"},
		{4, 8, "89"},
		{100, 3, "3456789"},
		{4, 10, ""},
		{4, 42, ""},
	}
	for _, tt := range tests {
		if got := string(readAt(data, tt.n, tt.off)); got != tt.want {
			t.Errorf("readAt(n=%d, off=%d) = %q, want %q", tt.n, tt.off, got, tt.want)
		}
	}
}

func TestStableIno(t *testing.T) {
	if stableIno("commits/1") != stableIno("commits/1") {
		t.Error("inode numbers must be stable")
	}
	if stableIno("commits/1") == stableIno("commits/2") {
		t.Error("distinct paths collided")
	}
}
