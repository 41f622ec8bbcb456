package rsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewPathContinuations tests that only the first part keeps its anchor;
// later parts are appended as relative continuations even when they carry a
// drive or a leading separator.
func TestNewPathContinuations(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		posix string
	}{
		{
			name:  "windows root with mixed continuations",
			parts: []string{`E:\test`, "inner_folder/", "test.txt"},
			posix: "E:/test/inner_folder/test.txt",
		},
		{
			name:  "absolute continuation loses its root",
			parts: []string{"/home", "/debian"},
			posix: "/home/debian",
		},
		{
			name:  "drive continuation loses its drive",
			parts: []string{"/srv", `D:\data`},
			posix: "/srv/data",
		},
		{
			name:  "single relative part",
			parts: []string{"a/b"},
			posix: "a/b",
		},
		{
			name:  "backslash separators normalize",
			parts: []string{`folder\sub\file.txt`},
			posix: "folder/sub/file.txt",
		},
		{
			name:  "dot and empty segments collapse",
			parts: []string{"./a//b/./c/"},
			posix: "a/b/c",
		},
		{
			name:  "no parts is the current directory",
			parts: nil,
			posix: ".",
		},
		{
			name:  "bare root",
			parts: []string{"/"},
			posix: "/",
		},
		{
			name:  "bare drive root",
			parts: []string{`C:\`},
			posix: "C:/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.posix, NewPath(tt.parts...).Posix())
		})
	}
}

func TestPathWindowsRendering(t *testing.T) {
	assert.Equal(t, `E:\test\file.txt`, NewPath("E:/test", "file.txt").Windows())
	assert.Equal(t, `\var\log`, NewPath("/var/log").Windows())
	assert.Equal(t, `a\b`, NewPath("a/b").Windows())
	assert.Equal(t, ".", NewPath().Windows())
}

func TestPathNameAndSuffix(t *testing.T) {
	tests := []struct {
		path   string
		name   string
		suffix string
	}{
		{"/var/log/app.log", "app.log", ".log"},
		{"archive.tar.gz", "archive.tar.gz", ".gz"},
		{"/etc/.bashrc", ".bashrc", ""},
		{"README", "README", ""},
		{"/", "", ""},
		{"E:/", "", ""},
	}
	for _, tt := range tests {
		p := NewPath(tt.path)
		assert.Equal(t, tt.name, p.Name(), "Name of %s", tt.path)
		assert.Equal(t, tt.suffix, p.Suffix(), "Suffix of %s", tt.path)
	}
}

func TestPathParent(t *testing.T) {
	assert.Equal(t, NewPath("/a/b"), NewPath("/a/b/c").Parent())
	assert.Equal(t, NewPath("/"), NewPath("/a").Parent())
	// An anchor is its own parent.
	assert.Equal(t, NewPath("/"), NewPath("/").Parent())
	assert.Equal(t, NewPath("C:/"), NewPath("C:/").Parent())
	// A single relative segment's parent is the current directory.
	assert.True(t, NewPath("file.txt").Parent().IsCurrent())
}

func TestPathParents(t *testing.T) {
	parents := NewPath("/a/b/c").Parents()
	want := []Path{NewPath("/a/b"), NewPath("/a"), NewPath("/")}
	assert.Equal(t, want, parents)

	// Relative paths stop before the current directory.
	parents = NewPath("a/b/c").Parents()
	want = []Path{NewPath("a/b"), NewPath("a")}
	assert.Equal(t, want, parents)

	assert.Empty(t, NewPath("/").Parents())
	assert.Empty(t, NewPath("file.txt").Parents())
}

func TestPathJoinDoesNotMutate(t *testing.T) {
	base := NewPath("/srv")
	joined := base.Join("data", "x.txt")
	assert.Equal(t, "/srv", base.Posix())
	assert.Equal(t, "/srv/data/x.txt", joined.Posix())
}

func TestPathIsAbsolute(t *testing.T) {
	assert.True(t, NewPath("/a").IsAbsolute())
	assert.True(t, NewPath(`C:\a`).IsAbsolute())
	assert.False(t, NewPath("a/b").IsAbsolute())
	// A bare drive-relative path has a drive but no root.
	assert.False(t, NewPath("C:data").IsAbsolute())
}

// Path is a comparable value: equal renderings are equal values usable as
// map keys.
func TestPathComparable(t *testing.T) {
	a := NewPath(`E:\x`, "y")
	b := NewPath("E:/x/y")
	assert.Equal(t, a, b)

	seen := map[Path]bool{a: true}
	assert.True(t, seen[b])
}
