// Package sessiontest provides a conformance test suite for validating
// backend implementations against the rsc.Session contract.
//
// Backend packages import the suite and run it against a fresh session:
//
//	func TestMyBackend(t *testing.T) {
//	    sessiontest.Run(t, func(t *testing.T) rsc.Session {
//	        return mybackend.New(t)
//	    })
//	}
//
// The suite drives every composite operation through an rsc.Connection, so
// it validates the behavior a caller actually observes: preconditions,
// parent creation, recursive deletion and content round trips.
package sessiontest

import (
	"bytes"
	"testing"

	"github.com/mtsarev06/rsc"
)

// Factory returns a fresh session over empty storage. The suite mutates the
// storage, so every invocation must start clean.
type Factory func(t *testing.T) rsc.Session

// Run executes the conformance suite against sessions produced by the
// factory. Each subtest gets its own fresh session.
func Run(t *testing.T, newSession Factory) {
	conn := func(t *testing.T) *rsc.Connection {
		t.Helper()
		c := rsc.NewConnection(newSession(t))
		t.Cleanup(func() { _ = c.Close() })
		return c
	}

	t.Run("CreateEmptyFile", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateFile("empty.txt", rsc.NoContents()); err != nil {
			t.Fatalf("CreateFile(empty.txt): got error %v, want nil", err)
		}
		attrs, err := c.GetFileAttributes("empty.txt")
		if err != nil {
			t.Fatalf("GetFileAttributes(empty.txt): got error %v, want nil", err)
		}
		if !attrs.IsFile() {
			t.Errorf("GetFileAttributes(empty.txt): type = %q, want file", attrs.Type)
		}
		if attrs.Size != 0 {
			t.Errorf("GetFileAttributes(empty.txt): size = %d, want 0", attrs.Size)
		}
	})

	t.Run("FileRoundTrip", func(t *testing.T) {
		c := conn(t)
		payload := []byte("abc")
		if err := c.SendFileObject(bytes.NewReader(payload), "data.bin"); err != nil {
			t.Fatalf("SendFileObject(data.bin): got error %v, want nil", err)
		}
		exists, err := c.FileExists("data.bin")
		if err != nil {
			t.Fatalf("FileExists(data.bin): got error %v, want nil", err)
		}
		if !exists {
			t.Fatal("FileExists(data.bin): got false after upload, want true")
		}
		var buf bytes.Buffer
		n, err := c.GetFileToObject("data.bin", &buf)
		if err != nil {
			t.Fatalf("GetFileToObject(data.bin): got error %v, want nil", err)
		}
		if n != int64(len(payload)) {
			t.Errorf("GetFileToObject(data.bin): n = %d, want %d", n, len(payload))
		}
		if !bytes.Equal(buf.Bytes(), payload) {
			t.Errorf("GetFileToObject(data.bin): got %q, want %q", buf.Bytes(), payload)
		}
	})

	t.Run("OverwriteFile", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateFile("note.txt", rsc.TextContents("first version")); err != nil {
			t.Fatalf("CreateFile(note.txt): setup failed: %v", err)
		}
		if err := c.CreateFile("note.txt", rsc.TextContents("v2")); err != nil {
			t.Fatalf("CreateFile(note.txt) overwrite: got error %v, want nil", err)
		}
		var buf bytes.Buffer
		if _, err := c.GetFileToObject("note.txt", &buf); err != nil {
			t.Fatalf("GetFileToObject(note.txt): got error %v, want nil", err)
		}
		if buf.String() != "v2" {
			t.Errorf("GetFileToObject(note.txt): got %q, want %q", buf.String(), "v2")
		}
	})

	t.Run("DeleteFile", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateFile("victim.txt", rsc.TextContents("bye")); err != nil {
			t.Fatalf("CreateFile(victim.txt): setup failed: %v", err)
		}
		if err := c.DeleteFile("victim.txt"); err != nil {
			t.Fatalf("DeleteFile(victim.txt): got error %v, want nil", err)
		}
		exists, err := c.FileExists("victim.txt")
		if err != nil {
			t.Fatalf("FileExists(victim.txt): got error %v, want nil", err)
		}
		if exists {
			t.Error("FileExists(victim.txt) after delete: got true, want false")
		}
	})

	t.Run("MissingTargetsFailWithNotFound", func(t *testing.T) {
		c := conn(t)
		if err := c.DeleteFile("ghost.txt"); !rsc.IsNotFound(err) {
			t.Errorf("DeleteFile(ghost.txt): got %v, want NOT_FOUND", err)
		}
		if _, err := c.GetFileAttributes("ghost.txt"); !rsc.IsNotFound(err) {
			t.Errorf("GetFileAttributes(ghost.txt): got %v, want NOT_FOUND", err)
		}
		if _, err := c.ListPath("ghostdir"); !rsc.IsNotFound(err) {
			t.Errorf("ListPath(ghostdir): got %v, want NOT_FOUND", err)
		}
		var buf bytes.Buffer
		if _, err := c.GetFileToObject("ghost.txt", &buf); !rsc.IsNotFound(err) {
			t.Errorf("GetFileToObject(ghost.txt): got %v, want NOT_FOUND", err)
		}
		if err := c.DeleteDirectory("ghostdir", true); !rsc.IsNotFound(err) {
			t.Errorf("DeleteDirectory(ghostdir): got %v, want NOT_FOUND", err)
		}
	})

	t.Run("CreateDirectory", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("newdir"); err != nil {
			t.Fatalf("CreateDirectory(newdir): got error %v, want nil", err)
		}
		attrs, err := c.GetFileAttributes("newdir")
		if err != nil {
			t.Fatalf("GetFileAttributes(newdir): got error %v, want nil", err)
		}
		if !attrs.IsDirectory() {
			t.Errorf("GetFileAttributes(newdir): type = %q, want directory", attrs.Type)
		}
	})

	t.Run("CreateDirectoryAlreadyExists", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("dup"); err != nil {
			t.Fatalf("CreateDirectory(dup): setup failed: %v", err)
		}
		if err := c.CreateDirectory("dup"); !rsc.IsAlreadyExists(err) {
			t.Errorf("CreateDirectory(dup) again: got %v, want ALREADY_EXISTS", err)
		}
		if err := c.CreateDirectory("dup", rsc.WithExistOK()); err != nil {
			t.Errorf("CreateDirectory(dup, WithExistOK): got error %v, want nil", err)
		}
	})

	t.Run("CreateDirectoryWithParents", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("a/b/c", rsc.WithParents()); err != nil {
			t.Fatalf("CreateDirectory(a/b/c, WithParents): got error %v, want nil", err)
		}
		for _, dir := range []string{"a", "a/b", "a/b/c"} {
			exists, err := c.FileExists(dir)
			if err != nil {
				t.Fatalf("FileExists(%s): got error %v, want nil", dir, err)
			}
			if !exists {
				t.Errorf("FileExists(%s): got false, want true", dir)
			}
		}
		// A second pass over the same chain must be idempotent.
		if err := c.CreateDirectory("a/b/c", rsc.WithParents(), rsc.WithExistOK()); err != nil {
			t.Errorf("CreateDirectory(a/b/c) repeat: got error %v, want nil", err)
		}
	})

	t.Run("SendFileWithParents", func(t *testing.T) {
		c := conn(t)
		err := c.SendFileObject(bytes.NewReader([]byte("deep")), "x/y/z.txt", rsc.WithParents())
		if err != nil {
			t.Fatalf("SendFileObject(x/y/z.txt, WithParents): got error %v, want nil", err)
		}
		var buf bytes.Buffer
		if _, err := c.GetFileToObject("x/y/z.txt", &buf); err != nil {
			t.Fatalf("GetFileToObject(x/y/z.txt): got error %v, want nil", err)
		}
		if buf.String() != "deep" {
			t.Errorf("GetFileToObject(x/y/z.txt): got %q, want %q", buf.String(), "deep")
		}
	})

	t.Run("ListPath", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("listdir"); err != nil {
			t.Fatalf("CreateDirectory(listdir): setup failed: %v", err)
		}
		if err := c.CreateDirectory("listdir/sub"); err != nil {
			t.Fatalf("CreateDirectory(listdir/sub): setup failed: %v", err)
		}
		if err := c.CreateFile("listdir/file.txt", rsc.TextContents("hello")); err != nil {
			t.Fatalf("CreateFile(listdir/file.txt): setup failed: %v", err)
		}
		entries, err := c.ListPath("listdir")
		if err != nil {
			t.Fatalf("ListPath(listdir): got error %v, want nil", err)
		}
		byName := make(map[string]rsc.FileAttributes, len(entries))
		for _, entry := range entries {
			byName[entry.Name] = entry
		}
		if len(byName) != 2 {
			t.Fatalf("ListPath(listdir): got %d entries (%v), want 2", len(byName), byName)
		}
		sub, ok := byName["sub"]
		if !ok || !sub.IsDirectory() {
			t.Errorf("ListPath(listdir): sub entry = %+v, want a directory", sub)
		}
		file, ok := byName["file.txt"]
		if !ok || !file.IsFile() {
			t.Errorf("ListPath(listdir): file.txt entry = %+v, want a file", file)
		}
		if want := rsc.NewPath("listdir", "file.txt"); file.Path != want {
			t.Errorf("ListPath(listdir): file.txt path = %s, want %s", file.Path, want)
		}
	})

	t.Run("DeleteDirectoryNonEmptyFails", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("full"); err != nil {
			t.Fatalf("CreateDirectory(full): setup failed: %v", err)
		}
		if err := c.CreateFile("full/keep.txt", rsc.TextContents("x")); err != nil {
			t.Fatalf("CreateFile(full/keep.txt): setup failed: %v", err)
		}
		if err := c.DeleteDirectory("full", false); !rsc.IsNotPerformed(err) {
			t.Errorf("DeleteDirectory(full, false): got %v, want NOT_PERFORMED", err)
		}
		exists, err := c.FileExists("full/keep.txt")
		if err != nil {
			t.Fatalf("FileExists(full/keep.txt): got error %v, want nil", err)
		}
		if !exists {
			t.Error("FileExists(full/keep.txt): child vanished after failed delete")
		}
	})

	t.Run("DeleteDirectoryRecursive", func(t *testing.T) {
		c := conn(t)
		if err := c.CreateDirectory("tree/branch/leafdir", rsc.WithParents()); err != nil {
			t.Fatalf("CreateDirectory(tree/branch/leafdir): setup failed: %v", err)
		}
		if err := c.CreateFile("tree/root.txt", rsc.TextContents("r")); err != nil {
			t.Fatalf("CreateFile(tree/root.txt): setup failed: %v", err)
		}
		if err := c.CreateFile("tree/branch/leaf.txt", rsc.TextContents("l")); err != nil {
			t.Fatalf("CreateFile(tree/branch/leaf.txt): setup failed: %v", err)
		}
		if err := c.DeleteDirectory("tree", true); err != nil {
			t.Fatalf("DeleteDirectory(tree, true): got error %v, want nil", err)
		}
		exists, err := c.FileExists("tree")
		if err != nil {
			t.Fatalf("FileExists(tree): got error %v, want nil", err)
		}
		if exists {
			t.Error("FileExists(tree) after recursive delete: got true, want false")
		}
	})

	t.Run("WorkDirResolution", func(t *testing.T) {
		base := rsc.NewConnection(newSession(t))
		t.Cleanup(func() { _ = base.Close() })
		if err := base.CreateDirectory("scoped"); err != nil {
			t.Fatalf("CreateDirectory(scoped): setup failed: %v", err)
		}
		scoped := rsc.NewConnection(base.Session(), rsc.WithWorkDir("scoped"))
		if err := scoped.CreateFile("inner.txt", rsc.TextContents("in")); err != nil {
			t.Fatalf("CreateFile(inner.txt) via workdir: got error %v, want nil", err)
		}
		exists, err := base.FileExists("scoped/inner.txt")
		if err != nil {
			t.Fatalf("FileExists(scoped/inner.txt): got error %v, want nil", err)
		}
		if !exists {
			t.Error("FileExists(scoped/inner.txt): got false, want true")
		}
	})
}
