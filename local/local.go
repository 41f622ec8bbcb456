// Package local provides rsc.Session implementations backed by go-billy
// filesystems: the local disk (osfs) and an in-memory filesystem (memfs).
// The in-memory session doubles as the test backend for code written
// against the rsc contract.
package local

import (
	"errors"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mtsarev06/rsc"
)

// Session adapts a billy.Filesystem to the rsc.Session contract.
type Session struct {
	fs billy.Filesystem
}

// NewLocal creates a session over the local filesystem rooted at root.
func NewLocal(root string) *Session {
	return &Session{fs: osfs.New(root)}
}

// NewMemory creates a session over a fresh, empty in-memory filesystem.
func NewMemory() *Session {
	return &Session{fs: memfs.New()}
}

// Unwrap returns the underlying billy.Filesystem.
func (s *Session) Unwrap() billy.Filesystem {
	return s.fs
}

// name renders the path the way billy expects it.
func name(p rsc.Path) string {
	return p.Posix()
}

// isRoot reports whether the path denotes the filesystem root or the
// current directory, both of which always exist.
func isRoot(p rsc.Path) bool {
	n := name(p)
	return n == "." || n == "/"
}

// Exists reports whether an entry exists at the path.
func (s *Session) Exists(p rsc.Path) (bool, error) {
	if isRoot(p) {
		return true, nil
	}
	if _, err := s.fs.Stat(name(p)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Stat returns the raw attributes of the entry at the path.
func (s *Session) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	info, err := s.fs.Stat(name(p))
	if err != nil {
		return rsc.EntryInfo{}, err
	}
	return entryInfo(info), nil
}

// List returns the raw entries of the directory at the path.
func (s *Session) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	infos, err := s.fs.ReadDir(name(p))
	if err != nil {
		return nil, err
	}
	entries := make([]rsc.EntryInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryInfo(info))
	}
	return entries, nil
}

// Read copies the file at the path into dst.
func (s *Session) Read(p rsc.Path, dst io.Writer) (int64, error) {
	f, err := s.fs.Open(name(p))
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return io.Copy(dst, f)
}

// Write stores the contents of src as the file at the path. The parent
// directory must exist.
func (s *Session) Write(p rsc.Path, src io.Reader) error {
	f, err := s.fs.Create(name(p))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// MakeDirectory creates a single directory. Billy only offers MkdirAll, so
// the single-level contract is enforced by checking the target and its
// parent first.
func (s *Session) MakeDirectory(p rsc.Path) error {
	target := name(p)
	if _, err := s.fs.Stat(target); err == nil {
		return os.ErrExist
	}
	parent := p.Parent()
	if !isRoot(parent) && parent != p {
		if _, err := s.fs.Stat(name(parent)); err != nil {
			return err
		}
	}
	return s.fs.MkdirAll(target, 0o755)
}

// RemoveDirectory removes a single empty directory. Emptiness is checked
// here because memfs removes non-empty directories silently.
func (s *Session) RemoveDirectory(p rsc.Path) error {
	entries, err := s.fs.ReadDir(name(p))
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return errors.New("directory not empty: " + name(p))
	}
	return s.fs.Remove(name(p))
}

// RemoveFile removes a single file or symlink.
func (s *Session) RemoveFile(p rsc.Path) error {
	return s.fs.Remove(name(p))
}

// Close is a no-op; billy filesystems hold no connection.
func (s *Session) Close() error {
	return nil
}

// entryInfo converts billy file info to the raw record rsc expects. Billy
// does not surface access or creation times, so the modification time
// stands in for the access time and the creation time is left unknown.
func entryInfo(info os.FileInfo) rsc.EntryInfo {
	typ := rsc.TypeFile
	switch {
	case info.IsDir():
		typ = rsc.TypeDirectory
	case info.Mode()&os.ModeSymlink != 0:
		typ = rsc.TypeSymlink
	}
	return rsc.EntryInfo{
		Name:             info.Name(),
		Size:             info.Size(),
		Type:             typ,
		ModificationTime: info.ModTime(),
		LastAccessTime:   info.ModTime(),
	}
}

var _ rsc.Session = (*Session)(nil)
