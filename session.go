package rsc

import (
	"io"
	"time"
)

// EntryInfo is the raw attribute record a backend reports for one entry.
// Backend adapters fill it from their client library's native stat/list
// results; the Connection turns it into a validated FileAttributes.
type EntryInfo struct {
	Name             string
	Size             int64
	Type             FileType
	ModificationTime time.Time
	LastAccessTime   time.Time
	CreateTime       time.Time // zero when the backend does not report it
}

// Session is the minimal operation set a storage backend must provide.
// Every path it receives is already resolved against the connection's
// working directory. Implementations live in the backend subpackages
// (local, sftp, smb, vmware, minio) and wrap one client library each; they
// return their library's errors as-is and leave classification to the
// Connection.
//
// A Session is owned by exactly one Connection and is not safe for
// concurrent use. Use one connection per logical caller and multiple
// connections for parallel work.
type Session interface {
	// Exists reports whether an entry exists at the path. A missing entry
	// is not an error.
	Exists(path Path) (bool, error)

	// Stat returns the raw attributes of the entry at the path.
	Stat(path Path) (EntryInfo, error)

	// List returns the raw entries of the directory at the path, in the
	// backend's order. Entries named "." and ".." may be included; the
	// Connection filters them.
	List(path Path) ([]EntryInfo, error)

	// Read copies the file at the path into dst and returns the byte count
	// the backend reports.
	Read(path Path, dst io.Writer) (int64, error)

	// Write stores the contents of src as the file at the path, replacing
	// any previous contents.
	Write(path Path, src io.Reader) error

	// MakeDirectory creates a single directory. The parent must exist.
	MakeDirectory(path Path) error

	// RemoveDirectory removes a single directory. It fails when the
	// directory is not empty.
	RemoveDirectory(path Path) error

	// RemoveFile removes a single file or symlink.
	RemoveFile(path Path) error

	// Close releases the backend session. Best effort; safe to call once.
	Close() error
}
