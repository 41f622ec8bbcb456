package rsc

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Connection performs file and directory operations against one storage
// backend through its Session. All composite behavior (recursive transfers,
// parent creation, path resolution against the working directory) lives
// here; the session only provides the primitives.
//
// Operations are synchronous and strictly sequential; recursive operations
// visit entries one at a time, depth-first, and the first failure aborts
// the remainder of the walk. There is no rollback: a failure partway
// through a composite operation leaves the tree partially applied.
type Connection struct {
	session Session
	workDir Path
	log     *zap.Logger
}

// ConnectionOption configures a Connection at construction time.
type ConnectionOption func(*Connection)

// WithWorkDir sets the working directory prefix prepended to every relative
// path the caller supplies.
func WithWorkDir(dir string) ConnectionOption {
	return func(c *Connection) { c.workDir = NewPath(dir) }
}

// WithLogger attaches a structured logger. The default is a nop logger.
func WithLogger(log *zap.Logger) ConnectionOption {
	return func(c *Connection) {
		if log != nil {
			c.log = log
		}
	}
}

// NewConnection wraps a backend session. The connection takes ownership of
// the session and releases it on Close.
func NewConnection(session Session, opts ...ConnectionOption) *Connection {
	c := &Connection{session: session, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the backend session.
func (c *Connection) Close() error {
	return c.session.Close()
}

// Session returns the underlying backend session.
func (c *Connection) Session() Session {
	return c.session
}

// WorkDir returns the working directory prefix.
func (c *Connection) WorkDir() Path {
	return c.workDir
}

// SetWorkDir replaces the working directory prefix.
func (c *Connection) SetWorkDir(dir string) {
	c.workDir = NewPath(dir)
}

// resolve prepends the working directory to a caller-supplied path. With no
// working directory configured the path is taken as-is, so callers passing
// backend-absolute paths keep their anchor.
func (c *Connection) resolve(path string) Path {
	if c.workDir.IsCurrent() {
		return NewPath(path)
	}
	return c.workDir.Join(path)
}

// Option adjusts a single operation.
type Option func(*options)

type options struct {
	parents bool
	existOK bool
}

// WithParents makes the operation create missing ancestor directories
// first, idempotently.
func WithParents() Option {
	return func(o *options) { o.parents = true }
}

// WithExistOK makes CreateDirectory succeed without touching the backend
// when the directory already exists.
func WithExistOK() Option {
	return func(o *options) { o.existOK = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FileExists reports whether an entry exists at the path. A missing entry
// is not an error; only a failing backend check is, surfaced as
// NOT_PERFORMED.
func (c *Connection) FileExists(path string) (bool, error) {
	exists, err := c.session.Exists(c.resolve(path))
	if err != nil {
		return false, Wrapf(err, CodeNotPerformed,
			"could not check whether %s exists on the remote storage", path)
	}
	return exists, nil
}

// requireExists is the shared existence precondition. It fails with
// NOT_FOUND before any backend mutation is attempted.
func (c *Connection) requireExists(path, kind string) error {
	exists, err := c.FileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return Errorf(CodeNotFound,
			"%s with such path (%s) does not exist on the remote storage", kind, path)
	}
	return nil
}

// DeleteFile removes the file at the path. It fails with NOT_FOUND when the
// file is absent.
func (c *Connection) DeleteFile(path string) error {
	if err := c.requireExists(path, "file"); err != nil {
		return err
	}
	if err := c.session.RemoveFile(c.resolve(path)); err != nil {
		return Wrapf(err, CodeNotPerformed, "could not delete file %s", path)
	}
	c.log.Debug("deleted file", zap.String("path", path))
	return nil
}

// GetFileAttributes returns the validated attributes of the entry at the
// path. It fails with NOT_FOUND when the entry is absent.
func (c *Connection) GetFileAttributes(path string) (FileAttributes, error) {
	if err := c.requireExists(path, "file"); err != nil {
		return FileAttributes{}, err
	}
	resolved := c.resolve(path)
	info, err := c.session.Stat(resolved)
	if err != nil {
		return FileAttributes{}, Wrapf(err, CodeNotPerformed,
			"could not get attributes of %s", path)
	}
	return c.newAttributes(info, NewPath(path), resolved)
}

// newAttributes builds a FileAttributes from a raw backend record. The
// relative path is the caller's view; the absolute path is work-dir
// resolved.
func (c *Connection) newAttributes(info EntryInfo, rel, abs Path) (FileAttributes, error) {
	raw := RawAttributes{
		Name:             info.Name,
		Size:             info.Size,
		Type:             string(info.Type),
		Path:             rel,
		AbsolutePath:     abs,
		ModificationTime: info.ModificationTime,
		LastAccessTime:   info.LastAccessTime,
	}
	if !info.CreateTime.IsZero() {
		raw.CreateTime = info.CreateTime
	}
	return NewFileAttributes(raw)
}

// CreateDirectory creates the directory at the path. Without WithExistOK an
// existing target fails with ALREADY_EXISTS. With WithParents every missing
// ancestor is created first, from the root downward so each mkdir has an
// existing parent.
func (c *Connection) CreateDirectory(path string, opts ...Option) error {
	o := buildOptions(opts)
	exists, err := c.FileExists(path)
	if err != nil {
		return err
	}
	if exists {
		if o.existOK {
			return nil
		}
		return Errorf(CodeAlreadyExists,
			"directory with such path (%s) already exists on the remote storage", path)
	}
	if o.parents {
		if err := c.createParents(NewPath(path)); err != nil {
			return err
		}
	}
	if err := c.session.MakeDirectory(c.resolve(path)); err != nil {
		return Wrapf(err, CodeNotPerformed, "could not create directory %s", path)
	}
	c.log.Debug("created directory", zap.String("path", path))
	return nil
}

// createParents creates every missing ancestor of p, furthest ancestor
// first. Each step is idempotent.
func (c *Connection) createParents(p Path) error {
	parents := p.Parents()
	for i := len(parents) - 1; i >= 0; i-- {
		if err := c.CreateDirectory(parents[i].Posix(), WithExistOK()); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDirectory removes the directory at the path. It fails with
// NOT_FOUND when the directory is absent. With recursive set it first
// deletes every child, depth-first, then the directory itself;
// non-recursive deletion of a non-empty directory fails at the backend.
func (c *Connection) DeleteDirectory(path string, recursive bool) error {
	if err := c.requireExists(path, "directory"); err != nil {
		return err
	}
	if recursive {
		entries, err := c.ListPath(path)
		if err != nil {
			return err
		}
		dir := NewPath(path)
		for _, entry := range entries {
			if entry.Path == dir {
				// Some backends list the directory's own entry.
				continue
			}
			if entry.IsDirectory() {
				if err := c.DeleteDirectory(entry.Path.Posix(), true); err != nil {
					return err
				}
			} else {
				if err := c.DeleteFile(entry.Path.Posix()); err != nil {
					return err
				}
			}
		}
	}
	if err := c.session.RemoveDirectory(c.resolve(path)); err != nil {
		return Wrapf(err, CodeNotPerformed, "could not delete directory %s", path)
	}
	c.log.Debug("deleted directory", zap.String("path", path), zap.Bool("recursive", recursive))
	return nil
}

// ListPath returns the entries of the directory at the path, excluding the
// "." and ".." pseudo-entries. Each entry's Path is the listed directory
// joined with the entry's own name; AbsolutePath is work-dir resolved. It
// fails with NOT_FOUND when the directory is absent.
func (c *Connection) ListPath(path string) ([]FileAttributes, error) {
	if err := c.requireExists(path, "directory"); err != nil {
		return nil, err
	}
	resolved := c.resolve(path)
	raw, err := c.session.List(resolved)
	if err != nil {
		return nil, Wrapf(err, CodeNotPerformed, "could not list files in %s", path)
	}
	dir := NewPath(path)
	entries := make([]FileAttributes, 0, len(raw))
	for _, info := range raw {
		if info.Name == "." || info.Name == ".." {
			continue
		}
		attrs, err := c.newAttributes(info, dir.Join(info.Name), resolved.Join(info.Name))
		if err != nil {
			return nil, err
		}
		entries = append(entries, attrs)
	}
	return entries, nil
}

// SendFileObject stores the contents of src as the file at remotePath. With
// WithParents the full ancestor chain of remotePath is ensured first,
// idempotently.
func (c *Connection) SendFileObject(src io.Reader, remotePath string, opts ...Option) error {
	if src == nil {
		return NewError(CodeInvalidInput, "source stream must not be nil")
	}
	o := buildOptions(opts)
	if o.parents {
		if err := c.createParents(NewPath(remotePath)); err != nil {
			return err
		}
	}
	if err := c.session.Write(c.resolve(remotePath), src); err != nil {
		return Wrapf(err, CodeNotPerformed,
			"could not save the file %s on the remote storage", remotePath)
	}
	c.log.Info("sent file", zap.String("path", remotePath))
	return nil
}

// GetFileToObject copies the remote file into dst and returns the byte
// count the backend reports. It fails with NOT_FOUND when the file is
// absent.
func (c *Connection) GetFileToObject(remotePath string, dst io.Writer) (int64, error) {
	if err := c.requireExists(remotePath, "file"); err != nil {
		return 0, err
	}
	if dst == nil {
		return 0, NewError(CodeInvalidInput, "destination stream must not be nil")
	}
	n, err := c.session.Read(c.resolve(remotePath), dst)
	if err != nil {
		return n, Wrapf(err, CodeNotPerformed,
			"could not retrieve the file %s from the remote storage", remotePath)
	}
	c.log.Info("received file", zap.String("path", remotePath), zap.Int64("bytes", n))
	return n, nil
}

// SendFile uploads a local source (a path or a caller-owned stream) to
// remotePath. A seekable source is rewound first. The connection closes the
// source only when it opened it itself, on every exit path.
func (c *Connection) SendFile(src Source, remotePath string, opts ...Option) error {
	if src == nil {
		return NewError(CodeInvalidInput, "local source must be a path or a stream")
	}
	r, owned, err := src.open()
	if err != nil {
		return err
	}
	if owned {
		if closer, ok := r.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}
	}
	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return Wrapf(err, CodeNotPerformed, "could not rewind the source stream")
		}
	}
	return c.SendFileObject(r, remotePath, opts...)
}

// GetFile downloads the remote file into a local destination (a path or a
// caller-owned stream) and returns the byte count. With WithParents and a
// path destination the local parent directories are created first. It fails
// with NOT_FOUND when the remote file is absent.
func (c *Connection) GetFile(remotePath string, dst Sink, opts ...Option) (int64, error) {
	if dst == nil {
		return 0, NewError(CodeInvalidInput, "destination must be a path or a stream")
	}
	if err := c.requireExists(remotePath, "file"); err != nil {
		return 0, err
	}
	o := buildOptions(opts)
	w, owned, err := dst.open(o.parents)
	if err != nil {
		return 0, err
	}
	n, readErr := c.session.Read(c.resolve(remotePath), w)
	if owned {
		if closer, ok := w.(io.Closer); ok {
			if closeErr := closer.Close(); readErr == nil {
				readErr = closeErr
			}
		}
	}
	if readErr != nil {
		return n, Wrapf(readErr, CodeNotPerformed,
			"could not retrieve the file %s from the remote storage", remotePath)
	}
	c.log.Info("received file", zap.String("path", remotePath), zap.Int64("bytes", n))
	return n, nil
}

// GetDirectory mirrors a remote directory into an existing local directory,
// transferring entries sequentially, one at a time. The local destination
// must already exist; it is not auto-created. Symlinks are skipped
// entirely. A file is re-downloaded only when the local copy is missing or
// its size differs from the remote size; changed content with a matching
// size is deliberately not detected.
func (c *Connection) GetDirectory(remoteDir, localDir string) error {
	if _, err := os.Stat(localDir); err != nil {
		if os.IsNotExist(err) {
			return Errorf(CodeNotFound, "there is no local directory with path %s", localDir)
		}
		return Wrapf(err, CodeNotPerformed, "could not access local directory %s", localDir)
	}
	entries, err := c.ListPath(remoteDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsSymlink() {
			continue
		}
		localPath := filepath.Join(localDir, entry.Name)
		if entry.IsDirectory() {
			if _, err := os.Stat(localPath); os.IsNotExist(err) {
				if err := os.Mkdir(localPath, 0o755); err != nil {
					return Wrapf(err, CodeNotPerformed,
						"could not create local directory %s", localPath)
				}
			}
			if err := c.GetDirectory(entry.Path.Posix(), localPath); err != nil {
				return err
			}
			continue
		}
		if info, err := os.Stat(localPath); err == nil && info.Size() == entry.Size {
			continue
		}
		if _, err := c.GetFile(entry.Path.Posix(), PathSink(localPath)); err != nil {
			return err
		}
	}
	return nil
}

// SendDirectory uploads a local directory tree to remoteDir, creating the
// remote directory first (and its ancestors with WithParents), then walking
// the local entries top-down, depth-first, sequentially.
func (c *Connection) SendDirectory(localDir, remoteDir string, opts ...Option) error {
	o := buildOptions(opts)
	if o.parents {
		if err := c.createParents(NewPath(remoteDir)); err != nil {
			return err
		}
	}
	if err := c.CreateDirectory(remoteDir); err != nil {
		return err
	}
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return Wrapf(err, CodeNotPerformed, "could not read local directory %s", localDir)
	}
	for _, entry := range entries {
		localPath := filepath.Join(localDir, entry.Name())
		remotePath := NewPath(remoteDir, entry.Name()).Posix()
		if entry.IsDir() {
			if err := c.SendDirectory(localPath, remotePath); err != nil {
				return err
			}
		} else {
			if err := c.SendFile(PathSource(localPath), remotePath); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateFile creates a file at remotePath from the given contents: nothing
// (an empty file), text, raw bytes or a caller-owned stream. A nil contents
// value creates an empty file.
func (c *Connection) CreateFile(remotePath string, contents Contents, opts ...Option) error {
	if contents == nil {
		contents = NoContents()
	}
	src, err := contents.source()
	if err != nil {
		return err
	}
	return c.SendFile(src, remotePath, opts...)
}
