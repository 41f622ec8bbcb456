// Package smb provides an rsc.Session over an SMB share using go-smb2.
package smb

import (
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/hirochachacha/go-smb2"

	"github.com/mtsarev06/rsc"
)

// Config holds the settings needed to mount an SMB share.
type Config struct {
	// Host is the IP or name of the remote machine.
	Host string

	// Port is the SMB port. Defaults to 445.
	Port int

	// Username, Password and Domain authenticate against the server.
	Username string
	Password string
	Domain   string

	// Share is the name of the shared folder to mount.
	Share string
}

// Session adapts a mounted smb2.Share to the rsc.Session contract.
type Session struct {
	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
}

// Dial connects to the server, authenticates and mounts the share.
func Dial(cfg Config) (*Session, error) {
	if cfg.Host == "" || cfg.Share == "" {
		return nil, rsc.NewError(rsc.CodeInvalidInput, "smb: host and share are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 445
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not connect to the SMB storage %s", addr)
	}
	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     cfg.Username,
			Password: cfg.Password,
			Domain:   cfg.Domain,
		},
	}
	session, err := dialer.Dial(conn)
	if err != nil {
		_ = conn.Close()
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not connect to the SMB storage %s with such credentials", addr)
	}
	share, err := session.Mount(cfg.Share)
	if err != nil {
		_ = session.Logoff()
		_ = conn.Close()
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not mount the shared folder %s on %s", cfg.Share, addr)
	}
	return &Session{conn: conn, session: session, share: share}, nil
}

// Share returns the underlying mounted smb2.Share.
func (s *Session) Share() *smb2.Share {
	return s.share
}

// name renders the path relative to the share root, the form go-smb2
// expects.
func name(p rsc.Path) string {
	n := strings.TrimPrefix(p.Windows(), `\`)
	if n == "" {
		return "."
	}
	return n
}

// Exists reports whether an entry exists at the path. The share root always
// exists.
func (s *Session) Exists(p rsc.Path) (bool, error) {
	n := name(p)
	if n == "." {
		return true, nil
	}
	if _, err := s.share.Stat(n); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Stat returns the raw attributes of the entry at the path.
func (s *Session) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	info, err := s.share.Stat(name(p))
	if err != nil {
		return rsc.EntryInfo{}, err
	}
	return entryInfo(info), nil
}

// List returns the raw entries of the directory at the path.
func (s *Session) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	infos, err := s.share.ReadDir(name(p))
	if err != nil {
		return nil, err
	}
	entries := make([]rsc.EntryInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryInfo(info))
	}
	return entries, nil
}

// Read copies the remote file into dst.
func (s *Session) Read(p rsc.Path, dst io.Writer) (int64, error) {
	f, err := s.share.Open(name(p))
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return io.Copy(dst, f)
}

// Write stores the contents of src as the remote file.
func (s *Session) Write(p rsc.Path, src io.Reader) error {
	f, err := s.share.Create(name(p))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// MakeDirectory creates a single directory.
func (s *Session) MakeDirectory(p rsc.Path) error {
	return s.share.Mkdir(name(p), 0o755)
}

// RemoveDirectory removes a single empty directory. The server rejects
// removal of a non-empty directory.
func (s *Session) RemoveDirectory(p rsc.Path) error {
	return s.share.Remove(name(p))
}

// RemoveFile removes a single file or symlink.
func (s *Session) RemoveFile(p rsc.Path) error {
	return s.share.Remove(name(p))
}

// Close unmounts the share and tears the connection down, best effort.
func (s *Session) Close() error {
	err := s.share.Umount()
	if logoffErr := s.session.Logoff(); err == nil {
		err = logoffErr
	}
	if connErr := s.conn.Close(); err == nil {
		err = connErr
	}
	return err
}

// entryInfo converts SMB file info to the raw record rsc expects. The
// protocol reports creation, access and write times.
func entryInfo(info os.FileInfo) rsc.EntryInfo {
	typ := rsc.TypeFile
	switch {
	case info.IsDir():
		typ = rsc.TypeDirectory
	case info.Mode()&os.ModeSymlink != 0:
		typ = rsc.TypeSymlink
	}
	entry := rsc.EntryInfo{
		Name:             info.Name(),
		Size:             info.Size(),
		Type:             typ,
		ModificationTime: info.ModTime(),
		LastAccessTime:   info.ModTime(),
	}
	if stat, ok := info.Sys().(*smb2.FileStat); ok {
		entry.LastAccessTime = stat.LastAccessTime
		entry.CreateTime = stat.CreationTime
	}
	return entry
}

var _ rsc.Session = (*Session)(nil)
