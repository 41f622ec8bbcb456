// Package sftp provides an rsc.Session over SSH/SFTP using pkg/sftp.
package sftp

import (
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/mtsarev06/rsc"
)

// Config holds the settings needed to open an SFTP session.
type Config struct {
	// Host is the IP or name of the remote machine.
	Host string

	// Port is the SSH port. Defaults to 22.
	Port int

	// Username and Password authenticate the SSH user.
	Username string
	Password string

	// HostKeyCallback verifies the server's host key. Defaults to accepting
	// any key; supply ssh.FixedHostKey or a known-hosts callback to pin it.
	HostKeyCallback ssh.HostKeyCallback
}

// Session adapts an sftp.Client to the rsc.Session contract.
type Session struct {
	client *sftp.Client
	conn   *ssh.Client
}

// Dial connects to the remote machine and opens an SFTP subsystem session.
func Dial(cfg Config) (*Session, error) {
	if cfg.Host == "" {
		return nil, rsc.NewError(rsc.CodeInvalidInput, "sftp: host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	hostKey := cfg.HostKeyCallback
	if hostKey == nil {
		hostKey = ssh.InsecureIgnoreHostKey() //nolint:gosec // default matches the password-only contract
	}
	sshCfg := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKey,
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not connect to the remote machine %s", addr)
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not open an SFTP session on %s", addr)
	}
	return &Session{client: client, conn: conn}, nil
}

// Client returns the underlying sftp.Client.
func (s *Session) Client() *sftp.Client {
	return s.client
}

func name(p rsc.Path) string {
	return p.Posix()
}

// Exists reports whether an entry exists at the path.
func (s *Session) Exists(p rsc.Path) (bool, error) {
	if _, err := s.client.Stat(name(p)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Stat returns the raw attributes of the entry at the path.
func (s *Session) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	info, err := s.client.Stat(name(p))
	if err != nil {
		return rsc.EntryInfo{}, err
	}
	return entryInfo(info), nil
}

// List returns the raw entries of the directory at the path.
func (s *Session) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	infos, err := s.client.ReadDir(name(p))
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
	f, err := s.client.Open(name(p))
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return f.WriteTo(dst)
}

// Write stores the contents of src as the remote file.
func (s *Session) Write(p rsc.Path, src io.Reader) error {
	f, err := s.client.Create(name(p))
	if err != nil {
		return err
	}
	_, err = f.ReadFrom(src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// MakeDirectory creates a single directory.
func (s *Session) MakeDirectory(p rsc.Path) error {
	return s.client.Mkdir(name(p))
}

// RemoveDirectory removes a single empty directory.
func (s *Session) RemoveDirectory(p rsc.Path) error {
	return s.client.RemoveDirectory(name(p))
}

// RemoveFile removes a single file or symlink.
func (s *Session) RemoveFile(p rsc.Path) error {
	return s.client.Remove(name(p))
}

// Close shuts down the SFTP subsystem and the SSH connection.
func (s *Session) Close() error {
	err := s.client.Close()
	if connErr := s.conn.Close(); err == nil {
		err = connErr
	}
	return err
}

// entryInfo converts SFTP file info to the raw record rsc expects. The
// wire protocol reports access and modification times; creation time is
// not part of the stat response and stays unknown.
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
	if stat, ok := info.Sys().(*sftp.FileStat); ok {
		entry.LastAccessTime = time.Unix(int64(stat.Atime), 0)
	}
	return entry
}

var _ rsc.Session = (*Session)(nil)
