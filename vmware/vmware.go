// Package vmware provides an rsc.Session over a VMware guest filesystem
// using the govmomi guest-operations API. File contents travel through the
// host via HTTPS transfer URLs; everything else is guest-tools RPC.
package vmware

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/fault"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/guest"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/mtsarev06/rsc"
)

// Config holds the settings needed to reach a guest filesystem.
type Config struct {
	// Host is the vCenter or ESXi endpoint, with or without a scheme.
	Host string

	// Username and Password authenticate against vCenter.
	Username string
	Password string

	// Insecure skips TLS certificate verification.
	Insecure bool

	// VirtualMachine is the inventory path or name of the target VM.
	VirtualMachine string

	// GuestUsername and GuestPassword authenticate inside the guest OS.
	GuestUsername string
	GuestPassword string
}

// Session adapts the guest-operations file manager to the rsc.Session
// contract.
type Session struct {
	client  *govmomi.Client
	fm      *guest.FileManager
	auth    *types.NamePasswordAuthentication
	windows bool
}

// Dial logs in to vCenter, locates the virtual machine and authenticates
// against its guest tools.
func Dial(cfg Config) (*Session, error) {
	if cfg.Host == "" || cfg.VirtualMachine == "" {
		return nil, rsc.NewError(rsc.CodeInvalidInput, "vmware: host and virtual machine are required")
	}
	ctx := context.Background()
	u, err := soap.ParseURL(cfg.Host)
	if err != nil {
		return nil, rsc.Wrapf(err, rsc.CodeInvalidInput, "vmware: invalid endpoint %s", cfg.Host)
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	client, err := govmomi.NewClient(ctx, u, cfg.Insecure)
	if err != nil {
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not connect to the vCenter %s", cfg.Host)
	}
	finder := find.NewFinder(client.Client, true)
	dc, err := finder.DefaultDatacenter(ctx)
	if err != nil {
		_ = client.Logout(ctx)
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure, "could not resolve a datacenter")
	}
	finder.SetDatacenter(dc)
	vm, err := finder.VirtualMachine(ctx, cfg.VirtualMachine)
	if err != nil {
		_ = client.Logout(ctx)
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not find the virtual machine %s", cfg.VirtualMachine)
	}
	opman := guest.NewOperationsManager(client.Client, vm.Reference())
	fm, err := opman.FileManager(ctx)
	if err != nil {
		_ = client.Logout(ctx)
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not open the guest file manager of %s", cfg.VirtualMachine)
	}
	var props mo.VirtualMachine
	if err := vm.Properties(ctx, vm.Reference(), []string{"config.guestId"}, &props); err != nil {
		_ = client.Logout(ctx)
		return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
			"could not read the guest identifier of %s", cfg.VirtualMachine)
	}
	windows := false
	if props.Config != nil {
		windows = strings.Contains(strings.ToLower(props.Config.GuestId), "win")
	}
	return &Session{
		client:  client,
		fm:      fm,
		auth:    &types.NamePasswordAuthentication{Username: cfg.GuestUsername, Password: cfg.GuestPassword},
		windows: windows,
	}, nil
}

// name renders the path the way the guest OS requires it: native Windows
// form for Windows guests, POSIX otherwise.
func (s *Session) name(p rsc.Path) string {
	if s.windows {
		return p.Windows()
	}
	return p.Posix()
}

func isNotFound(err error) bool {
	return fault.Is(err, &types.FileNotFound{}) || fault.Is(err, &types.CannotAccessFile{})
}

// Exists reports whether an entry exists at the path.
func (s *Session) Exists(p rsc.Path) (bool, error) {
	ctx := context.Background()
	if _, err := s.fm.ListFiles(ctx, s.auth, s.name(p), 0, 1, ""); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Stat returns the raw attributes of the entry at the path. Guest tools
// answer a stat of a directory with the directory's own "." entry.
func (s *Session) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	ctx := context.Background()
	res, err := s.fm.ListFiles(ctx, s.auth, s.name(p), 0, 0, "")
	if err != nil {
		return rsc.EntryInfo{}, err
	}
	for _, fi := range res.Files {
		if fi.Path == "." {
			entry := entryInfo(fi)
			entry.Name = p.Name()
			return entry, nil
		}
	}
	if len(res.Files) == 1 && res.Files[0].Type != string(types.GuestFileTypeDirectory) {
		entry := entryInfo(res.Files[0])
		entry.Name = p.Name()
		return entry, nil
	}
	// Directory without a self entry.
	return rsc.EntryInfo{Name: p.Name(), Type: rsc.TypeDirectory}, nil
}

// List returns the raw entries of the directory at the path, paging
// through the guest listing until none remain.
func (s *Session) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	ctx := context.Background()
	var entries []rsc.EntryInfo
	for index := int32(0); ; {
		res, err := s.fm.ListFiles(ctx, s.auth, s.name(p), index, 0, "")
		if err != nil {
			return nil, err
		}
		for _, fi := range res.Files {
			entries = append(entries, entryInfo(fi))
		}
		index += int32(len(res.Files))
		if res.Remaining == 0 {
			break
		}
	}
	return entries, nil
}

// Read downloads the guest file through its transfer URL into dst.
func (s *Session) Read(p rsc.Path, dst io.Writer) (int64, error) {
	ctx := context.Background()
	info, err := s.fm.InitiateFileTransferFromGuest(ctx, s.auth, s.name(p))
	if err != nil {
		return 0, err
	}
	u, err := s.fm.TransferURL(ctx, info.Url)
	if err != nil {
		return 0, err
	}
	param := soap.DefaultDownload
	rc, _, err := s.client.Download(ctx, u, &param)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()
	return io.Copy(dst, rc)
}

// Write uploads src to the guest file through its transfer URL. The guest
// API requires the content length up front, so the source is buffered.
func (s *Session) Write(p rsc.Path, src io.Reader) error {
	ctx := context.Background()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	target, err := s.fm.InitiateFileTransferToGuest(ctx, s.auth, s.name(p),
		&types.GuestFileAttributes{}, int64(len(data)), true)
	if err != nil {
		return err
	}
	u, err := s.fm.TransferURL(ctx, target)
	if err != nil {
		return err
	}
	param := soap.DefaultUpload
	param.ContentLength = int64(len(data))
	return s.client.Upload(ctx, bytes.NewReader(data), u, &param)
}

// MakeDirectory creates a single directory inside the guest.
func (s *Session) MakeDirectory(p rsc.Path) error {
	return s.fm.MakeDirectory(context.Background(), s.auth, s.name(p), false)
}

// RemoveDirectory removes a single empty directory inside the guest.
func (s *Session) RemoveDirectory(p rsc.Path) error {
	return s.fm.DeleteDirectory(context.Background(), s.auth, s.name(p), false)
}

// RemoveFile removes a single file inside the guest.
func (s *Session) RemoveFile(p rsc.Path) error {
	return s.fm.DeleteFile(context.Background(), s.auth, s.name(p))
}

// Close logs out of vCenter, best effort.
func (s *Session) Close() error {
	return s.client.Logout(context.Background())
}

// entryInfo converts a guest file record to the raw record rsc expects.
func entryInfo(fi types.GuestFileInfo) rsc.EntryInfo {
	entry := rsc.EntryInfo{
		Name: path.Base(strings.ReplaceAll(fi.Path, `\`, "/")),
		Size: fi.Size,
		Type: fileType(fi.Type),
	}
	if fi.Attributes != nil {
		attr := fi.Attributes.GetGuestFileAttributes()
		if attr.ModificationTime != nil {
			entry.ModificationTime = *attr.ModificationTime
		}
		if attr.AccessTime != nil {
			entry.LastAccessTime = *attr.AccessTime
		}
	}
	return entry
}

func fileType(guestType string) rsc.FileType {
	switch guestType {
	case string(types.GuestFileTypeDirectory):
		return rsc.TypeDirectory
	case string(types.GuestFileTypeSymlink):
		return rsc.TypeSymlink
	default:
		return rsc.TypeFile
	}
}

var _ rsc.Session = (*Session)(nil)
