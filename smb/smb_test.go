package smb

import (
	"os"
	"testing"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/stretchr/testify/assert"

	"github.com/mtsarev06/rsc"
)

func TestDialRequiresHostAndShare(t *testing.T) {
	_, err := Dial(Config{Host: "fileserver"})
	assert.True(t, rsc.IsInvalidInput(err), "missing share: got %v, want INVALID_INPUT", err)

	_, err = Dial(Config{Share: "public"})
	assert.True(t, rsc.IsInvalidInput(err), "missing host: got %v, want INVALID_INPUT", err)
}

// go-smb2 addresses entries relative to the share root without a leading
// separator.
func TestName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/docs/report.txt", `docs\report.txt`},
		{"docs/report.txt", `docs\report.txt`},
		{"/", "."},
		{".", "."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, name(rsc.NewPath(tt.path)), "name of %q", tt.path)
	}
}

type fakeFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	mtime time.Time
	sys   any
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return f.mtime }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() any           { return f.sys }

func TestEntryInfo(t *testing.T) {
	mtime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	atime := time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC)
	ctime := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	info := entryInfo(fakeFileInfo{
		name:  "f.txt",
		size:  4,
		mtime: mtime,
		sys: &smb2.FileStat{
			CreationTime:   ctime,
			LastAccessTime: atime,
		},
	})

	assert.Equal(t, "f.txt", info.Name)
	assert.Equal(t, int64(4), info.Size)
	assert.Equal(t, rsc.TypeFile, info.Type)
	assert.True(t, info.ModificationTime.Equal(mtime))
	assert.True(t, info.LastAccessTime.Equal(atime))
	assert.True(t, info.CreateTime.Equal(ctime))
}
