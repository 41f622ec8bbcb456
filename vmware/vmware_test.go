package vmware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/mtsarev06/rsc"
)

func TestDialRequiresHostAndVM(t *testing.T) {
	_, err := Dial(Config{Host: "vcenter.local"})
	assert.True(t, rsc.IsInvalidInput(err), "missing vm: got %v, want INVALID_INPUT", err)

	_, err = Dial(Config{VirtualMachine: "builder-01"})
	assert.True(t, rsc.IsInvalidInput(err), "missing host: got %v, want INVALID_INPUT", err)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, rsc.TypeFile, fileType("file"))
	assert.Equal(t, rsc.TypeDirectory, fileType("directory"))
	assert.Equal(t, rsc.TypeSymlink, fileType("symlink"))
	// Unknown guest types degrade to file.
	assert.Equal(t, rsc.TypeFile, fileType("char"))
}

func TestEntryInfo(t *testing.T) {
	mtime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	atime := time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC)

	info := entryInfo(types.GuestFileInfo{
		Path: `C:\logs\app.log`,
		Type: "file",
		Size: 128,
		Attributes: &types.GuestFileAttributes{
			ModificationTime: &mtime,
			AccessTime:       &atime,
		},
	})

	assert.Equal(t, "app.log", info.Name)
	assert.Equal(t, int64(128), info.Size)
	assert.Equal(t, rsc.TypeFile, info.Type)
	assert.True(t, info.ModificationTime.Equal(mtime))
	assert.True(t, info.LastAccessTime.Equal(atime))
}

func TestEntryInfoWithoutAttributes(t *testing.T) {
	info := entryInfo(types.GuestFileInfo{Path: "dir", Type: "directory"})
	assert.Equal(t, "dir", info.Name)
	assert.Equal(t, rsc.TypeDirectory, info.Type)
	assert.True(t, info.ModificationTime.IsZero())
}
