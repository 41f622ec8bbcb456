package rsc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawAttributes {
	return RawAttributes{
		Name:             "report.txt",
		Size:             int64(42),
		Type:             "file",
		Path:             "docs/report.txt",
		AbsolutePath:     "/srv/docs/report.txt",
		ModificationTime: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		LastAccessTime:   time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestNewFileAttributes(t *testing.T) {
	attrs, err := NewFileAttributes(validRaw())
	require.NoError(t, err)
	assert.Equal(t, "report.txt", attrs.Name)
	assert.Equal(t, int64(42), attrs.Size)
	assert.True(t, attrs.IsFile())
	assert.Equal(t, NewPath("docs/report.txt"), attrs.Path)
	assert.Equal(t, NewPath("/srv/docs/report.txt"), attrs.AbsolutePath)
	assert.True(t, attrs.CreateTime.IsZero(), "create time should stay unknown")
}

func TestNewFileAttributesRejectsBadType(t *testing.T) {
	for _, typ := range []string{"", "socket", "File", "dir"} {
		raw := validRaw()
		raw.Type = typ
		_, err := NewFileAttributes(raw)
		assert.True(t, IsInvalidInput(err), "type %q: got %v, want INVALID_INPUT", typ, err)
	}
}

func TestNewFileAttributesSizeCoercion(t *testing.T) {
	tests := []struct {
		name    string
		size    any
		want    int64
		wantErr bool
	}{
		{name: "int", size: 7, want: 7},
		{name: "int64", size: int64(7), want: 7},
		{name: "uint64", size: uint64(7), want: 7},
		{name: "float64", size: float64(7), want: 7},
		{name: "numeric string", size: "7", want: 7},
		{name: "negative", size: -1, wantErr: true},
		{name: "non-numeric string", size: "seven", wantErr: true},
		{name: "nil", size: nil, wantErr: true},
		{name: "bool", size: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw.Size = tt.size
			attrs, err := NewFileAttributes(raw)
			if tt.wantErr {
				assert.True(t, IsInvalidInput(err), "got %v, want INVALID_INPUT", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, attrs.Size)
		})
	}
}

// Timestamps are accepted as time values, ISO-8601 strings and numeric
// epochs, and all representations of the same instant compare equal.
func TestNewFileAttributesTimeRepresentations(t *testing.T) {
	instant := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	representations := []any{
		instant,
		"2024-05-01T12:30:00Z",
		"2024-05-01T12:30:00",
		"2024-05-01 12:30:00",
		instant.Unix(),
		float64(instant.Unix()),
	}
	for _, rep := range representations {
		raw := validRaw()
		raw.ModificationTime = rep
		attrs, err := NewFileAttributes(raw)
		require.NoError(t, err, "representation %#v", rep)
		assert.True(t, attrs.ModificationTime.Equal(instant),
			"representation %#v: got %v, want %v", rep, attrs.ModificationTime, instant)
	}
}

func TestNewFileAttributesRejectsBadTime(t *testing.T) {
	raw := validRaw()
	raw.ModificationTime = "yesterday"
	_, err := NewFileAttributes(raw)
	assert.True(t, IsInvalidInput(err), "got %v, want INVALID_INPUT", err)

	raw = validRaw()
	raw.ModificationTime = nil
	_, err = NewFileAttributes(raw)
	assert.True(t, IsInvalidInput(err), "missing mtime: got %v, want INVALID_INPUT", err)

	// Create time is the only optional timestamp.
	raw = validRaw()
	raw.CreateTime = nil
	_, err = NewFileAttributes(raw)
	assert.NoError(t, err)
}

func TestNewFileAttributesRejectsBadPath(t *testing.T) {
	raw := validRaw()
	raw.Path = 12
	_, err := NewFileAttributes(raw)
	assert.True(t, IsInvalidInput(err), "got %v, want INVALID_INPUT", err)
}

func TestFileAttributesMapRoundTrip(t *testing.T) {
	raw := validRaw()
	raw.CreateTime = time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	attrs, err := NewFileAttributes(raw)
	require.NoError(t, err)

	back, err := FileAttributesFromMap(attrs.ToMap())
	require.NoError(t, err)
	assert.True(t, attrs.Equal(back), "round trip changed the record:\n %+v\n %+v", attrs, back)
}

func TestFileAttributesToMapUnknownCreateTime(t *testing.T) {
	attrs, err := NewFileAttributes(validRaw())
	require.NoError(t, err)
	m := attrs.ToMap()
	assert.Nil(t, m["create_time"])
	assert.Equal(t, "docs/report.txt", m["path"])
	assert.Equal(t, "/srv/docs/report.txt", m["absolute_path"])
}

func TestFileAttributesFieldsOrder(t *testing.T) {
	attrs, err := NewFileAttributes(validRaw())
	require.NoError(t, err)
	var keys []string
	for _, f := range attrs.Fields() {
		keys = append(keys, f.Key)
	}
	want := []string{
		"name", "size", "type", "path", "absolute_path",
		"modification_time", "last_access_time", "create_time",
	}
	assert.Equal(t, want, keys)
}

func TestFileAttributesEqualComparesInstants(t *testing.T) {
	rawUTC := validRaw()
	a, err := NewFileAttributes(rawUTC)
	require.NoError(t, err)

	rawZoned := validRaw()
	rawZoned.ModificationTime = rawUTC.ModificationTime.(time.Time).In(time.FixedZone("UTC+3", 3*3600))
	b, err := NewFileAttributes(rawZoned)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestFileTypePredicates(t *testing.T) {
	raw := validRaw()
	raw.Type = "directory"
	attrs, err := NewFileAttributes(raw)
	require.NoError(t, err)
	assert.True(t, attrs.IsDirectory())
	assert.False(t, attrs.IsFile())
	assert.False(t, attrs.IsSymlink())
}
