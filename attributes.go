package rsc

import (
	"strconv"
	"time"
)

// FileType classifies a filesystem entry.
type FileType string

const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
	TypeSymlink   FileType = "symlink"
)

func (t FileType) valid() bool {
	switch t {
	case TypeFile, TypeDirectory, TypeSymlink:
		return true
	}
	return false
}

// RawAttributes carries the loosely-typed attribute data a backend reports
// for one entry. Timestamps accept a time.Time, an ISO-8601 string or a
// numeric epoch; size accepts any integer-like value; paths accept a string
// or a Path. NewFileAttributes normalizes everything once at this boundary.
type RawAttributes struct {
	Name             string
	Size             any
	Type             string
	Path             any
	AbsolutePath     any
	ModificationTime any
	LastAccessTime   any
	CreateTime       any // optional, nil when the backend does not report it
}

// FileAttributes is an immutable, validated record describing one
// filesystem entry. Construct it with NewFileAttributes; direct construction
// bypasses validation.
type FileAttributes struct {
	Name             string
	Size             int64
	Type             FileType
	Path             Path
	AbsolutePath     Path
	ModificationTime time.Time
	LastAccessTime   time.Time
	CreateTime       time.Time // zero when unknown
}

// NewFileAttributes validates and normalizes raw attribute data. A type
// outside the enum, a negative or non-integer size, or a timestamp that is
// neither a time value, an ISO-8601 string nor a numeric epoch yields an
// INVALID_INPUT error so callers can tell bad attribute data from I/O
// failures.
func NewFileAttributes(raw RawAttributes) (FileAttributes, error) {
	typ := FileType(raw.Type)
	if !typ.valid() {
		return FileAttributes{}, Errorf(CodeInvalidInput,
			"type must be either 'directory', 'file' or 'symlink' (got %q)", raw.Type)
	}

	size, err := coerceSize(raw.Size)
	if err != nil {
		return FileAttributes{}, err
	}

	path, err := coercePath("path", raw.Path)
	if err != nil {
		return FileAttributes{}, err
	}
	absPath, err := coercePath("absolute_path", raw.AbsolutePath)
	if err != nil {
		return FileAttributes{}, err
	}

	mtime, err := coerceTime("modification_time", raw.ModificationTime, false)
	if err != nil {
		return FileAttributes{}, err
	}
	atime, err := coerceTime("last_access_time", raw.LastAccessTime, false)
	if err != nil {
		return FileAttributes{}, err
	}
	ctime, err := coerceTime("create_time", raw.CreateTime, true)
	if err != nil {
		return FileAttributes{}, err
	}

	return FileAttributes{
		Name:             raw.Name,
		Size:             size,
		Type:             typ,
		Path:             path,
		AbsolutePath:     absPath,
		ModificationTime: mtime,
		LastAccessTime:   atime,
		CreateTime:       ctime,
	}, nil
}

// FileAttributesFromMap reconstructs a FileAttributes from the mapping
// produced by ToMap.
func FileAttributesFromMap(m map[string]any) (FileAttributes, error) {
	name, _ := m["name"].(string)
	typ, _ := m["type"].(string)
	return NewFileAttributes(RawAttributes{
		Name:             name,
		Size:             m["size"],
		Type:             typ,
		Path:             m["path"],
		AbsolutePath:     m["absolute_path"],
		ModificationTime: m["modification_time"],
		LastAccessTime:   m["last_access_time"],
		CreateTime:       m["create_time"],
	})
}

// IsDirectory reports whether the entry is a directory.
func (a FileAttributes) IsDirectory() bool { return a.Type == TypeDirectory }

// IsFile reports whether the entry is a regular file.
func (a FileAttributes) IsFile() bool { return a.Type == TypeFile }

// IsSymlink reports whether the entry is a symbolic link.
func (a FileAttributes) IsSymlink() bool { return a.Type == TypeSymlink }

// ToMap renders the attributes as a plain mapping with both paths in POSIX
// form. The result round-trips through FileAttributesFromMap.
func (a FileAttributes) ToMap() map[string]any {
	var ctime any
	if !a.CreateTime.IsZero() {
		ctime = a.CreateTime
	}
	return map[string]any{
		"name":              a.Name,
		"size":              a.Size,
		"type":              string(a.Type),
		"path":              a.Path.Posix(),
		"absolute_path":     a.AbsolutePath.Posix(),
		"modification_time": a.ModificationTime,
		"last_access_time":  a.LastAccessTime,
		"create_time":       ctime,
	}
}

// Field is one (key, value) pair of a FileAttributes.
type Field struct {
	Key   string
	Value any
}

// Fields returns the attribute fields in their fixed order: name, size,
// type, path, absolute_path, modification_time, last_access_time,
// create_time.
func (a FileAttributes) Fields() []Field {
	m := a.ToMap()
	keys := []string{
		"name", "size", "type", "path", "absolute_path",
		"modification_time", "last_access_time", "create_time",
	}
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Value: m[k]})
	}
	return fields
}

// Equal reports field-wise equality. Timestamps compare as instants, so two
// attributes built from different representations of the same moment are
// equal.
func (a FileAttributes) Equal(b FileAttributes) bool {
	return a.Name == b.Name &&
		a.Size == b.Size &&
		a.Type == b.Type &&
		a.Path == b.Path &&
		a.AbsolutePath == b.AbsolutePath &&
		a.ModificationTime.Equal(b.ModificationTime) &&
		a.LastAccessTime.Equal(b.LastAccessTime) &&
		a.CreateTime.Equal(b.CreateTime)
}

func coerceSize(v any) (int64, error) {
	var size int64
	switch s := v.(type) {
	case int:
		size = int64(s)
	case int32:
		size = int64(s)
	case int64:
		size = s
	case uint32:
		size = int64(s)
	case uint64:
		size = int64(s)
	case float32:
		size = int64(s)
	case float64:
		size = int64(s)
	case string:
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, Errorf(CodeInvalidInput, "size %q is not an integer", s)
		}
		size = parsed
	default:
		return 0, Errorf(CodeInvalidInput, "size must be an integer (got %T)", v)
	}
	if size < 0 {
		return 0, Errorf(CodeInvalidInput, "size must be non-negative (got %d)", size)
	}
	return size, nil
}

func coercePath(field string, v any) (Path, error) {
	switch p := v.(type) {
	case Path:
		return p, nil
	case string:
		return NewPath(p), nil
	default:
		return Path{}, Errorf(CodeInvalidInput,
			"%s must be a string or a Path (got %T)", field, v)
	}
}

// isoFormats are the layouts accepted for string timestamps, most specific
// first.
var isoFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func coerceTime(field string, v any, optional bool) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		if optional {
			return time.Time{}, nil
		}
		return time.Time{}, Errorf(CodeInvalidInput, "%s is required", field)
	case time.Time:
		return t, nil
	case string:
		for _, layout := range isoFormats {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, Errorf(CodeInvalidInput,
			"%s %q is not an ISO-8601 timestamp", field, t)
	case int:
		return time.Unix(int64(t), 0), nil
	case int32:
		return time.Unix(int64(t), 0), nil
	case int64:
		return time.Unix(t, 0), nil
	case float32:
		return epochToTime(float64(t)), nil
	case float64:
		return epochToTime(t), nil
	default:
		return time.Time{}, Errorf(CodeInvalidInput,
			"%s must be a timestamp, an ISO-8601 string or a numeric epoch (got %T)", field, v)
	}
}

func epochToTime(epoch float64) time.Time {
	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
