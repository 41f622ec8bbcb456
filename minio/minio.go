package minio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mtsarev06/rsc"
)

// Session adapts a minio.Client and a bucket to the rsc.Session contract.
type Session struct {
	client *minio.Client
	bucket string
	prefix string
}

// Dial validates the configuration and builds the object storage client.
// No network round trip happens until the first operation.
func Dial(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, rsc.WrapError(err, rsc.CodeInvalidInput, "minio: invalid config")
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, rsc.Wrapf(err, rsc.CodeConnectionFailure,
				"could not create a client for the object storage %s", cfg.Endpoint)
		}
	}

	return &Session{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Client returns the underlying minio.Client.
func (s *Session) Client() *minio.Client {
	return s.client
}

// key renders the path as an object key under the session prefix. The
// bucket root maps to the empty key.
func (s *Session) key(p rsc.Path) string {
	n := strings.Trim(p.Posix(), "/")
	if n == "." {
		n = ""
	}
	switch {
	case s.prefix == "":
		return n
	case n == "":
		return s.prefix
	default:
		return s.prefix + "/" + n
	}
}

// dirKey renders the path as a directory marker key, with a trailing slash.
func (s *Session) dirKey(p rsc.Path) string {
	k := s.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" ||
		resp.StatusCode == http.StatusNotFound
}

// Exists reports whether an object, a directory marker or an implicit
// prefix exists at the path. The bucket root always exists.
func (s *Session) Exists(p rsc.Path) (bool, error) {
	key := s.key(p)
	if key == "" || key == s.prefix {
		return true, nil
	}
	ctx := context.Background()
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:  key + "/",
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return false, object.Err
		}
		return true, nil
	}
	return false, nil
}

// Stat returns the raw attributes of the entry at the path. A key without a
// trailing slash is a file; a marker object or a non-empty prefix is a
// directory.
func (s *Session) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	key := s.key(p)
	if key == "" || key == s.prefix {
		return rsc.EntryInfo{Name: p.Name(), Type: rsc.TypeDirectory}, nil
	}
	ctx := context.Background()
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return rsc.EntryInfo{
			Name:             p.Name(),
			Size:             info.Size,
			Type:             rsc.TypeFile,
			ModificationTime: info.LastModified,
			LastAccessTime:   info.LastModified,
		}, nil
	}
	if !isNotFound(err) {
		return rsc.EntryInfo{}, err
	}
	marker, err := s.client.StatObject(ctx, s.bucket, key+"/", minio.StatObjectOptions{})
	if err == nil {
		return rsc.EntryInfo{
			Name:             p.Name(),
			Type:             rsc.TypeDirectory,
			ModificationTime: marker.LastModified,
			LastAccessTime:   marker.LastModified,
		}, nil
	}
	if !isNotFound(err) {
		return rsc.EntryInfo{}, err
	}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:  key + "/",
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return rsc.EntryInfo{}, object.Err
		}
		// Implicit directory, known only through its children.
		return rsc.EntryInfo{Name: p.Name(), Type: rsc.TypeDirectory}, nil
	}
	return rsc.EntryInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
}

// List returns the raw entries of the directory at the path, one listing
// level deep. Keys ending in "/" are subdirectories.
func (s *Session) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	dk := s.dirKey(p)
	ctx := context.Background()
	var entries []rsc.EntryInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    dk,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, object.Err
		}
		if object.Key == dk {
			continue
		}
		name := strings.TrimPrefix(object.Key, dk)
		typ := rsc.TypeFile
		if strings.HasSuffix(name, "/") {
			name = strings.TrimSuffix(name, "/")
			typ = rsc.TypeDirectory
		}
		if name == "" {
			continue
		}
		entries = append(entries, rsc.EntryInfo{
			Name:             name,
			Size:             object.Size,
			Type:             typ,
			ModificationTime: object.LastModified,
			LastAccessTime:   object.LastModified,
		})
	}
	return entries, nil
}

// Read copies the object into dst.
func (s *Session) Read(p rsc.Path, dst io.Writer) (int64, error) {
	ctx := context.Background()
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(p), minio.GetObjectOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = obj.Close() }()
	return io.Copy(dst, obj)
}

// Write stores the contents of src as the object. The size is unknown up
// front, so the upload streams in parts.
func (s *Session) Write(p rsc.Path, src io.Reader) error {
	ctx := context.Background()
	_, err := s.client.PutObject(ctx, s.bucket, s.key(p), src, -1, minio.PutObjectOptions{})
	return err
}

// MakeDirectory creates a zero-byte directory marker object.
func (s *Session) MakeDirectory(p rsc.Path) error {
	ctx := context.Background()
	_, err := s.client.PutObject(ctx, s.bucket, s.dirKey(p),
		strings.NewReader(""), 0, minio.PutObjectOptions{})
	return err
}

// RemoveDirectory removes the directory marker. Emptiness is checked here
// because object storage would otherwise leave the children orphaned.
func (s *Session) RemoveDirectory(p rsc.Path) error {
	dk := s.dirKey(p)
	ctx := context.Background()
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    dk,
		Recursive: false,
	}) {
		if object.Err != nil {
			return object.Err
		}
		if object.Key == dk {
			continue
		}
		return errors.New("directory not empty: " + dk)
	}
	return s.client.RemoveObject(ctx, s.bucket, dk, minio.RemoveObjectOptions{})
}

// RemoveFile removes the object at the path.
func (s *Session) RemoveFile(p rsc.Path) error {
	ctx := context.Background()
	return s.client.RemoveObject(ctx, s.bucket, s.key(p), minio.RemoveObjectOptions{})
}

// Close is a no-op; the client holds no persistent connection.
func (s *Session) Close() error {
	return nil
}

var _ rsc.Session = (*Session)(nil)
