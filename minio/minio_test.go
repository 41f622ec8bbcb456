package minio

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtsarev06/rsc"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config with credentials",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: false,
		},
		{
			name: "valid config with client",
			config: Config{
				Client: &minio.Client{},
				Bucket: "test-bucket",
			},
			wantErr: false,
		},
		{
			name: "missing bucket",
			config: Config{
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "bucket is required",
		},
		{
			name: "missing endpoint without client",
			config: Config{
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "endpoint is required when client is not provided",
		},
		{
			name: "missing access key without client",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "access key is required when client is not provided",
		},
		{
			name: "missing secret key without client",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "secret key is required when client is not provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDialRejectsInvalidConfig(t *testing.T) {
	_, err := Dial(Config{})
	assert.True(t, rsc.IsInvalidInput(err), "got %v, want INVALID_INPUT", err)
}

func TestKeyRendering(t *testing.T) {
	plain := &Session{bucket: "b"}
	prefixed := &Session{bucket: "b", prefix: "team/alpha"}

	tests := []struct {
		path         string
		key          string
		prefixedKey  string
		dirKey       string
		prefixedDirK string
	}{
		{"docs/a.txt", "docs/a.txt", "team/alpha/docs/a.txt", "docs/a.txt/", "team/alpha/docs/a.txt/"},
		{"/docs/a.txt", "docs/a.txt", "team/alpha/docs/a.txt", "docs/a.txt/", "team/alpha/docs/a.txt/"},
		{".", "", "team/alpha", "", "team/alpha/"},
		{"/", "", "team/alpha", "", "team/alpha/"},
	}
	for _, tt := range tests {
		p := rsc.NewPath(tt.path)
		assert.Equal(t, tt.key, plain.key(p), "key of %q", tt.path)
		assert.Equal(t, tt.prefixedKey, prefixed.key(p), "prefixed key of %q", tt.path)
		assert.Equal(t, tt.dirKey, plain.dirKey(p), "dirKey of %q", tt.path)
		assert.Equal(t, tt.prefixedDirK, prefixed.dirKey(p), "prefixed dirKey of %q", tt.path)
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(assert.AnError))
}
