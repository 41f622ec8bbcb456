package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtsarev06/rsc"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: sftp
host: files.example.com
port: 2022
username: deploy
password: secret
work_dir: /srv/app
`))
	require.NoError(t, err)
	assert.Equal(t, BackendSFTP, cfg.Backend)
	assert.Equal(t, "files.example.com", cfg.Host)
	assert.Equal(t, 2022, cfg.Port)
	assert.Equal(t, "deploy", cfg.Username)
	assert.Equal(t, "/srv/app", cfg.WorkDir)
}

func TestParseMinioSection(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: minio
minio:
  endpoint: localhost:9000
  bucket: artifacts
  access_key: ak
  secret_key: sk
  prefix: team/alpha
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Minio)
	assert.Equal(t, "artifacts", cfg.Minio.Bucket)
	assert.Equal(t, "team/alpha", cfg.Minio.Prefix)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "no backend", yaml: `host: x`, want: "backend is required"},
		{name: "unknown backend", yaml: `backend: ftp`, want: "unknown backend"},
		{name: "sftp without host", yaml: `backend: sftp`, want: "requires host"},
		{name: "smb without share", yaml: "backend: smb\nhost: x", want: "requires host and share"},
		{name: "vmware without vm", yaml: "backend: vmware\nhost: x", want: "virtual_machine"},
		{name: "local without root", yaml: `backend: local`, want: "requires root"},
		{name: "minio without section", yaml: `backend: minio`, want: "minio section"},
		{name: "minio without bucket", yaml: "backend: minio\nminio:\n  endpoint: x", want: "minio.bucket"},
		{name: "malformed yaml", yaml: `:{`, want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: memory\nwork_dir: inbox\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "inbox", cfg.WorkDir)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDialMemory(t *testing.T) {
	cfg := Config{Backend: BackendMemory, WorkDir: "inbox"}
	conn, err := cfg.Dial()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	assert.Equal(t, "inbox", conn.WorkDir().Posix())

	require.NoError(t, conn.CreateFile("hello.txt", rsc.TextContents("hi"), rsc.WithParents()))
	var buf bytes.Buffer
	n, err := conn.GetFileToObject("hello.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "hi", buf.String())
}

func TestDialInvalidConfig(t *testing.T) {
	_, err := Config{Backend: "ftp"}.Dial()
	assert.True(t, rsc.IsInvalidInput(err), "got %v, want INVALID_INPUT", err)
}
