// Package config loads storage connection settings from YAML and turns
// them into live rsc connections. It exists so tools can describe their
// storage targets declaratively and switch backends without code changes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mtsarev06/rsc"
	"github.com/mtsarev06/rsc/local"
	"github.com/mtsarev06/rsc/minio"
	"github.com/mtsarev06/rsc/sftp"
	"github.com/mtsarev06/rsc/smb"
	"github.com/mtsarev06/rsc/vmware"
)

// Backend names a storage backend implementation.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendMemory Backend = "memory"
	BackendSFTP   Backend = "sftp"
	BackendSMB    Backend = "smb"
	BackendVMware Backend = "vmware"
	BackendMinio  Backend = "minio"
)

// Config describes one storage connection. Only the fields relevant to the
// chosen backend need to be set.
type Config struct {
	// Backend selects the implementation: local, memory, sftp, smb, vmware
	// or minio.
	Backend Backend `yaml:"backend"`

	// WorkDir is the remote working directory prepended to every relative
	// path.
	WorkDir string `yaml:"work_dir"`

	// Host, Port, Username and Password apply to the network backends.
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Root is the local directory the local backend is rooted at.
	Root string `yaml:"root"`

	// Share and Domain apply to the smb backend.
	Share  string `yaml:"share"`
	Domain string `yaml:"domain"`

	// VirtualMachine, GuestUsername, GuestPassword and Insecure apply to the
	// vmware backend.
	VirtualMachine string `yaml:"virtual_machine"`
	GuestUsername  string `yaml:"guest_username"`
	GuestPassword  string `yaml:"guest_password"`
	Insecure       bool   `yaml:"insecure"`

	// Minio configures the minio backend.
	Minio *MinioConfig `yaml:"minio"`
}

// MinioConfig is the object storage subsection of a Config.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML config data and validates it.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks that the chosen backend has the fields it needs.
func (c Config) validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.Root == "" {
			return fmt.Errorf("config: local backend requires root")
		}
	case BackendMemory:
		// Nothing to check.
	case BackendSFTP:
		if c.Host == "" {
			return fmt.Errorf("config: sftp backend requires host")
		}
	case BackendSMB:
		if c.Host == "" || c.Share == "" {
			return fmt.Errorf("config: smb backend requires host and share")
		}
	case BackendVMware:
		if c.Host == "" || c.VirtualMachine == "" {
			return fmt.Errorf("config: vmware backend requires host and virtual_machine")
		}
	case BackendMinio:
		if c.Minio == nil {
			return fmt.Errorf("config: minio backend requires a minio section")
		}
		if c.Minio.Bucket == "" {
			return fmt.Errorf("config: minio backend requires minio.bucket")
		}
	case "":
		return fmt.Errorf("config: backend is required")
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// Dial opens the configured backend session and wraps it in a connection.
func (c Config) Dial(opts ...rsc.ConnectionOption) (*rsc.Connection, error) {
	if err := c.validate(); err != nil {
		return nil, rsc.WrapError(err, rsc.CodeInvalidInput, "invalid storage config")
	}

	var (
		session rsc.Session
		err     error
	)
	switch c.Backend {
	case BackendLocal:
		session = local.NewLocal(c.Root)
	case BackendMemory:
		session = local.NewMemory()
	case BackendSFTP:
		session, err = sftp.Dial(sftp.Config{
			Host:     c.Host,
			Port:     c.Port,
			Username: c.Username,
			Password: c.Password,
		})
	case BackendSMB:
		session, err = smb.Dial(smb.Config{
			Host:     c.Host,
			Port:     c.Port,
			Username: c.Username,
			Password: c.Password,
			Domain:   c.Domain,
			Share:    c.Share,
		})
	case BackendVMware:
		session, err = vmware.Dial(vmware.Config{
			Host:           c.Host,
			Username:       c.Username,
			Password:       c.Password,
			Insecure:       c.Insecure,
			VirtualMachine: c.VirtualMachine,
			GuestUsername:  c.GuestUsername,
			GuestPassword:  c.GuestPassword,
		})
	case BackendMinio:
		session, err = minio.Dial(minio.Config{
			Endpoint:  c.Minio.Endpoint,
			Bucket:    c.Minio.Bucket,
			AccessKey: c.Minio.AccessKey,
			SecretKey: c.Minio.SecretKey,
			UseSSL:    c.Minio.UseSSL,
			Prefix:    c.Minio.Prefix,
		})
	}
	if err != nil {
		return nil, err
	}

	if c.WorkDir != "" {
		opts = append([]rsc.ConnectionOption{rsc.WithWorkDir(c.WorkDir)}, opts...)
	}
	return rsc.NewConnection(session, opts...), nil
}
