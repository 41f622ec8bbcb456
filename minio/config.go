// Package minio provides an rsc.Session over S3-compatible object storage
// using minio-go. Directories are emulated with zero-byte marker objects
// whose keys end in "/".
package minio

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Config holds the settings needed to reach a bucket.
type Config struct {
	// Endpoint is the object storage server URL (e.g. "localhost:9000").
	Endpoint string

	// Bucket is the S3 bucket name.
	Bucket string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Prefix is an optional prefix for all object keys (for namespacing).
	Prefix string

	// Client is an optional pre-configured client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided;
// Bucket is required in all cases.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}

	return nil
}
