package storage

import (
	"fmt"
	"strings"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket product images are stored in.
	Bucket string `mapstructure:"bucket" default:"products"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PublicURL overrides the base URL objects are served from (e.g. a CDN).
	// When empty the URL is derived from Endpoint and Bucket.
	PublicURL string `mapstructure:"public_url" default:""`
}

// ObjectURL returns the public URL for an object key.
// The key is stored next to the URL in the database, so nothing ever needs
// to reverse-parse one of these URLs back into a key.
func (c Config) ObjectURL(key string) string {
	base := c.PublicURL
	if base == "" {
		scheme := "http"
		if c.UseSSL {
			scheme = "https"
		}
		endpoint := strings.TrimPrefix(c.Endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		base = fmt.Sprintf("%s://%s/%s", scheme, endpoint, c.Bucket)
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
