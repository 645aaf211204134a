package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// BodyLimitMB is the maximum accepted request body size in megabytes.
	// It must be large enough to fit a full multipart upload batch.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"32"`
	// RequestTimeoutSeconds bounds the total duration of a single request,
	// including object-storage uploads performed on its behalf.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"30"`
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = 32
	}
	return mb * 1024 * 1024
}

// RequestTimeout returns the per-request deadline.
func (c Config) RequestTimeout() time.Duration {
	s := c.RequestTimeoutSeconds
	if s <= 0 {
		s = 30
	}
	return time.Duration(s) * time.Second
}
