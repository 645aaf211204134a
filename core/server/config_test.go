package server_test

import (
	"testing"
	"time"

	"product-catalog/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Default", 0, 32 * 1024 * 1024},
		{"Explicit", 5, 5 * 1024 * 1024},
		{"Negative", -1, 32 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_RequestTimeout(t *testing.T) {
	c := server.Config{RequestTimeoutSeconds: 10}
	assert.Equal(t, 10*time.Second, c.RequestTimeout())

	c = server.Config{}
	assert.Equal(t, 30*time.Second, c.RequestTimeout())
}
