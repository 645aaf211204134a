// Package server holds configuration for the HTTP server layer.
//
// It carries the listen port, the request body limit (sized to fit a full
// multipart image batch), and the per-request deadline that bounds uploads
// performed while serving a request.
package server
