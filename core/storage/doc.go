// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the catalog performs: uploading image objects, removing them
// (singly or in batches), and listing the bucket for orphan audits. The
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Public URLs
//
// Config.ObjectURL derives the public URL for a stored object. The object key
// is always persisted alongside the URL, so deletion never depends on parsing
// a URL back into a key.
package storage
