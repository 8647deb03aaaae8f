// Package storage archives uploaded résumé files in an S3-compatible object
// store. Archiving is optional: without a configured endpoint the server
// keeps only the extracted text.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size is the exact number of bytes, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an archived object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under key, streaming from r.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns the object content and its info. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// DocumentKey builds the object key for an uploaded document. Keys are
// grouped by profile and addressed by content hash, so re-uploading the same
// file overwrites the earlier copy.
func DocumentKey(profileID, hash, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if profileID == "" {
		profileID = "unassigned"
	}
	return path.Join("documents", profileID, hash+ext)
}
