package storage

import (
	"context"
	"io"
)

// UploadResult describes where an uploaded object ended up.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object store behind avatars, team logos and trip
// exports. Keys are opaque to callers; GetPublicURL turns one into a link
// that can be handed to a client.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
