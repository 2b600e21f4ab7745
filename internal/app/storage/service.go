/*
Package storage handles avatar image storage on S3-compatible object
stores. Uploads never pass through the server: clients receive short-lived
presigned URLs and talk to the bucket directly.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the settings required to connect to the object store.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// AvatarStorage is the interface the handlers use for avatar objects.
type AvatarStorage interface {
	// PresignUpload generates a pre-signed URL for uploading an avatar
	// with the given key, MIME type and size.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for fetching the avatar.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// ObjectExists reports whether the object with the given key has been
	// uploaded, used to verify an upload before saving its key.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// Delete removes the avatar object with the given key.
	Delete(ctx context.Context, key string) error
}

// NewAvatarStorage is the factory for AvatarStorage.
// Only S3-compatible backends are currently supported.
func NewAvatarStorage(cfg ServiceConfig) (AvatarStorage, error) {
	return newS3Client(cfg)
}
