/*
Package storage wraps the S3-compatible object store that holds message attachments.

Attachment bytes never pass through the coordinator: clients either upload directly with a
presigned URL or post a multipart form that the server streams to the bucket.
*/
package storage

import (
	"context"
	"io"
	"time"

	"relaychat/internal/configs"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ServiceConfigFrom extracts the storage settings from the application config.
func ServiceConfigFrom(cfg *configs.AppConfig) ServiceConfig {
	return ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	}
}

// StorageService defines the public interface for the attachment store.
type StorageService interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Upload streams body to key.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) error

	// GetObjectMetadata retrieves the object's metadata.
	GetObjectMetadata(ctx context.Context, key string) (map[string]string, error)
}

// NewStorageService is the factory function for StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
