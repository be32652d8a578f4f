package storage

import (
	"context"
	"errors"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// disabledUploader stands in when object storage is not configured. Reads
// degrade to empty URLs; writes fail loudly.
type disabledUploader struct{}

func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	return nil, errors.New("object storage is not configured")
}

func (disabledUploader) Delete(ctx context.Context, key string) error {
	return errors.New("object storage is not configured")
}

func (disabledUploader) GetPublicURL(key string) string {
	return ""
}
