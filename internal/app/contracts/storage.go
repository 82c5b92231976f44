package contracts

import (
	"context"
	"io"
	"time"
)

type UploadFileInput struct {
	BucketName  string
	ObjectName  string
	ContentType string
	Size        int64
	File        io.Reader
}

type Storage interface {
	UploadFile(ctx context.Context, in *UploadFileInput) (objectName string, err error)
	GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
}
