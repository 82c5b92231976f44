package mocks

import (
	"bowell-service/internal/app/contracts"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) UploadFile(ctx context.Context, in *contracts.UploadFileInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *Storage) GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName)
	if body := args.Get(0); body != nil {
		return body.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Storage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiryTime)
	return args.String(0), args.Error(1)
}
