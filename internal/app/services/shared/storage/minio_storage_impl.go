package storage

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient *minio.Client
	Log         *zap.Logger
}

func NewMinioStorage(minioClient *minio.Client, logger *zap.Logger) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
		Log:         logger,
	}
}

func (m *minioStorage) UploadFile(ctx context.Context, in *contracts.UploadFileInput) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.UploadFile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, in.BucketName),
		zap.String(constvars.LoggingObjectNameKey, in.ObjectName),
	)

	contentType := in.ContentType
	if contentType == "" {
		contentType = constvars.MIMEAudioWav
	}

	_, err := m.MinioClient.PutObject(ctx, in.BucketName, in.ObjectName, in.File, in.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.Log.Error("minioStorage.UploadFile error calling PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, in.BucketName)
	}

	m.Log.Info("minioStorage.UploadFile succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, in.ObjectName),
	)
	return in.ObjectName, nil
}

// GetObject returns a reader over the stored object. The caller must close it.
func (m *minioStorage) GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.GetObject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	object, err := m.MinioClient.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}

	// GetObject is lazy, Stat surfaces a missing object before the upload starts.
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}
	return object, nil
}

func (m *minioStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Debug("minioStorage.GetObjectUrlWithExpiryTime called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiryTime, url.Values{})
	if err != nil {
		return "", exceptions.ErrMinioFindObjectPresignedURL(err, bucketName)
	}
	return presignedURL.String(), nil
}
