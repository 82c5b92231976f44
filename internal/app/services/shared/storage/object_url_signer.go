package storage

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"context"
	"time"

	"go.uber.org/zap"
)

// ObjectURLSigner turns stored object names into presigned download URLs.
type ObjectURLSigner struct {
	storage    contracts.Storage
	bucketName string
	expiry     time.Duration
	log        *zap.Logger
}

func NewObjectURLSigner(storage contracts.Storage, bucketName string, expiry time.Duration, logger *zap.Logger) *ObjectURLSigner {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &ObjectURLSigner{
		storage:    storage,
		bucketName: bucketName,
		expiry:     expiry,
		log:        logger,
	}
}

// Sign returns an empty string when the object name is empty or cannot be presigned.
func (s *ObjectURLSigner) Sign(ctx context.Context, objectName string) string {
	if s == nil || objectName == "" {
		return ""
	}

	url, err := s.storage.GetObjectUrlWithExpiryTime(ctx, s.bucketName, objectName, s.expiry)
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		s.log.Warn("ObjectURLSigner.Sign error presigning object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return ""
	}
	return url
}

// SignExamination replaces the object name of the attached recording, if any,
// with a presigned URL.
func (s *ObjectURLSigner) SignExamination(ctx context.Context, examination *models.Examination) {
	if examination == nil || examination.Recording == nil {
		return
	}
	examination.Recording.File = s.Sign(ctx, examination.Recording.File)
}
