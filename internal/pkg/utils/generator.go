package utils

import (
	"bowell-service/internal/pkg/constvars"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.New().String()
}

func GenerateAnalysisID() string {
	return uuid.New().String()
}

// GenerateRecordingObjectName builds the bucket key of an uploaded recording,
// e.g. recordings/12/20240101_101010_<uuid>.wav
func GenerateRecordingObjectName(uploaderID int64) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	fileName := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String(), constvars.RecordingFileExtension)
	return path.Join(constvars.RecordingObjectPrefix, fmt.Sprintf("%d", uploaderID), fileName)
}
