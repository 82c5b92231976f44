package responses

import (
	"bowell-service/internal/app/models"
	"time"
)

// RecordingListItem is a recording as shown in the uploader's list.
type RecordingListItem struct {
	ID                 int64                     `json:"id"`
	Uploader           *int64                    `json:"uploader"`
	File               string                    `json:"file"`
	Name               string                    `json:"name"`
	UploadedAt         time.Time                 `json:"uploaded_at"`
	LatestAnalysisDate *time.Time                `json:"latest_analysis_date"`
	Examination        *models.ExaminationDetail `json:"examination"`
}

type RecordingCreated struct {
	ID          int64  `json:"id"`
	File        string `json:"file"`
	Name        string `json:"name"`
	Examination int64  `json:"examination"`
}
