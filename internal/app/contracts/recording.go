package contracts

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"context"
	"time"
)

type RecordingUsecase interface {
	ListRecordings(ctx context.Context, principal *models.Principal) ([]responses.RecordingListItem, error)
	CreateRecording(ctx context.Context, principal *models.Principal, request *requests.CreateRecording) (*responses.RecordingCreated, error)
	GetRecording(ctx context.Context, principal *models.Principal, recordingID int64) (*models.Recording, error)
	UpdateRecording(ctx context.Context, principal *models.Principal, recordingID int64, request *requests.UpdateRecording) (*models.Recording, error)
	DetachRecording(ctx context.Context, principal *models.Principal, recordingID int64) error
}

type RecordingRepository interface {
	CreateRecording(ctx context.Context, recording *models.Recording) (recordingID int64, err error)
	FindByID(ctx context.Context, recordingID int64) (*models.Recording, error)
	FindByUploaderID(ctx context.Context, uploaderID int64) ([]models.Recording, error)
	// UpdateAnalysisResult overwrites the non-nil fields of result. When
	// analysedAt is set latest_analysis_date is updated as well.
	UpdateAnalysisResult(ctx context.Context, recordingID int64, result *models.AnalysisResult, analysedAt *time.Time) error
	DeleteByID(ctx context.Context, recordingID int64) error
}
