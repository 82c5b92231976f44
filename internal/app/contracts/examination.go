package contracts

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"
	"time"
)

type ExaminationUsecase interface {
	ListExaminations(ctx context.Context, principal *models.Principal) ([]models.Examination, error)
	CreateExamination(ctx context.Context, principal *models.Principal, request *requests.CreateExamination) (*models.Examination, error)
	GetExamination(ctx context.Context, principal *models.Principal, examinationID int64) (*models.Examination, error)
	UpdateExamination(ctx context.Context, principal *models.Principal, examinationID int64, request *requests.UpdateExamination) (*models.Examination, error)
	GetStatistics(ctx context.Context, principal *models.Principal) (*models.ExaminationStatistics, error)
}

type ExaminationRepository interface {
	CreateExamination(ctx context.Context, examination *models.Examination) (examinationID int64, err error)
	FindByID(ctx context.Context, examinationID int64) (*models.Examination, error)
	FindByRecordingID(ctx context.Context, recordingID int64) (*models.Examination, error)
	FindAll(ctx context.Context, scope *models.ExaminationScope) ([]models.Examination, error)
	UpdateExamination(ctx context.Context, examinationID int64, update *models.ExaminationUpdate) (applied bool, err error)
	// ApplyTransition reports false when the examination did not match the
	// transition preconditions and nothing was written.
	ApplyTransition(ctx context.Context, transition *models.StatusTransition) (applied bool, err error)
	FindStuckInProcessing(ctx context.Context, changedBefore time.Time) ([]models.Examination, error)
	GetDoctorStatistics(ctx context.Context, doctorID int64, now time.Time) (*models.ExaminationStatistics, error)
}
