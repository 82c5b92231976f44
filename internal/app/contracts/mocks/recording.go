package mocks

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type RecordingRepository struct {
	mock.Mock
}

func (m *RecordingRepository) CreateRecording(ctx context.Context, recording *models.Recording) (int64, error) {
	args := m.Called(ctx, recording)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RecordingRepository) FindByID(ctx context.Context, recordingID int64) (*models.Recording, error) {
	args := m.Called(ctx, recordingID)
	if recording := args.Get(0); recording != nil {
		return recording.(*models.Recording), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingRepository) FindByUploaderID(ctx context.Context, uploaderID int64) ([]models.Recording, error) {
	args := m.Called(ctx, uploaderID)
	if recordings := args.Get(0); recordings != nil {
		return recordings.([]models.Recording), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingRepository) UpdateAnalysisResult(ctx context.Context, recordingID int64, result *models.AnalysisResult, analysedAt *time.Time) error {
	args := m.Called(ctx, recordingID, result, analysedAt)
	return args.Error(0)
}

func (m *RecordingRepository) DeleteByID(ctx context.Context, recordingID int64) error {
	args := m.Called(ctx, recordingID)
	return args.Error(0)
}

type RecordingUsecase struct {
	mock.Mock
}

func (m *RecordingUsecase) ListRecordings(ctx context.Context, principal *models.Principal) ([]responses.RecordingListItem, error) {
	args := m.Called(ctx, principal)
	if items := args.Get(0); items != nil {
		return items.([]responses.RecordingListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingUsecase) CreateRecording(ctx context.Context, principal *models.Principal, request *requests.CreateRecording) (*responses.RecordingCreated, error) {
	args := m.Called(ctx, principal, request)
	if created := args.Get(0); created != nil {
		return created.(*responses.RecordingCreated), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingUsecase) GetRecording(ctx context.Context, principal *models.Principal, recordingID int64) (*models.Recording, error) {
	args := m.Called(ctx, principal, recordingID)
	if recording := args.Get(0); recording != nil {
		return recording.(*models.Recording), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingUsecase) UpdateRecording(ctx context.Context, principal *models.Principal, recordingID int64, request *requests.UpdateRecording) (*models.Recording, error) {
	args := m.Called(ctx, principal, recordingID, request)
	if recording := args.Get(0); recording != nil {
		return recording.(*models.Recording), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordingUsecase) DetachRecording(ctx context.Context, principal *models.Principal, recordingID int64) error {
	args := m.Called(ctx, principal, recordingID)
	return args.Error(0)
}
