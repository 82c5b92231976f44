package mocks

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/requests"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type ExaminationRepository struct {
	mock.Mock
}

func (m *ExaminationRepository) CreateExamination(ctx context.Context, examination *models.Examination) (int64, error) {
	args := m.Called(ctx, examination)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ExaminationRepository) FindByID(ctx context.Context, examinationID int64) (*models.Examination, error) {
	args := m.Called(ctx, examinationID)
	if examination := args.Get(0); examination != nil {
		return examination.(*models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationRepository) FindByRecordingID(ctx context.Context, recordingID int64) (*models.Examination, error) {
	args := m.Called(ctx, recordingID)
	if examination := args.Get(0); examination != nil {
		return examination.(*models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationRepository) FindAll(ctx context.Context, scope *models.ExaminationScope) ([]models.Examination, error) {
	args := m.Called(ctx, scope)
	if examinations := args.Get(0); examinations != nil {
		return examinations.([]models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationRepository) UpdateExamination(ctx context.Context, examinationID int64, update *models.ExaminationUpdate) (bool, error) {
	args := m.Called(ctx, examinationID, update)
	return args.Bool(0), args.Error(1)
}

func (m *ExaminationRepository) ApplyTransition(ctx context.Context, transition *models.StatusTransition) (bool, error) {
	args := m.Called(ctx, transition)
	return args.Bool(0), args.Error(1)
}

func (m *ExaminationRepository) FindStuckInProcessing(ctx context.Context, changedBefore time.Time) ([]models.Examination, error) {
	args := m.Called(ctx, changedBefore)
	if examinations := args.Get(0); examinations != nil {
		return examinations.([]models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationRepository) GetDoctorStatistics(ctx context.Context, doctorID int64, now time.Time) (*models.ExaminationStatistics, error) {
	args := m.Called(ctx, doctorID, now)
	if statistics := args.Get(0); statistics != nil {
		return statistics.(*models.ExaminationStatistics), args.Error(1)
	}
	return nil, args.Error(1)
}

type ExaminationUsecase struct {
	mock.Mock
}

func (m *ExaminationUsecase) ListExaminations(ctx context.Context, principal *models.Principal) ([]models.Examination, error) {
	args := m.Called(ctx, principal)
	if examinations := args.Get(0); examinations != nil {
		return examinations.([]models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationUsecase) CreateExamination(ctx context.Context, principal *models.Principal, request *requests.CreateExamination) (*models.Examination, error) {
	args := m.Called(ctx, principal, request)
	if examination := args.Get(0); examination != nil {
		return examination.(*models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationUsecase) GetExamination(ctx context.Context, principal *models.Principal, examinationID int64) (*models.Examination, error) {
	args := m.Called(ctx, principal, examinationID)
	if examination := args.Get(0); examination != nil {
		return examination.(*models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationUsecase) UpdateExamination(ctx context.Context, principal *models.Principal, examinationID int64, request *requests.UpdateExamination) (*models.Examination, error) {
	args := m.Called(ctx, principal, examinationID, request)
	if examination := args.Get(0); examination != nil {
		return examination.(*models.Examination), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExaminationUsecase) GetStatistics(ctx context.Context, principal *models.Principal) (*models.ExaminationStatistics, error) {
	args := m.Called(ctx, principal)
	if statistics := args.Get(0); statistics != nil {
		return statistics.(*models.ExaminationStatistics), args.Error(1)
	}
	return nil, args.Error(1)
}
