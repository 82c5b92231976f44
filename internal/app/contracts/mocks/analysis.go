package mocks

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/responses"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type AnalysisUsecase struct {
	mock.Mock
}

func (m *AnalysisUsecase) Dispatch(ctx context.Context, principal *models.Principal, examinationID int64) (*responses.DispatchAnalysis, error) {
	args := m.Called(ctx, principal, examinationID)
	if out := args.Get(0); out != nil {
		return out.(*responses.DispatchAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisUsecase) GetStatus(ctx context.Context, principal *models.Principal, examinationID int64) (*models.AnalysisStatus, error) {
	args := m.Called(ctx, principal, examinationID)
	if out := args.Get(0); out != nil {
		return out.(*models.AnalysisStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisUsecase) ListRuns(ctx context.Context, principal *models.Principal, recordingID int64) ([]models.AnalysisRun, error) {
	args := m.Called(ctx, principal, recordingID)
	if out := args.Get(0); out != nil {
		return out.([]models.AnalysisRun), args.Error(1)
	}
	return nil, args.Error(1)
}

type AnalysisProcessor struct {
	mock.Mock
}

func (m *AnalysisProcessor) Process(ctx context.Context, job *models.AnalysisJob) models.AnalysisJobOutcome {
	args := m.Called(ctx, job)
	return args.Get(0).(models.AnalysisJobOutcome)
}

func (m *AnalysisProcessor) FailStale(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type AnalysisRunRepository struct {
	mock.Mock
}

func (m *AnalysisRunRepository) CreateRun(ctx context.Context, run *models.AnalysisRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *AnalysisRunRepository) FindByID(ctx context.Context, analysisID string) (*models.AnalysisRun, error) {
	args := m.Called(ctx, analysisID)
	if run := args.Get(0); run != nil {
		return run.(*models.AnalysisRun), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisRunRepository) FindByRecordingID(ctx context.Context, recordingID int64) ([]models.AnalysisRun, error) {
	args := m.Called(ctx, recordingID)
	if runs := args.Get(0); runs != nil {
		return runs.([]models.AnalysisRun), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisRunRepository) UpdateRun(ctx context.Context, analysisID string, update *models.AnalysisRunUpdate) error {
	args := m.Called(ctx, analysisID, update)
	return args.Error(0)
}

type InferenceClient struct {
	mock.Mock
}

func (m *InferenceClient) Analyze(ctx context.Context, in *contracts.AnalyzeRecordingInput) (*models.InferenceOutcome, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*models.InferenceOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

type AnalysisQueue struct {
	mock.Mock
}

func (m *AnalysisQueue) Enqueue(ctx context.Context, in *contracts.EnqueueAnalysisJobInput) (*contracts.EnqueueAnalysisJobOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*contracts.EnqueueAnalysisJobOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisQueue) Reenqueue(ctx context.Context, in *contracts.ReenqueueAnalysisJobInput) (*contracts.ReenqueueAnalysisJobOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*contracts.ReenqueueAnalysisJobOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisQueue) EnqueueToDeadQueue(ctx context.Context, in *contracts.EnqueueAnalysisJobToDLQInput) (*contracts.EnqueueAnalysisJobToDLQOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*contracts.EnqueueAnalysisJobToDLQOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisQueue) FetchN(ctx context.Context, in *contracts.FetchAnalysisJobsInput) (*contracts.FetchAnalysisJobsOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*contracts.FetchAnalysisJobsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalysisQueue) AckMessage(ctx context.Context, in *contracts.AckAnalysisJobInput) (*contracts.AckAnalysisJobOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*contracts.AckAnalysisJobOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Send(ctx context.Context, userID int64, event *models.Event) error {
	args := m.Called(ctx, userID, event)
	return args.Error(0)
}

func (m *Notifier) Subscribe(ctx context.Context, userID int64) (contracts.Subscription, error) {
	args := m.Called(ctx, userID)
	if sub := args.Get(0); sub != nil {
		return sub.(contracts.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}
