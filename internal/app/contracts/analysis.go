package contracts

import (
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/dto/responses"
	"context"
	"io"
	"time"
)

type AnalysisUsecase interface {
	Dispatch(ctx context.Context, principal *models.Principal, examinationID int64) (*responses.DispatchAnalysis, error)
	GetStatus(ctx context.Context, principal *models.Principal, examinationID int64) (*models.AnalysisStatus, error)
	ListRuns(ctx context.Context, principal *models.Principal, recordingID int64) ([]models.AnalysisRun, error)
}

// AnalysisProcessor runs a single queued job and tells the worker what to do
// with the delivery.
type AnalysisProcessor interface {
	Process(ctx context.Context, job *models.AnalysisJob) models.AnalysisJobOutcome
	FailStale(ctx context.Context, now time.Time) (failed int, err error)
}

type AnalysisRunRepository interface {
	CreateRun(ctx context.Context, run *models.AnalysisRun) error
	FindByID(ctx context.Context, analysisID string) (*models.AnalysisRun, error)
	FindByRecordingID(ctx context.Context, recordingID int64) ([]models.AnalysisRun, error)
	UpdateRun(ctx context.Context, analysisID string, update *models.AnalysisRunUpdate) error
}

type AnalyzeRecordingInput struct {
	RecordingID int64
	FileName    string
	File        io.Reader
}

type InferenceClient interface {
	Analyze(ctx context.Context, in *AnalyzeRecordingInput) (*models.InferenceOutcome, error)
}

type EnqueueAnalysisJobInput struct {
	Job models.AnalysisJob
}

type EnqueueAnalysisJobOutput struct{}

type ReenqueueAnalysisJobInput struct {
	Job models.AnalysisJob
}

type ReenqueueAnalysisJobOutput struct{}

type EnqueueAnalysisJobToDLQInput struct {
	Job models.AnalysisJob
}

type EnqueueAnalysisJobToDLQOutput struct{}

type FetchAnalysisJobsInput struct {
	Max int
}

// QueuedAnalysisJob is a fetched delivery and its decoded payload.
type QueuedAnalysisJob struct {
	DeliveryTag uint64
	Job         models.AnalysisJob
}

type FetchAnalysisJobsOutput struct {
	Items []QueuedAnalysisJob
}

type AckAnalysisJobInput struct {
	DeliveryTag uint64
}

type AckAnalysisJobOutput struct{}

type AnalysisQueue interface {
	Enqueue(ctx context.Context, in *EnqueueAnalysisJobInput) (*EnqueueAnalysisJobOutput, error)
	Reenqueue(ctx context.Context, in *ReenqueueAnalysisJobInput) (*ReenqueueAnalysisJobOutput, error)
	EnqueueToDeadQueue(ctx context.Context, in *EnqueueAnalysisJobToDLQInput) (*EnqueueAnalysisJobToDLQOutput, error)
	FetchN(ctx context.Context, in *FetchAnalysisJobsInput) (*FetchAnalysisJobsOutput, error)
	AckMessage(ctx context.Context, in *AckAnalysisJobInput) (*AckAnalysisJobOutput, error)
}
