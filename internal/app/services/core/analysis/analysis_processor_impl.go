package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/app/services/shared/storage"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const errStaleAnalysis = "analysis did not finish in time"

// ProcessorConfig holds the tunables of the analysis processor.
type ProcessorConfig struct {
	BucketName       string
	MaxRetries       int
	RecordingLockTTL time.Duration
	StaleAfter       time.Duration
}

func NewProcessorConfig(cfg *config.InternalConfig) ProcessorConfig {
	return ProcessorConfig{
		BucketName:       cfg.Minio.BucketName,
		MaxRetries:       cfg.Analysis.MaxRetries,
		RecordingLockTTL: time.Duration(cfg.Analysis.RecordingLockTTLInSeconds) * time.Second,
		StaleAfter:       time.Duration(cfg.Analysis.StaleAfterInMinutes) * time.Minute,
	}
}

type analysisProcessor struct {
	ExaminationRepository contracts.ExaminationRepository
	RecordingRepository   contracts.RecordingRepository
	RunRepository         contracts.AnalysisRunRepository
	Storage               contracts.Storage
	URLSigner             *storage.ObjectURLSigner
	InferenceClient       contracts.InferenceClient
	Notifier              contracts.Notifier
	Locker                contracts.LockerService
	Metrics               *metrics.Collector
	Config                ProcessorConfig
	Log                   *zap.Logger
	now                   func() time.Time
}

func NewAnalysisProcessor(
	examinationRepository contracts.ExaminationRepository,
	recordingRepository contracts.RecordingRepository,
	runRepository contracts.AnalysisRunRepository,
	fileStorage contracts.Storage,
	urlSigner *storage.ObjectURLSigner,
	inferenceClient contracts.InferenceClient,
	notifier contracts.Notifier,
	locker contracts.LockerService,
	collector *metrics.Collector,
	processorConfig ProcessorConfig,
	logger *zap.Logger,
) contracts.AnalysisProcessor {
	if processorConfig.MaxRetries <= 0 {
		processorConfig.MaxRetries = 1
	}
	if processorConfig.RecordingLockTTL <= 0 {
		processorConfig.RecordingLockTTL = 5 * time.Minute
	}
	if processorConfig.StaleAfter <= 0 {
		processorConfig.StaleAfter = 30 * time.Minute
	}
	return &analysisProcessor{
		ExaminationRepository: examinationRepository,
		RecordingRepository:   recordingRepository,
		RunRepository:         runRepository,
		Storage:               fileStorage,
		URLSigner:             urlSigner,
		InferenceClient:       inferenceClient,
		Notifier:              notifier,
		Locker:                locker,
		Metrics:               collector,
		Config:                processorConfig,
		Log:                   logger,
		now:                   time.Now,
	}
}

// Process runs one analysis job. The returned outcome decides whether the
// delivery is acked, requeued or dead-lettered.
func (p *analysisProcessor) Process(ctx context.Context, job *models.AnalysisJob) models.AnalysisJobOutcome {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, job.RequestID)
	fields := jobFields(job)
	p.Log.Info("analysisProcessor.Process called", fields...)

	lockKey := fmt.Sprintf(constvars.RecordingLockKeyFormat, job.RecordingID)
	acquired, lockValue, err := p.Locker.TryLock(ctx, lockKey, p.Config.RecordingLockTTL)
	if err != nil {
		p.Log.Warn("analysisProcessor.Process error acquiring recording lock", append(fields, zap.Error(err))...)
		return models.AnalysisJobRequeue
	}
	if !acquired {
		p.Log.Info("analysisProcessor.Process "+constvars.ErrDevRecordingLockNotAcquired, fields...)
		return models.AnalysisJobRequeue
	}
	defer func() {
		if err := p.Locker.Unlock(ctx, lockKey, lockValue); err != nil {
			p.Log.Warn("analysisProcessor.Process error releasing recording lock", append(fields, zap.Error(err))...)
		}
	}()

	examination, err := p.ExaminationRepository.FindByID(ctx, job.ExaminationID)
	if err != nil {
		return p.handleFailure(ctx, job, exceptions.MarkRetryable(err))
	}
	if examination == nil || examination.AnalysisID == nil || *examination.AnalysisID != job.AnalysisID {
		p.Log.Info("analysisProcessor.Process skipping superseded job", fields...)
		p.updateRun(ctx, job.AnalysisID, &models.AnalysisRunUpdate{
			Status:     models.AnalysisRunStatusFailure,
			Error:      stringPtr("analysis was superseded"),
			FinishedAt: timePtr(p.now()),
		})
		return models.AnalysisJobDone
	}
	if examination.Status != models.ExaminationStatusFileProcessing {
		p.Log.Info("analysisProcessor.Process skipping finished job",
			append(fields, zap.String(constvars.LoggingStatusKey, string(examination.Status)))...)
		return models.AnalysisJobDone
	}

	attempts := job.FailedCount + 1
	p.updateRun(ctx, job.AnalysisID, &models.AnalysisRunUpdate{
		Status:    models.AnalysisRunStatusStarted,
		Attempts:  &attempts,
		StartedAt: timePtr(p.now()),
	})
	p.notify(ctx, job.UserID, &models.Event{
		Type:    models.EventTypeNotify,
		Message: fmt.Sprintf(constvars.AnalysisStartedMessageFormat, job.RecordingID),
	})

	outcome, err := p.analyze(ctx, job)
	if err != nil {
		return p.handleFailure(ctx, job, err)
	}
	p.notify(ctx, job.UserID, &models.Event{
		Type:    models.EventTypeNotify,
		Message: constvars.AnalysisResponseReceivedMessage,
	})

	analysedAt := p.now()
	if err := p.RecordingRepository.UpdateAnalysisResult(ctx, job.RecordingID, &outcome.Result, &analysedAt); err != nil {
		return p.handleFailure(ctx, job, exceptions.MarkRetryable(err))
	}

	applied, err := p.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID:      job.ExaminationID,
		From:               []models.ExaminationStatus{models.ExaminationStatusFileProcessing},
		To:                 models.ExaminationStatusProcessingSucceeded,
		ExpectedAnalysisID: &job.AnalysisID,
	})
	if err != nil {
		return p.handleFailure(ctx, job, exceptions.MarkRetryable(err))
	}
	if !applied {
		p.Log.Warn("analysisProcessor.Process examination changed while analysing, result kept on recording only", fields...)
		return models.AnalysisJobDone
	}

	p.updateRun(ctx, job.AnalysisID, &models.AnalysisRunUpdate{
		Status:        models.AnalysisRunStatusSuccess,
		UsedMockModel: &outcome.UsedMock,
		FinishedAt:    timePtr(p.now()),
	})
	p.notifyExamination(ctx, job.UserID, job.ExaminationID, fmt.Sprintf(constvars.AnalysisCompletedMessageFormat, job.RecordingID))
	p.Metrics.AnalysisCompleted("success")

	p.Log.Info("analysisProcessor.Process succeeded", fields...)
	return models.AnalysisJobDone
}

// FailStale fails every examination left in file_processing for longer than
// the configured threshold.
func (p *analysisProcessor) FailStale(ctx context.Context, now time.Time) (int, error) {
	stuck, err := p.ExaminationRepository.FindStuckInProcessing(ctx, now.Add(-p.Config.StaleAfter))
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, examination := range stuck {
		var userID, recordingID int64
		if examination.DoctorID != nil {
			userID = *examination.DoctorID
		}
		if examination.RecordingID != nil {
			recordingID = *examination.RecordingID
		}
		applied, err := p.failExamination(ctx, examination.ID, examination.AnalysisID, userID, recordingID, errStaleAnalysis)
		if err != nil {
			return failed, err
		}
		if applied {
			failed++
			p.Metrics.AnalysisCompleted("stale")
		}
	}

	if failed > 0 {
		p.Log.Info("analysisProcessor.FailStale failed stuck examinations", zap.Int(constvars.LoggingCountKey, failed))
	}
	return failed, nil
}

func (p *analysisProcessor) analyze(ctx context.Context, job *models.AnalysisJob) (*models.InferenceOutcome, error) {
	object, err := p.Storage.GetObject(ctx, p.Config.BucketName, job.File)
	if err != nil {
		return nil, exceptions.MarkRetryable(err)
	}
	defer object.Close()

	return p.InferenceClient.Analyze(ctx, &contracts.AnalyzeRecordingInput{
		RecordingID: job.RecordingID,
		FileName:    path.Base(job.File),
		File:        object,
	})
}

func (p *analysisProcessor) handleFailure(ctx context.Context, job *models.AnalysisJob, cause error) models.AnalysisJobOutcome {
	fields := append(jobFields(job), zap.Error(cause))
	retryable := exceptions.IsRetryable(cause)

	if retryable && job.FailedCount+1 < p.Config.MaxRetries {
		p.Log.Warn("analysisProcessor.Process retryable failure, job will be retried", fields...)
		p.updateRun(ctx, job.AnalysisID, &models.AnalysisRunUpdate{
			Status: models.AnalysisRunStatusRetry,
			Error:  stringPtr(cause.Error()),
		})
		p.notify(ctx, job.UserID, &models.Event{
			Type:    models.EventTypeNotify,
			Message: fmt.Sprintf(constvars.AnalysisRetryScheduledMessageFormat, job.RecordingID, job.FailedCount+2),
		})
		p.Metrics.AnalysisCompleted("retry")
		return models.AnalysisJobRetry
	}

	p.Log.Error("analysisProcessor.Process analysis failed", fields...)
	if _, err := p.failExamination(ctx, job.ExaminationID, &job.AnalysisID, job.UserID, job.RecordingID, cause.Error()); err != nil {
		p.Log.Error("analysisProcessor.Process error marking examination failed", append(jobFields(job), zap.Error(err))...)
	}

	if retryable {
		p.Metrics.AnalysisCompleted("dead_letter")
		return models.AnalysisJobDeadLetter
	}
	p.Metrics.AnalysisCompleted("failure")
	return models.AnalysisJobDone
}

// failExamination moves the examination to processing_failed when it is still
// processing analysisID, then archives the failure and tells the user.
func (p *analysisProcessor) failExamination(ctx context.Context, examinationID int64, analysisID *string, userID, recordingID int64, reason string) (bool, error) {
	applied, err := p.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID:      examinationID,
		From:               []models.ExaminationStatus{models.ExaminationStatusFileProcessing},
		To:                 models.ExaminationStatusProcessingFailed,
		ExpectedAnalysisID: analysisID,
	})
	if err != nil || !applied {
		return false, err
	}

	if analysisID != nil {
		p.updateRun(ctx, *analysisID, &models.AnalysisRunUpdate{
			Status:     models.AnalysisRunStatusFailure,
			Error:      &reason,
			FinishedAt: timePtr(p.now()),
		})
	}
	p.notifyExamination(ctx, userID, examinationID, fmt.Sprintf(constvars.AnalysisFailedMessageFormat, recordingID))
	return true, nil
}

func (p *analysisProcessor) updateRun(ctx context.Context, analysisID string, update *models.AnalysisRunUpdate) {
	if err := p.RunRepository.UpdateRun(ctx, analysisID, update); err != nil {
		p.Log.Warn("analysisProcessor error updating analysis run",
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.String(constvars.LoggingStatusKey, string(update.Status)),
			zap.Error(err),
		)
	}
}

func (p *analysisProcessor) notifyExamination(ctx context.Context, userID, examinationID int64, message string) {
	event := &models.Event{Type: models.EventTypeUpdateExamination, Message: message}

	examination, err := p.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		p.Log.Warn("analysisProcessor error loading examination for notification",
			zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
			zap.Error(err),
		)
	}
	if examination != nil {
		p.URLSigner.SignExamination(ctx, examination)
		if payload, err := json.Marshal(examination); err == nil {
			event.Payload = payload
		}
	}
	p.notify(ctx, userID, event)
}

func (p *analysisProcessor) notify(ctx context.Context, userID int64, event *models.Event) {
	if userID == 0 {
		return
	}
	if err := p.Notifier.Send(ctx, userID, event); err != nil {
		p.Log.Warn("analysisProcessor error sending notification",
			zap.Int64(constvars.LoggingUserIDKey, userID),
			zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
			zap.Error(err),
		)
	}
}

func jobFields(job *models.AnalysisJob) []zap.Field {
	return []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, job.RequestID),
		zap.String(constvars.LoggingAnalysisIDKey, job.AnalysisID),
		zap.Int64(constvars.LoggingExaminationIDKey, job.ExaminationID),
		zap.Int64(constvars.LoggingRecordingIDKey, job.RecordingID),
		zap.Int(constvars.LoggingFailedCountKey, job.FailedCount),
	}
}

func stringPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }
