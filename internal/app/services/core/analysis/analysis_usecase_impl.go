package analysis

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/app/services/core/examinations"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/metrics"
	"bowell-service/internal/pkg/utils"
	"context"
	"time"

	"go.uber.org/zap"
)

type analysisUsecase struct {
	ExaminationRepository contracts.ExaminationRepository
	RecordingRepository   contracts.RecordingRepository
	RunRepository         contracts.AnalysisRunRepository
	Queue                 contracts.AnalysisQueue
	Metrics               *metrics.Collector
	Log                   *zap.Logger
	now                   func() time.Time
	newID                 func() string
}

func NewAnalysisUsecase(
	examinationRepository contracts.ExaminationRepository,
	recordingRepository contracts.RecordingRepository,
	runRepository contracts.AnalysisRunRepository,
	queue contracts.AnalysisQueue,
	collector *metrics.Collector,
	logger *zap.Logger,
) contracts.AnalysisUsecase {
	return &analysisUsecase{
		ExaminationRepository: examinationRepository,
		RecordingRepository:   recordingRepository,
		RunRepository:         runRepository,
		Queue:                 queue,
		Metrics:               collector,
		Log:                   logger,
		now:                   time.Now,
		newID:                 utils.GenerateAnalysisID,
	}
}

// Dispatch moves the examination to file_processing under a fresh analysis id
// and queues the job for the worker.
func (uc *analysisUsecase) Dispatch(ctx context.Context, principal *models.Principal, examinationID int64) (*responses.DispatchAnalysis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.Dispatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)

	examination, err := uc.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		return nil, err
	}
	if examination == nil || !examinations.CanView(principal, examination) {
		return nil, exceptions.ErrNotFound(nil, "examination")
	}
	if !principal.IsStaff && !principal.IsSuperuser && !examination.IsOwnedByDoctor(principal.UserID) {
		return nil, exceptions.ErrPermissionDenied(nil)
	}
	if examination.RecordingID == nil || examination.Recording == nil {
		return nil, exceptions.ErrExaminationHasNoRecording(nil)
	}
	if examination.Status == models.ExaminationStatusFileProcessing {
		return nil, exceptions.ErrAnalysisAlreadyRunning(nil)
	}

	analysisID := uc.newID()
	applied, err := uc.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID: examination.ID,
		From:          models.SourcesOf(models.ExaminationStatusFileProcessing),
		To:            models.ExaminationStatusFileProcessing,
		SetAnalysisID: &analysisID,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, uc.dispatchConflict(ctx, examination.ID)
	}

	run := &models.AnalysisRun{
		AnalysisID:    analysisID,
		ExaminationID: examination.ID,
		RecordingID:   *examination.RecordingID,
		RequestedBy:   principal.UserID,
		Status:        models.AnalysisRunStatusPending,
	}
	if err := uc.RunRepository.CreateRun(ctx, run); err != nil {
		uc.Log.Warn("analysisUsecase.Dispatch error archiving analysis run",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
	}

	notifyUserID := principal.UserID
	if principal.IsService && examination.DoctorID != nil {
		notifyUserID = *examination.DoctorID
	}
	job := models.AnalysisJob{
		AnalysisID:    analysisID,
		ExaminationID: examination.ID,
		RecordingID:   *examination.RecordingID,
		File:          examination.Recording.File,
		UserID:        notifyUserID,
		RequestID:     requestID,
	}
	if _, err := uc.Queue.Enqueue(ctx, &contracts.EnqueueAnalysisJobInput{Job: job}); err != nil {
		uc.Log.Error("analysisUsecase.Dispatch error publishing analysis job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
		uc.abortDispatch(ctx, examination.ID, analysisID, err)
		return nil, err
	}
	uc.Metrics.AnalysisDispatched()

	uc.Log.Info("analysisUsecase.Dispatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalysisIDKey, analysisID),
		zap.Int64(constvars.LoggingExaminationIDKey, examination.ID),
	)
	return &responses.DispatchAnalysis{
		TaskID: analysisID,
		Status: models.AnalysisRunStatusPending,
	}, nil
}

func (uc *analysisUsecase) GetStatus(ctx context.Context, principal *models.Principal, examinationID int64) (*models.AnalysisStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.GetStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)

	examination, err := uc.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		return nil, err
	}
	if examination == nil || !examinations.CanView(principal, examination) {
		return nil, exceptions.ErrNotFound(nil, "examination")
	}
	if examination.AnalysisID == nil {
		return nil, exceptions.ErrNotFound(nil, "analysis")
	}

	status := &models.AnalysisStatus{
		TaskID: *examination.AnalysisID,
		Status: runStatusOf(examination.Status),
	}
	run, err := uc.RunRepository.FindByID(ctx, *examination.AnalysisID)
	if err != nil {
		uc.Log.Warn("analysisUsecase.GetStatus error reading analysis run, using examination status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	} else if run != nil {
		status.Status = run.Status
	}

	if status.Status == models.AnalysisRunStatusSuccess && examination.RecordingID != nil {
		recording, err := uc.RecordingRepository.FindByID(ctx, *examination.RecordingID)
		if err != nil {
			return nil, err
		}
		status.Result = recording
	}
	return status, nil
}

func (uc *analysisUsecase) ListRuns(ctx context.Context, principal *models.Principal, recordingID int64) ([]models.AnalysisRun, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("analysisUsecase.ListRuns called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	recording, err := uc.RecordingRepository.FindByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	ownsRecording := recording != nil && recording.UploaderID != nil && *recording.UploaderID == principal.UserID
	if recording == nil || !(ownsRecording || principal.IsStaff || principal.IsSuperuser) {
		return nil, exceptions.ErrNotFound(nil, "recording")
	}
	return uc.RunRepository.FindByRecordingID(ctx, recordingID)
}

func (uc *analysisUsecase) dispatchConflict(ctx context.Context, examinationID int64) error {
	current, err := uc.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		return err
	}
	if current == nil {
		return exceptions.ErrNotFound(nil, "examination")
	}
	if current.Status == models.ExaminationStatusFileProcessing {
		return exceptions.ErrAnalysisAlreadyRunning(nil)
	}
	return exceptions.ErrInvalidStatusTransition(nil, string(current.Status), string(models.ExaminationStatusFileProcessing))
}

// abortDispatch marks a dispatch whose job never reached the queue as failed.
func (uc *analysisUsecase) abortDispatch(ctx context.Context, examinationID int64, analysisID string, cause error) {
	if _, err := uc.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID:      examinationID,
		From:               []models.ExaminationStatus{models.ExaminationStatusFileProcessing},
		To:                 models.ExaminationStatusProcessingFailed,
		ExpectedAnalysisID: &analysisID,
	}); err != nil {
		uc.Log.Error("analysisUsecase.Dispatch error reverting examination status",
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
	}

	reason := cause.Error()
	finishedAt := uc.now()
	if err := uc.RunRepository.UpdateRun(ctx, analysisID, &models.AnalysisRunUpdate{
		Status:     models.AnalysisRunStatusFailure,
		Error:      &reason,
		FinishedAt: &finishedAt,
	}); err != nil {
		uc.Log.Warn("analysisUsecase.Dispatch error archiving failed run",
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
	}
}

func runStatusOf(status models.ExaminationStatus) models.AnalysisRunStatus {
	switch status {
	case models.ExaminationStatusFileProcessing:
		return models.AnalysisRunStatusPending
	case models.ExaminationStatusProcessingFailed:
		return models.AnalysisRunStatusFailure
	}
	return models.AnalysisRunStatusSuccess
}
