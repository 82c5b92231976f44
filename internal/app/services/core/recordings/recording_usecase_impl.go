package recordings

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/app/services/shared/storage"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"

	"go.uber.org/zap"
)

type recordingUsecase struct {
	RecordingRepository   contracts.RecordingRepository
	ExaminationRepository contracts.ExaminationRepository
	Storage               contracts.Storage
	URLSigner             *storage.ObjectURLSigner
	BucketName            string
	Log                   *zap.Logger
}

func NewRecordingUsecase(
	recordingRepository contracts.RecordingRepository,
	examinationRepository contracts.ExaminationRepository,
	fileStorage contracts.Storage,
	urlSigner *storage.ObjectURLSigner,
	bucketName string,
	logger *zap.Logger,
) contracts.RecordingUsecase {
	return &recordingUsecase{
		RecordingRepository:   recordingRepository,
		ExaminationRepository: examinationRepository,
		Storage:               fileStorage,
		URLSigner:             urlSigner,
		BucketName:            bucketName,
		Log:                   logger,
	}
}

// ListRecordings returns the recordings uploaded by a doctor, each with the
// examination it is attached to.
func (uc *recordingUsecase) ListRecordings(ctx context.Context, principal *models.Principal) ([]responses.RecordingListItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("recordingUsecase.ListRecordings called", zap.String(constvars.LoggingRequestIDKey, requestID))

	items := make([]responses.RecordingListItem, 0)
	if !principal.IsDoctor() {
		return items, nil
	}

	recordings, err := uc.RecordingRepository.FindByUploaderID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	for _, recording := range recordings {
		examination, err := uc.ExaminationRepository.FindByRecordingID(ctx, recording.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, responses.RecordingListItem{
			ID:                 recording.ID,
			Uploader:           recording.UploaderID,
			File:               uc.URLSigner.Sign(ctx, recording.File),
			Name:               recording.Name,
			UploadedAt:         recording.UploadedAt,
			LatestAnalysisDate: recording.LatestAnalysisDate,
			Examination:        examination.Detail(),
		})
	}
	return items, nil
}

// CreateRecording stores the file, then attaches the new recording to the
// examination and moves it to file_uploaded in one conditional update.
func (uc *recordingUsecase) CreateRecording(ctx context.Context, principal *models.Principal, request *requests.CreateRecording) (*responses.RecordingCreated, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("recordingUsecase.CreateRecording called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, request.Examination),
	)

	examination, err := uc.ExaminationRepository.FindByID(ctx, request.Examination)
	if err != nil {
		return nil, err
	}
	if examination == nil || !examination.IsOwnedByDoctor(principal.UserID) {
		return nil, exceptions.ErrInvalidRelatedObject(nil, request.Examination)
	}
	if examination.RecordingID != nil {
		return nil, exceptions.ErrRecordingAlreadyAssigned(nil)
	}

	objectName, err := uc.Storage.UploadFile(ctx, &contracts.UploadFileInput{
		BucketName:  uc.BucketName,
		ObjectName:  utils.GenerateRecordingObjectName(principal.UserID),
		ContentType: request.ContentType,
		Size:        request.Size,
		File:        request.File,
	})
	if err != nil {
		return nil, err
	}

	recording := &models.Recording{
		UploaderID: &principal.UserID,
		File:       objectName,
		Name:       request.Name,
	}
	recordingID, err := uc.RecordingRepository.CreateRecording(ctx, recording)
	if err != nil {
		return nil, err
	}

	applied, err := uc.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID:  examination.ID,
		From:           models.SourcesOf(models.ExaminationStatusFileUploaded),
		To:             models.ExaminationStatusFileUploaded,
		SetRecordingID: &recordingID,
	})
	if err == nil && !applied {
		err = uc.attachFailure(ctx, examination.ID)
	}
	if err != nil {
		if deleteErr := uc.RecordingRepository.DeleteByID(ctx, recordingID); deleteErr != nil {
			uc.Log.Warn("recordingUsecase.CreateRecording error removing unattached recording",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
				zap.Error(deleteErr),
			)
		}
		return nil, err
	}

	uc.Log.Info("recordingUsecase.CreateRecording succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
		zap.Int64(constvars.LoggingExaminationIDKey, examination.ID),
	)
	return &responses.RecordingCreated{
		ID:          recordingID,
		File:        uc.URLSigner.Sign(ctx, objectName),
		Name:        recording.Name,
		Examination: examination.ID,
	}, nil
}

func (uc *recordingUsecase) GetRecording(ctx context.Context, principal *models.Principal, recordingID int64) (*models.Recording, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("recordingUsecase.GetRecording called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	recording, err := uc.RecordingRepository.FindByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	if recording == nil || !principal.IsDoctor() || recording.UploaderID == nil || *recording.UploaderID != principal.UserID {
		return nil, exceptions.ErrNotFound(nil, "recording")
	}
	return recording, nil
}

func (uc *recordingUsecase) UpdateRecording(ctx context.Context, principal *models.Principal, recordingID int64, request *requests.UpdateRecording) (*models.Recording, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("recordingUsecase.UpdateRecording called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	if _, err := uc.GetRecording(ctx, principal, recordingID); err != nil {
		return nil, err
	}
	if err := uc.RecordingRepository.UpdateAnalysisResult(ctx, recordingID, &request.AnalysisResult, nil); err != nil {
		return nil, err
	}
	return uc.GetRecording(ctx, principal, recordingID)
}

// DetachRecording unlinks the recording from its examination and resets the
// examination to scheduled. The recording row itself is kept.
func (uc *recordingUsecase) DetachRecording(ctx context.Context, principal *models.Principal, recordingID int64) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("recordingUsecase.DetachRecording called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)

	if _, err := uc.GetRecording(ctx, principal, recordingID); err != nil {
		return err
	}

	examination, err := uc.ExaminationRepository.FindByRecordingID(ctx, recordingID)
	if err != nil {
		return err
	}
	if examination == nil {
		return exceptions.ErrRecordingNotAssigned(nil)
	}

	from := append(models.SourcesOf(models.ExaminationStatusScheduled), models.ExaminationStatusScheduled)
	applied, err := uc.ExaminationRepository.ApplyTransition(ctx, &models.StatusTransition{
		ExaminationID:   examination.ID,
		From:            from,
		To:              models.ExaminationStatusScheduled,
		ClearRecording:  true,
		ClearAnalysisID: true,
	})
	if err != nil {
		return err
	}
	if !applied {
		if examination.Status == models.ExaminationStatusFileProcessing {
			return exceptions.ErrAnalysisAlreadyRunning(nil)
		}
		return exceptions.ErrStaleStatusTransition(nil)
	}

	uc.Log.Info("recordingUsecase.DetachRecording succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examination.ID),
	)
	return nil
}

func (uc *recordingUsecase) attachFailure(ctx context.Context, examinationID int64) error {
	current, err := uc.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		return err
	}
	if current == nil {
		return exceptions.ErrNotFound(nil, "examination")
	}
	if current.RecordingID != nil {
		return exceptions.ErrRecordingAlreadyAssigned(nil)
	}
	return exceptions.ErrInvalidStatusTransition(nil, string(current.Status), string(models.ExaminationStatusFileUploaded))
}
