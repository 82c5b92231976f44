package examinations

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/app/services/shared/storage"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"time"

	"go.uber.org/zap"
)

type examinationUsecase struct {
	ExaminationRepository contracts.ExaminationRepository
	UserRepository        contracts.UserRepository
	RecordingRepository   contracts.RecordingRepository
	URLSigner             *storage.ObjectURLSigner
	Log                   *zap.Logger
	now                   func() time.Time
}

func NewExaminationUsecase(
	examinationRepository contracts.ExaminationRepository,
	userRepository contracts.UserRepository,
	recordingRepository contracts.RecordingRepository,
	urlSigner *storage.ObjectURLSigner,
	logger *zap.Logger,
) contracts.ExaminationUsecase {
	return &examinationUsecase{
		ExaminationRepository: examinationRepository,
		UserRepository:        userRepository,
		RecordingRepository:   recordingRepository,
		URLSigner:             urlSigner,
		Log:                   logger,
		now:                   time.Now,
	}
}

// CanView reports whether principal may read or modify the examination.
func CanView(principal *models.Principal, examination *models.Examination) bool {
	if principal == nil || examination == nil {
		return false
	}
	if principal.IsStaff || principal.IsSuperuser {
		return true
	}
	return examination.IsOwnedByDoctor(principal.UserID) || examination.IsOwnedByPatient(principal.UserID)
}

func (uc *examinationUsecase) ListExaminations(ctx context.Context, principal *models.Principal) ([]models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("examinationUsecase.ListExaminations called", zap.String(constvars.LoggingRequestIDKey, requestID))

	scope := &models.ExaminationScope{}
	switch {
	case principal.IsDoctor():
		scope.DoctorID = &principal.UserID
	case principal.IsPatient():
		scope.PatientID = &principal.UserID
	default:
		return []models.Examination{}, nil
	}

	examinations, err := uc.ExaminationRepository.FindAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for i := range examinations {
		uc.URLSigner.SignExamination(ctx, &examinations[i])
	}
	return examinations, nil
}

func (uc *examinationUsecase) CreateExamination(ctx context.Context, principal *models.Principal, request *requests.CreateExamination) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("examinationUsecase.CreateExamination called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingUserIDKey, principal.UserID),
	)

	if err := uc.ensureUserType(ctx, request.Patient, models.UserTypePatient); err != nil {
		return nil, err
	}
	if err := uc.ensureUserType(ctx, request.Doctor, models.UserTypeDoctor); err != nil {
		return nil, err
	}

	examination := &models.Examination{
		PatientID:  &request.Patient,
		DoctorID:   &request.Doctor,
		Date:       request.Date,
		Overview:   request.Overview,
		Status:     models.ExaminationStatusScheduled,
		HeightCm:   request.HeightCm,
		MassKg:     request.MassKg,
		Symptoms:   request.Symptoms,
		Medication: request.Medication,
	}

	examinationID, err := uc.ExaminationRepository.CreateExamination(ctx, examination)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("examinationUsecase.CreateExamination succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)
	return uc.findExamination(ctx, examinationID)
}

func (uc *examinationUsecase) GetExamination(ctx context.Context, principal *models.Principal, examinationID int64) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("examinationUsecase.GetExamination called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)

	examination, err := uc.findExamination(ctx, examinationID)
	if err != nil {
		return nil, err
	}
	if !CanView(principal, examination) {
		return nil, exceptions.ErrNotFound(nil, "examination")
	}
	return examination, nil
}

// UpdateExamination writes field edits and a status change in one conditional
// update. Assigning a recording moves the examination to file_uploaded.
// Statuses owned by the analysis pipeline cannot be set here.
func (uc *examinationUsecase) UpdateExamination(ctx context.Context, principal *models.Principal, examinationID int64, request *requests.UpdateExamination) (*models.Examination, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("examinationUsecase.UpdateExamination called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)

	examination, err := uc.GetExamination(ctx, principal, examinationID)
	if err != nil {
		return nil, err
	}

	if request.Patient != nil {
		if err := uc.ensureUserType(ctx, *request.Patient, models.UserTypePatient); err != nil {
			return nil, err
		}
	}
	if request.Doctor != nil {
		if err := uc.ensureUserType(ctx, *request.Doctor, models.UserTypeDoctor); err != nil {
			return nil, err
		}
	}

	nextStatus, err := uc.nextStatus(ctx, examination, request)
	if err != nil {
		return nil, err
	}

	update := &models.ExaminationUpdate{
		PatientID:   request.Patient,
		DoctorID:    request.Doctor,
		RecordingID: request.Recording,
		Date:        request.Date,
		Status:      nextStatus,
		HeightCm:    request.HeightCm,
		MassKg:      request.MassKg,
		Symptoms:    request.Symptoms,
		Medication:  request.Medication,
		Overview:    request.Overview,
	}
	if nextStatus != nil {
		current := examination.Status
		update.ExpectedStatus = &current
	}

	applied, err := uc.ExaminationRepository.UpdateExamination(ctx, examinationID, update)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, exceptions.ErrStaleStatusTransition(nil)
	}

	if nextStatus != nil {
		uc.Log.Info("examinationUsecase.UpdateExamination status changed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFromStatusKey, string(examination.Status)),
			zap.String(constvars.LoggingToStatusKey, string(*nextStatus)),
		)
	}

	return uc.findExamination(ctx, examinationID)
}

// nextStatus resolves the status the update moves the examination to, or nil
// when it stays put.
func (uc *examinationUsecase) nextStatus(ctx context.Context, examination *models.Examination, request *requests.UpdateExamination) (*models.ExaminationStatus, error) {
	var requested *models.ExaminationStatus
	if request.Status != nil {
		status := models.ExaminationStatus(*request.Status)
		requested = &status
	}

	if request.Recording != nil {
		if err := uc.ensureRecordingAssignable(ctx, examination, *request.Recording); err != nil {
			return nil, err
		}
		uploaded := models.ExaminationStatusFileUploaded
		if requested != nil && *requested != uploaded {
			return nil, exceptions.ErrInvalidStatusTransition(nil, string(examination.Status), string(*requested))
		}
		if !examination.Status.CanUserTransitionTo(uploaded) {
			return nil, exceptions.ErrInvalidStatusTransition(nil, string(examination.Status), string(uploaded))
		}
		return &uploaded, nil
	}

	if requested == nil || *requested == examination.Status {
		return nil, nil
	}
	// file_uploaded is reached by assigning a recording
	if *requested == models.ExaminationStatusFileUploaded || !examination.Status.CanUserTransitionTo(*requested) {
		return nil, exceptions.ErrInvalidStatusTransition(nil, string(examination.Status), string(*requested))
	}
	return requested, nil
}

func (uc *examinationUsecase) GetStatistics(ctx context.Context, principal *models.Principal) (*models.ExaminationStatistics, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("examinationUsecase.GetStatistics called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if !principal.IsDoctor() {
		return nil, exceptions.ErrPermissionDenied(nil)
	}
	return uc.ExaminationRepository.GetDoctorStatistics(ctx, principal.UserID, uc.now().UTC())
}

func (uc *examinationUsecase) findExamination(ctx context.Context, examinationID int64) (*models.Examination, error) {
	examination, err := uc.ExaminationRepository.FindByID(ctx, examinationID)
	if err != nil {
		return nil, err
	}
	if examination == nil {
		return nil, exceptions.ErrNotFound(nil, "examination")
	}
	uc.URLSigner.SignExamination(ctx, examination)
	return examination, nil
}

func (uc *examinationUsecase) ensureUserType(ctx context.Context, userID int64, userType models.UserType) error {
	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.Type != userType {
		return exceptions.ErrInvalidRelatedObject(nil, userID)
	}
	return nil
}

// ensureRecordingAssignable rejects the assignment when the examination
// already has a recording or the recording is attached elsewhere.
func (uc *examinationUsecase) ensureRecordingAssignable(ctx context.Context, examination *models.Examination, recordingID int64) error {
	if examination.RecordingID != nil {
		return exceptions.ErrRecordingAlreadyAssigned(nil)
	}

	recording, err := uc.RecordingRepository.FindByID(ctx, recordingID)
	if err != nil {
		return err
	}
	if recording == nil {
		return exceptions.ErrInvalidRelatedObject(nil, recordingID)
	}

	attached, err := uc.ExaminationRepository.FindByRecordingID(ctx, recordingID)
	if err != nil {
		return err
	}
	if attached != nil {
		return exceptions.ErrRecordingAlreadyAssigned(nil)
	}
	return nil
}
