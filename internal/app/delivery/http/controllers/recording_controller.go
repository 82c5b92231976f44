package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const multipartMemoryLimit = 32 << 20

type RecordingController struct {
	Log              *zap.Logger
	RecordingUsecase contracts.RecordingUsecase
	InternalConfig   *config.InternalConfig
}

var (
	recordingControllerInstance *RecordingController
	onceRecordingController     sync.Once
)

func NewRecordingController(logger *zap.Logger, recordingUsecase contracts.RecordingUsecase, internalConfig *config.InternalConfig) *RecordingController {
	onceRecordingController.Do(func() {
		recordingControllerInstance = &RecordingController{
			Log:              logger,
			RecordingUsecase: recordingUsecase,
			InternalConfig:   internalConfig,
		}
	})
	return recordingControllerInstance
}

func (ctrl *RecordingController) ListRecordings(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "RecordingController.ListRecordings", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	recordings, err := ctrl.RecordingUsecase.ListRecordings(ctx, scope.principal)
	if err != nil {
		usecaseError(ctrl.Log, w, "RecordingController.ListRecordings", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRecordingsSuccessMessage, recordings)
}

// CreateRecording accepts a multipart form with the wav file, its display
// name and the examination it belongs to.
func (ctrl *RecordingController) CreateRecording(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "RecordingController.CreateRecording", true)
	if !ok {
		return
	}

	maxUploadSize := int64(ctrl.InternalConfig.Minio.RecordingMaxUploadSizeInMB) << 20
	if maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		ctrl.Log.Error("RecordingController.CreateRecording error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrRequestBodyTooLarge(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	request := new(requests.CreateRecording)
	if err := utils.DecodeForm(request, r.MultipartForm.Value); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	file, header, err := r.FormFile(constvars.RecordingFormFieldFile)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	if file != nil {
		defer file.Close()
		request.File = file
		request.FileName = header.Filename
		request.Size = header.Size
		request.ContentType = header.Header.Get(constvars.HeaderContentType)
	}
	if request.ContentType == "" {
		request.ContentType = constvars.MIMEAudioWav
	}
	utils.SanitizeCreateRecordingRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	recording, err := ctrl.RecordingUsecase.CreateRecording(ctx, scope.principal, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "RecordingController.CreateRecording", scope.requestID, err)
		return
	}

	ctrl.Log.Info("RecordingController.CreateRecording succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recording.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateRecordingSuccessMessage, recording)
}

func (ctrl *RecordingController) GetRecording(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "RecordingController.GetRecording", true)
	if !ok {
		return
	}

	recordingID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	recording, err := ctrl.RecordingUsecase.GetRecording(ctx, scope.principal, recordingID)
	if err != nil {
		usecaseError(ctrl.Log, w, "RecordingController.GetRecording", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRecordingSuccessMessage, recording)
}

func (ctrl *RecordingController) UpdateRecording(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "RecordingController.UpdateRecording", true)
	if !ok {
		return
	}

	recordingID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateRecording)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	recording, err := ctrl.RecordingUsecase.UpdateRecording(ctx, scope.principal, recordingID, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "RecordingController.UpdateRecording", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateRecordingSuccessMessage, recording)
}

// DetachRecording unlinks the recording from its examination; the recording
// row itself is kept.
func (ctrl *RecordingController) DetachRecording(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "RecordingController.DetachRecording", true)
	if !ok {
		return
	}

	recordingID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	if err := ctrl.RecordingUsecase.DetachRecording(ctx, scope.principal, recordingID); err != nil {
		usecaseError(ctrl.Log, w, "RecordingController.DetachRecording", scope.requestID, err)
		return
	}

	ctrl.Log.Info("RecordingController.DetachRecording succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingRecordingIDKey, recordingID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusNoContent, constvars.DetachRecordingSuccessMessage, nil)
}
