package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ExaminationController struct {
	Log                *zap.Logger
	ExaminationUsecase contracts.ExaminationUsecase
	InternalConfig     *config.InternalConfig
}

var (
	examinationControllerInstance *ExaminationController
	onceExaminationController     sync.Once
)

func NewExaminationController(logger *zap.Logger, examinationUsecase contracts.ExaminationUsecase, internalConfig *config.InternalConfig) *ExaminationController {
	onceExaminationController.Do(func() {
		examinationControllerInstance = &ExaminationController{
			Log:                logger,
			ExaminationUsecase: examinationUsecase,
			InternalConfig:     internalConfig,
		}
	})
	return examinationControllerInstance
}

func (ctrl *ExaminationController) ListExaminations(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "ExaminationController.ListExaminations", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	examinations, err := ctrl.ExaminationUsecase.ListExaminations(ctx, scope.principal)
	if err != nil {
		usecaseError(ctrl.Log, w, "ExaminationController.ListExaminations", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetExaminationsSuccessMessage, examinations)
}

func (ctrl *ExaminationController) CreateExamination(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "ExaminationController.CreateExamination", true)
	if !ok {
		return
	}

	request := new(requests.CreateExamination)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("ExaminationController.CreateExamination error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeCreateExaminationRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	examination, err := ctrl.ExaminationUsecase.CreateExamination(ctx, scope.principal, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "ExaminationController.CreateExamination", scope.requestID, err)
		return
	}

	ctrl.Log.Info("ExaminationController.CreateExamination succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examination.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateExaminationSuccessMessage, examination)
}

func (ctrl *ExaminationController) GetExamination(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "ExaminationController.GetExamination", true)
	if !ok {
		return
	}

	examinationID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	examination, err := ctrl.ExaminationUsecase.GetExamination(ctx, scope.principal, examinationID)
	if err != nil {
		usecaseError(ctrl.Log, w, "ExaminationController.GetExamination", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetExaminationSuccessMessage, examination)
}

func (ctrl *ExaminationController) UpdateExamination(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "ExaminationController.UpdateExamination", true)
	if !ok {
		return
	}

	examinationID, err := utils.ParseURLParamID(r, "id")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.UpdateExamination)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeUpdateExaminationRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	examination, err := ctrl.ExaminationUsecase.UpdateExamination(ctx, scope.principal, examinationID, request)
	if err != nil {
		usecaseError(ctrl.Log, w, "ExaminationController.UpdateExamination", scope.requestID, err)
		return
	}

	ctrl.Log.Info("ExaminationController.UpdateExamination succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateExaminationSuccessMessage, examination)
}

func (ctrl *ExaminationController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "ExaminationController.GetStatistics", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig.App.RequestTimeoutInSeconds))
	defer cancel()

	statistics, err := ctrl.ExaminationUsecase.GetStatistics(ctx, scope.principal)
	if err != nil {
		usecaseError(ctrl.Log, w, "ExaminationController.GetStatistics", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetStatisticsSuccessMessage, statistics)
}
