package controllers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type AnalysisController struct {
	Log             *zap.Logger
	AnalysisUsecase contracts.AnalysisUsecase
	InternalConfig  *config.InternalConfig
}

var (
	analysisControllerInstance *AnalysisController
	onceAnalysisController     sync.Once
)

func NewAnalysisController(logger *zap.Logger, analysisUsecase contracts.AnalysisUsecase, internalConfig *config.InternalConfig) *AnalysisController {
	onceAnalysisController.Do(func() {
		analysisControllerInstance = &AnalysisController{
			Log:             logger,
			AnalysisUsecase: analysisUsecase,
			InternalConfig:  internalConfig,
		}
	})
	return analysisControllerInstance
}

// Dispatch schedules the analysis of the examination's recording and answers
// 202 with the task id to poll.
func (ctrl *AnalysisController) Dispatch(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AnalysisController.Dispatch", true)
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

	result, err := ctrl.AnalysisUsecase.Dispatch(ctx, scope.principal, examinationID)
	if err != nil {
		usecaseError(ctrl.Log, w, "AnalysisController.Dispatch", scope.requestID, err)
		return
	}

	ctrl.Log.Info("AnalysisController.Dispatch succeeded",
		zap.String(constvars.LoggingRequestIDKey, scope.requestID),
		zap.Int64(constvars.LoggingExaminationIDKey, examinationID),
		zap.String(constvars.LoggingAnalysisIDKey, result.TaskID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.DispatchAnalysisSuccessMessage, result)
}

func (ctrl *AnalysisController) GetStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AnalysisController.GetStatus", true)
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

	status, err := ctrl.AnalysisUsecase.GetStatus(ctx, scope.principal, examinationID)
	if err != nil {
		usecaseError(ctrl.Log, w, "AnalysisController.GetStatus", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAnalysisStatusSuccessMessage, status)
}

func (ctrl *AnalysisController) ListRuns(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(ctrl.Log, w, r, "AnalysisController.ListRuns", true)
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

	runs, err := ctrl.AnalysisUsecase.ListRuns(ctx, scope.principal, recordingID)
	if err != nil {
		usecaseError(ctrl.Log, w, "AnalysisController.ListRuns", scope.requestID, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAnalysisRunsSuccessMessage, runs)
}
