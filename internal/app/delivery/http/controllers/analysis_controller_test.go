package controllers

import (
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnalysisController(analysisUsecase *mocks.AnalysisUsecase) *AnalysisController {
	return &AnalysisController{Log: zap.NewNop(), AnalysisUsecase: analysisUsecase, InternalConfig: testConfig}
}

func TestAnalysisController_Dispatch(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		analysisUsecase := new(mocks.AnalysisUsecase)
		analysisUsecase.On("Dispatch", mock.Anything, doctor, int64(3)).
			Return(&responses.DispatchAnalysis{TaskID: "task-1", Status: models.AnalysisRunStatusPending}, nil).Once()
		ctrl := newAnalysisController(analysisUsecase)

		rec := serve(http.MethodPost, "/examinations/{id}/analysis", "/examinations/3/analysis", nil, doctor, ctrl.Dispatch)

		require.Equal(t, http.StatusAccepted, rec.Code)
		var dispatched responses.DispatchAnalysis
		body := decodeSuccess(t, rec, &dispatched)
		assert.Equal(t, constvars.DispatchAnalysisSuccessMessage, body.Message)
		assert.Equal(t, "task-1", dispatched.TaskID)
		assert.Equal(t, models.AnalysisRunStatusPending, dispatched.Status)
		analysisUsecase.AssertExpectations(t)
	})

	t.Run("already running", func(t *testing.T) {
		analysisUsecase := new(mocks.AnalysisUsecase)
		analysisUsecase.On("Dispatch", mock.Anything, doctor, int64(3)).Return(nil, exceptions.ErrAnalysisAlreadyRunning(nil)).Once()
		ctrl := newAnalysisController(analysisUsecase)

		rec := serve(http.MethodPost, "/examinations/{id}/analysis", "/examinations/3/analysis", nil, doctor, ctrl.Dispatch)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, constvars.ErrClientAnalysisAlreadyRunning, decodeFailure(t, rec).ClientMessage)
	})

	t.Run("anonymous", func(t *testing.T) {
		ctrl := newAnalysisController(new(mocks.AnalysisUsecase))

		rec := serve(http.MethodPost, "/examinations/{id}/analysis", "/examinations/3/analysis", nil, nil, ctrl.Dispatch)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAnalysisController_GetStatus(t *testing.T) {
	analysisUsecase := new(mocks.AnalysisUsecase)
	bowellSounds := int64(40)
	analysisUsecase.On("GetStatus", mock.Anything, patient, int64(3)).Return(&models.AnalysisStatus{
		TaskID: "task-1",
		Status: models.AnalysisRunStatusSuccess,
		Result: &models.Recording{ID: 4, AnalysisResult: models.AnalysisResult{BowellSoundsNumber: &bowellSounds}},
	}, nil).Once()
	ctrl := newAnalysisController(analysisUsecase)

	rec := serve(http.MethodGet, "/examinations/{id}/analysis", "/examinations/3/analysis", nil, patient, ctrl.GetStatus)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.AnalysisStatus
	decodeSuccess(t, rec, &status)
	assert.Equal(t, models.AnalysisRunStatusSuccess, status.Status)
	require.NotNil(t, status.Result)
	require.NotNil(t, status.Result.BowellSoundsNumber)
	assert.Equal(t, int64(40), *status.Result.BowellSoundsNumber)
}

func TestAnalysisController_ListRuns(t *testing.T) {
	analysisUsecase := new(mocks.AnalysisUsecase)
	analysisUsecase.On("ListRuns", mock.Anything, doctor, int64(4)).Return([]models.AnalysisRun{
		{AnalysisID: "task-2", RecordingID: 4, Status: models.AnalysisRunStatusFailure, Error: "inference unavailable"},
		{AnalysisID: "task-1", RecordingID: 4, Status: models.AnalysisRunStatusSuccess},
	}, nil).Once()
	ctrl := newAnalysisController(analysisUsecase)

	rec := serve(http.MethodGet, "/recordings/{id}/analyses", "/recordings/4/analyses", nil, doctor, ctrl.ListRuns)

	require.Equal(t, http.StatusOK, rec.Code)
	var runs []models.AnalysisRun
	decodeSuccess(t, rec, &runs)
	require.Len(t, runs, 2)
	assert.Equal(t, "task-2", runs[0].AnalysisID)
	assert.Equal(t, "inference unavailable", runs[0].Error)
}
