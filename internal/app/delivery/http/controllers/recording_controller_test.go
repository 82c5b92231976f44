package controllers

import (
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/dto/responses"
	"bowell-service/internal/pkg/exceptions"
	"bowell-service/internal/pkg/utils"
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecordingController(recordingUsecase *mocks.RecordingUsecase) *RecordingController {
	return &RecordingController{Log: zap.NewNop(), RecordingUsecase: recordingUsecase, InternalConfig: testConfig}
}

func recordingForm(t *testing.T, fileName string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile(constvars.RecordingFormFieldFile, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postRecording(ctrl *RecordingController, body io.Reader, contentType string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/recordings", ctrl.CreateRecording)

	req := httptest.NewRequest(http.MethodPost, "/recordings", body)
	req.Header.Set(constvars.HeaderContentType, contentType)
	req = req.WithContext(utils.WithPrincipal(withTestRequestID(req), doctor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordingController_CreateRecording(t *testing.T) {
	t.Run("uploads the wav file", func(t *testing.T) {
		recordingUsecase := new(mocks.RecordingUsecase)
		recordingUsecase.On("CreateRecording", mock.Anything, doctor, mock.MatchedBy(func(r *requests.CreateRecording) bool {
			return r.File != nil && r.Name == "morning" && r.Examination == 3 &&
				r.FileName == "morning.wav" && r.Size == 4 && r.ContentType != ""
		})).Return(&responses.RecordingCreated{ID: 8, File: "https://minio/recordings/x.wav", Name: "morning", Examination: 3}, nil).Once()
		ctrl := newRecordingController(recordingUsecase)

		body, contentType := recordingForm(t, "morning.wav", []byte("RIFF"), map[string]string{"name": " morning ", "examination": "3"})
		rec := postRecording(ctrl, body, contentType)

		require.Equal(t, http.StatusCreated, rec.Code)
		var created responses.RecordingCreated
		decodeSuccess(t, rec, &created)
		assert.Equal(t, int64(8), created.ID)
		assert.Equal(t, int64(3), created.Examination)
		recordingUsecase.AssertExpectations(t)
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		ctrl := newRecordingController(new(mocks.RecordingUsecase))

		body, contentType := recordingForm(t, "morning.mp3", []byte("ID3"), map[string]string{"name": "morning", "examination": "3"})
		rec := postRecording(ctrl, body, contentType)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File extension is not allowed. Allowed extensions are: wav.", decodeFailure(t, rec).ClientMessage)
	})

	t.Run("requires the file", func(t *testing.T) {
		ctrl := newRecordingController(new(mocks.RecordingUsecase))

		body, contentType := recordingForm(t, "", nil, map[string]string{"name": "morning", "examination": "3"})
		rec := postRecording(ctrl, body, contentType)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		ctrl := newRecordingController(new(mocks.RecordingUsecase))

		body, contentType := recordingForm(t, "long.wav", bytes.Repeat([]byte{0}, 2<<20), map[string]string{"name": "long", "examination": "3"})
		rec := postRecording(ctrl, body, contentType)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		ctrl := newRecordingController(new(mocks.RecordingUsecase))

		rec := postRecording(ctrl, strings.NewReader(`{}`), constvars.MIMEApplicationJSON)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecordingController_GetRecording_HidesFile(t *testing.T) {
	recordingUsecase := new(mocks.RecordingUsecase)
	bowellSounds := int64(12)
	recordingUsecase.On("GetRecording", mock.Anything, doctor, int64(4)).Return(&models.Recording{
		ID:             4,
		File:           "recordings/1/a.wav",
		Name:           "secret-name",
		AnalysisResult: models.AnalysisResult{BowellSoundsNumber: &bowellSounds},
	}, nil).Once()
	ctrl := newRecordingController(recordingUsecase)

	rec := serve(http.MethodGet, "/recordings/{id}", "/recordings/4", nil, doctor, ctrl.GetRecording)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-name")
	assert.Contains(t, rec.Body.String(), `"bowell_sounds_number":12`)
}

func TestRecordingController_DetachRecording(t *testing.T) {
	t.Run("detached", func(t *testing.T) {
		recordingUsecase := new(mocks.RecordingUsecase)
		recordingUsecase.On("DetachRecording", mock.Anything, doctor, int64(4)).Return(nil).Once()
		ctrl := newRecordingController(recordingUsecase)

		rec := serve(http.MethodDelete, "/recordings/{id}", "/recordings/4", nil, doctor, ctrl.DetachRecording)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("not assigned", func(t *testing.T) {
		recordingUsecase := new(mocks.RecordingUsecase)
		recordingUsecase.On("DetachRecording", mock.Anything, doctor, int64(4)).Return(exceptions.ErrRecordingNotAssigned(nil)).Once()
		ctrl := newRecordingController(recordingUsecase)

		rec := serve(http.MethodDelete, "/recordings/{id}", "/recordings/4", nil, doctor, ctrl.DetachRecording)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constvars.ErrClientRecordingNotAssigned, decodeFailure(t, rec).ClientMessage)
	})
}

func TestRecordingController_UpdateRecording(t *testing.T) {
	recordingUsecase := new(mocks.RecordingUsecase)
	recordingUsecase.On("UpdateRecording", mock.Anything, doctor, int64(4), mock.MatchedBy(func(r *requests.UpdateRecording) bool {
		return r.Mean != nil && *r.Mean == 1.5 && r.Median == nil
	})).Return(&models.Recording{ID: 4}, nil).Once()
	ctrl := newRecordingController(recordingUsecase)

	rec := serve(http.MethodPatch, "/recordings/{id}", "/recordings/4", strings.NewReader(`{"mean":1.5}`), doctor, ctrl.UpdateRecording)

	assert.Equal(t, http.StatusOK, rec.Code)
	recordingUsecase.AssertExpectations(t)
}
