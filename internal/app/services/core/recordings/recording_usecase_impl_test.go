package recordings

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/contracts/mocks"
	"bowell-service/internal/app/models"
	"bowell-service/internal/app/services/shared/storage"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingFixture struct {
	recordings   *mocks.RecordingRepository
	examinations *mocks.ExaminationRepository
	storage      *mocks.Storage
	uc           *recordingUsecase
}

func newRecordingFixture() *recordingFixture {
	f := &recordingFixture{
		recordings:   new(mocks.RecordingRepository),
		examinations: new(mocks.ExaminationRepository),
		storage:      new(mocks.Storage),
	}
	signer := storage.NewObjectURLSigner(f.storage, "recordings", time.Hour, zap.NewNop())
	f.uc = NewRecordingUsecase(f.recordings, f.examinations, f.storage, signer, "recordings", zap.NewNop()).(*recordingUsecase)
	return f
}

func int64Ptr(v int64) *int64 { return &v }

var doctor = &models.Principal{UserID: 3, Type: models.UserTypeDoctor}

func TestRecordingUsecase_ListRecordings(t *testing.T) {
	ctx := context.Background()

	t.Run("Doctor Sees Own Uploads", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByUploaderID", ctx, int64(3)).Return([]models.Recording{
			{ID: 1, UploaderID: int64Ptr(3), File: "recordings/3/a.wav", Name: "first"},
			{ID: 2, UploaderID: int64Ptr(3), File: "recordings/3/b.wav", Name: "second"},
		}, nil)
		f.examinations.On("FindByRecordingID", ctx, int64(1)).Return(&models.Examination{ID: 9, Status: models.ExaminationStatusFileUploaded}, nil)
		f.examinations.On("FindByRecordingID", ctx, int64(2)).Return(nil, nil)
		f.storage.On("GetObjectUrlWithExpiryTime", ctx, "recordings", mock.Anything, time.Hour).Return("https://signed", nil)

		items, err := f.uc.ListRecordings(ctx, doctor)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, items[0].Examination)
		assert.Equal(t, int64(9), items[0].Examination.ID)
		assert.Nil(t, items[1].Examination)
		assert.Equal(t, "https://signed", items[1].File)
	})

	t.Run("Patient Sees Nothing", func(t *testing.T) {
		f := newRecordingFixture()

		items, err := f.uc.ListRecordings(ctx, &models.Principal{UserID: 5, Type: models.UserTypePatient})
		require.NoError(t, err)
		assert.Empty(t, items)
		f.recordings.AssertNotCalled(t, "FindByUploaderID", mock.Anything, mock.Anything)
	})
}

func TestRecordingUsecase_CreateRecording(t *testing.T) {
	ctx := context.Background()
	newRequest := func() *requests.CreateRecording {
		return &requests.CreateRecording{
			Name:        "morning",
			Examination: 7,
			FileName:    "morning.wav",
			ContentType: "audio/wav",
			Size:        4,
			File:        strings.NewReader("RIFF"),
		}
	}

	t.Run("Uploads And Attaches", func(t *testing.T) {
		f := newRecordingFixture()
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(3), Status: models.ExaminationStatusScheduled}, nil)
		f.storage.On("UploadFile", ctx, mock.MatchedBy(func(in *contracts.UploadFileInput) bool {
			return in.BucketName == "recordings" && in.ContentType == "audio/wav" && in.Size == 4
		})).Return("recordings/3/x.wav", nil)
		f.recordings.On("CreateRecording", ctx, mock.MatchedBy(func(r *models.Recording) bool {
			return *r.UploaderID == 3 && r.File == "recordings/3/x.wav" && r.Name == "morning"
		})).Return(int64(21), nil)
		f.examinations.On("ApplyTransition", ctx, mock.MatchedBy(func(tr *models.StatusTransition) bool {
			return tr.ExaminationID == 7 && tr.To == models.ExaminationStatusFileUploaded &&
				tr.SetRecordingID != nil && *tr.SetRecordingID == 21
		})).Return(true, nil)
		f.storage.On("GetObjectUrlWithExpiryTime", ctx, "recordings", "recordings/3/x.wav", time.Hour).Return("https://signed", nil)

		created, err := f.uc.CreateRecording(ctx, doctor, newRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(21), created.ID)
		assert.Equal(t, int64(7), created.Examination)
		assert.Equal(t, "https://signed", created.File)
	})

	t.Run("Foreign Examination", func(t *testing.T) {
		f := newRecordingFixture()
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(4)}, nil)

		_, err := f.uc.CreateRecording(ctx, doctor, newRequest())
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		f.storage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
	})

	t.Run("Examination Already Has Recording", func(t *testing.T) {
		f := newRecordingFixture()
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(3), RecordingID: int64Ptr(1)}, nil)

		_, err := f.uc.CreateRecording(ctx, doctor, newRequest())
		require.Error(t, err)
		assert.Equal(t, constvars.ErrClientRecordingAlreadyAssigned, exceptions.ClientMessageOf(err))
	})

	t.Run("Lost Race Removes Row", func(t *testing.T) {
		f := newRecordingFixture()
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(3), Status: models.ExaminationStatusScheduled}, nil).Once()
		f.storage.On("UploadFile", ctx, mock.Anything).Return("recordings/3/x.wav", nil)
		f.recordings.On("CreateRecording", ctx, mock.Anything).Return(int64(21), nil)
		f.examinations.On("ApplyTransition", ctx, mock.Anything).Return(false, nil)
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(3), RecordingID: int64Ptr(20), Status: models.ExaminationStatusFileUploaded}, nil).Once()
		f.recordings.On("DeleteByID", ctx, int64(21)).Return(nil)

		_, err := f.uc.CreateRecording(ctx, doctor, newRequest())
		require.Error(t, err)
		assert.Equal(t, constvars.ErrClientRecordingAlreadyAssigned, exceptions.ClientMessageOf(err))
		f.recordings.AssertCalled(t, "DeleteByID", ctx, int64(21))
	})

	t.Run("Upload Error", func(t *testing.T) {
		f := newRecordingFixture()
		f.examinations.On("FindByID", ctx, int64(7)).Return(&models.Examination{ID: 7, DoctorID: int64Ptr(3), Status: models.ExaminationStatusScheduled}, nil)
		f.storage.On("UploadFile", ctx, mock.Anything).Return("", errors.New("minio down"))

		_, err := f.uc.CreateRecording(ctx, doctor, newRequest())
		require.Error(t, err)
		f.recordings.AssertNotCalled(t, "CreateRecording", mock.Anything, mock.Anything)
	})
}

func TestRecordingUsecase_GetRecording(t *testing.T) {
	ctx := context.Background()

	t.Run("Other Uploader Gets Not Found", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByID", ctx, int64(1)).Return(&models.Recording{ID: 1, UploaderID: int64Ptr(4)}, nil)

		_, err := f.uc.GetRecording(ctx, doctor, 1)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})

	t.Run("Missing Recording", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByID", ctx, int64(1)).Return(nil, nil)

		_, err := f.uc.GetRecording(ctx, doctor, 1)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})
}

func TestRecordingUsecase_UpdateRecording(t *testing.T) {
	ctx := context.Background()
	f := newRecordingFixture()
	count := int64(42)
	recording := &models.Recording{ID: 1, UploaderID: int64Ptr(3)}
	f.recordings.On("FindByID", ctx, int64(1)).Return(recording, nil)
	f.recordings.On("UpdateAnalysisResult", ctx, int64(1), mock.MatchedBy(func(r *models.AnalysisResult) bool {
		return r.BowellSoundsNumber != nil && *r.BowellSoundsNumber == 42
	}), (*time.Time)(nil)).Return(nil)

	request := &requests.UpdateRecording{}
	request.BowellSoundsNumber = &count
	updated, err := f.uc.UpdateRecording(ctx, doctor, 1, request)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	f.recordings.AssertExpectations(t)
}

func TestRecordingUsecase_DetachRecording(t *testing.T) {
	ctx := context.Background()
	recording := &models.Recording{ID: 1, UploaderID: int64Ptr(3)}

	t.Run("Detaches And Reschedules", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByID", ctx, int64(1)).Return(recording, nil)
		f.examinations.On("FindByRecordingID", ctx, int64(1)).Return(&models.Examination{ID: 7, Status: models.ExaminationStatusProcessingSucceeded}, nil)
		f.examinations.On("ApplyTransition", ctx, mock.MatchedBy(func(tr *models.StatusTransition) bool {
			for _, from := range tr.From {
				if from == models.ExaminationStatusFileProcessing {
					return false
				}
			}
			return tr.To == models.ExaminationStatusScheduled && tr.ClearRecording && tr.ClearAnalysisID
		})).Return(true, nil)

		require.NoError(t, f.uc.DetachRecording(ctx, doctor, 1))
		f.examinations.AssertExpectations(t)
	})

	t.Run("Not Assigned", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByID", ctx, int64(1)).Return(recording, nil)
		f.examinations.On("FindByRecordingID", ctx, int64(1)).Return(nil, nil)

		err := f.uc.DetachRecording(ctx, doctor, 1)
		require.Error(t, err)
		assert.Equal(t, constvars.ErrClientRecordingNotAssigned, exceptions.ClientMessageOf(err))
	})

	t.Run("Blocked While Processing", func(t *testing.T) {
		f := newRecordingFixture()
		f.recordings.On("FindByID", ctx, int64(1)).Return(recording, nil)
		f.examinations.On("FindByRecordingID", ctx, int64(1)).Return(&models.Examination{ID: 7, Status: models.ExaminationStatusFileProcessing}, nil)
		f.examinations.On("ApplyTransition", ctx, mock.Anything).Return(false, nil)

		err := f.uc.DetachRecording(ctx, doctor, 1)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
	})
}
