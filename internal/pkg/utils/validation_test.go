package utils

import (
	"bowell-service/internal/pkg/dto/requests"
	"bowell-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterUser() *requests.RegisterUser {
	return &requests.RegisterUser{
		Email:     "patient@example.com",
		Password:  "supersecret",
		FirstName: "Anna",
		LastName:  "Nowak",
		BirthDate: "1990-05-17",
		Type:      "PATIENT",
	}
}

func TestValidateStruct_RegisterUser(t *testing.T) {
	t.Run("Valid Request", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(validRegisterUser()))
	})

	t.Run("Birth Date In The Future", func(t *testing.T) {
		request := validRegisterUser()
		request.BirthDate = time.Now().AddDate(1, 0, 0).Format(DateLayout)

		err := ValidateStruct(request)

		require.Error(t, err)
		assert.Equal(t, "Birth date must be in the past!", exceptions.FormatFirstValidationError(err))
	})

	t.Run("Birth Date Today", func(t *testing.T) {
		request := validRegisterUser()
		request.BirthDate = time.Now().UTC().Format(DateLayout)

		assert.Error(t, ValidateStruct(request))
	})

	t.Run("Unknown User Type", func(t *testing.T) {
		request := validRegisterUser()
		request.Type = "NURSE"

		err := ValidateStruct(request)

		require.Error(t, err)
		assert.Equal(t, "type must be one of [STAFF, DOCTOR, PATIENT]", exceptions.FormatFirstValidationError(err))
	})

	t.Run("Missing Email", func(t *testing.T) {
		request := validRegisterUser()
		request.Email = ""

		err := ValidateStruct(request)

		require.Error(t, err)
		assert.Equal(t, "email is required", exceptions.FormatFirstValidationError(err))
	})
}

func TestValidateStruct_Examination(t *testing.T) {
	t.Run("Date Must Be In The Future", func(t *testing.T) {
		request := &requests.CreateExamination{
			Patient: 1,
			Doctor:  2,
			Date:    time.Now().Add(-time.Hour),
		}

		err := ValidateStruct(request)

		require.Error(t, err)
		assert.Equal(t, "Examination date must be in the future!", exceptions.FormatFirstValidationError(err))
	})

	t.Run("Height Out Of Range", func(t *testing.T) {
		height := 1000
		request := &requests.CreateExamination{
			Patient:  1,
			Doctor:   2,
			Date:     time.Now().Add(24 * time.Hour),
			HeightCm: &height,
		}

		err := ValidateStruct(request)

		require.Error(t, err)
		assert.Equal(t, "height_cm must be less than or equal to 999", exceptions.FormatFirstValidationError(err))
	})

	t.Run("Invalid Status", func(t *testing.T) {
		status := "archived"
		request := &requests.UpdateExamination{Status: &status}

		assert.Error(t, ValidateStruct(request))
	})

	t.Run("Valid Status", func(t *testing.T) {
		status := "cancelled"
		request := &requests.UpdateExamination{Status: &status}

		assert.NoError(t, ValidateStruct(request))
	})
}

func TestValidateStruct_RecordingFileExtension(t *testing.T) {
	request := &requests.CreateRecording{
		Name:        "morning",
		Examination: 3,
		FileName:    "sample.mp3",
		Size:        10,
	}

	err := ValidateStruct(request)

	require.Error(t, err)
	assert.Equal(t, "File extension is not allowed. Allowed extensions are: wav.", exceptions.FormatFirstValidationError(err))

	request.FileName = "sample.WAV"
	assert.NoError(t, ValidateStruct(request))
}
