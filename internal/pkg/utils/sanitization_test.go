package utils

import (
	"bowell-service/internal/pkg/dto/requests"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRegisterUserRequest(t *testing.T) {
	t.Run("Email and Type Sanitization", func(t *testing.T) {
		request := &requests.RegisterUser{
			Email:     "  DOCTOR@Example.COM ",
			FirstName: " Jan ",
			LastName:  " Kowalski",
			BirthDate: " 1980-01-02 ",
			Type:      " doctor ",
		}

		SanitizeRegisterUserRequest(request)

		assert.Equal(t, "doctor@example.com", request.Email, "email should be lowercase and trimmed")
		assert.Equal(t, "Jan", request.FirstName)
		assert.Equal(t, "Kowalski", request.LastName)
		assert.Equal(t, "1980-01-02", request.BirthDate)
		assert.Equal(t, "DOCTOR", request.Type, "type should be uppercase")
	})

	t.Run("Password Is Left Untouched", func(t *testing.T) {
		request := &requests.RegisterUser{Password: " secret with spaces "}

		SanitizeRegisterUserRequest(request)

		assert.Equal(t, " secret with spaces ", request.Password)
	})
}

func TestSanitizeUpdateExaminationRequest(t *testing.T) {
	t.Run("Optional Fields", func(t *testing.T) {
		overview := "  routine check  "
		status := " FILE_UPLOADED "
		request := &requests.UpdateExamination{
			Overview: &overview,
			Status:   &status,
		}

		SanitizeUpdateExaminationRequest(request)

		assert.Equal(t, "routine check", *request.Overview)
		assert.Equal(t, "file_uploaded", *request.Status)
		assert.Nil(t, request.Symptoms, "absent fields should stay nil")
		assert.Nil(t, request.Medication)
	})
}

func TestSanitizeUpdateUserRequest(t *testing.T) {
	firstName := "  Anna "
	request := &requests.UpdateUser{FirstName: &firstName}

	SanitizeUpdateUserRequest(request)

	assert.Equal(t, "Anna", *request.FirstName)
	assert.Nil(t, request.LastName)
	assert.Nil(t, request.BirthDate)
}
