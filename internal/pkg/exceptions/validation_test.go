package exceptions

import (
	"bowell-service/internal/pkg/constvars"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type measurement struct {
	Email    string `validate:"required"`
	HeightCm int    `validate:"lte=999"`
}

func TestErrInputValidation(t *testing.T) {
	err := validator.New().Struct(measurement{HeightCm: 1200})

	customErr := ErrInputValidation(err)

	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Equal(t, "email is required", customErr.ClientMessage)
	assert.Contains(t, customErr.DevMessage, "email is required, heightcm must be less than or equal to 999")
}

func TestFormatAllValidationErrors_NotValidation(t *testing.T) {
	assert.Equal(t, constvars.ErrClientCannotProcessRequest, FormatAllValidationErrors(assert.AnError))
}
