package utils

import (
	"bowell-service/internal/app/models"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			name = strings.SplitN(field.Tag.Get("schema"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("past_date", validatePastDate)
	validate.RegisterValidation("future_date", validateFutureDate)
	validate.RegisterValidation("user_type", validateUserType)
	validate.RegisterValidation("examination_status", validateExaminationStatus)
	validate.RegisterValidation("wav_file", validateWavFile)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// fieldTime reads a time.Time or a YYYY-MM-DD string field.
func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	field := fl.Field()
	switch value := field.Interface().(type) {
	case time.Time:
		return value, !value.IsZero()
	case string:
		parsed, err := ParseDate(value)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func validatePastDate(fl validator.FieldLevel) bool {
	value, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return IsPastDate(value, StartOfDay(time.Now().UTC()))
}

func validateFutureDate(fl validator.FieldLevel) bool {
	value, ok := fieldTime(fl)
	if !ok {
		return false
	}
	return IsFutureDate(value, time.Now())
}

func validateUserType(fl validator.FieldLevel) bool {
	return models.UserType(fl.Field().String()).IsValid()
}

func validateExaminationStatus(fl validator.FieldLevel) bool {
	return models.ExaminationStatus(fl.Field().String()).IsValid()
}

func validateWavFile(fl validator.FieldLevel) bool {
	return strings.EqualFold(filepath.Ext(fl.Field().String()), ".wav")
}
