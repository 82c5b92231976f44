package utils

import (
	"bowell-service/internal/pkg/dto/requests"
	"strings"
)

func trimOptional(input *string) *string {
	if input == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*input)
	return &trimmed
}

func SanitizeRegisterUserRequest(input *requests.RegisterUser) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.BirthDate = strings.TrimSpace(input.BirthDate)
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
}

func SanitizeUpdateUserRequest(input *requests.UpdateUser) {
	input.FirstName = trimOptional(input.FirstName)
	input.LastName = trimOptional(input.LastName)
	input.BirthDate = trimOptional(input.BirthDate)
}

func SanitizeObtainTokenPairRequest(input *requests.ObtainTokenPair) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
}

func SanitizeCreateExaminationRequest(input *requests.CreateExamination) {
	input.Overview = trimOptional(input.Overview)
	input.Symptoms = trimOptional(input.Symptoms)
	input.Medication = trimOptional(input.Medication)
}

func SanitizeUpdateExaminationRequest(input *requests.UpdateExamination) {
	input.Overview = trimOptional(input.Overview)
	input.Symptoms = trimOptional(input.Symptoms)
	input.Medication = trimOptional(input.Medication)
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		input.Status = &status
	}
}

func SanitizeCreateRecordingRequest(input *requests.CreateRecording) {
	input.Name = strings.TrimSpace(input.Name)
	input.FileName = strings.TrimSpace(input.FileName)
}
