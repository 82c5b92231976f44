package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExaminationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ExaminationStatus
		to   ExaminationStatus
		want bool
	}{
		{"scheduled to uploaded", ExaminationStatusScheduled, ExaminationStatusFileUploaded, true},
		{"uploaded to processing", ExaminationStatusFileUploaded, ExaminationStatusFileProcessing, true},
		{"processing to succeeded", ExaminationStatusFileProcessing, ExaminationStatusProcessingSucceeded, true},
		{"processing to failed", ExaminationStatusFileProcessing, ExaminationStatusProcessingFailed, true},
		{"failed retried", ExaminationStatusProcessingFailed, ExaminationStatusFileProcessing, true},
		{"succeeded reprocessed", ExaminationStatusProcessingSucceeded, ExaminationStatusFileProcessing, true},
		{"succeeded to completed", ExaminationStatusProcessingSucceeded, ExaminationStatusCompleted, true},
		{"cancelled rescheduled", ExaminationStatusCancelled, ExaminationStatusScheduled, true},
		{"scheduled cannot process", ExaminationStatusScheduled, ExaminationStatusFileProcessing, false},
		{"processing cannot be cancelled", ExaminationStatusFileProcessing, ExaminationStatusCancelled, false},
		{"completed cannot process", ExaminationStatusCompleted, ExaminationStatusFileProcessing, false},
		{"unknown source", ExaminationStatus("archived"), ExaminationStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestExaminationStatus_IsValid(t *testing.T) {
	for _, status := range AllExaminationStatuses() {
		assert.True(t, status.IsValid(), status)
	}
	assert.False(t, ExaminationStatus("").IsValid())
	assert.False(t, ExaminationStatus("archived").IsValid())
}

func TestSourcesOf(t *testing.T) {
	assert.ElementsMatch(t, []ExaminationStatus{
		ExaminationStatusFileUploaded,
		ExaminationStatusProcessingFailed,
		ExaminationStatusProcessingSucceeded,
	}, SourcesOf(ExaminationStatusFileProcessing))

	assert.Equal(t, []ExaminationStatus{ExaminationStatusScheduled}, SourcesOf(ExaminationStatusFileUploaded))
}

func TestExaminationStatus_CanUserTransitionTo(t *testing.T) {
	tests := []struct {
		from ExaminationStatus
		to   ExaminationStatus
		want bool
	}{
		{ExaminationStatusScheduled, ExaminationStatusCancelled, true},
		{ExaminationStatusProcessingFailed, ExaminationStatusScheduled, true},
		{ExaminationStatusProcessingSucceeded, ExaminationStatusCompleted, true},
		{ExaminationStatusFileUploaded, ExaminationStatusFileProcessing, false},
		{ExaminationStatusProcessingSucceeded, ExaminationStatusFileProcessing, false},
		{ExaminationStatusFileProcessing, ExaminationStatusProcessingSucceeded, false},
		{ExaminationStatusFileProcessing, ExaminationStatusProcessingFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanUserTransitionTo(tt.to))
		})
	}
}
