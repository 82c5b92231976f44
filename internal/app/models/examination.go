package models

import (
	"time"
)

type ExaminationStatus string

const (
	ExaminationStatusCancelled           ExaminationStatus = "cancelled"
	ExaminationStatusScheduled           ExaminationStatus = "scheduled"
	ExaminationStatusCompleted           ExaminationStatus = "completed"
	ExaminationStatusFileUploaded        ExaminationStatus = "file_uploaded"
	ExaminationStatusFileProcessing      ExaminationStatus = "file_processing"
	ExaminationStatusProcessingFailed    ExaminationStatus = "processing_failed"
	ExaminationStatusProcessingSucceeded ExaminationStatus = "processing_succeeded"
)

var examinationTransitions = map[ExaminationStatus][]ExaminationStatus{
	ExaminationStatusScheduled:           {ExaminationStatusFileUploaded, ExaminationStatusCancelled, ExaminationStatusCompleted},
	ExaminationStatusFileUploaded:        {ExaminationStatusFileProcessing, ExaminationStatusScheduled, ExaminationStatusCancelled},
	ExaminationStatusFileProcessing:      {ExaminationStatusProcessingSucceeded, ExaminationStatusProcessingFailed},
	ExaminationStatusProcessingFailed:    {ExaminationStatusFileProcessing, ExaminationStatusScheduled, ExaminationStatusCancelled},
	ExaminationStatusProcessingSucceeded: {ExaminationStatusFileProcessing, ExaminationStatusCompleted, ExaminationStatusScheduled},
	ExaminationStatusCompleted:           {ExaminationStatusScheduled},
	ExaminationStatusCancelled:           {ExaminationStatusScheduled},
}

func (s ExaminationStatus) IsValid() bool {
	_, ok := examinationTransitions[s]
	return ok
}

func (s ExaminationStatus) CanTransitionTo(next ExaminationStatus) bool {
	for _, allowed := range examinationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsManagedByAnalysis reports whether only the analysis pipeline may move an
// examination into this status.
func (s ExaminationStatus) IsManagedByAnalysis() bool {
	switch s {
	case ExaminationStatusFileProcessing, ExaminationStatusProcessingSucceeded, ExaminationStatusProcessingFailed:
		return true
	}
	return false
}

// CanUserTransitionTo is CanTransitionTo limited to the changes a user may
// request directly. A running analysis and the statuses it produces are left
// to the pipeline.
func (s ExaminationStatus) CanUserTransitionTo(next ExaminationStatus) bool {
	if s == ExaminationStatusFileProcessing || next.IsManagedByAnalysis() {
		return false
	}
	return s.CanTransitionTo(next)
}

// SourcesOf lists every status from which next may be reached.
func SourcesOf(next ExaminationStatus) []ExaminationStatus {
	sources := make([]ExaminationStatus, 0)
	for _, from := range AllExaminationStatuses() {
		if from.CanTransitionTo(next) {
			sources = append(sources, from)
		}
	}
	return sources
}

func AllExaminationStatuses() []ExaminationStatus {
	return []ExaminationStatus{
		ExaminationStatusCancelled,
		ExaminationStatusScheduled,
		ExaminationStatusCompleted,
		ExaminationStatusFileUploaded,
		ExaminationStatusFileProcessing,
		ExaminationStatusProcessingFailed,
		ExaminationStatusProcessingSucceeded,
	}
}

type Examination struct {
	ID              int64             `json:"id"`
	PatientID       *int64            `json:"-"`
	DoctorID        *int64            `json:"-"`
	RecordingID     *int64            `json:"-"`
	Date            time.Time         `json:"date"`
	Overview        *string           `json:"overview"`
	Status          ExaminationStatus `json:"status"`
	HeightCm        *int              `json:"height_cm"`
	MassKg          *int              `json:"mass_kg"`
	Symptoms        *string           `json:"symptoms"`
	Medication      *string           `json:"medication"`
	AnalysisID      *string           `json:"analysis_id"`
	StatusChangedAt time.Time         `json:"-"`
	CreatedAt       time.Time         `json:"-"`
	UpdatedAt       time.Time         `json:"-"`

	Patient   *UserInfo           `json:"patient"`
	Doctor    *UserInfo           `json:"doctor"`
	Recording *RecordingReference `json:"recording"`
}

func (e *Examination) IsOwnedByDoctor(userID int64) bool {
	return e.DoctorID != nil && *e.DoctorID == userID
}

func (e *Examination) IsOwnedByPatient(userID int64) bool {
	return e.PatientID != nil && *e.PatientID == userID
}

// ExaminationDetail is the examination representation embedded in recordings.
type ExaminationDetail struct {
	ID         int64             `json:"id"`
	Patient    *UserInfo         `json:"patient"`
	HeightCm   *int              `json:"height_cm"`
	MassKg     *int              `json:"mass_kg"`
	Symptoms   *string           `json:"symptoms"`
	Medication *string           `json:"medication"`
	Status     ExaminationStatus `json:"status"`
	Date       time.Time         `json:"date"`
	Overview   *string           `json:"overview"`
	AnalysisID *string           `json:"analysis_id"`
}

func (e *Examination) Detail() *ExaminationDetail {
	if e == nil {
		return nil
	}
	return &ExaminationDetail{
		ID:         e.ID,
		Patient:    e.Patient,
		HeightCm:   e.HeightCm,
		MassKg:     e.MassKg,
		Symptoms:   e.Symptoms,
		Medication: e.Medication,
		Status:     e.Status,
		Date:       e.Date,
		Overview:   e.Overview,
		AnalysisID: e.AnalysisID,
	}
}

// ExaminationScope restricts listings to the caller's own examinations.
type ExaminationScope struct {
	DoctorID  *int64
	PatientID *int64
}

// ExaminationUpdate carries a partial update; nil fields are left untouched.
type ExaminationUpdate struct {
	PatientID   *int64
	DoctorID    *int64
	RecordingID *int64
	Date        *time.Time
	Status      *ExaminationStatus
	HeightCm    *int
	MassKg      *int
	Symptoms    *string
	Medication  *string
	Overview    *string

	// ExpectedStatus guards the update: it only applies while the examination
	// is still in this status.
	ExpectedStatus *ExaminationStatus
}

// StatusTransition is applied atomically: it only takes effect when the
// examination is currently in one of From and, if set, ExpectedAnalysisID
// still matches. SetRecordingID additionally requires the examination to
// have no recording yet.
type StatusTransition struct {
	ExaminationID      int64
	From               []ExaminationStatus
	To                 ExaminationStatus
	ExpectedAnalysisID *string
	SetAnalysisID      *string
	SetRecordingID     *int64
	ClearAnalysisID    bool
	ClearRecording     bool
}

type ExaminationStatistics struct {
	ExaminationCount           int `json:"examination_count"`
	PatientsRelatedCount       int `json:"patients_related_count"`
	ExaminationsScheduledCount int `json:"examinations_scheduled_count"`
	ExaminationsNextWeekCount  int `json:"examinations_next_week_count"`
}
