package models

import "time"

type AnalysisRunStatus string

const (
	AnalysisRunStatusPending AnalysisRunStatus = "PENDING"
	AnalysisRunStatusStarted AnalysisRunStatus = "STARTED"
	AnalysisRunStatusRetry   AnalysisRunStatus = "RETRY"
	AnalysisRunStatusSuccess AnalysisRunStatus = "SUCCESS"
	AnalysisRunStatusFailure AnalysisRunStatus = "FAILURE"
)

func (s AnalysisRunStatus) IsFinal() bool {
	return s == AnalysisRunStatusSuccess || s == AnalysisRunStatusFailure
}

// AnalysisJob is the message handed to the analysis worker.
type AnalysisJob struct {
	AnalysisID    string `json:"analysis_id"`
	ExaminationID int64  `json:"examination_id"`
	RecordingID   int64  `json:"recording_id"`
	File          string `json:"file"`
	UserID        int64  `json:"user_id"`
	FailedCount   int    `json:"failed_count"`
	RequestID     string `json:"request_id,omitempty"`
}

// AnalysisRun is the archived history entry of one dispatch.
type AnalysisRun struct {
	AnalysisID    string            `json:"task_id" bson:"_id"`
	ExaminationID int64             `json:"examination_id" bson:"examinationId"`
	RecordingID   int64             `json:"recording_id" bson:"recordingId"`
	RequestedBy   int64             `json:"requested_by" bson:"requestedBy"`
	Status        AnalysisRunStatus `json:"status" bson:"status"`
	Attempts      int               `json:"attempts" bson:"attempts"`
	Error         string            `json:"error,omitempty" bson:"error,omitempty"`
	UsedMockModel bool              `json:"used_mock_model" bson:"usedMockModel"`
	StartedAt     *time.Time        `json:"started_at,omitempty" bson:"startedAt,omitempty"`
	FinishedAt    *time.Time        `json:"finished_at,omitempty" bson:"finishedAt,omitempty"`
	TimeModel     `bson:",inline"`
}

type AnalysisRunUpdate struct {
	Status        AnalysisRunStatus
	Attempts      *int
	Error         *string
	UsedMockModel *bool
	StartedAt     *time.Time
	FinishedAt    *time.Time
}

// AnalysisStatus is returned to clients polling an examination's analysis.
type AnalysisStatus struct {
	TaskID string            `json:"task_id"`
	Status AnalysisRunStatus `json:"status"`
	Result *Recording        `json:"result,omitempty"`
}

// InferenceOutcome is what the worker obtains from the inference service.
type InferenceOutcome struct {
	Result   AnalysisResult
	UsedMock bool
}

// AnalysisJobOutcome tells the worker what to do with a processed delivery.
type AnalysisJobOutcome int

const (
	// AnalysisJobDone acks the delivery, the job reached a final state.
	AnalysisJobDone AnalysisJobOutcome = iota
	// AnalysisJobRetry increments failed_count and requeues the job.
	AnalysisJobRetry
	// AnalysisJobRequeue puts the job back untouched, e.g. the recording is locked.
	AnalysisJobRequeue
	// AnalysisJobDeadLetter moves the job to the dead-letter queue.
	AnalysisJobDeadLetter
)

func (o AnalysisJobOutcome) String() string {
	switch o {
	case AnalysisJobDone:
		return "done"
	case AnalysisJobRetry:
		return "retry"
	case AnalysisJobRequeue:
		return "requeue"
	case AnalysisJobDeadLetter:
		return "dead_letter"
	}
	return "unknown"
}
