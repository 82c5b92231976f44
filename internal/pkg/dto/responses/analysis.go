package responses

import "bowell-service/internal/app/models"

type DispatchAnalysis struct {
	TaskID string                   `json:"task_id"`
	Status models.AnalysisRunStatus `json:"status"`
}

type HealthCheck struct {
	Status string `json:"status"`
}
