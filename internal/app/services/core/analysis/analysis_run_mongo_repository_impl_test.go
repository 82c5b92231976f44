package analysis

import (
	"bowell-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunUpdateDocument(t *testing.T) {
	t.Run("Only Set Fields", func(t *testing.T) {
		doc := runUpdateDocument(&models.AnalysisRunUpdate{Status: models.AnalysisRunStatusStarted}, fixedNow)

		assert.Equal(t, models.AnalysisRunStatusStarted, doc["status"])
		assert.Equal(t, fixedNow, doc["updatedAt"])
		assert.NotContains(t, doc, "error")
		assert.NotContains(t, doc, "finishedAt")
	})

	t.Run("Failure With Details", func(t *testing.T) {
		attempts := 3
		used := false
		doc := runUpdateDocument(&models.AnalysisRunUpdate{
			Status:        models.AnalysisRunStatusFailure,
			Attempts:      &attempts,
			Error:         stringPtr("timeout"),
			UsedMockModel: &used,
			FinishedAt:    timePtr(fixedNow),
		}, fixedNow)

		assert.Equal(t, 3, doc["attempts"])
		assert.Equal(t, "timeout", doc["error"])
		assert.Equal(t, false, doc["usedMockModel"])
		assert.Equal(t, fixedNow, doc["finishedAt"])
	})

	t.Run("Final Status Stamps Finish Time", func(t *testing.T) {
		doc := runUpdateDocument(&models.AnalysisRunUpdate{Status: models.AnalysisRunStatusSuccess}, fixedNow)
		assert.Equal(t, fixedNow, doc["finishedAt"])

		doc = runUpdateDocument(&models.AnalysisRunUpdate{Status: models.AnalysisRunStatusRetry}, fixedNow)
		assert.NotContains(t, doc, "finishedAt")
	})

	t.Run("Empty Status Not Written", func(t *testing.T) {
		doc := runUpdateDocument(&models.AnalysisRunUpdate{}, fixedNow)
		assert.Len(t, doc, 1)
	})
}
