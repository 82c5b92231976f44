package routers

import (
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// Uploads are capped by the recording size limit inside the controller, so
// the generic body limit only guards the JSON routes.
func attachRecordingRoutes(router chi.Router, middlewares *middlewares.Middlewares, recordingController *controllers.RecordingController, analysisController *controllers.AnalysisController) {
	router.Use(middlewares.Authenticate, middlewares.Authorize)
	router.Get("/", recordingController.ListRecordings)
	router.Post("/", recordingController.CreateRecording)
	router.Get("/{id}", recordingController.GetRecording)
	router.With(middlewares.LimitBody).Put("/{id}", recordingController.UpdateRecording)
	router.With(middlewares.LimitBody).Patch("/{id}", recordingController.UpdateRecording)
	router.Delete("/{id}", recordingController.DetachRecording)
	router.Get("/{id}/analyses", analysisController.ListRuns)
}
