package routers

import (
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachExaminationRoutes(router chi.Router, middlewares *middlewares.Middlewares, examinationController *controllers.ExaminationController, analysisController *controllers.AnalysisController) {
	router.Use(middlewares.LimitBody, middlewares.APIKeyAuth, middlewares.Authenticate, middlewares.Authorize)
	router.Get("/", examinationController.ListExaminations)
	router.Post("/", examinationController.CreateExamination)
	router.Get("/statistics", examinationController.GetStatistics)
	router.Get("/{id}", examinationController.GetExamination)
	router.Put("/{id}", examinationController.UpdateExamination)
	router.Patch("/{id}", examinationController.UpdateExamination)
	router.Post("/{id}/analysis", analysisController.Dispatch)
	router.Get("/{id}/analysis", analysisController.GetStatus)
}
