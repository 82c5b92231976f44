package routers

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"
	"bowell-service/internal/app/delivery/websocket"
	"bowell-service/internal/pkg/metrics"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Examination *controllers.ExaminationController
	Recording   *controllers.RecordingController
	Analysis    *controllers.AnalysisController
	Health      *controllers.HealthController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	ctrls *Controllers,
	hub *websocket.Hub,
	collector *metrics.Collector,
) {
	allowedOrigins := internalConfig.App.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RateLimit())

	router.Get("/healthz", ctrls.Health.Healthz)
	if internalConfig.Metrics.Enabled && collector != nil {
		router.Method("GET", "/metrics", collector.Handler())
	}

	router.With(middlewares.OptionalAuthenticate).Get("/ws/users/{user_code}/", hub.ServeWS)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				attachAuthRoutes(r, middlewares, ctrls.Auth)
			})

			r.Route("/users", func(r chi.Router) {
				attachUserRoutes(r, middlewares, ctrls.User)
			})

			r.Route("/examinations", func(r chi.Router) {
				attachExaminationRoutes(r, middlewares, ctrls.Examination, ctrls.Analysis)
			})

			r.Route("/recordings", func(r chi.Router) {
				attachRecordingRoutes(r, middlewares, ctrls.Recording, ctrls.Analysis)
			})
		})
	})
}
