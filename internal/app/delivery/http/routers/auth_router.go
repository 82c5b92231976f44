package routers

import (
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, middlewares *middlewares.Middlewares, authController *controllers.AuthController) {
	router.Use(middlewares.LimitBody)
	router.Post("/token", authController.ObtainTokenPair)
	router.Post("/token/refresh", authController.RefreshToken)
	router.Post("/token/verify", authController.VerifyToken)
	router.Post("/logout", authController.Logout)
}
