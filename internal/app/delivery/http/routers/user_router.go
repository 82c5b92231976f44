package routers

import (
	"bowell-service/internal/app/delivery/http/controllers"
	"bowell-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachUserRoutes(router chi.Router, middlewares *middlewares.Middlewares, userController *controllers.UserController) {
	router.Use(middlewares.LimitBody)
	router.Post("/", userController.Register)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticate, middlewares.Authorize)
		r.Get("/", userController.ListUsers)
		r.Get("/me", userController.GetMe)
		r.Get("/{id}", userController.GetUser)
		r.Put("/{id}", userController.UpdateUser)
		r.Patch("/{id}", userController.UpdateUser)
		r.Delete("/{id}", userController.DeleteUser)
	})
}
