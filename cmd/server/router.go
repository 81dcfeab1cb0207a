package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
)

// setupRouter mounts the user and task routes plus /health.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.Post("/login", userHandler.Login)
			r.Post("/refresh", userHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/profile", userHandler.Profile)
				r.Put("/profile/password", userHandler.ChangePassword)
			})
		})

		r.Route("/task", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/", taskHandler.Create)
			r.Put("/update/{"+api.TaskIDParam+"}", taskHandler.Update)
			r.Delete("/delete/{"+api.TaskIDParam+"}", taskHandler.Delete)
			r.Get("/getalltask", taskHandler.List)
			r.Get("/search", taskHandler.Search)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
