package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/platform/metrics"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(metrics.Middleware(app.metrics))

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	userHandler := api.NewUserHandler(app.userStore)
	projectHandler := api.NewProjectHandler(app.projectStore)
	taskHandler := api.NewTaskHandler(app.taskStore, app.projectStore)
	refDataHandler := api.NewRefDataHandler(app.priorityStore, app.statusStore)
	commentHandler := api.NewCommentHandler(app.commentStore, app.taskStore)
	attachmentHandler := api.NewAttachmentHandler(app.attachmentStore, app.taskStore)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/auth/me", authHandler.Me)

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}", userHandler.Get)
			r.Patch("/{id}", userHandler.Update)

			// Listing, creating and deleting accounts is admin-only.
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Delete("/{id}", userHandler.Delete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)
			r.Get("/{id}", projectHandler.Get)
			r.Patch("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		r.Route("/priorities", func(r chi.Router) {
			r.Get("/", refDataHandler.ListPriorities)
			r.Get("/{id}", refDataHandler.GetPriority)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Post("/", refDataHandler.CreatePriority)
				r.Patch("/{id}", refDataHandler.UpdatePriority)
				r.Delete("/{id}", refDataHandler.DeletePriority)
			})
		})

		r.Route("/statuses", func(r chi.Router) {
			r.Get("/", refDataHandler.ListStatuses)
			r.Get("/{id}", refDataHandler.GetStatus)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Post("/", refDataHandler.CreateStatus)
				r.Patch("/{id}", refDataHandler.UpdateStatus)
				r.Delete("/{id}", refDataHandler.DeleteStatus)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", commentHandler.Create)
			r.Get("/task/{taskId}", commentHandler.ListByTask)
			r.Get("/{id}", commentHandler.Get)
			r.Patch("/{id}", commentHandler.Update)
			r.Delete("/{id}", commentHandler.Delete)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Post("/", attachmentHandler.Create)
			r.Get("/task/{taskId}", attachmentHandler.ListByTask)
			r.Get("/{id}", attachmentHandler.Get)
			r.Delete("/{id}", attachmentHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		app.metrics.ObserveDBStats(app.db.Stats())
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
