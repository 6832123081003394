package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)

	if app.config.Server.MetricsEnabled {
		httpMetrics, err := apiMiddleware.NewHTTPMetrics(app.registry)
		if err != nil {
			// Only possible if the router is built twice on one registry.
			app.logger.Error("Failed to register HTTP metrics", "error", err)
		} else {
			r.Use(httpMetrics.Middleware)
		}
	}

	r.Use(middleware.Recoverer)

	healthHandler := api.NewHealthHandler(app.startedAt)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.directory, app.config.Server.IdentityHeader)

	r.Get("/health", healthHandler.Health)
	if app.config.Server.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	// Group middleware wraps matched handlers only, so unmatched paths
	// fall through to notFound without an identity check.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/tasks", taskHandler.ListTasks)
		r.Post("/api/v1/tasks", taskHandler.CreateTask)
		r.Get("/api/v1/tasks/{id}", taskHandler.GetTask)
		r.Patch("/api/v1/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/api/v1/tasks/{id}", taskHandler.DeleteTask)
	})

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Not Found")
}
