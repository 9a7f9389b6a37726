// Package http is the inbound HTTP adapter of the todo service: routes,
// handlers, middleware and the listener.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"
)

// NewRouter mounts the todo API under /api/v1 and the health checks under /health.
// middlewares wrap every route, including unmatched ones, first given
// outermost. Unmatched paths and methods answer with problem+json.
func NewRouter(
	todos *handlers.TodoHandler,
	health *handlers.HealthHandler,
	middlewares ...middleware.Middleware,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(middlewares...))
	r.NotFound(problemHandler(http.StatusNotFound, "no such route"))
	r.MethodNotAllowed(problemHandler(http.StatusMethodNotAllowed, "method not supported on this route"))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", health.Liveness)
		r.Get("/ready", health.Readiness)
	})

	r.Route("/api/v1/todos", func(r chi.Router) {
		r.Get("/", todos.ListTodos)
		r.Post("/", todos.CreateTodo)
		r.Patch("/bulk", todos.BulkUpdateTodos)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todos.GetTodo)
			r.Patch("/", todos.UpdateTodo)
			r.Delete("/", todos.DeleteTodo)
		})
	})

	return r
}

func problemHandler(status int, detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto.WriteProblem(w, r, status, detail)
	}
}
