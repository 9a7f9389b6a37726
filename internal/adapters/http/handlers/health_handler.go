package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const (
	checkOK  = "ok"
	ready    = "ready"
	notReady = "not_ready"
)

// HealthHandler serves the health endpoints an orchestrator polls: liveness never
// touches the todo store, readiness runs every registered checker.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler returns a HealthHandler reporting on registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness serves GET /health/live and always answers 200.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, dto.HealthResponse{Status: checkOK})
}

// Readiness serves GET /health/ready: 200 "ready" when all checks pass,
// otherwise 503 "not_ready" with each failing check's error text.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	resp := dto.HealthResponse{Status: ready, Checks: make(map[string]string, len(results))}
	var failing []string
	for name, err := range results {
		if err == nil {
			resp.Checks[name] = checkOK
			continue
		}
		resp.Checks[name] = err.Error()
		failing = append(failing, name)
	}

	code := http.StatusOK
	if len(failing) > 0 {
		slices.Sort(failing)
		resp.Status = notReady
		code = http.StatusServiceUnavailable
		w.Header().Set("X-Failing-Checks", strings.Join(failing, ","))
	}
	respond(w, r, code, resp)
}
