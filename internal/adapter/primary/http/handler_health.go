package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// healthCheckTimeout bounds each individual store check.
const healthCheckTimeout = 2 * time.Second

// HealthHandler handles GET /health requests.
type HealthHandler struct {
	checks []secondary.HealthChecker
}

// NewHealthHandler creates a health check handler with the given checkers.
func NewHealthHandler(checks []secondary.HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// ServeHTTP runs every check and answers 503 if any of them fails.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	healthy := true
	checks := make(map[string]string, len(h.checks))

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := check.Check(ctx)
		cancel()

		if err != nil {
			healthy = false
			checks[check.Name()] = err.Error()
			continue
		}
		checks[check.Name()] = "ok"
	}

	if !healthy {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Checks: checks})
}
