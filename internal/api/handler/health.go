package handler

import (
	"context"
	"net/http"
	"time"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]CheckFunc
}

func NewHealthHandler(checks map[string]CheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Live reports process liveness and never touches dependencies.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready probes every registered dependency and fails fast on the first one
// that does not answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status["status"] = "degraded"
			status[name] = err.Error()
			RespondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status[name] = "ok"
	}
	RespondJSON(w, http.StatusOK, status)
}
