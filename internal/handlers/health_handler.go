package handlers

import (
	"net/http"

	"studyabroad-backend/internal/health"
	"studyabroad-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth is the liveness probe.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth fails while the database is unreachable.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic(r.Context())

	code := http.StatusOK
	if status.Status != health.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// DetailedHealth adds cache and host resource usage for the dashboard.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckDetailed(r.Context())

	code := http.StatusOK
	if status.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
