package handlers

import (
	"net/http"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/pkg/utils"

	"go.uber.org/zap"
)

type AdminActionLogHandler struct {
	Audit ActionLogAPI
	Log   *zap.Logger
}

func NewAdminActionLogHandler(audit ActionLogAPI, log *zap.Logger) *AdminActionLogHandler {
	return &AdminActionLogHandler{Audit: audit, Log: log}
}

// ListActionLogs returns the audit trail, newest first. SuperAdmin only.
func (h *AdminActionLogHandler) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Audit.List(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
