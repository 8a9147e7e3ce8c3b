package handlers

import (
	"net/http"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdminHandler manages staff accounts. Every route is SuperAdmin only.
type AdminHandler struct {
	Service AdminAPI
	Log     *zap.Logger
}

func NewAdminHandler(s AdminAPI, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Service: s, Log: log}
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Service.ListAdmins(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, err := h.Service.CreateAdmin(r.Context(), auth.CallerFrom(r.Context()), &req)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAdmin(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}
