package handlers

import (
	"net/http"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type LeadHandler struct {
	Service LeadAPI
	Export  ExportAPI
	Log     *zap.Logger
}

func NewLeadHandler(s LeadAPI, export ExportAPI, log *zap.Logger) *LeadHandler {
	return &LeadHandler{Service: s, Export: export, Log: log}
}

func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Service.ListLeads(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	utils.JSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) AssignLeads(w http.ResponseWriter, r *http.Request) {
	var req models.AssignLeadsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.AssignLeads(r.Context(), auth.CallerFrom(r.Context()), req.LeadIDs, req.OperatorID); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *LeadHandler) UnassignLeads(w http.ResponseWriter, r *http.Request) {
	var req models.LeadIDsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.UnassignLeads(r.Context(), auth.CallerFrom(r.Context()), req.LeadIDs); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateLeadStatusRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Service.UpdateLeadStatus(r.Context(), auth.CallerFrom(r.Context()), id, req.Status); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *LeadHandler) DeleteLeads(w http.ResponseWriter, r *http.Request) {
	var req models.LeadIDsRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.DeleteLeads(r.Context(), auth.CallerFrom(r.Context()), req.LeadIDs); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req models.AddNoteRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.Service.AddNote(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"], req.Content)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, note)
}

func (h *LeadHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteNote(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *LeadHandler) ListOperators(w http.ResponseWriter, r *http.Request) {
	ops, err := h.Service.ListOperators(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	if ops == nil {
		ops = []models.Operator{}
	}
	utils.JSON(w, http.StatusOK, ops)
}

// ExportLeads uploads a CSV snapshot and returns its object key.
func (h *LeadHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	key, err := h.Export.ExportLeads(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"key": key})
}

func success(w http.ResponseWriter) {
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
