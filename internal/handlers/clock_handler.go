package handlers

import (
	"fmt"
	"net/http"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/middleware"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/internal/timeutil"
	"studyabroad-backend/pkg/utils"

	"go.uber.org/zap"
)

type ClockHandler struct {
	Service       ClockAPI
	Auth          AuthAPI
	SecureCookies bool
	Log           *zap.Logger
}

func NewClockHandler(s ClockAPI, authAPI AuthAPI, secureCookies bool, log *zap.Logger) *ClockHandler {
	return &ClockHandler{Service: s, Auth: authAPI, SecureCookies: secureCookies, Log: log}
}

// decodeGeo accepts an empty body; coordinates are optional.
func decodeGeo(w http.ResponseWriter, r *http.Request) (models.GeoPoint, bool) {
	var geo models.GeoPoint
	if r.ContentLength == 0 {
		return geo, true
	}
	if err := utils.DecodeJSON(w, r, &geo); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return geo, false
	}
	return geo, true
}

func (h *ClockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	geo, ok := decodeGeo(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.ClockIn(r.Context(), auth.CallerFrom(r.Context()), geo)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ClockInResponse{Success: true, RecordID: rec.ID})
}

// ClockOut closes the session. Roles whose day ends at clock-out are logged out too.
func (h *ClockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	geo, ok := decodeGeo(w, r)
	if !ok {
		return
	}

	c := auth.CallerFrom(r.Context())
	rec, err := h.Service.ClockOut(r.Context(), c, geo)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}

	resp := models.ClockOutResponse{Success: true}
	if rec.DurationMs != nil {
		resp.DurationMs = *rec.DurationMs
	}
	if c != nil && auth.EndsSessionOnClockOut(c.Role) {
		h.Auth.Logout(r.Context(), middleware.ClaimsFromContext(r.Context()))
		clearSessionCookie(w, h.SecureCookies)
		resp.LoggedOut = true
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Active returns {"record": null} when the caller is not clocked in.
func (h *ClockHandler) Active(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.ActiveRecord(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]*models.ClockRecord{"record": rec})
}

func (h *ClockHandler) Records(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListRecords(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	if records == nil {
		records = []models.ClockRecord{}
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *ClockHandler) RecordsPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Service.TimesheetPDF(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}

	filename := fmt.Sprintf("timesheet_%s.pdf", timeutil.FormatLocal(timeutil.Now(), timeutil.FileLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
