package handlers

import (
	"net/http"

	"studyabroad-backend/internal/middleware"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"
)

type ContactHandler struct {
	Service ContactAPI
}

func NewContactHandler(s ContactAPI) *ContactHandler {
	return &ContactHandler{Service: s}
}

// Submit always answers with the {success, message, error} envelope.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub models.ContactSubmission
	if err := utils.DecodeJSON(w, r, &sub); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ContactResponse{
			Message: "Please fill in all required fields.",
			Error:   models.ContactValidationError,
		})
		return
	}

	resp := h.Service.Submit(r.Context(), sub, middleware.ClientIP(r))
	utils.JSON(w, contactStatus(resp), resp)
}

func contactStatus(resp models.ContactResponse) int {
	switch resp.Error {
	case "":
		return http.StatusOK
	case models.ContactValidationError, models.ContactInvalidEmail:
		return http.StatusBadRequest
	case models.ContactRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
