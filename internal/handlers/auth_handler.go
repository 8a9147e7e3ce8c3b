package handlers

import (
	"net/http"
	"time"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/middleware"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Service       AuthAPI
	SecureCookies bool
	Log           *zap.Logger
}

func NewAuthHandler(s AuthAPI, secureCookies bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: s, SecureCookies: secureCookies, Log: log}
}

// Login issues a session token in the body and as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}

	setSessionCookie(w, resp.Token, resp.ExpiresAt, h.SecureCookies)
	utils.JSON(w, http.StatusOK, resp)
}

// Logout revokes the presented token and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(r.Context(), middleware.ClaimsFromContext(r.Context()))
	clearSessionCookie(w, h.SecureCookies)
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the current session identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c := auth.CallerFrom(r.Context())
	if c == nil {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.JSON(w, http.StatusOK, models.SessionUser{ID: c.ID, Role: c.Role, Name: c.Name, Email: c.Email})
}

func (h *AuthHandler) LoginLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Service.ListLoginLogs(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
