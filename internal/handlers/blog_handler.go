package handlers

import (
	"net/http"
	"strconv"

	"studyabroad-backend/internal/auth"
	"studyabroad-backend/internal/content"
	"studyabroad-backend/internal/models"
	"studyabroad-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BlogHandler struct {
	Service BlogAPI
	Log     *zap.Logger
}

func NewBlogHandler(s BlogAPI, log *zap.Logger) *BlogHandler {
	return &BlogHandler{Service: s, Log: log}
}

// ============================================
// Public site
// ============================================

// ListPosts returns published posts resolved to ?locale (en, fr, ar).
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.ListPublished(r.Context())
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, localizeAll(posts, localeOf(r)))
}

// RecentPosts accepts ?limit, defaulting to three.
func (h *BlogHandler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.Service.ListRecent(r.Context(), limit)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, localizeAll(posts, localeOf(r)))
}

func (h *BlogHandler) PostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.GetPublishedBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, content.Localize(post, localeOf(r)))
}

// Slugs feeds the sitemap.
func (h *BlogHandler) Slugs(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.Service.ListAllSlugs(r.Context())
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	if slugs == nil {
		slugs = []models.PostSlug{}
	}
	utils.JSON(w, http.StatusOK, slugs)
}

func localeOf(r *http.Request) models.Locale {
	return models.ParseLocale(r.URL.Query().Get("locale"))
}

func localizeAll(posts []models.BlogPost, l models.Locale) []models.LocalizedPost {
	out := make([]models.LocalizedPost, 0, len(posts))
	for i := range posts {
		out = append(out, content.Localize(&posts[i], l))
	}
	return out
}

// ============================================
// Admin console
// ============================================

func (h *BlogHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.ListAdminPosts(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	utils.JSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.GetByID(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.Service.CreatePost(r.Context(), auth.CallerFrom(r.Context()), &in)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.Service.UpdatePost(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"], &in)
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePost(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	success(w)
}

func (h *BlogHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	published, err := h.Service.TogglePublish(r.Context(), auth.CallerFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, h.Log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true, "published": published})
}
