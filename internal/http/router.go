package http

import (
	"net/http"

	"studyabroad-backend/internal/handlers"
	"studyabroad-backend/internal/middleware"
	"studyabroad-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	leadHandler *handlers.LeadHandler,
	adminHandler *handlers.AdminHandler,
	clockHandler *handlers.ClockHandler,
	blogHandler *handlers.BlogHandler,
	contactHandler *handlers.ContactHandler,
	adminActionLogHandler *handlers.AdminActionLogHandler,
	healthHandler *handlers.HealthHandler,
	leadFeed http.HandlerFunc,
	authMiddleware *middleware.AuthMiddleware,
	log *zap.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.APILogging(log))
	r.Use(middleware.MetricsMiddleware)

	// Health and metrics (NO AUTHENTICATION REQUIRED)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - registered before the protected /api subrouters
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/contact", contactHandler.Submit).Methods("POST")

	blogAPI := r.PathPrefix("/api/blog/posts").Subrouter()
	blogAPI.HandleFunc("", blogHandler.ListPosts).Methods("GET")
	blogAPI.HandleFunc("/recent", blogHandler.RecentPosts).Methods("GET")
	blogAPI.HandleFunc("/slugs", blogHandler.Slugs).Methods("GET")
	blogAPI.HandleFunc("/{slug}", blogHandler.PostBySlug).Methods("GET")

	// Session
	r.Handle("/auth/logout", authMiddleware.Authenticate(http.HandlerFunc(authHandler.Logout))).Methods("POST")
	r.Handle("/api/me", authMiddleware.Authenticate(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Protected API routes - Leads (operators must be clocked in)
	leadsAPI := r.PathPrefix("/api/leads").Subrouter()
	leadsAPI.Use(authMiddleware.Authenticate)
	leadsAPI.Use(authMiddleware.RequireClockedIn)
	leadsAPI.HandleFunc("", leadHandler.ListLeads).Methods("GET")
	leadsAPI.HandleFunc("/assign", leadHandler.AssignLeads).Methods("POST")
	leadsAPI.HandleFunc("/unassign", leadHandler.UnassignLeads).Methods("POST")
	leadsAPI.HandleFunc("/delete", leadHandler.DeleteLeads).Methods("POST")
	leadsAPI.HandleFunc("/export", leadHandler.ExportLeads).Methods("POST")
	leadsAPI.Handle("/stream", authMiddleware.RequireRole(models.RoleAdmin)(leadFeed)).Methods("GET")
	leadsAPI.HandleFunc("/{id}/status", leadHandler.UpdateStatus).Methods("PATCH")
	leadsAPI.HandleFunc("/{id}/notes", leadHandler.AddNote).Methods("POST")

	notesAPI := r.PathPrefix("/api/notes").Subrouter()
	notesAPI.Use(authMiddleware.Authenticate)
	notesAPI.Use(authMiddleware.RequireClockedIn)
	notesAPI.HandleFunc("/{id}", leadHandler.DeleteNote).Methods("DELETE")

	operatorsAPI := r.PathPrefix("/api/operators").Subrouter()
	operatorsAPI.Use(authMiddleware.Authenticate)
	operatorsAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	operatorsAPI.HandleFunc("", leadHandler.ListOperators).Methods("GET")

	// Protected API routes - Staff accounts (SuperAdmin only)
	adminsAPI := r.PathPrefix("/api/admins").Subrouter()
	adminsAPI.Use(authMiddleware.Authenticate)
	adminsAPI.Use(authMiddleware.RequireRole(models.RoleSuperAdmin))
	adminsAPI.HandleFunc("", adminHandler.ListAdmins).Methods("GET")
	adminsAPI.HandleFunc("", adminHandler.CreateAdmin).Methods("POST")
	adminsAPI.HandleFunc("/{id}", adminHandler.DeleteAdmin).Methods("DELETE")

	// Protected API routes - Time tracking
	clockAPI := r.PathPrefix("/api/clock").Subrouter()
	clockAPI.Use(authMiddleware.Authenticate)
	clockAPI.HandleFunc("/in", clockHandler.ClockIn).Methods("POST")
	clockAPI.HandleFunc("/out", clockHandler.ClockOut).Methods("POST")
	clockAPI.HandleFunc("/active", clockHandler.Active).Methods("GET")
	clockAPI.HandleFunc("/records", clockHandler.Records).Methods("GET")
	clockAPI.HandleFunc("/records.pdf", clockHandler.RecordsPDF).Methods("GET")

	// Protected API routes - Blog console and logs
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.Authenticate)
	adminAPI.HandleFunc("/posts", blogHandler.AdminList).Methods("GET")
	adminAPI.HandleFunc("/posts", blogHandler.Create).Methods("POST")
	adminAPI.HandleFunc("/posts/{id}", blogHandler.AdminGet).Methods("GET")
	adminAPI.HandleFunc("/posts/{id}", blogHandler.Update).Methods("PUT")
	adminAPI.HandleFunc("/posts/{id}", blogHandler.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/posts/{id}/toggle-publish", blogHandler.TogglePublish).Methods("POST")
	adminAPI.HandleFunc("/login-logs", authHandler.LoginLogs).Methods("GET")
	adminAPI.HandleFunc("/action-logs", adminActionLogHandler.ListActionLogs).Methods("GET")

	return r
}
