package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ab3d1/moneygrid/internal/api/handler"
	"github.com/ab3d1/moneygrid/internal/api/middleware"
	"github.com/ab3d1/moneygrid/internal/api/response"
	"github.com/ab3d1/moneygrid/internal/services/admin"
	"github.com/ab3d1/moneygrid/internal/services/allocator"
	"github.com/ab3d1/moneygrid/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AllocatorService allocator.ServiceInterface
	RosterService    *roster.Service
	AdminService     *admin.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	assignmentHandler := handler.NewAssignmentHandler(cfg.AllocatorService, cfg.RosterService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)

	// Create middleware
	adminAuthMiddleware := middleware.AdminAuth(cfg.AdminService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public assignment routes
	api.HandleFunc("/assignments", assignmentHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/assignments", assignmentHandler.GetRoster).Methods(http.MethodGet)
	api.HandleFunc("/assignments/events", assignmentHandler.Events).Methods(http.MethodGet)

	// Admin login (no session required)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Admin-gated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(adminAuthMiddleware)
	protected.HandleFunc("/assignments", assignmentHandler.Purge).Methods(http.MethodDelete)
	protected.HandleFunc("/assignments/export", assignmentHandler.Export).Methods(http.MethodGet)
	protected.HandleFunc("/assignments/import", assignmentHandler.Import).Methods(http.MethodPost)
	protected.HandleFunc("/admin/logout", adminHandler.Logout).Methods(http.MethodPost)

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
