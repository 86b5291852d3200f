package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ab3d1/moneygrid/internal/api/request"
	"github.com/ab3d1/moneygrid/internal/api/response"
	"github.com/ab3d1/moneygrid/internal/api/sse"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/services/allocator"
	"github.com/ab3d1/moneygrid/internal/services/roster"
)

// Registration retries if another writer grabs the drawn number first.
// Each attempt draws from the then-current free set, so retries converge fast.
const registerMaxAttempts = 3

// AssignmentHandler handles assignment and roster endpoints
type AssignmentHandler struct {
	allocatorService allocator.ServiceInterface
	rosterService    *roster.Service
	logger           *slog.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(
	allocatorService allocator.ServiceInterface,
	rosterService *roster.Service,
	logger *slog.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		allocatorService: allocatorService,
		rosterService:    rosterService,
		logger:           logger,
	}
}

// Register handles POST /api/v1/assignments
func (h *AssignmentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	var assignment *model.Assignment
	var err error
	for attempt := 1; attempt <= registerMaxAttempts; attempt++ {
		assignment, err = h.allocatorService.Register(r.Context(), req.Name)
		if err == nil || !errors.Is(err, model.ErrRaceLost) {
			break
		}
		h.logger.Info("register raced, retrying",
			slog.String("name", req.Name),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	// Push the new roster to every subscriber
	h.rosterService.NotifyChanged(r.Context())

	response.JSON(w, http.StatusCreated, response.RegisterResponseFromModel(assignment))
}

// GetRoster handles GET /api/v1/assignments
func (h *AssignmentHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.rosterService.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterFromModel(snapshot))
}

// Events handles GET /api/v1/assignments/events (SSE roster feed)
func (h *AssignmentHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeRoster(w, r, h.rosterService, h.logger)
}

// Export handles GET /api/v1/assignments/export
func (h *AssignmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.rosterService.Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="moneygrid-export.json"`)
	response.JSON(w, http.StatusOK, export)
}

// Import handles POST /api/v1/assignments/import
func (h *AssignmentHandler) Import(w http.ResponseWriter, r *http.Request) {
	var export model.RosterExport
	if err := json.NewDecoder(r.Body).Decode(&export); err != nil {
		WriteError(w, model.ErrInvalidFormat)
		return
	}

	imported, err := h.rosterService.Import(r.Context(), &export)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ImportResponseFromModel(imported))
}

// Purge handles DELETE /api/v1/assignments
func (h *AssignmentHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.rosterService.PurgeAll(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewPurgeResponse())
}
