package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ab3d1/moneygrid/internal/api/middleware"
	"github.com/ab3d1/moneygrid/internal/api/request"
	"github.com/ab3d1/moneygrid/internal/api/response"
	"github.com/ab3d1/moneygrid/internal/services/admin"
)

// AdminHandler handles admin session endpoints
type AdminHandler struct {
	adminService *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	session, err := h.adminService.Login(r.Context(), req.Secret)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Browser clients get a cookie, API clients use the bearer token
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.JSON(w, http.StatusOK, response.AdminLoginResponseFromSession(session))
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	if err := h.adminService.Logout(r.Context(), session.Token); err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.NoContent(w)
}
