package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ab3d1/moneygrid/internal/api/apierr"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/services/admin"
)

type contextKey string

const sessionContextKey contextKey = "admin_session"

// SessionCookieName is the cookie carrying the admin session token
const SessionCookieName = "admin_session"

// AdminAuth creates middleware gating a route behind an admin session.
// This is informational gating only (shared static secret); it is not a
// security boundary.
func AdminAuth(adminService *admin.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := adminService.ValidateSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the admin session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the admin session from the request context
func GetSession(ctx context.Context) *model.AdminSession {
	session, _ := ctx.Value(sessionContextKey).(*model.AdminSession)
	return session
}

// MustGetSession returns the admin session or panics
func MustGetSession(ctx context.Context) *model.AdminSession {
	session := GetSession(ctx)
	if session == nil {
		panic("no admin session in context - auth middleware not applied?")
	}
	return session
}
