package model

import "time"

// AdminSession records an authenticated admin. Sessions are persisted through
// storage so the admin flag survives restarts; they are removed on explicit
// logout or expiry.
type AdminSession struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
