package admin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ab3d1/moneygrid/internal/dependencies/clock"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/storage"
)

// Service gates the administrative operations behind a shared secret.
//
// This is informational gating, not a security boundary: the secret is a
// single static value shared with every administrator.
type Service struct {
	storage    storage.Storage
	clock      clock.Clock
	logger     *slog.Logger
	secretHash []byte

	sessionDuration time.Duration
}

// Config holds configuration for the admin service
type Config struct {
	// Secret is the shared admin secret. An empty secret disables admin
	// login entirely.
	Secret          string
	SessionDuration time.Duration
}

// DefaultConfig returns default admin configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new admin service. The configured secret is hashed once at
// startup and only the hash is retained.
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}

	var secretHash []byte
	if cfg.Secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		secretHash = hash
	}

	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger.With(slog.String("component", "admin")),
		secretHash:      secretHash,
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// Login verifies the shared secret and creates a persisted admin session.
// Sessions outlive the process: they are stored until expiry or logout.
func (s *Service) Login(ctx context.Context, secret string) (*model.AdminSession, error) {
	if len(s.secretHash) == 0 {
		return nil, model.ErrAuthDenied
	}
	if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(secret)); err != nil {
		s.logger.Warn("admin login denied")
		return nil, model.ErrAuthDenied
	}

	now := s.clock.Now()
	session := &model.AdminSession{
		Token:     generateToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.storage.SaveAdminSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("admin session created")
	return session, nil
}

// ValidateSession checks a session token, removing it if expired
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.AdminSession, error) {
	session, err := s.storage.GetAdminSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.clock.Now().After(session.ExpiresAt) {
		_ = s.storage.DeleteAdminSession(ctx, token)
		return nil, model.ErrInvalidSession
	}

	return session, nil
}

// Logout removes a session, resetting the admin flag for that token
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.storage.DeleteAdminSession(ctx, token); err != nil {
		return err
	}
	s.logger.Info("admin session ended")
	return nil
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "adm_" + base64.RawURLEncoding.EncodeToString(b)
}
