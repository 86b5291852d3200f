package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Assignment operations

// InsertAssignment claims a slot with SETNX. The slot key existing means the
// number is taken; the current owner is read back for the error detail.
func (s *Storage) InsertAssignment(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	stored := *a
	stored.ID = model.AssignmentID(uuid.NewString())

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	ok, err := s.client.SetNX(ctx, slotKey(stored.Number), data, 0).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		takenBy := ""
		if existing, err := s.getSlot(ctx, stored.Number); err == nil && existing != nil {
			takenBy = existing.Name
		}
		return nil, &model.SlotTakenError{Number: stored.Number, TakenBy: takenBy}
	}

	return &stored, nil
}

func (s *Storage) ListAssignments(ctx context.Context) (model.Roster, error) {
	values, err := s.client.MGet(ctx, allSlotKeys()...).Result()
	if err != nil {
		return nil, err
	}

	roster := make(model.Roster, 0, model.SlotCount)
	for _, val := range values {
		if val == nil {
			continue // Free slot
		}
		var a model.Assignment
		if err := json.Unmarshal([]byte(val.(string)), &a); err != nil {
			continue // Skip invalid data
		}
		roster = append(roster, &a)
	}

	roster.Sort()
	return roster, nil
}

// PurgeAssignments deletes every slot in one MULTI/EXEC transaction
func (s *Storage) PurgeAssignments(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range allSlotKeys() {
			pipe.Del(ctx, key)
		}
		return nil
	})
	return err
}

// ReplaceAssignments purges and re-inserts in one MULTI/EXEC transaction so
// a failed batch never leaves a partial roster
func (s *Storage) ReplaceAssignments(ctx context.Context, roster model.Roster) (model.Roster, error) {
	inserted := make(model.Roster, 0, len(roster))
	payloads := make(map[int][]byte, len(roster))

	for _, a := range roster {
		if _, ok := payloads[a.Number]; ok {
			return nil, model.ErrDuplicateNumbers
		}
		stored := *a
		stored.ID = model.AssignmentID(uuid.NewString())
		data, err := json.Marshal(&stored)
		if err != nil {
			return nil, err
		}
		payloads[stored.Number] = data
		inserted = append(inserted, &stored)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range allSlotKeys() {
			pipe.Del(ctx, key)
		}
		for number, data := range payloads {
			pipe.Set(ctx, slotKey(number), data, 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inserted.Sort()
	return inserted, nil
}

// getSlot reads a single slot, returning nil when the slot is free
func (s *Storage) getSlot(ctx context.Context, number int) (*model.Assignment, error) {
	data, err := s.client.Get(ctx, slotKey(number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var a model.Assignment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Admin session operations

func (s *Storage) SaveAdminSession(ctx context.Context, session *model.AdminSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Expire the key with the session so stale sessions clean themselves up
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, adminSessionKey(session.Token), data, ttl).Err()
}

func (s *Storage) GetAdminSession(ctx context.Context, token string) (*model.AdminSession, error) {
	data, err := s.client.Get(ctx, adminSessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}

	var session model.AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteAdminSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, adminSessionKey(token)).Err()
}
