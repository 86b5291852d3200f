package allocator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ab3d1/moneygrid/internal/dependencies/clock"
	"github.com/ab3d1/moneygrid/internal/dependencies/random"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/services/fortune"
	"github.com/ab3d1/moneygrid/internal/storage"
)

// Service runs the unique-slot allocation protocol: read the roster, check
// for duplicates and capacity, draw uniformly from the free set, re-check,
// then conditionally insert.
type Service struct {
	storage storage.Storage
	fortune *fortune.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new allocator service
func New(
	storage storage.Storage,
	fortune *fortune.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		fortune: fortune,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "allocator")),
	}
}

// Register claims a slot for the named player. Exactly one outcome results:
// the accepted assignment, or one of model.ErrEmptyName,
// model.AlreadyRegisteredError, model.ErrSlotsExhausted,
// model.RaceLostError, or a storage error.
//
// A single attempt is made; retrying after a RaceLostError is the caller's
// decision.
func (s *Service) Register(ctx context.Context, name string) (*model.Assignment, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, model.ErrEmptyName
	}

	snapshot, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	// Duplicate players are rejected before any draw, so a repeat
	// registration never consumes randomness
	if existing := snapshot.FindByName(trimmed); existing != nil {
		return nil, &model.AlreadyRegisteredError{Existing: existing}
	}

	if snapshot.Full() {
		return nil, model.ErrSlotsExhausted
	}

	free := snapshot.FreeSlots()
	number := free[s.random.Intn(len(free))]

	assignment := &model.Assignment{
		Name:      trimmed,
		Number:    number,
		Timestamp: s.clock.Now().UnixMilli(),
		Fortune:   s.fortune.For(trimmed, number),
	}

	// Re-check the latest snapshot before writing. The conditional insert
	// below is what actually guarantees uniqueness; this shrinks the race
	// window and surfaces who holds the slot.
	latest, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	if owner := latest.FindByNumber(number); owner != nil {
		return nil, &model.RaceLostError{Number: number, TakenBy: owner.Name}
	}

	inserted, err := s.storage.InsertAssignment(ctx, assignment)
	if err != nil {
		var taken *model.SlotTakenError
		if errors.As(err, &taken) {
			return nil, &model.RaceLostError{Number: taken.Number, TakenBy: taken.TakenBy}
		}
		s.logger.Error("assignment write failed",
			slog.String("name", trimmed),
			slog.Int("number", number),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("slot assigned",
		slog.String("name", inserted.Name),
		slog.Int("number", inserted.Number),
		slog.Int("free_before", len(free)),
	)

	return inserted, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Register(ctx context.Context, name string) (*model.Assignment, error)
}

var _ ServiceInterface = (*Service)(nil)
