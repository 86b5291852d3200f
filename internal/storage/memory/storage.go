package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	slots         map[int]*model.Assignment
	adminSessions map[string]*model.AdminSession
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		slots:         make(map[int]*model.Assignment),
		adminSessions: make(map[string]*model.AdminSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Assignment operations

func (s *Storage) InsertAssignment(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.slots[a.Number]; ok {
		return nil, &model.SlotTakenError{Number: a.Number, TakenBy: existing.Name}
	}

	stored := *a
	stored.ID = model.AssignmentID(uuid.NewString())
	s.slots[a.Number] = &stored

	result := stored
	return &result, nil
}

func (s *Storage) ListAssignments(ctx context.Context) (model.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roster := make(model.Roster, 0, len(s.slots))
	for _, a := range s.slots {
		copied := *a
		roster = append(roster, &copied)
	}
	roster.Sort()
	return roster, nil
}

func (s *Storage) PurgeAssignments(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[int]*model.Assignment)
	return nil
}

func (s *Storage) ReplaceAssignments(ctx context.Context, roster model.Roster) (model.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate before touching state so a bad batch leaves the roster intact
	fresh := make(map[int]*model.Assignment, len(roster))
	for _, a := range roster {
		if _, ok := fresh[a.Number]; ok {
			return nil, model.ErrDuplicateNumbers
		}
		stored := *a
		stored.ID = model.AssignmentID(uuid.NewString())
		fresh[a.Number] = &stored
	}

	s.slots = fresh

	inserted := make(model.Roster, 0, len(fresh))
	for _, a := range fresh {
		copied := *a
		inserted = append(inserted, &copied)
	}
	inserted.Sort()
	return inserted, nil
}

// Admin session operations

func (s *Storage) SaveAdminSession(ctx context.Context, session *model.AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.adminSessions[session.Token] = &copied
	return nil
}

func (s *Storage) GetAdminSession(ctx context.Context, token string) (*model.AdminSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.adminSessions[token]
	if !ok {
		return nil, model.ErrInvalidSession
	}
	copied := *session
	return &copied, nil
}

func (s *Storage) DeleteAdminSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.adminSessions, token)
	return nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
