package roster

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ab3d1/moneygrid/internal/dependencies/clock"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/storage"
)

// Service keeps subscribers synchronized with the stored roster and owns the
// administrative bulk operations.
//
// Every change is delivered as the complete current roster, never a delta;
// consumers replace their prior state wholesale on each update.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu   sync.RWMutex
	subs map[*Subscription]bool
}

// New creates a new roster service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "roster")),
		subs:    make(map[*Subscription]bool),
	}
}

// Subscription is a standing feed of full roster snapshots
type Subscription struct {
	svc       *Service
	onUpdate  func(model.Roster)
	onError   func(error)
	cancelled atomic.Bool
	errored   atomic.Bool
}

// Cancel releases the feed. Calling Cancel more than once is a no-op, and
// Cancel is safe to call during an in-flight delivery: once it returns, no
// further update fires.
func (sub *Subscription) Cancel() {
	if sub.cancelled.Swap(true) {
		return
	}
	sub.svc.mu.Lock()
	delete(sub.svc.subs, sub)
	sub.svc.mu.Unlock()
}

// Subscribe registers a standing feed. onUpdate receives the full roster on
// every change; onError fires at most once, after which the subscription is
// terminated and the consumer must re-subscribe. Callbacks must not block:
// they run on the notifying goroutine.
func (s *Service) Subscribe(onUpdate func(model.Roster), onError func(error)) *Subscription {
	sub := &Subscription{
		svc:      s,
		onUpdate: onUpdate,
		onError:  onError,
	}

	s.mu.Lock()
	s.subs[sub] = true
	count := len(s.subs)
	s.mu.Unlock()

	s.logger.Info("roster subscriber registered", slog.Int("total_subscribers", count))
	return sub
}

// SubscriberCount returns the number of active subscriptions
func (s *Service) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Snapshot returns the current roster, ordered by timestamp descending
func (s *Service) Snapshot(ctx context.Context) (model.Roster, error) {
	return s.storage.ListAssignments(ctx)
}

// NotifyChanged re-reads the roster and fans the full snapshot out to every
// subscriber. A failed read terminates all subscriptions via their onError
// callbacks, since live sync is lost.
func (s *Service) NotifyChanged(ctx context.Context) {
	snapshot, err := s.storage.ListAssignments(ctx)
	if err != nil {
		s.logger.Error("roster read failed, terminating subscriptions",
			slog.String("error", err.Error()))
		s.failAll(err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subs {
		if sub.cancelled.Load() {
			continue
		}
		sub.onUpdate(snapshot)
	}
}

// failAll delivers the error to every subscription once and terminates them
func (s *Service) failAll(err error) {
	s.mu.Lock()
	terminated := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		terminated = append(terminated, sub)
		delete(s.subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range terminated {
		if sub.cancelled.Load() || sub.errored.Swap(true) {
			continue
		}
		sub.onError(err)
	}
}

// PurgeAll deletes every assignment in one atomic batch and pushes the empty
// roster to subscribers
func (s *Service) PurgeAll(ctx context.Context) error {
	if err := s.storage.PurgeAssignments(ctx); err != nil {
		return err
	}

	s.logger.Info("roster purged")
	s.NotifyChanged(ctx)
	return nil
}

// Import validates the export file and atomically replaces the roster with
// its assignments. Source ids are never carried over; the store mints fresh
// ones. A rejected import leaves the existing roster untouched.
func (s *Service) Import(ctx context.Context, export *model.RosterExport) (model.Roster, error) {
	if export == nil {
		return nil, model.ErrInvalidFormat
	}
	if err := export.Validate(); err != nil {
		return nil, err
	}

	inserted, err := s.storage.ReplaceAssignments(ctx, export.Roster())
	if err != nil {
		return nil, err
	}

	s.logger.Info("roster imported", slog.Int("count", len(inserted)))
	s.NotifyChanged(ctx)
	return inserted, nil
}

// Export returns the current roster in the export file shape with export
// metadata
func (s *Service) Export(ctx context.Context) (*model.RosterExport, error) {
	snapshot, err := s.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewRosterExport(snapshot, s.clock.Now()), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Subscribe(onUpdate func(model.Roster), onError func(error)) *Subscription
	Snapshot(ctx context.Context) (model.Roster, error)
	NotifyChanged(ctx context.Context)
	PurgeAll(ctx context.Context) error
	Import(ctx context.Context, export *model.RosterExport) (model.Roster, error)
	Export(ctx context.Context) (*model.RosterExport, error)
}

var _ ServiceInterface = (*Service)(nil)
