package storage

import (
	"context"

	"github.com/ab3d1/moneygrid/internal/model"
)

// Storage defines the interface for the shared assignment store.
//
// InsertAssignment is a conditional write: it fails with a
// model.SlotTakenError when the slot is already claimed, so slot uniqueness
// does not depend on the caller's optimistic re-check.
type Storage interface {
	// Assignment operations
	InsertAssignment(ctx context.Context, a *model.Assignment) (*model.Assignment, error)
	ListAssignments(ctx context.Context) (model.Roster, error)

	// Administrative bulk operations. Both are all-or-nothing: a failed
	// batch leaves the stored roster untouched.
	PurgeAssignments(ctx context.Context) error
	ReplaceAssignments(ctx context.Context, roster model.Roster) (model.Roster, error)

	// Admin session operations
	SaveAdminSession(ctx context.Context, session *model.AdminSession) error
	GetAdminSession(ctx context.Context, token string) (*model.AdminSession, error)
	DeleteAdminSession(ctx context.Context, token string) error

	Close() error
}
