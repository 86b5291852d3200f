package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ab3d1/moneygrid/internal/dependencies/mocks"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/storage"
	"github.com/ab3d1/moneygrid/internal/storage/memory"
	"github.com/ab3d1/moneygrid/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) insert(name string, number int) *model.Assignment {
	a, err := s.storage.InsertAssignment(s.ctx, &model.Assignment{
		Name:      name,
		Number:    number,
		Timestamp: s.clock.Now().UnixMilli(),
	})
	s.Require().NoError(err)
	return a
}

// Subscription tests

func (s *ServiceSuite) TestSubscriberReceivesFullSnapshot() {
	s.insert("Neo", 3)

	var got model.Roster
	sub := s.service.Subscribe(func(r model.Roster) { got = r }, nil)
	defer sub.Cancel()

	s.insert("Trinity", 7)
	s.service.NotifyChanged(s.ctx)

	s.Require().Len(got, 2)
}

func (s *ServiceSuite) TestEveryChangeDeliversCompleteRoster() {
	var updates []int
	sub := s.service.Subscribe(func(r model.Roster) { updates = append(updates, len(r)) }, nil)
	defer sub.Cancel()

	s.insert("Neo", 3)
	s.service.NotifyChanged(s.ctx)
	s.insert("Trinity", 7)
	s.service.NotifyChanged(s.ctx)

	s.Equal([]int{1, 2}, updates)
}

func (s *ServiceSuite) TestCancelStopsUpdates() {
	calls := 0
	sub := s.service.Subscribe(func(model.Roster) { calls++ }, nil)

	s.service.NotifyChanged(s.ctx)
	sub.Cancel()
	s.service.NotifyChanged(s.ctx)

	s.Equal(1, calls)
	s.Equal(0, s.service.SubscriberCount())
}

func (s *ServiceSuite) TestCancelIsIdempotent() {
	sub := s.service.Subscribe(func(model.Roster) {}, nil)

	sub.Cancel()
	sub.Cancel()
	sub.Cancel()

	s.Equal(0, s.service.SubscriberCount())
}

func (s *ServiceSuite) TestSubscriberCount() {
	a := s.service.Subscribe(func(model.Roster) {}, nil)
	b := s.service.Subscribe(func(model.Roster) {}, nil)
	s.Equal(2, s.service.SubscriberCount())

	a.Cancel()
	s.Equal(1, s.service.SubscriberCount())
	b.Cancel()
	s.Equal(0, s.service.SubscriberCount())
}

func (s *ServiceSuite) TestReadFailureTerminatesSubscriptionsOnce() {
	failing := &failingStorage{Storage: s.storage}
	service := New(failing, s.clock, testutil.NopLogger())

	var errs []error
	service.Subscribe(func(model.Roster) { s.Fail("unexpected update") }, func(err error) {
		errs = append(errs, err)
	})

	failing.fail = true
	service.NotifyChanged(s.ctx)
	service.NotifyChanged(s.ctx)

	s.Require().Len(errs, 1)
	s.EqualError(errs[0], "store down")
	s.Equal(0, service.SubscriberCount())
}

// Purge tests

func (s *ServiceSuite) TestPurgeAllEmptiesRosterAndNotifies() {
	s.insert("Neo", 3)
	s.insert("Trinity", 7)

	var got model.Roster
	notified := false
	sub := s.service.Subscribe(func(r model.Roster) {
		got = r
		notified = true
	}, nil)
	defer sub.Cancel()

	s.Require().NoError(s.service.PurgeAll(s.ctx))

	s.True(notified)
	s.Empty(got)

	roster, err := s.storage.ListAssignments(s.ctx)
	s.Require().NoError(err)
	s.Empty(roster)
}

func (s *ServiceSuite) TestPurgeEmptyRosterSucceeds() {
	s.Require().NoError(s.service.PurgeAll(s.ctx))
}

// Import and export tests

func (s *ServiceSuite) TestImportReplacesRoster() {
	s.insert("Old", 1)

	export := &model.RosterExport{
		Assignments: []model.ExportedAssignment{
			{Name: "Neo", Number: 3, Timestamp: 100},
			{Name: "Trinity", Number: 7, Timestamp: 200},
		},
	}

	imported, err := s.service.Import(s.ctx, export)
	s.Require().NoError(err)
	s.Len(imported, 2)

	roster, err := s.storage.ListAssignments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 2)
	s.Nil(roster.FindByName("Old"))
	s.NotNil(roster.FindByName("Neo"))
}

func (s *ServiceSuite) TestImportMintsFreshIDs() {
	export := &model.RosterExport{
		Assignments: []model.ExportedAssignment{{Name: "Neo", Number: 3}},
	}

	imported, err := s.service.Import(s.ctx, export)
	s.Require().NoError(err)
	s.Require().Len(imported, 1)
	s.NotEmpty(imported[0].ID)
}

func (s *ServiceSuite) TestRejectedImportLeavesRosterUntouched() {
	s.insert("Old", 1)

	export := &model.RosterExport{
		Assignments: []model.ExportedAssignment{
			{Name: "Neo", Number: 3},
			{Name: "Trinity", Number: 3},
		},
	}

	_, err := s.service.Import(s.ctx, export)
	s.Require().ErrorIs(err, model.ErrDuplicateNumbers)

	roster, _ := s.storage.ListAssignments(s.ctx)
	s.Require().Len(roster, 1)
	s.Equal("Old", roster[0].Name)
}

func (s *ServiceSuite) TestImportNilExport() {
	_, err := s.service.Import(s.ctx, nil)
	s.ErrorIs(err, model.ErrInvalidFormat)
}

func (s *ServiceSuite) TestImportNotifiesSubscribers() {
	var got model.Roster
	sub := s.service.Subscribe(func(r model.Roster) { got = r }, nil)
	defer sub.Cancel()

	export := &model.RosterExport{
		Assignments: []model.ExportedAssignment{{Name: "Neo", Number: 3}},
	}
	_, err := s.service.Import(s.ctx, export)
	s.Require().NoError(err)

	s.Len(got, 1)
}

func (s *ServiceSuite) TestExportRoundTrip() {
	s.insert("Neo", 3)
	s.insert("Trinity", 7)

	export, err := s.service.Export(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, export.TotalPlayers)
	s.Equal("2024-01-01T12:00:00Z", export.ExportDate)

	s.Require().NoError(s.service.PurgeAll(s.ctx))

	imported, err := s.service.Import(s.ctx, export)
	s.Require().NoError(err)
	s.Len(imported, 2)
	s.NotNil(imported.FindByName("Neo"))
	s.NotNil(imported.FindByName("Trinity"))
}

// failingStorage switches ListAssignments to an error on demand
type failingStorage struct {
	storage.Storage
	fail bool
}

func (f *failingStorage) ListAssignments(ctx context.Context) (model.Roster, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	return f.Storage.ListAssignments(ctx)
}
