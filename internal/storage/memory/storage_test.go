package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ab3d1/moneygrid/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Assignment tests

func (s *StorageSuite) TestInsertAndList() {
	inserted, err := s.storage.InsertAssignment(s.ctx, &model.Assignment{
		Name:      "Neo",
		Number:    3,
		Timestamp: 100,
		Fortune:   "f",
	})
	s.Require().NoError(err)
	s.NotEmpty(inserted.ID)

	roster, err := s.storage.ListAssignments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 1)
	s.Equal("Neo", roster[0].Name)
	s.Equal(3, roster[0].Number)
}

func (s *StorageSuite) TestInsertTakenSlot() {
	_, err := s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Neo", Number: 3})
	s.Require().NoError(err)

	_, err = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Trinity", Number: 3})
	s.Require().ErrorIs(err, model.ErrSlotTaken)

	var taken *model.SlotTakenError
	s.Require().ErrorAs(err, &taken)
	s.Equal(3, taken.Number)
	s.Equal("Neo", taken.TakenBy)
}

func (s *StorageSuite) TestListOrdersByTimestampDescending() {
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "old", Number: 1, Timestamp: 100})
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "new", Number: 2, Timestamp: 300})
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "mid", Number: 3, Timestamp: 200})

	roster, err := s.storage.ListAssignments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 3)
	s.Equal("new", roster[0].Name)
	s.Equal("mid", roster[1].Name)
	s.Equal("old", roster[2].Name)
}

func (s *StorageSuite) TestListReturnsCopies() {
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Neo", Number: 3})

	roster, _ := s.storage.ListAssignments(s.ctx)
	roster[0].Name = "mutated"

	again, _ := s.storage.ListAssignments(s.ctx)
	s.Equal("Neo", again[0].Name)
}

func (s *StorageSuite) TestPurge() {
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Neo", Number: 3})
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Trinity", Number: 7})

	s.Require().NoError(s.storage.PurgeAssignments(s.ctx))

	roster, err := s.storage.ListAssignments(s.ctx)
	s.Require().NoError(err)
	s.Empty(roster)

	// Purged slots are claimable again
	_, err = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Morpheus", Number: 3})
	s.NoError(err)
}

func (s *StorageSuite) TestReplaceAssignments() {
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Old", Number: 1})

	inserted, err := s.storage.ReplaceAssignments(s.ctx, model.Roster{
		{Name: "Neo", Number: 3},
		{Name: "Trinity", Number: 7},
	})
	s.Require().NoError(err)
	s.Require().Len(inserted, 2)
	s.NotEmpty(inserted[0].ID)
	s.NotEmpty(inserted[1].ID)
	s.NotEqual(inserted[0].ID, inserted[1].ID)

	roster, _ := s.storage.ListAssignments(s.ctx)
	s.Require().Len(roster, 2)
	s.Nil(roster.FindByName("Old"))
}

func (s *StorageSuite) TestReplaceRejectsDuplicatesWithoutMutating() {
	_, _ = s.storage.InsertAssignment(s.ctx, &model.Assignment{Name: "Old", Number: 1})

	_, err := s.storage.ReplaceAssignments(s.ctx, model.Roster{
		{Name: "Neo", Number: 3},
		{Name: "Trinity", Number: 3},
	})
	s.Require().ErrorIs(err, model.ErrDuplicateNumbers)

	roster, _ := s.storage.ListAssignments(s.ctx)
	s.Require().Len(roster, 1)
	s.Equal("Old", roster[0].Name)
}

// Admin session tests

func (s *StorageSuite) TestSaveAndGetAdminSession() {
	session := &model.AdminSession{Token: "adm_abc"}
	s.Require().NoError(s.storage.SaveAdminSession(s.ctx, session))

	retrieved, err := s.storage.GetAdminSession(s.ctx, "adm_abc")
	s.Require().NoError(err)
	s.Equal("adm_abc", retrieved.Token)
}

func (s *StorageSuite) TestGetUnknownAdminSession() {
	_, err := s.storage.GetAdminSession(s.ctx, "adm_bogus")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *StorageSuite) TestDeleteAdminSession() {
	_ = s.storage.SaveAdminSession(s.ctx, &model.AdminSession{Token: "adm_abc"})

	s.Require().NoError(s.storage.DeleteAdminSession(s.ctx, "adm_abc"))

	_, err := s.storage.GetAdminSession(s.ctx, "adm_abc")
	s.ErrorIs(err, model.ErrInvalidSession)
}
