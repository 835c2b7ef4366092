package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/product-catalog/models"
	"github.com/example/product-catalog/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuditRepositorySuite struct {
	suite.Suite
	repo *repository.AuditRepository
	ctx  context.Context
}

func TestAuditRepository(t *testing.T) {
	suite.Run(t, new(AuditRepositorySuite))
}

func (s *AuditRepositorySuite) SetupTest() {
	db := pg.DB(s.T())
	pg.Truncate(s.T(), "audit_logs")
	s.repo = repository.NewAuditRepository(db)
	s.ctx = context.Background()
}

func (s *AuditRepositorySuite) record(entityID string, action models.AuditAction, username string, at time.Time) models.AuditLog {
	entry := models.AuditLog{
		EntityType: "Product",
		EntityID:   entityID,
		Action:     action,
		Username:   username,
		Changes:    "Updated",
		CreatedAt:  at,
	}
	s.Require().NoError(s.repo.Create(s.ctx, &entry))
	return entry
}

func (s *AuditRepositorySuite) TestCreateAssignsID() {
	entry := s.record("p-1", models.AuditCreate, "system", time.Now())
	s.NotEqual(uuid.Nil, entry.ID)
}

func (s *AuditRepositorySuite) TestFindNewestFirst() {
	base := time.Now().Add(-time.Hour)
	s.record("p-1", models.AuditCreate, "system", base)
	s.record("p-1", models.AuditUpdate, "api-token", base.Add(time.Minute))
	s.record("p-2", models.AuditCreate, "system", base.Add(2*time.Minute))

	page, err := s.repo.Find(s.ctx, models.AuditFilter{EntityID: "p-1"}, models.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Require().Len(page.Entries, 2)
	s.Equal(models.AuditUpdate, page.Entries[0].Action)
	s.Equal(models.AuditCreate, page.Entries[1].Action)
}

func (s *AuditRepositorySuite) TestFindFilters() {
	base := time.Now().Add(-time.Hour)
	s.record("p-1", models.AuditCreate, "system", base)
	s.record("p-1", models.AuditUpdate, "api-token", base.Add(time.Minute))
	s.record("p-2", models.AuditDelete, "api-token", base.Add(2*time.Minute))

	page, err := s.repo.Find(s.ctx, models.AuditFilter{Username: "api-token"}, models.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)

	page, err = s.repo.Find(s.ctx, models.AuditFilter{Action: models.AuditDelete}, models.PageRequest{})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal("p-2", page.Entries[0].EntityID)

	page, err = s.repo.Find(s.ctx, models.AuditFilter{EntityType: "Category"}, models.PageRequest{})
	s.Require().NoError(err)
	s.Zero(page.Total)
	s.Empty(page.Entries)
}

func (s *AuditRepositorySuite) TestFindPages() {
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		s.record("p-1", models.AuditUpdate, "system", base.Add(time.Duration(i)*time.Minute))
	}

	page, err := s.repo.Find(s.ctx, models.AuditFilter{}, models.PageRequest{Page: 1, Size: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
	s.Equal(1, page.Number)
	s.Equal(2, page.Size)
	s.Len(page.Entries, 1)
}
