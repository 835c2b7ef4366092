package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/example/product-catalog/models"
	"github.com/example/product-catalog/repository"
	"github.com/example/product-catalog/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var pg = testutil.NewPostgresFixture()

func TestMain(m *testing.M) {
	code := m.Run()
	if err := pg.Stop(context.Background()); err != nil {
		code = 1
	}
	os.Exit(code)
}

type ProductRepositorySuite struct {
	suite.Suite
	repo *repository.ProductRepository
	ctx  context.Context
}

func TestProductRepository(t *testing.T) {
	suite.Run(t, new(ProductRepositorySuite))
}

func (s *ProductRepositorySuite) SetupTest() {
	db := pg.DB(s.T())
	pg.Truncate(s.T(), "products")
	s.repo = repository.NewProductRepository(db)
	s.ctx = context.Background()
}

func (s *ProductRepositorySuite) create(name, sku string, category *models.Category, stock, minLevel int) models.Product {
	p := models.Product{
		Name:          name,
		SKU:           sku,
		Price:         decimal.RequireFromString("10.50"),
		Category:      category,
		StockQuantity: stock,
		MinStockLevel: minLevel,
		Active:        true,
	}
	s.Require().NoError(s.repo.Create(s.ctx, &p))
	return p
}

func (s *ProductRepositorySuite) TestCreateAssignsIDAndTimestamps() {
	p := s.create("Widget", "WID-1", nil, 0, 0)

	s.NotEqual(uuid.Nil, p.ID)
	s.False(p.CreatedAt.IsZero())
	s.False(p.UpdatedAt.IsZero())

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Widget", found.Name)
	s.Nil(found.Category)
	s.Nil(found.Description)
	s.True(found.Price.Equal(decimal.RequireFromString("10.50")))
}

func (s *ProductRepositorySuite) TestCategoryStoredAsDisplayName() {
	category := models.CategoryHomeGarden
	p := s.create("Rake", "RAKE-1", &category, 1, 0)

	var stored string
	s.Require().NoError(pg.DB(s.T()).Raw("SELECT category FROM products WHERE id = ?", p.ID).Scan(&stored).Error)
	s.Equal("Home & Garden", stored)

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Category)
	s.Equal(models.CategoryHomeGarden, *found.Category)
}

func (s *ProductRepositorySuite) TestUnknownStoredCategoryFails() {
	p := s.create("Mystery", "MYS-1", nil, 0, 0)
	s.Require().NoError(pg.DB(s.T()).Exec("UPDATE products SET category = 'Gardening' WHERE id = ?", p.ID).Error)

	_, err := s.repo.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, models.ErrUnknownCategory)
}

func (s *ProductRepositorySuite) TestFindByIDMissing() {
	_, err := s.repo.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *ProductRepositorySuite) TestExistsBySKUAndDuplicate() {
	s.create("Widget", "WID-1", nil, 0, 0)

	exists, err := s.repo.ExistsBySKU(s.ctx, "WID-1")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.repo.ExistsBySKU(s.ctx, "WID-2")
	s.Require().NoError(err)
	s.False(exists)

	dup := models.Product{Name: "Other", SKU: "WID-1", Price: decimal.RequireFromString("1")}
	s.ErrorIs(s.repo.Create(s.ctx, &dup), repository.ErrDuplicateKey)
}

func (s *ProductRepositorySuite) TestUpdateBumpsVersion() {
	p := s.create("Widget", "WID-1", nil, 0, 0)
	version := p.Version

	p.Name = "Widget Pro"
	s.Require().NoError(s.repo.Update(s.ctx, &p))
	s.Equal(version+1, p.Version)

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Widget Pro", found.Name)
	s.Equal(version+1, found.Version)
}

func (s *ProductRepositorySuite) TestUpdateStaleVersionConflicts() {
	p := s.create("Widget", "WID-1", nil, 0, 0)
	stale := p

	p.Name = "Widget Pro"
	s.Require().NoError(s.repo.Update(s.ctx, &p))

	stale.Name = "Widget Lite"
	err := s.repo.Update(s.ctx, &stale)
	s.ErrorIs(err, repository.ErrVersionConflict)
	s.Equal(p.Version-1, stale.Version)

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Widget Pro", found.Name)
}

func (s *ProductRepositorySuite) TestUpdateDeletedProductStaysDeleted() {
	p := s.create("Widget", "WID-1", nil, 0, 0)
	s.Require().NoError(s.repo.Delete(s.ctx, p.ID))

	p.Name = "Widget Pro"
	s.ErrorIs(s.repo.Update(s.ctx, &p), repository.ErrNotFound)

	_, err := s.repo.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, repository.ErrNotFound)

	var stored models.Product
	s.Require().NoError(pg.DB(s.T()).Unscoped().First(&stored, "id = ?", p.ID).Error)
	s.True(stored.DeletedAt.Valid)
	s.Equal("Widget", stored.Name)
}

func (s *ProductRepositorySuite) TestCreateBatch() {
	products := []models.Product{
		{Name: "Laptop", SKU: "LAP-1", Price: decimal.RequireFromString("999.99"), Active: true},
		{Name: "Phone", SKU: "PHO-1", Price: decimal.RequireFromString("499"), Active: true},
	}
	s.Require().NoError(s.repo.CreateBatch(s.ctx, products))

	for _, p := range products {
		s.NotEqual(uuid.Nil, p.ID)
		found, err := s.repo.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.SKU, found.SKU)
	}
}

func (s *ProductRepositorySuite) TestCreateBatchRollsBack() {
	s.create("Widget", "WID-1", nil, 0, 0)

	products := []models.Product{
		{Name: "Laptop", SKU: "LAP-1", Price: decimal.RequireFromString("999.99")},
		{Name: "Copy", SKU: "WID-1", Price: decimal.RequireFromString("1")},
	}
	err := s.repo.CreateBatch(s.ctx, products)
	s.ErrorIs(err, repository.ErrDuplicateKey)

	exists, err := s.repo.ExistsBySKU(s.ctx, "LAP-1")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ProductRepositorySuite) TestNameFilterMatchesWildcardsLiterally() {
	s.create("50% Off Mug", "MUG-1", nil, 0, 0)
	s.create("500 Mugs", "MUG-2", nil, 0, 0)
	s.create("Tea_Pot", "TEA-1", nil, 0, 0)
	s.create("Tea Pot", "TEA-2", nil, 0, 0)

	for _, tc := range []struct {
		name string
		want []string
	}{
		{name: "%", want: []string{"50% Off Mug"}},
		{name: "0%", want: []string{"50% Off Mug"}},
		{name: "_", want: []string{"Tea_Pot"}},
		{name: `\`, want: nil},
		{name: "mug", want: []string{"50% Off Mug", "500 Mugs"}},
	} {
		name := tc.name
		page, err := s.repo.Find(s.ctx, models.ProductFilter{Name: &name}, models.PageRequest{})
		s.Require().NoError(err, tc.name)

		var got []string
		for _, p := range page.Products {
			got = append(got, p.Name)
		}
		s.ElementsMatch(tc.want, got, tc.name)
	}
}

func (s *ProductRepositorySuite) TestDeleteIsSoft() {
	p := s.create("Widget", "WID-1", nil, 0, 0)

	s.Require().NoError(s.repo.Delete(s.ctx, p.ID))

	_, err := s.repo.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, p.ID), repository.ErrNotFound)

	var count int64
	s.Require().NoError(pg.DB(s.T()).Unscoped().Model(&models.Product{}).Where("id = ?", p.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ProductRepositorySuite) TestFindFiltersAndPages() {
	electronics := models.CategoryElectronics
	books := models.CategoryBooks
	s.create("Laptop", "LAP-1", &electronics, 5, 1)
	s.create("Phone", "PHO-1", &electronics, 5, 1)
	s.create("Novel", "NOV-1", &books, 5, 1)
	inactive := s.create("Tablet", "TAB-1", &electronics, 5, 1)
	inactive.Active = false
	s.Require().NoError(s.repo.Update(s.ctx, &inactive))

	active := true
	page, err := s.repo.Find(s.ctx,
		models.ProductFilter{Category: &electronics, Active: &active},
		models.PageRequest{Page: 0, Size: 1, SortBy: models.SortByName},
	)
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Require().Len(page.Products, 1)
	s.Equal("Laptop", page.Products[0].Name)

	page, err = s.repo.Find(s.ctx,
		models.ProductFilter{Category: &electronics, Active: &active},
		models.PageRequest{Page: 1, Size: 1, SortBy: models.SortByName},
	)
	s.Require().NoError(err)
	s.Require().Len(page.Products, 1)
	s.Equal("Phone", page.Products[0].Name)

	name := "OVE"
	page, err = s.repo.Find(s.ctx, models.ProductFilter{Name: &name}, models.PageRequest{})
	s.Require().NoError(err)
	s.Require().Len(page.Products, 1)
	s.Equal("Novel", page.Products[0].Name)
}

func (s *ProductRepositorySuite) TestFindLowStock() {
	s.create("Plenty", "PLN-1", nil, 50, 10)
	s.create("Edge", "EDG-1", nil, 10, 10)
	s.create("Empty", "EMP-1", nil, 0, 3)

	page, err := s.repo.FindLowStock(s.ctx, models.PageRequest{SortBy: models.SortByStockQuantity})
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Require().Len(page.Products, 2)
	s.Equal("Empty", page.Products[0].Name)
	s.Equal("Edge", page.Products[1].Name)
}

func (s *ProductRepositorySuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}

func TestOpenRejectsBadDSN(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}
	_, err := repository.Open("host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", repository.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}
