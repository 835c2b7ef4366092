package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/product-catalog/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no live row matches the lookup
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert or update violates a unique index
var ErrDuplicateKey = errors.New("duplicate key")

// ErrVersionConflict is returned when a row changed since it was read
var ErrVersionConflict = errors.New("version conflict")

// ProductRepository persists products with gorm
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &product, nil
}

// ExistsBySKU reports whether a live product already uses the SKU
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Create inserts a new product; ID and timestamps are filled in on the passed value
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	return nil
}

// CreateBatch inserts all products in one transaction; nothing is stored if any insert fails
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return fmt.Errorf("create product %d: %w", i, translate(err))
			}
		}
		return nil
	})
}

// Update writes every mutable column of a product whose version still matches the stored row.
// A soft-deleted row is never matched, so it cannot be brought back by an update.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	version := product.Version
	db := r.db.WithContext(ctx)

	result := db.Model(product).
		Where("version = ?", version).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(product)
	if result.Error != nil {
		product.Version = version
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	product.Version = version
	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return fmt.Errorf("%w: product %s is no longer at version %d", ErrVersionConflict, product.ID, version)
}

// Delete soft-deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Find retrieves one page of products matching the filter
func (r *ProductRepository) Find(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.ProductPage, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Name != nil && *filter.Name != "" {
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(*filter.Name)+"%")
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return paginate(query, page)
}

// FindLowStock retrieves products whose stock is at or below their minimum level
func (r *ProductRepository) FindLowStock(ctx context.Context, page models.PageRequest) (models.ProductPage, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock_quantity <= min_stock_level")
	return paginate(query, page)
}

// Ping checks that the database is reachable
func (r *ProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func paginate(query *gorm.DB, page models.PageRequest) (models.ProductPage, error) {
	page = page.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return models.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	column, _ := page.SortBy.Column()
	var products []models.Product
	result := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: page.Descending}).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&products)
	if result.Error != nil {
		return models.ProductPage{}, fmt.Errorf("list products: %w", result.Error)
	}

	return models.ProductPage{
		Products: products,
		Number:   page.Page,
		Size:     page.Size,
		Total:    total,
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}
