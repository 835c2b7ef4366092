package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/product-catalog/mapper"
	"github.com/example/product-catalog/models"
	"github.com/example/product-catalog/repository"
	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product does not exist or was deleted
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateSKU is returned when a SKU is already taken
var ErrDuplicateSKU = errors.New("duplicate sku")

// ErrConcurrentUpdate is returned when a product changed between read and write
var ErrConcurrentUpdate = errors.New("product was modified concurrently")

// EntityProduct is the entity type recorded in the audit trail for products
const EntityProduct = "Product"

const skuAttempts = 5

// ProductStore is the persistence the service needs
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	CreateBatch(ctx context.Context, products []models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.ProductPage, error)
	FindLowStock(ctx context.Context, page models.PageRequest) (models.ProductPage, error)
}

// Auditor records product changes
type Auditor interface {
	Record(ctx context.Context, event AuditEvent)
}

// ProductService handles product business logic
type ProductService struct {
	store   ProductStore
	auditor Auditor
	logger  *slog.Logger
	newSKU  func() string
}

// NewProductService creates a new ProductService. A nil auditor disables the audit trail.
func NewProductService(store ProductStore, auditor Auditor, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		store:   store,
		auditor: auditor,
		logger:  logger,
		newSKU:  generateSKU,
	}
}

// Create stores a new product, assigning a SKU when the product has none
func (s *ProductService) Create(ctx context.Context, product models.Product) (models.Product, error) {
	if err := s.prepare(ctx, &product, nil); err != nil {
		return models.Product{}, err
	}

	if err := s.store.Create(ctx, &product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.Product{}, fmt.Errorf("%w: %s", ErrDuplicateSKU, product.SKU)
		}
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created", "id", product.ID, "sku", product.SKU)
	s.record(ctx, models.AuditCreate, product.ID, nil, product, "")
	return product, nil
}

// CreateBatch stores all products or none of them
func (s *ProductService) CreateBatch(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return []models.Product{}, nil
	}

	batch := make([]models.Product, len(products))
	taken := make(map[string]struct{}, len(products))
	for i, product := range products {
		if err := s.prepare(ctx, &product, taken); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		taken[product.SKU] = struct{}{}
		batch[i] = product
	}

	if err := s.store.CreateBatch(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateSKU, err)
		}
		return nil, fmt.Errorf("create products: %w", err)
	}

	s.logger.InfoContext(ctx, "products created", "count", len(batch))
	for _, product := range batch {
		s.record(ctx, models.AuditCreate, product.ID, nil, product, "")
	}
	return batch, nil
}

// prepare resets the system-owned fields and settles the SKU.
// SKUs in taken count as used.
func (s *ProductService) prepare(ctx context.Context, product *models.Product, taken map[string]struct{}) error {
	product.ID = uuid.Nil
	product.Active = true

	if strings.TrimSpace(product.SKU) == "" {
		sku, err := s.uniqueSKU(ctx, taken)
		if err != nil {
			return err
		}
		product.SKU = sku
		return nil
	}

	if _, ok := taken[product.SKU]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, product.SKU)
	}
	exists, err := s.store.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, product.SKU)
	}
	return nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, s.notFound(err, id)
	}
	return *product, nil
}

// List retrieves one page of products matching the filter
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.ProductPage, error) {
	return s.store.Find(ctx, filter, page.Normalize())
}

// ListLowStock retrieves one page of products that need restocking
func (s *ProductService) ListLowStock(ctx context.Context, page models.PageRequest) (models.ProductPage, error) {
	return s.store.FindLowStock(ctx, page.Normalize())
}

// Update applies the fields present on req to an existing product.
// The write fails with ErrConcurrentUpdate when another update landed after the read.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, s.notFound(err, id)
	}

	before := *product
	mapper.ApplyUpdate(product, req)

	if err := s.store.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		case errors.Is(err, repository.ErrVersionConflict):
			return models.Product{}, fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
		}
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "product updated", "id", product.ID, "version", product.Version)
	s.record(ctx, models.AuditUpdate, id, before, *product, productChanges(before, *product))
	return *product, nil
}

// Delete soft-deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.notFound(err, id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.notFound(err, id)
	}
	s.logger.InfoContext(ctx, "product deleted", "id", id)
	s.record(ctx, models.AuditDelete, id, *product, nil, "")
	return nil
}

func (s *ProductService) record(ctx context.Context, action models.AuditAction, id uuid.UUID, before, after any, changes string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, AuditEvent{
		EntityType: EntityProduct,
		EntityID:   id.String(),
		Action:     action,
		Old:        before,
		New:        after,
		Changes:    changes,
	})
}

func (s *ProductService) uniqueSKU(ctx context.Context, taken map[string]struct{}) (string, error) {
	for i := 0; i < skuAttempts; i++ {
		sku := s.newSKU()
		if _, ok := taken[sku]; ok {
			continue
		}
		exists, err := s.store.ExistsBySKU(ctx, sku)
		if err != nil {
			return "", fmt.Errorf("check sku: %w", err)
		}
		if !exists {
			return sku, nil
		}
	}
	return "", fmt.Errorf("%w: no free sku after %d attempts", ErrDuplicateSKU, skuAttempts)
}

func (s *ProductService) notFound(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return err
}

func generateSKU() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SKU-" + strings.ToUpper(id[:12])
}
