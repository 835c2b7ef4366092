package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents input for creating a product.
// Identifier, SKU, category and timestamps are assigned by the system.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"notblank,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"positive,intdigits=10,scale=2"`
}

// MaxBatchSize is the most products one batch request may create
const MaxBatchSize = 100

// BatchCreateProductRequest creates several products in one all-or-nothing call
type BatchCreateProductRequest struct {
	Products []CreateProductRequest `json:"products" validate:"required,min=1,max=100,dive"`
}

// UpdateProductRequest represents input for updating a product.
// Only non-nil fields are applied.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitnil,notblank,max=255"`
	Description   *string          `json:"description" validate:"omitnil,max=1000"`
	Price         *decimal.Decimal `json:"price" validate:"omitnil,positive,intdigits=10,scale=2"`
	Category      *Category        `json:"category"`
	StockQuantity *int             `json:"stockQuantity" validate:"omitnil,gte=0"`
	MinStockLevel *int             `json:"minStockLevel" validate:"omitnil,gte=0"`
	Active        *bool            `json:"active"`
}

// ProductResponse is the outbound shape of a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductPageResponse is one page of a product listing
type ProductPageResponse struct {
	Products      []ProductResponse `json:"products"`
	PageNumber    int               `json:"pageNumber"`
	PageSize      int               `json:"pageSize"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
	HasNext       bool              `json:"hasNext"`
	HasPrevious   bool              `json:"hasPrevious"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Timestamp        time.Time    `json:"timestamp"`
	Status           int          `json:"status"`
	Error            string       `json:"error"`
	Message          string       `json:"message"`
	Path             string       `json:"path"`
	ErrorCode        string       `json:"errorCode,omitempty"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}
