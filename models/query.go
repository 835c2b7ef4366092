package models

// ProductFilter narrows a product listing. Nil fields are not applied.
type ProductFilter struct {
	Name     *string
	Category *Category
	Active   *bool
}

// SortField is a column a listing may be ordered by
type SortField string

const (
	SortByCreatedAt     SortField = "createdAt"
	SortByName          SortField = "name"
	SortByPrice         SortField = "price"
	SortBySKU           SortField = "sku"
	SortByStockQuantity SortField = "stockQuantity"
)

// Column returns the database column for the sort field
func (f SortField) Column() (string, bool) {
	switch f {
	case SortByCreatedAt:
		return "created_at", true
	case SortByName:
		return "name", true
	case SortByPrice:
		return "price", true
	case SortBySKU:
		return "sku", true
	case SortByStockQuantity:
		return "stock_quantity", true
	}
	return "", false
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageNumber keeps Page*Size well inside the range of a SQL OFFSET
	MaxPageNumber = 10_000_000
)

// PageRequest selects a zero-based page and its ordering
type PageRequest struct {
	Page       int
	Size       int
	SortBy     SortField
	Descending bool
}

// Normalize clamps the page request into its allowed range
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Page > MaxPageNumber {
		r.Page = MaxPageNumber
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	if _, ok := r.SortBy.Column(); !ok {
		r.SortBy = SortByCreatedAt
	}
	return r
}

// Offset returns the number of rows skipped before the page
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}
