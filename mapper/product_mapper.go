// Package mapper translates between the product domain model and its request/response shapes.
package mapper

import (
	"github.com/example/product-catalog/models"
)

// ToEntity builds a product from a creation request.
// ID, SKU, category and timestamps are left unset for the service and store to assign.
func ToEntity(req models.CreateProductRequest) models.Product {
	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
}

// ToResponse copies the externally visible fields of a product
func ToResponse(p models.Product) models.ProductResponse {
	return models.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// ToResponses maps a slice of products
func ToResponses(products []models.Product) []models.ProductResponse {
	out := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}

// ApplyUpdate copies every field present on req onto p
func ApplyUpdate(p *models.Product, req models.UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		c := *req.Category
		p.Category = &c
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
}

// ToPageResponse maps a page of products and derives its navigation flags
func ToPageResponse(page models.ProductPage) models.ProductPageResponse {
	totalPages := 0
	if page.Size > 0 {
		totalPages = int((page.Total + int64(page.Size) - 1) / int64(page.Size))
	}
	return models.ProductPageResponse{
		Products:      ToResponses(page.Products),
		PageNumber:    page.Number,
		PageSize:      page.Size,
		TotalElements: page.Total,
		TotalPages:    totalPages,
		First:         page.Number == 0,
		Last:          page.Number >= totalPages-1,
		HasNext:       page.Number < totalPages-1,
		HasPrevious:   page.Number > 0,
	}
}
