package services

import (
	"fmt"
	"strings"

	"github.com/example/product-catalog/models"
)

// productChanges lists the fields that differ between two versions of a product
func productChanges(before, after models.Product) string {
	var parts []string
	diff := func(field string, from, to any) {
		parts = append(parts, fmt.Sprintf("%s: %v -> %v", field, from, to))
	}

	if before.Name != after.Name {
		diff("name", before.Name, after.Name)
	}
	if from, to := optional(before.Description), optional(after.Description); from != to {
		diff("description", from, to)
	}
	if !before.Price.Equal(after.Price) {
		diff("price", before.Price, after.Price)
	}
	if from, to := optional(models.EncodeCategory(before.Category)), optional(models.EncodeCategory(after.Category)); from != to {
		diff("category", from, to)
	}
	if before.StockQuantity != after.StockQuantity {
		diff("stockQuantity", before.StockQuantity, after.StockQuantity)
	}
	if before.MinStockLevel != after.MinStockLevel {
		diff("minStockLevel", before.MinStockLevel, after.MinStockLevel)
	}
	if before.Active != after.Active {
		diff("active", before.Active, after.Active)
	}

	if len(parts) == 0 {
		return "No changes"
	}
	return "Updated " + strings.Join(parts, "; ")
}

func optional(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
