package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/product-catalog/mapper"
	"github.com/example/product-catalog/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the business logic behind the product endpoints
type ProductService interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	CreateBatch(ctx context.Context, products []models.Product) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (models.Product, error)
	List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.ProductPage, error)
	ListLowStock(ctx context.Context, page models.PageRequest) (models.ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductHandler serves the product endpoints
type ProductHandler struct {
	service ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// CreateProduct creates a new product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.CreateProductRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errMalformedRequest, err))
		return
	}
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), mapper.ToEntity(input))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToResponse(product))
}

// CreateProductsBatch creates every product in the request or none of them
func (h *ProductHandler) CreateProductsBatch(c *gin.Context) {
	var input models.BatchCreateProductRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errMalformedRequest, err))
		return
	}
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	products := make([]models.Product, 0, len(input.Products))
	for _, req := range input.Products {
		products = append(products, mapper.ToEntity(req))
	}

	created, err := h.service.CreateBatch(c.Request.Context(), products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToResponses(created))
}

// GetProducts returns a filtered page of products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, err := parsePageRequest(c, models.SortByCreatedAt, true)
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPageResponse(result))
}

// GetLowStockProducts returns a page of products at or below their minimum stock level
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	page, err := parsePageRequest(c, models.SortByStockQuantity, false)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.ListLowStock(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPageResponse(result))
}

// GetProduct returns a single product by ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToResponse(product))
}

// UpdateProduct updates an existing product
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.UpdateProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errMalformedRequest, err))
		return
	}
	if err := input.Validate(); err != nil {
		respondError(c, err)
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToResponse(product))
}

// DeleteProduct deletes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q is not a valid UUID", errInvalidParameter, raw)
	}
	return id, nil
}

func parsePageRequest(c *gin.Context, defaultSort models.SortField, defaultDesc bool) (models.PageRequest, error) {
	page, err := queryPage(c)
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err := queryInt(c, "size", models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, err
	}

	sortBy := models.SortField(c.DefaultQuery("sortBy", string(defaultSort)))
	if _, ok := sortBy.Column(); !ok {
		return models.PageRequest{}, fmt.Errorf("%w: unsupported sortBy %q", errInvalidParameter, sortBy)
	}

	desc := defaultDesc
	if dir := c.Query("sortDir"); dir != "" {
		desc = strings.EqualFold(dir, "desc")
	}

	return models.PageRequest{Page: page, Size: size, SortBy: sortBy, Descending: desc}.Normalize(), nil
}

func parseFilter(c *gin.Context) (models.ProductFilter, error) {
	var filter models.ProductFilter

	if name := strings.TrimSpace(c.Query("name")); name != "" {
		filter.Name = &name
	}
	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: %w", errInvalidParameter, err)
		}
		filter.Category = &category
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: active must be true or false", errInvalidParameter)
		}
		filter.Active = &active
	}
	return filter, nil
}

func queryPage(c *gin.Context) (int, error) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return 0, err
	}
	if page > models.MaxPageNumber {
		return 0, fmt.Errorf("%w: page cannot exceed %d", errInvalidParameter, models.MaxPageNumber)
	}
	return page, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidParameter, key)
	}
	return v, nil
}
