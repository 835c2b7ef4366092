package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/product-catalog/models"
	"github.com/example/product-catalog/services"
	"github.com/gin-gonic/gin"
)

// errMalformedRequest is returned when the request body cannot be decoded
var errMalformedRequest = errors.New("malformed request body")

// errInvalidParameter is returned when a path or query parameter is invalid
var errInvalidParameter = errors.New("invalid parameter")

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorBody(c, http.StatusBadRequest, "Validation Failed",
			"One or more fields have validation errors", "VALIDATION_FAILED", validationErr.Fields))
	case errors.Is(err, errMalformedRequest):
		c.JSON(http.StatusBadRequest, errorBody(c, http.StatusBadRequest, "Bad Request", err.Error(), "MALFORMED_REQUEST", nil))
	case errors.Is(err, errInvalidParameter):
		c.JSON(http.StatusBadRequest, errorBody(c, http.StatusBadRequest, "Bad Request", err.Error(), "INVALID_PARAMETER", nil))
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, errorBody(c, http.StatusNotFound, "Not Found", err.Error(), "PRODUCT_NOT_FOUND", nil))
	case errors.Is(err, services.ErrDuplicateSKU):
		c.JSON(http.StatusConflict, errorBody(c, http.StatusConflict, "Conflict", err.Error(), "DUPLICATE_SKU", nil))
	case errors.Is(err, services.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, errorBody(c, http.StatusConflict, "Conflict",
			"The product was modified by another request. Reload it and retry.", "CONCURRENT_MODIFICATION", nil))
	case errors.Is(err, models.ErrUnknownCategory):
		slog.ErrorContext(c.Request.Context(), "stored category is not a known value", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(c, http.StatusInternalServerError, "Internal Server Error",
			"Stored product data is invalid", "DATA_INTEGRITY", nil))
	default:
		slog.ErrorContext(c.Request.Context(), "unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(c, http.StatusInternalServerError, "Internal Server Error",
			"An unexpected error occurred", "INTERNAL_ERROR", nil))
	}
}

// NotFound answers requests for routes that do not exist
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorBody(c, http.StatusNotFound, "Not Found",
		"No endpoint found for "+c.Request.Method+" "+c.Request.URL.Path+". Please check the URL and HTTP method.",
		"ENDPOINT_NOT_FOUND", nil))
}

func errorBody(c *gin.Context, status int, title, message, code string, fields []models.FieldError) models.ErrorResponse {
	return models.ErrorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            title,
		Message:          message,
		Path:             c.Request.URL.Path,
		ErrorCode:        code,
		ValidationErrors: fields,
	}
}
