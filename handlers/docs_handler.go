package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/example/product-catalog/docs"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocsHandler serves the API document and service status
type DocsHandler struct {
	document *openapi3.T
	db       Pinger
}

// NewDocsHandler creates a new DocsHandler for routes mounted under basePath
func NewDocsHandler(basePath string, db Pinger) *DocsHandler {
	return &DocsHandler{document: docs.OpenAPI(basePath), db: db}
}

// GetOpenAPIJSON returns the OpenAPI document as JSON
func (h *DocsHandler) GetOpenAPIJSON(c *gin.Context) {
	body, err := docs.JSON(h.document)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetOpenAPIYAML returns the OpenAPI document as YAML
func (h *DocsHandler) GetOpenAPIYAML(c *gin.Context) {
	body, err := docs.YAML(h.document)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", body)
}

// GetInfo returns the API metadata
func (h *DocsHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"app": docs.APIInfo})
}

// GetHealth reports UP when the database answers a ping
func (h *DocsHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "DOWN",
				"components": gin.H{"db": gin.H{"status": "DOWN", "error": err.Error()}},
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "UP",
		"components": gin.H{"db": gin.H{"status": "UP"}},
	})
}
