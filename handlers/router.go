package handlers

import (
	"github.com/gin-gonic/gin"
)

// BasePath is the prefix of the versioned API routes
const BasePath = "/api/v1"

// RegisterRoutes mounts every catalog route on r.
// auth guards the mutating product routes and the audit trail.
func RegisterRoutes(r *gin.Engine, products *ProductHandler, docs *DocsHandler, audit *AuditHandler, auth gin.HandlerFunc) {
	api := r.Group(BasePath)
	{
		api.GET("/products", products.GetProducts)
		api.GET("/products/low-stock", products.GetLowStockProducts)
		api.GET("/products/:id", products.GetProduct)

		write := api.Group("", auth)
		write.POST("/products", products.CreateProduct)
		write.POST("/products/batch", products.CreateProductsBatch)
		write.PUT("/products/:id", products.UpdateProduct)
		write.DELETE("/products/:id", products.DeleteProduct)
	}

	r.GET("/v3/api-docs", docs.GetOpenAPIJSON)
	r.GET("/v3/api-docs.yaml", docs.GetOpenAPIYAML)
	r.GET("/actuator/health", docs.GetHealth)
	r.GET("/actuator/info", docs.GetInfo)

	actuator := r.Group("/actuator", auth)
	actuator.GET("/audit", audit.GetAuditSummary)
	actuator.GET("/audit/:entityId", audit.GetEntityAudit)

	r.NoRoute(NotFound)
}
