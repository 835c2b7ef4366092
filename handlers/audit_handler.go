package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/product-catalog/models"
	"github.com/gin-gonic/gin"
)

const (
	auditSummarySize = 10
	auditEntitySize  = 20
)

// AuditService lists the recorded audit trail
type AuditService interface {
	Find(ctx context.Context, filter models.AuditFilter, page models.PageRequest) (models.AuditPage, error)
}

// AuditHandler serves the audit trail
type AuditHandler struct {
	service AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// GetAuditSummary returns the most recent audit entries, optionally filtered by entityType, username and action
func (h *AuditHandler) GetAuditSummary(c *gin.Context) {
	filter := models.AuditFilter{
		EntityType: c.Query("entityType"),
		Username:   c.Query("username"),
		Action:     models.AuditAction(strings.ToUpper(c.Query("action"))),
	}
	if filter.Action != "" && !filter.Action.Valid() {
		respondError(c, fmt.Errorf("%w: unsupported action %q", errInvalidParameter, c.Query("action")))
		return
	}

	page, err := h.service.Find(c.Request.Context(), filter, models.PageRequest{Size: auditSummarySize})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalAuditLogs": page.Total,
		"recentAudits":   nonNil(page.Entries),
	})
}

// GetEntityAudit returns the audit history of one entity, newest first
func (h *AuditHandler) GetEntityAudit(c *gin.Context) {
	entityID := c.Param("entityId")
	page, err := queryPage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.Find(c.Request.Context(),
		models.AuditFilter{EntityID: entityID},
		models.PageRequest{Page: page, Size: auditEntitySize},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entityId":  entityID,
		"totalLogs": result.Total,
		"auditLogs": nonNil(result.Entries),
	})
}

func nonNil(entries []models.AuditLog) []models.AuditLog {
	if entries == nil {
		return []models.AuditLog{}
	}
	return entries
}
