package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the kind of change an audit entry records
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Valid reports whether a is one of the recorded actions
func (a AuditAction) Valid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return true
	}
	return false
}

// AuditLog is one recorded change to a catalog entity.
// Old and new values hold the JSON encoding of the entity before and after the change.
type AuditLog struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	EntityType string      `json:"entityType" gorm:"type:varchar(64);not null;index:idx_audit_entity"`
	EntityID   string      `json:"entityId" gorm:"type:varchar(64);not null;index:idx_audit_entity"`
	Action     AuditAction `json:"action" gorm:"type:varchar(16);not null"`
	Username   string      `json:"username" gorm:"type:varchar(255);not null;index"`
	OldValues  *string     `json:"oldValues" gorm:"type:text"`
	NewValues  *string     `json:"newValues" gorm:"type:text"`
	Changes    string      `json:"changes" gorm:"type:text"`
	CreatedAt  time.Time   `json:"createdAt" gorm:"index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns the identifier when the caller left it unset
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AuditFilter narrows an audit listing. Empty fields are not applied.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Username   string
	Action     AuditAction
}

// AuditPage is one page of audit entries, newest first
type AuditPage struct {
	Entries []AuditLog
	Number  int
	Size    int
	Total   int64
}
