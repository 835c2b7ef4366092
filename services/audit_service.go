package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/product-catalog/models"
)

// SystemActor is recorded when a change carries no caller identity
const SystemActor = "system"

// AuditStore is the persistence the audit trail needs
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	Find(ctx context.Context, filter models.AuditFilter, page models.PageRequest) (models.AuditPage, error)
}

// AuditEvent is one change handed to the audit trail.
// Old is nil for creations and New is nil for deletions.
type AuditEvent struct {
	EntityType string
	EntityID   string
	Action     models.AuditAction
	Old        any
	New        any
	Changes    string
}

type actorKey struct{}

// WithActor returns a context whose audited changes are attributed to actor
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored on ctx, or SystemActor
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}

// AuditService records and lists the audit trail
type AuditService struct {
	store  AuditStore
	logger *slog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(store AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, logger: logger}
}

// Record stores an audit entry for the event.
// Failures are logged and not returned; the audited change has already happened.
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	entry, err := newAuditLog(ActorFrom(ctx), event)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode audit log", "action", event.Action, "entity_type", event.EntityType, "error", err)
		return
	}

	if err := s.store.Create(context.WithoutCancel(ctx), &entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to create audit log", "action", event.Action, "entity_type", event.EntityType, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "audit log created", "action", event.Action, "entity_type", event.EntityType, "username", entry.Username)
}

// Find retrieves one page of audit entries, newest first
func (s *AuditService) Find(ctx context.Context, filter models.AuditFilter, page models.PageRequest) (models.AuditPage, error) {
	return s.store.Find(ctx, filter, page.Normalize())
}

func newAuditLog(actor string, event AuditEvent) (models.AuditLog, error) {
	oldValues, err := encodeAuditValue(event.Old)
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("encode old value: %w", err)
	}
	newValues, err := encodeAuditValue(event.New)
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("encode new value: %w", err)
	}

	changes := event.Changes
	if changes == "" {
		switch {
		case oldValues == nil && newValues != nil:
			changes = "Created: " + *newValues
		case oldValues != nil && newValues == nil:
			changes = "Deleted: " + *oldValues
		case oldValues != nil:
			changes = "Updated"
		default:
			changes = "No changes"
		}
	}

	return models.AuditLog{
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Action:     event.Action,
		Username:   actor,
		OldValues:  oldValues,
		NewValues:  newValues,
		Changes:    changes,
	}, nil
}

func encodeAuditValue(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
