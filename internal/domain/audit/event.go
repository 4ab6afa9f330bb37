package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// EntityType names the kind of record an audit event is about
type EntityType string

const (
	EntityTypeInventory EntityType = "inventory"
	EntityTypeUser      EntityType = "user"
	EntityTypeCategory  EntityType = "category"
	EntityTypeRequest   EntityType = "request"
)

// IsValid checks whether the entity type is one of the known kinds
func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeInventory, EntityTypeUser, EntityTypeCategory, EntityTypeRequest:
		return true
	}
	return false
}

// Action names what happened to the entity
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// IsValid checks whether the action is one of the known kinds
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionDeny:
		return true
	}
	return false
}

// Event is one append-only audit trail row. Actor name and email are
// denormalized so the trail stays readable after accounts change.
type Event struct {
	shared.BaseEntity
	EntityType EntityType `gorm:"size:30;not null;index:idx_audit_entity"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action     Action     `gorm:"size:20;not null"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	ActorName  string     `gorm:"size:200"`
	ActorEmail string     `gorm:"size:255"`
	Before     string     `gorm:"type:jsonb"` // JSON snapshot before the change
	After      string     `gorm:"type:jsonb"` // JSON snapshot after the change
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "audit_events"
}

// NewEvent creates a new audit event
func NewEvent(entityType EntityType, entityID uuid.UUID, action Action, actorID *uuid.UUID, actorName, actorEmail, before, after string) (*Event, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown audit entity type")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Entity ID is required")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown audit action")
	}

	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		ActorName:  actorName,
		ActorEmail: actorEmail,
		Before:     before,
		After:      after,
	}, nil
}

// Repository defines the interface for the append-only audit trail
type Repository interface {
	// Append stores a new audit event
	Append(ctx context.Context, event *Event) error

	// FindByEntity returns events for one entity, newest first
	FindByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, filter shared.Filter) ([]*Event, int64, error)

	// FindAll returns events matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]*Event, int64, error)
}
