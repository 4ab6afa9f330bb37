package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
)

// Entry describes one auditable change. Before and After are arbitrary
// snapshots marshalled to JSON.
type Entry struct {
	EntityType audit.EntityType
	EntityID   uuid.UUID
	Action     audit.Action
	Actor      identity.Actor
	ActorEmail string
	Before     any
	After      any
}

// Recorder writes audit events. A failed append is logged and never
// fails the business operation it documents.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder creates a new audit recorder
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record appends one audit event through the given repository, which
// lets callers bind the write to their transaction.
func (r *Recorder) Record(ctx context.Context, repo audit.Repository, entry Entry) {
	before := r.marshalSnapshot(entry.Before)
	after := r.marshalSnapshot(entry.After)

	var actorID *uuid.UUID
	if entry.Actor.ID != uuid.Nil {
		id := entry.Actor.ID
		actorID = &id
	}

	evt, err := audit.NewEvent(entry.EntityType, entry.EntityID, entry.Action,
		actorID, entry.Actor.Name, entry.ActorEmail, before, after)
	if err != nil {
		r.logger.Warn("failed to build audit event",
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return
	}

	if err := repo.Append(ctx, evt); err != nil {
		r.logger.Warn("failed to append audit event",
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

func (r *Recorder) marshalSnapshot(snapshot any) string {
	if snapshot == nil {
		return ""
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Warn("failed to marshal audit snapshot", zap.Error(err))
		return ""
	}
	return string(data)
}
