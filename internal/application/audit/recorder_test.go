package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Append(ctx context.Context, event *audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockAuditRepo) FindByEntity(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, filter shared.Filter) ([]*audit.Event, int64, error) {
	args := m.Called(ctx, entityType, entityID, filter)
	return args.Get(0).([]*audit.Event), args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.Event, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*audit.Event), args.Get(1).(int64), args.Error(2)
}

func TestRecorder_Record(t *testing.T) {
	repo := new(mockAuditRepo)
	recorder := NewRecorder(zap.NewNop())

	actor := identity.Actor{ID: uuid.New(), Name: "Admin One", Role: identity.RoleAdmin}
	entityID := uuid.New()

	var captured *audit.Event
	repo.On("Append", mock.Anything, mock.AnythingOfType("*audit.Event")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*audit.Event)
		}).
		Return(nil)

	recorder.Record(context.Background(), repo, Entry{
		EntityType: audit.EntityTypeInventory,
		EntityID:   entityID,
		Action:     audit.ActionUpdate,
		Actor:      actor,
		Before:     map[string]any{"quantity": 50},
		After:      map[string]any{"quantity": 45},
	})

	repo.AssertExpectations(t)
	require.NotNil(t, captured)
	assert.Equal(t, entityID, captured.EntityID)
	assert.Equal(t, actor.ID, *captured.ActorID)
	assert.JSONEq(t, `{"quantity":50}`, captured.Before)
	assert.JSONEq(t, `{"quantity":45}`, captured.After)
}

func TestRecorder_AppendFailureIsSwallowed(t *testing.T) {
	repo := new(mockAuditRepo)
	recorder := NewRecorder(zap.NewNop())

	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), repo, Entry{
			EntityType: audit.EntityTypeInventory,
			EntityID:   uuid.New(),
			Action:     audit.ActionCreate,
			Actor:      identity.Actor{ID: uuid.New(), Name: "Admin One", Role: identity.RoleAdmin},
		})
	})
	repo.AssertExpectations(t)
}

func TestRecorder_InvalidEntryNeverAppends(t *testing.T) {
	repo := new(mockAuditRepo)
	recorder := NewRecorder(zap.NewNop())

	recorder.Record(context.Background(), repo, Entry{
		EntityType: "unknown",
		EntityID:   uuid.New(),
		Action:     audit.ActionCreate,
	})

	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
