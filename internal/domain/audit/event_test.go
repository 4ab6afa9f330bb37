package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	actorID := uuid.New()

	event, err := NewEvent(EntityTypeInventory, uuid.New(), ActionCreate, &actorID, "Admin One", "admin@example.edu", "", `{"quantity":5}`)
	require.NoError(t, err)
	assert.Equal(t, EntityTypeInventory, event.EntityType)
	assert.Equal(t, "Admin One", event.ActorName)

	// system actions carry no actor
	event, err = NewEvent(EntityTypeRequest, uuid.New(), ActionApprove, nil, "", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, event.ActorID)

	_, err = NewEvent(EntityType("payment"), uuid.New(), ActionCreate, nil, "", "", "", "")
	assert.Error(t, err)

	_, err = NewEvent(EntityTypeInventory, uuid.Nil, ActionCreate, nil, "", "", "", "")
	assert.Error(t, err)

	_, err = NewEvent(EntityTypeInventory, uuid.New(), Action("archive"), nil, "", "", "", "")
	assert.Error(t, err)
}
