package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	notif, err := NewNotification(uuid.New(), TypeSuccess, "Request approved", "2 items were added to the ledger", "/requests")
	require.NoError(t, err)
	assert.False(t, notif.Read)
	assert.Equal(t, TypeSuccess, notif.Type)

	_, err = NewNotification(uuid.Nil, TypeInfo, "x", "", "")
	assert.Error(t, err)

	_, err = NewNotification(uuid.New(), Type("warning"), "x", "", "")
	assert.Error(t, err)

	_, err = NewNotification(uuid.New(), TypeAlert, "  ", "", "")
	assert.Error(t, err)
}

func TestMarkRead(t *testing.T) {
	notif, err := NewNotification(uuid.New(), TypeInfo, "Hello", "", "")
	require.NoError(t, err)

	notif.MarkRead()
	assert.True(t, notif.Read)

	// idempotent
	updatedAt := notif.UpdatedAt
	notif.MarkRead()
	assert.Equal(t, updatedAt, notif.UpdatedAt)
}
