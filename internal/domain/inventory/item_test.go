package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

func newTestItem(t *testing.T, quantity int64, unitCost string) *Item {
	t.Helper()
	cost, err := decimal.NewFromString(unitCost)
	require.NoError(t, err)
	item, err := NewItem("ACME Supplies", "Bond Paper A4", "Shelf 3", "ream", quantity, cost, "")
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("computes amount from quantity and unit cost", func(t *testing.T) {
		item := newTestItem(t, 10, "245.50")
		assert.True(t, item.Amount.Equal(decimal.RequireFromString("2455.00")), "amount %s", item.Amount)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewItem("ACME", "Paper", "Shelf 3", "ream", -1, decimal.NewFromInt(1), "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		_, err := NewItem("ACME", "Paper", "Shelf 3", "ream", 1, decimal.NewFromInt(-5), "")
		assert.Error(t, err)
	})

	t.Run("rejects blank required fields", func(t *testing.T) {
		for _, tc := range []struct{ supplier, name, location, unit string }{
			{"", "Paper", "Shelf", "ream"},
			{"ACME", "", "Shelf", "ream"},
			{"ACME", "Paper", "", "ream"},
			{"ACME", "Paper", "Shelf", ""},
		} {
			_, err := NewItem(tc.supplier, tc.name, tc.location, tc.unit, 1, decimal.NewFromInt(1), "")
			assert.Error(t, err)
		}
	})

	t.Run("emits created event", func(t *testing.T) {
		item, err := NewItem("ACME", "Paper", "Shelf", "ream", 5, decimal.NewFromInt(10), "")
		require.NoError(t, err)
		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeItemCreated, events[0].EventType())
	})
}

func TestItemDeduct(t *testing.T) {
	t.Run("deducts and recomputes amount", func(t *testing.T) {
		item := newTestItem(t, 10, "5.00")
		version := item.GetVersion()

		require.NoError(t, item.Deduct(6))

		assert.Equal(t, int64(4), item.Quantity)
		assert.True(t, item.Amount.Equal(decimal.RequireFromString("20.00")))
		assert.Equal(t, version+1, item.GetVersion())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*ItemQuantityChangedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(10), changed.PreviousQuantity)
		assert.Equal(t, int64(4), changed.NewQuantity)
	})

	t.Run("allows deducting to exactly zero", func(t *testing.T) {
		item := newTestItem(t, 3, "2.00")
		require.NoError(t, item.Deduct(3))
		assert.Equal(t, int64(0), item.Quantity)
		assert.True(t, item.Amount.IsZero())
	})

	t.Run("shortfall fails and leaves item untouched", func(t *testing.T) {
		item := newTestItem(t, 4, "5.00")
		version := item.GetVersion()

		err := item.Deduct(6)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "Bond Paper A4")
		assert.Contains(t, domainErr.Message, "requested 6")
		assert.Contains(t, domainErr.Message, "available 4")

		assert.Equal(t, int64(4), item.Quantity)
		assert.Equal(t, version, item.GetVersion())
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := newTestItem(t, 4, "5.00")
		assert.Error(t, item.Deduct(0))
		assert.Error(t, item.Deduct(-2))
	})
}

func TestItemRestock(t *testing.T) {
	t.Run("adds quantity keeping cost", func(t *testing.T) {
		item := newTestItem(t, 2, "3.00")
		require.NoError(t, item.Restock(8, nil))
		assert.Equal(t, int64(10), item.Quantity)
		assert.True(t, item.Amount.Equal(decimal.RequireFromString("30.00")))
	})

	t.Run("updates cost when provided", func(t *testing.T) {
		item := newTestItem(t, 2, "3.00")
		newCost := decimal.RequireFromString("4.00")
		require.NoError(t, item.Restock(3, &newCost))
		assert.Equal(t, int64(5), item.Quantity)
		assert.True(t, item.UnitCost.Equal(newCost))
		assert.True(t, item.Amount.Equal(decimal.RequireFromString("20.00")))

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeItemQuantityChanged, events[0].EventType())
		assert.Equal(t, EventTypeItemCostChanged, events[1].EventType())
	})
}

func TestItemRelocate(t *testing.T) {
	item := newTestItem(t, 2, "3.00")

	require.NoError(t, item.Relocate("Shelf 7"))
	assert.Equal(t, "Shelf 7", item.Location)
	events := item.GetDomainEvents()
	require.Len(t, events, 1)
	moved, ok := events[0].(*ItemLocationChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "Shelf 3", moved.PreviousLocation)

	// same location is a no-op
	item.ClearDomainEvents()
	require.NoError(t, item.Relocate("Shelf 7"))
	assert.Empty(t, item.GetDomainEvents())
}

func TestItemReprice(t *testing.T) {
	item := newTestItem(t, 4, "2.50")

	require.NoError(t, item.Reprice(decimal.RequireFromString("3.25")))
	assert.True(t, item.Amount.Equal(decimal.RequireFromString("13.00")))

	assert.Error(t, item.Reprice(decimal.NewFromInt(-1)))
}

func TestChangeTypeIsValid(t *testing.T) {
	assert.True(t, ChangeTypeItemAdded.IsValid())
	assert.True(t, ChangeTypePurchase.IsValid())
	assert.False(t, ChangeType("renamed").IsValid())
}

func TestNewCategoryHistoryEntry(t *testing.T) {
	item := newTestItem(t, 1, "1.00")
	cat, err := NewCategory("Office Supplies", "")
	require.NoError(t, err)

	entry, err := NewCategoryHistoryEntry(cat.ID, &item.ID, ChangeTypeItemAdded, "", `{"quantity":1}`, "Admin One")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, entry.CategoryID)
	assert.False(t, entry.ChangedAt.IsZero())

	_, err = NewCategoryHistoryEntry(cat.ID, nil, ChangeType("bogus"), "", "", "Admin One")
	assert.Error(t, err)
}
