package release

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

func sampleReleaseInputs(n int) []ItemInput {
	inputs := make([]ItemInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, ItemInput{
			InventoryItemID: uuid.New(),
			ItemName:        "Ballpoint Pen",
			Quantity:        3,
			Unit:            "box",
			Particulars:     "for enrollment desk",
			UnitCost:        decimal.RequireFromString("120.00"),
		})
	}
	return inputs
}

func newPendingRelease(t *testing.T, n int) *ReleaseRequest {
	t.Helper()
	req, err := NewReleaseRequest(uuid.New(), "Maria Santos", "Registrar", "RS-0042", false, sampleReleaseInputs(n))
	require.NoError(t, err)
	req.ClearDomainEvents()
	return req
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewReleaseRequest(t *testing.T) {
	t.Run("computes line amounts", func(t *testing.T) {
		req, err := NewReleaseRequest(uuid.New(), "Maria", "Registrar", "", true, sampleReleaseInputs(2))
		require.NoError(t, err)
		assert.Equal(t, StatusPending, req.Status)
		assert.True(t, req.PartialRelease)
		for _, item := range req.Items {
			assert.True(t, item.Amount.Equal(decimal.RequireFromString("360.00")))
		}
	})

	t.Run("missing department rejected", func(t *testing.T) {
		_, err := NewReleaseRequest(uuid.New(), "Maria", "  ", "", false, sampleReleaseInputs(1))
		assertDomainCode(t, err, "INVALID_INPUT")
	})

	t.Run("empty items rejected", func(t *testing.T) {
		_, err := NewReleaseRequest(uuid.New(), "Maria", "Registrar", "", false, nil)
		assertDomainCode(t, err, "INVALID_INPUT")
	})

	t.Run("nil item reference rejected", func(t *testing.T) {
		bad := sampleReleaseInputs(1)
		bad[0].InventoryItemID = uuid.Nil
		_, err := NewReleaseRequest(uuid.New(), "Maria", "Registrar", "", false, bad)
		assertDomainCode(t, err, "INVALID_INPUT")
	})
}

func TestReleaseReview(t *testing.T) {
	t.Run("per item partial outcome", func(t *testing.T) {
		req := newPendingRelease(t, 2)
		err := req.Review(uuid.New(), PerItemDecision([]ItemDecision{
			{Index: 0, Status: LineStatusApproved},
			{Index: 1, Status: LineStatusDenied, Reason: DenyReasonWrongQuantity},
		}))
		require.NoError(t, err)
		assert.Equal(t, StatusPartial, req.Status)
		assert.Len(t, req.ApprovedItems(), 1)
	})

	t.Run("uncovered line rejected", func(t *testing.T) {
		req := newPendingRelease(t, 2)
		err := req.Review(uuid.New(), PerItemDecision([]ItemDecision{
			{Index: 0, Status: LineStatusApproved},
		}))
		assertDomainCode(t, err, "INVALID_INPUT")
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("second review rejected", func(t *testing.T) {
		req := newPendingRelease(t, 1)
		require.NoError(t, req.Review(uuid.New(), BlanketDecision(LineStatusApproved)))
		err := req.Review(uuid.New(), BlanketDecision(LineStatusDenied))
		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestStatusCanGenerate(t *testing.T) {
	assert.True(t, StatusApproved.CanGenerate())
	assert.True(t, StatusPartial.CanGenerate())
	assert.False(t, StatusPending.CanGenerate())
	assert.False(t, StatusDenied.CanGenerate())
}

func TestNewReleaseReport(t *testing.T) {
	requestID := uuid.New()

	t.Run("computes total from lines", func(t *testing.T) {
		report, err := NewReleaseReport("Registrar", "RS-0042", false, "Admin One", "Maria Santos", &requestID, []ReportLine{
			{InventoryItemID: uuid.New(), ItemName: "Pen", Quantity: 3, Unit: "box", UnitCost: decimal.RequireFromString("120.00")},
			{InventoryItemID: uuid.New(), ItemName: "Paper", Quantity: 2, Unit: "ream", UnitCost: decimal.RequireFromString("245.50")},
		})
		require.NoError(t, err)
		assert.True(t, report.TotalAmount.Equal(decimal.RequireFromString("851.00")), "total %s", report.TotalAmount)
		require.Len(t, report.Items, 2)
		assert.Equal(t, 0, report.Items[0].LineNo)
		assert.Equal(t, report.ID, report.Items[0].ReportID)
		require.NotNil(t, report.RequestID)
		assert.Equal(t, requestID, *report.RequestID)

		events := report.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReportGenerated, events[0].EventType())
	})

	t.Run("empty lines rejected", func(t *testing.T) {
		_, err := NewReleaseReport("Registrar", "", false, "Admin One", "", nil, nil)
		assertDomainCode(t, err, "INVALID_INPUT")
	})

	t.Run("missing released by rejected", func(t *testing.T) {
		_, err := NewReleaseReport("Registrar", "", false, "", "", nil, []ReportLine{
			{InventoryItemID: uuid.New(), Quantity: 1, UnitCost: decimal.NewFromInt(1)},
		})
		assertDomainCode(t, err, "INVALID_INPUT")
	})
}
