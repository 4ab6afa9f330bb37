package report

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/supplyoffice/backend/internal/domain/release"
)

func TestExcelRenderer_Render(t *testing.T) {
	requestID := uuid.New()
	rpt, err := release.NewReleaseReport("Registrar", "RS-042", true, "Admin One", "Maria Santos", &requestID, []release.ReportLine{
		{InventoryItemID: uuid.New(), ItemName: "Bond Paper A4", Quantity: 3, Unit: "ream", Particulars: "For enrollment forms", UnitCost: decimal.NewFromInt(220)},
		{InventoryItemID: uuid.New(), ItemName: "Ballpen Black", Quantity: 2, Unit: "box", UnitCost: decimal.NewFromInt(120)},
	})
	require.NoError(t, err)
	rpt.SRONo = "SRO-2026-00042"

	data, err := NewExcelRenderer().Render(rpt)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sro, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "SRO-2026-00042", sro)

	firstItem, err := f.GetCellValue(sheetName, "B9")
	require.NoError(t, err)
	assert.Equal(t, "Bond Paper A4", firstItem)

	total, err := f.GetCellValue(sheetName, "G11")
	require.NoError(t, err)
	assert.Equal(t, "900", total)
}

func TestExcelRenderer_Filename(t *testing.T) {
	rpt := &release.ReleaseReport{SRONo: "SRO-2026-00007"}
	assert.Equal(t, "SRO-2026-00007.xlsx", NewExcelRenderer().Filename(rpt))
}
