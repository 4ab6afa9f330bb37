package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/supplyoffice/backend/internal/domain/release"
)

const sheetName = "Release Report"

// ExcelRenderer renders a release report into an .xlsx workbook for
// the supply office's paper trail
type ExcelRenderer struct{}

// NewExcelRenderer creates a new Excel renderer
func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

// Render produces the workbook bytes for one report
func (r *ExcelRenderer) Render(report *release.ReleaseReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	setCell := func(cell string, value any) {
		_ = f.SetCellValue(sheetName, cell, value)
	}

	setCell("A1", "Supply Release Order")
	setCell("A2", "SRO No.")
	setCell("B2", report.SRONo)
	setCell("A3", "RS No.")
	setCell("B3", report.RSNo)
	setCell("A4", "Department / Office")
	setCell("B4", report.DepartmentOffice)
	setCell("A5", "Date Released")
	setCell("B5", report.CreatedAt.Format("2006-01-02"))
	if report.PartialRelease {
		setCell("A6", "Partial Release")
		setCell("B6", "Yes")
	}

	const tableStart = 8
	columns := []string{"Line", "Item", "Particulars", "Quantity", "Unit", "Unit Cost", "Amount"}
	for i, title := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableStart)
		setCell(cell, title)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := tableStart + 1
	for _, item := range report.Items {
		setCell(fmt.Sprintf("A%d", row), item.LineNo+1)
		setCell(fmt.Sprintf("B%d", row), item.ItemName)
		setCell(fmt.Sprintf("C%d", row), item.Particulars)
		setCell(fmt.Sprintf("D%d", row), item.Quantity)
		setCell(fmt.Sprintf("E%d", row), item.Unit)
		setCell(fmt.Sprintf("F%d", row), item.UnitCost.InexactFloat64())
		setCell(fmt.Sprintf("G%d", row), item.Amount.InexactFloat64())
		row++
	}

	setCell(fmt.Sprintf("F%d", row), "Total")
	setCell(fmt.Sprintf("G%d", row), report.TotalAmount.InexactFloat64())

	row += 2
	setCell(fmt.Sprintf("A%d", row), "Released By")
	setCell(fmt.Sprintf("B%d", row), report.ReleasedBy)
	setCell(fmt.Sprintf("A%d", row+1), "Received By")
	setCell(fmt.Sprintf("B%d", row+1), report.ReceivedBy)

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "C", 30)
	_ = f.SetColWidth(sheetName, "D", "G", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the download filename for a report
func (r *ExcelRenderer) Filename(report *release.ReleaseReport) string {
	return fmt.Sprintf("%s.xlsx", report.SRONo)
}
