package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteExcel serializes the document as a single-sheet workbook with a bold
// header band and shaded totals rows.
func WriteExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E5E34"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8EFE8"}},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(sheet, "A1", doc.Title)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("Province of %s", doc.Province))
	_ = f.SetCellValue(sheet, "A3", fmt.Sprintf("Period: %s", doc.Period))
	_ = f.SetCellValue(sheet, "A4", fmt.Sprintf("Generated On: %s", doc.GeneratedOn))

	headerRow := 6
	for col, h := range doc.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, h)
	}
	firstHeader, _ := excelize.CoordinatesToCellName(1, headerRow)
	lastHeader, _ := excelize.CoordinatesToCellName(len(doc.Headers), headerRow)
	_ = f.SetCellStyle(sheet, firstHeader, lastHeader, headerStyle)

	for i, row := range doc.Rows {
		rowNum := headerRow + 1 + i
		for col, value := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
		if row.Kind == RowSubtotal || row.Kind == RowGrandTotal {
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			last, _ := excelize.CoordinatesToCellName(len(doc.Headers), rowNum)
			_ = f.SetCellStyle(sheet, first, last, totalStyle)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "C", string(rune('A'+len(doc.Headers)-1)), 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
