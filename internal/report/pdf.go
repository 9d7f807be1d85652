package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF serializes the document as a printable PDF. Harvest reports use
// landscape A4; the narrower variants print portrait.
func WritePDF(doc Document) ([]byte, error) {
	orientation := "P"
	pageWidth := 210.0
	if doc.Variant == VariantHarvest {
		orientation = "L"
		pageWidth = 297.0
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(0, 8, doc.Title, "0", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Province of %s", doc.Province), "0", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", doc.Period), "0", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated On: %s", doc.GeneratedOn), "0", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := columnWidths(len(doc.Headers), pageWidth-24)

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(46, 94, 52)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range doc.Headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	for _, row := range doc.Rows {
		if pdf.GetY() > pageHeight(orientation)-24 {
			pdf.AddPage()
			writeHeader()
		}
		switch row.Kind {
		case RowSubtotal, RowGrandTotal:
			pdf.SetFont("Arial", "B", 8)
			pdf.SetFillColor(232, 239, 232)
			pdf.SetTextColor(0, 0, 0)
		case RowEntry:
			pdf.SetFont("Arial", "I", 8)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(60, 60, 60)
		default:
			pdf.SetFont("Arial", "", 8)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(0, 0, 0)
		}
		fill := row.Kind == RowSubtotal || row.Kind == RowGrandTotal
		for i, cell := range row.Cells {
			align := "L"
			if i >= len(row.Cells)-3 && numericColumn(doc.Headers, i) {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FarmerRow is one line of the farmer masterlist export.
type FarmerRow struct {
	FullName     string
	RSBSANumber  string
	Barangay     string
	Municipality string
	Province     string
	Contact      string
}

// WriteMasterlistPDF renders the registered-farmer masterlist as a portrait
// A4 document.
func WriteMasterlistPDF(province string, generatedOn string, farmers []FarmerRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(0, 8, "Registered Farmer Masterlist", "0", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Province of %s", province), "0", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated On: %s", generatedOn), "0", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"#", "Full Name", "RSBSA No.", "Barangay", "Municipality", "Contact"}
	widths := []float64{10, 52, 34, 34, 34, 22}

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(46, 94, 52)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, farmer := range farmers {
		if pdf.GetY() > 273 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Arial", "", 8)
			pdf.SetTextColor(0, 0, 0)
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			farmer.FullName,
			farmer.RSBSANumber,
			farmer.Barangay,
			farmer.Municipality,
			farmer.Contact,
		}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func columnWidths(count int, usable float64) []float64 {
	widths := make([]float64, count)
	if count == 0 {
		return widths
	}
	// Location and classification columns get a fixed share, metric columns
	// split the rest evenly.
	textCols := 4
	if count <= textCols {
		each := usable / float64(count)
		for i := range widths {
			widths[i] = each
		}
		return widths
	}
	textShare := usable * 0.62
	for i := 0; i < textCols; i++ {
		widths[i] = textShare / float64(textCols)
	}
	metricShare := usable - textShare
	for i := textCols; i < count; i++ {
		widths[i] = metricShare / float64(count-textCols)
	}
	return widths
}

func pageHeight(orientation string) float64 {
	if orientation == "L" {
		return 210
	}
	return 297
}

func numericColumn(headers []string, i int) bool {
	if i >= len(headers) {
		return false
	}
	h := headers[i]
	return h == "Area Planted (ha)" || h == "Area Harvested (ha)" ||
		h == "Production (MT)" || h == "Ave Yield (MT/ha)"
}
