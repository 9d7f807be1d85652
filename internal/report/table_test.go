package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumCellBlankOnZero(t *testing.T) {
	assert.Equal(t, "", numCell(0))
	assert.Equal(t, "7.0000", numCell(7))
	assert.Equal(t, "0.1875", numCell(0.1875))
}

func TestYieldCellBlankWhenNoArea(t *testing.T) {
	assert.Equal(t, "", yieldCell(5, 0))
	assert.Equal(t, "", yieldCell(0, 0))
	assert.Equal(t, "2.5000", yieldCell(17.5, 7))
}

func TestBuildDocumentHarvest(t *testing.T) {
	res := Aggregate(gasanCornRecords(), Options{})
	doc := BuildDocument(res, CategoryCorn, VariantHarvest, "Marinduque", "January 2026", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "Corn Harvesting Report", doc.Title)
	assert.Equal(t, []string{"Municipality", "Barangay", "Type", "Variety", "Area Harvested (ha)", "Production (MT)", "Ave Yield (MT/ha)"}, doc.Headers)

	// 2 detail rows + 1 municipality subtotal + 1 grand total.
	require.Len(t, doc.Rows, 4)

	white := doc.Rows[0]
	assert.Equal(t, RowDetail, white.Kind)
	assert.Equal(t, "Gasan", white.Cells[0])
	assert.Equal(t, "Banuyo", white.Cells[1])
	assert.Equal(t, "White", white.Cells[2])

	grand := doc.Rows[len(doc.Rows)-1]
	assert.Equal(t, RowGrandTotal, grand.Kind)
	assert.Equal(t, "Grand Total", grand.Cells[0])
	assert.Equal(t, "7.1875", grand.Cells[4])

	for _, row := range doc.Rows {
		for _, cell := range row.Cells {
			assert.NotContains(t, cell, "NaN")
		}
	}
}

func TestBuildDocumentAccomplishmentEntries(t *testing.T) {
	res := Aggregate(gasanCornRecords(), Options{CollectEntries: true})
	doc := BuildDocument(res, CategoryCorn, VariantAccomplishment, "Marinduque", "January 2026", time.Now())

	var entryRows int
	for _, row := range doc.Rows {
		if row.Kind == RowEntry {
			entryRows++
		}
	}
	assert.Equal(t, 3, entryRows, "one entry row per farmer")
}

func TestBuildDocumentEmptyResult(t *testing.T) {
	doc := BuildDocument(Aggregate(nil, Options{}), CategoryRice, VariantStanding, "Marinduque", "2026", time.Now())
	assert.Empty(t, doc.Rows, "no totals row when there is no data")
}

func TestRenderersProduceOutput(t *testing.T) {
	res := Aggregate(gasanCornRecords(), Options{CollectEntries: true})
	doc := BuildDocument(res, CategoryCorn, VariantHarvest, "Marinduque", "January 2026", time.Now())

	csvBytes, err := WriteCSV(doc)
	require.NoError(t, err)
	assert.Contains(t, string(csvBytes), "Corn Harvesting Report")
	assert.Contains(t, string(csvBytes), "Grand Total")

	xlsxBytes, err := WriteExcel(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsxBytes)

	pdfBytes, err := WritePDF(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"accomplishment", VariantAccomplishment, true},
		{"planting-accomplishment", VariantAccomplishment, true},
		{"standing", VariantStanding, true},
		{"Harvest", VariantHarvest, true},
		{"weekly", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseVariant(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
