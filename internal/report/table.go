package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Variant string

const (
	VariantAccomplishment Variant = "accomplishment"
	VariantStanding       Variant = "standing"
	VariantHarvest        Variant = "harvest"
)

func ParseVariant(v string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "accomplishment", "planting-accomplishment", "planting":
		return VariantAccomplishment, true
	case "standing", "standing-crop":
		return VariantStanding, true
	case "harvest", "harvested":
		return VariantHarvest, true
	default:
		return "", false
	}
}

type RowKind int

const (
	RowDetail RowKind = iota
	RowEntry
	RowSubtotal
	RowGrandTotal
)

type Row struct {
	Kind  RowKind
	Cells []string
}

// Document is the render-ready report: header metadata plus flat rows. All
// renderers consume this read-only.
type Document struct {
	Title       string
	Category    CropCategory
	Variant     Variant
	Province    string
	Period      string
	GeneratedOn string
	Headers     []string
	Rows        []Row
}

// numCell renders a metric cell. Zero renders as an empty string: a report
// must not claim a zero where no data exists.
func numCell(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// yieldCell renders an average yield, blank when the area denominator is
// missing.
func yieldCell(productionMT, areaHa float64) string {
	if areaHa <= 0 {
		return ""
	}
	return strconv.FormatFloat(productionMT/areaHa, 'f', 4, 64)
}

func variantTitle(category CropCategory, variant Variant) string {
	var noun string
	switch category {
	case CategoryRice:
		noun = "Rice"
	case CategoryCorn:
		noun = "Corn"
	case CategoryHighValue:
		noun = "High-Value Crops"
	}
	switch variant {
	case VariantStanding:
		return noun + " Standing Crop Report"
	case VariantHarvest:
		return noun + " Harvesting Report"
	default:
		return noun + " Planting Accomplishment Report"
	}
}

func headersFor(variant Variant) []string {
	switch variant {
	case VariantHarvest:
		return []string{"Municipality", "Barangay", "Type", "Variety", "Area Harvested (ha)", "Production (MT)", "Ave Yield (MT/ha)"}
	case VariantStanding:
		return []string{"Municipality", "Barangay", "Type", "Variety", "Area Planted (ha)"}
	default:
		return []string{"Municipality", "Barangay", "Type", "Variety", "Farmer", "Area Planted (ha)"}
	}
}

// BuildDocument walks the aggregate into ordered table rows: detail rows per
// bucket, farmer entry rows for the accomplishment variant, a subtotal row
// per municipality, and one grand total row.
func BuildDocument(res *Result, category CropCategory, variant Variant, province, period string, generated time.Time) Document {
	doc := Document{
		Title:       variantTitle(category, variant),
		Category:    category,
		Variant:     variant,
		Province:    province,
		Period:      period,
		GeneratedOn: generated.Format("2006-01-02"),
		Headers:     headersFor(variant),
	}

	totals := res.Totals()
	groupByMuni := make(map[string]GroupTotal, len(totals.Groups))
	for _, g := range totals.Groups {
		groupByMuni[g.Municipality] = g
	}

	buckets := res.SortedBuckets()
	currentMuni := ""
	flushSubtotal := func() {
		if currentMuni == "" {
			return
		}
		g := groupByMuni[currentMuni]
		doc.Rows = append(doc.Rows, subtotalRow(variant, g))
	}

	for _, b := range buckets {
		if b.Key.Municipality != currentMuni {
			flushSubtotal()
			currentMuni = b.Key.Municipality
		}
		doc.Rows = append(doc.Rows, detailRow(variant, b))
		if variant == VariantAccomplishment {
			for _, e := range b.Entries {
				doc.Rows = append(doc.Rows, Row{
					Kind:  RowEntry,
					Cells: []string{"", "", "", "", e.Farmer, numCell(e.AreaHa)},
				})
			}
		}
	}
	flushSubtotal()

	if len(buckets) > 0 {
		doc.Rows = append(doc.Rows, grandTotalRow(variant, totals.Grand))
	}
	return doc
}

func detailRow(variant Variant, b *Bucket) Row {
	k := b.Key
	switch variant {
	case VariantHarvest:
		return Row{Kind: RowDetail, Cells: []string{
			k.Municipality, k.Barangay, k.CropType, k.Variety,
			numCell(b.AreaHa), numCell(b.ProductionMT), yieldCell(b.ProductionMT, b.AreaHa),
		}}
	case VariantStanding:
		return Row{Kind: RowDetail, Cells: []string{
			k.Municipality, k.Barangay, k.CropType, k.Variety, numCell(b.AreaHa),
		}}
	default:
		return Row{Kind: RowDetail, Cells: []string{
			k.Municipality, k.Barangay, k.CropType, k.Variety,
			fmt.Sprintf("%d farmer(s)", len(b.Entries)), numCell(b.AreaHa),
		}}
	}
}

func subtotalRow(variant Variant, g GroupTotal) Row {
	label := g.Municipality + " Subtotal"
	switch variant {
	case VariantHarvest:
		return Row{Kind: RowSubtotal, Cells: []string{
			label, "", "", "", numCell(g.AreaHa), numCell(g.ProductionMT), yieldCell(g.ProductionMT, g.AreaHa),
		}}
	case VariantStanding:
		return Row{Kind: RowSubtotal, Cells: []string{label, "", "", "", numCell(g.AreaHa)}}
	default:
		return Row{Kind: RowSubtotal, Cells: []string{label, "", "", "", "", numCell(g.AreaHa)}}
	}
}

func grandTotalRow(variant Variant, g GroupTotal) Row {
	switch variant {
	case VariantHarvest:
		return Row{Kind: RowGrandTotal, Cells: []string{
			"Grand Total", "", "", "", numCell(g.AreaHa), numCell(g.ProductionMT), yieldCell(g.ProductionMT, g.AreaHa),
		}}
	case VariantStanding:
		return Row{Kind: RowGrandTotal, Cells: []string{"Grand Total", "", "", "", numCell(g.AreaHa)}}
	default:
		return Row{Kind: RowGrandTotal, Cells: []string{"Grand Total", "", "", "", "", numCell(g.AreaHa)}}
	}
}
