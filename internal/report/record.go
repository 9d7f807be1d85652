// Package report turns flat planting/harvest rows into the nested
// barangay/municipality statistical tables used for crop program reports,
// and renders them as CSV, Excel, or PDF documents.
package report

import "strings"

type CropCategory string

const (
	CategoryRice      CropCategory = "rice"
	CategoryCorn      CropCategory = "corn"
	CategoryHighValue CropCategory = "high-value"
)

func ParseCropCategory(v string) (CropCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "rice":
		return CategoryRice, true
	case "corn":
		return CategoryCorn, true
	case "high-value", "high value", "hvc", "hvcdp":
		return CategoryHighValue, true
	default:
		return "", false
	}
}

// Record is one denormalized planting row as returned by the data layer,
// optionally joined with its harvest totals.
type Record struct {
	Farmer       string
	Barangay     string
	Municipality string
	Category     CropCategory
	CropType     string
	Variety      string
	AreaHa       float64
	YieldKg      float64
}

// BucketKey identifies one statistical bucket. Location is carried as two
// explicit fields; nothing in this package splits a combined
// "barangay, municipality" string.
type BucketKey struct {
	Municipality string
	Barangay     string
	CropType     string
	Variety      string
}

// cornColors is the fixed corn color-class enumeration. Anything outside it
// is excluded from corn reports.
var cornColors = map[string]string{
	"yellow": "Yellow",
	"white":  "White",
}

// riceEcosystems is the recognized rice classification set.
var riceEcosystems = map[string]string{
	"irrigated":       "Irrigated",
	"rainfed lowland": "Rainfed Lowland",
	"rainfed upland":  "Rainfed Upland",
	"upland":          "Upland",
}

// hvcCommodityGroups is the recognized high-value crop grouping.
var hvcCommodityGroups = map[string]string{
	"vegetable": "Vegetable",
	"fruit":     "Fruit",
	"spice":     "Spice",
	"rootcrop":  "Rootcrop",
	"legume":    "Legume",
}

// Classify resolves a record to its bucket key. It is pure and
// deterministic. Records whose classification string is not in the category's
// recognized set are reported as unclassified (ok = false) and excluded from
// aggregation; this is policy, not an error.
func Classify(rec Record) (BucketKey, bool) {
	muni := strings.TrimSpace(rec.Municipality)
	brgy := strings.TrimSpace(rec.Barangay)
	if muni == "" || brgy == "" {
		return BucketKey{}, false
	}

	var class string
	var ok bool
	switch rec.Category {
	case CategoryCorn:
		// Corn is bucketed by color class, carried on the variety.
		class, ok = cornColors[strings.ToLower(strings.TrimSpace(rec.Variety))]
		if !ok {
			class, ok = cornColors[strings.ToLower(strings.TrimSpace(rec.CropType))]
		}
	case CategoryRice:
		class, ok = riceEcosystems[strings.ToLower(strings.TrimSpace(rec.CropType))]
	case CategoryHighValue:
		class, ok = hvcCommodityGroups[strings.ToLower(strings.TrimSpace(rec.CropType))]
	default:
		return BucketKey{}, false
	}
	if !ok {
		return BucketKey{}, false
	}

	return BucketKey{
		Municipality: muni,
		Barangay:     brgy,
		CropType:     class,
		Variety:      strings.TrimSpace(rec.Variety),
	}, true
}
