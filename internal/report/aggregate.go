package report

import "sort"

// Entry is one farmer line under a bucket, kept for planting
// accomplishment reports.
type Entry struct {
	Farmer string
	AreaHa float64
}

// Bucket accumulates metrics for one classification key.
type Bucket struct {
	Key          BucketKey
	AreaHa       float64
	ProductionMT float64
	Entries      []Entry
}

// AvgYieldMTPerHa returns production / area. ok is false when the bucket has
// no area; callers must render that as blank, never divide regardless.
func (b *Bucket) AvgYieldMTPerHa() (float64, bool) {
	if b.AreaHa <= 0 {
		return 0, false
	}
	return b.ProductionMT / b.AreaHa, true
}

type Options struct {
	// CollectEntries keeps per-farmer lines; used by the planting
	// accomplishment report variant.
	CollectEntries bool
}

// Result is the aggregated mapping plus a count of records excluded by the
// classifier.
type Result struct {
	Buckets      map[BucketKey]*Bucket
	Unclassified int
}

// ProductionMT converts a harvested quantity in kilograms to metric tons.
func ProductionMT(yieldKg float64) float64 {
	return yieldKg / 1000
}

// Aggregate folds records into buckets in a single pass. Traversal order
// does not affect the sums, and the input is never mutated.
func Aggregate(records []Record, opts Options) *Result {
	res := &Result{Buckets: make(map[BucketKey]*Bucket)}
	for _, rec := range records {
		key, ok := Classify(rec)
		if !ok {
			res.Unclassified++
			continue
		}
		b, exists := res.Buckets[key]
		if !exists {
			b = &Bucket{Key: key}
			res.Buckets[key] = b
		}
		b.AreaHa += rec.AreaHa
		b.ProductionMT += ProductionMT(rec.YieldKg)
		if opts.CollectEntries {
			b.Entries = append(b.Entries, Entry{Farmer: rec.Farmer, AreaHa: rec.AreaHa})
		}
	}
	return res
}

// GroupTotal is the rollup for one municipality.
type GroupTotal struct {
	Municipality string
	AreaHa       float64
	ProductionMT float64
}

func (g GroupTotal) AvgYieldMTPerHa() (float64, bool) {
	if g.AreaHa <= 0 {
		return 0, false
	}
	return g.ProductionMT / g.AreaHa, true
}

// Totals holds per-municipality sums and the grand total across all groups.
type Totals struct {
	Groups []GroupTotal
	Grand  GroupTotal
}

// Totals rolls buckets up by municipality and derives the grand total.
// Groups come back sorted by municipality name.
func (r *Result) Totals() Totals {
	byMuni := make(map[string]*GroupTotal)
	for key, b := range r.Buckets {
		g, exists := byMuni[key.Municipality]
		if !exists {
			g = &GroupTotal{Municipality: key.Municipality}
			byMuni[key.Municipality] = g
		}
		g.AreaHa += b.AreaHa
		g.ProductionMT += b.ProductionMT
	}

	t := Totals{Groups: make([]GroupTotal, 0, len(byMuni))}
	for _, g := range byMuni {
		t.Groups = append(t.Groups, *g)
		t.Grand.AreaHa += g.AreaHa
		t.Grand.ProductionMT += g.ProductionMT
	}
	sort.Slice(t.Groups, func(i, j int) bool {
		return t.Groups[i].Municipality < t.Groups[j].Municipality
	})
	return t
}

// SortedBuckets returns buckets ordered by municipality, barangay, crop
// type, then variety, for stable report rows.
func (r *Result) SortedBuckets() []*Bucket {
	out := make([]*Bucket, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Municipality != b.Municipality {
			return a.Municipality < b.Municipality
		}
		if a.Barangay != b.Barangay {
			return a.Barangay < b.Barangay
		}
		if a.CropType != b.CropType {
			return a.CropType < b.CropType
		}
		return a.Variety < b.Variety
	})
	return out
}
