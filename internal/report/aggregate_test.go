package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gasanCornRecords() []Record {
	return []Record{
		{Farmer: "J. Dela Cruz", Barangay: "Banuyo", Municipality: "Gasan", Category: CategoryCorn, Variety: "Yellow", AreaHa: 3.5, YieldKg: 8750},
		{Farmer: "M. Reyes", Barangay: "Banuyo", Municipality: "Gasan", Category: CategoryCorn, Variety: "Yellow", AreaHa: 3.5, YieldKg: 8750},
		{Farmer: "A. Santos", Barangay: "Banuyo", Municipality: "Gasan", Category: CategoryCorn, Variety: "White", AreaHa: 0.1875, YieldKg: 468.8},
	}
}

func TestAggregateGasanCornScenario(t *testing.T) {
	res := Aggregate(gasanCornRecords(), Options{CollectEntries: true})
	require.Len(t, res.Buckets, 2)
	assert.Zero(t, res.Unclassified)

	yellow := res.Buckets[BucketKey{Municipality: "Gasan", Barangay: "Banuyo", CropType: "Yellow", Variety: "Yellow"}]
	require.NotNil(t, yellow)
	assert.InDelta(t, 7.0, yellow.AreaHa, 1e-9)
	assert.InDelta(t, 17.5, yellow.ProductionMT, 1e-9)
	avg, ok := yellow.AvgYieldMTPerHa()
	require.True(t, ok)
	assert.InDelta(t, 2.5, avg, 1e-9)
	assert.Len(t, yellow.Entries, 2)

	white := res.Buckets[BucketKey{Municipality: "Gasan", Barangay: "Banuyo", CropType: "White", Variety: "White"}]
	require.NotNil(t, white)
	assert.InDelta(t, 0.1875, white.AreaHa, 1e-9)
	avg, ok = white.AvgYieldMTPerHa()
	require.True(t, ok)
	assert.InDelta(t, 2.5, avg, 1e-3)
}

func TestAggregateDropsUnrecognizedWithoutError(t *testing.T) {
	records := append(gasanCornRecords(), Record{
		Farmer: "R. Lim", Barangay: "Banuyo", Municipality: "Gasan",
		Category: CategoryCorn, Variety: "Purple", AreaHa: 99, YieldKg: 1000,
	})
	res := Aggregate(records, Options{})
	assert.Equal(t, 1, res.Unclassified)

	totals := res.Totals()
	assert.InDelta(t, 7.1875, totals.Grand.AreaHa, 1e-9, "dropped record must not leak into totals")
}

func TestGrandTotalEqualsSumOfGroups(t *testing.T) {
	records := []Record{
		{Barangay: "Banuyo", Municipality: "Gasan", Category: CategoryCorn, Variety: "Yellow", AreaHa: 2, YieldKg: 4000},
		{Barangay: "Bangbang", Municipality: "Gasan", Category: CategoryCorn, Variety: "White", AreaHa: 1.5, YieldKg: 3200},
		{Barangay: "Poblacion", Municipality: "Boac", Category: CategoryCorn, Variety: "Yellow", AreaHa: 4.25, YieldKg: 9000},
		{Barangay: "Malibago", Municipality: "Buenavista", Category: CategoryCorn, Variety: "White", AreaHa: 0.75, YieldKg: 0},
	}
	totals := Aggregate(records, Options{}).Totals()

	var areaSum, productionSum float64
	for _, g := range totals.Groups {
		areaSum += g.AreaHa
		productionSum += g.ProductionMT
	}
	assert.InDelta(t, totals.Grand.AreaHa, areaSum, 1e-9)
	assert.InDelta(t, totals.Grand.ProductionMT, productionSum, 1e-9)
	assert.InDelta(t, 8.5, totals.Grand.AreaHa, 1e-9)

	require.Len(t, totals.Groups, 3)
	assert.Equal(t, "Boac", totals.Groups[0].Municipality)
	assert.Equal(t, "Buenavista", totals.Groups[1].Municipality)
	assert.Equal(t, "Gasan", totals.Groups[2].Municipality)
}

func TestAggregateOrderIndependent(t *testing.T) {
	records := gasanCornRecords()
	reversed := []Record{records[2], records[1], records[0]}

	a := Aggregate(records, Options{}).Totals()
	b := Aggregate(reversed, Options{}).Totals()
	assert.InDelta(t, a.Grand.AreaHa, b.Grand.AreaHa, 1e-12)
	assert.InDelta(t, a.Grand.ProductionMT, b.Grand.ProductionMT, 1e-12)
}

func TestProductionMTConversion(t *testing.T) {
	assert.InDelta(t, 8.75, ProductionMT(8750), 1e-9)
	assert.InDelta(t, 0.4688, ProductionMT(468.8), 1e-9)
	assert.Zero(t, ProductionMT(0))
}

func TestAvgYieldNeverDividesByZero(t *testing.T) {
	b := &Bucket{AreaHa: 0, ProductionMT: 5}
	_, ok := b.AvgYieldMTPerHa()
	assert.False(t, ok)

	g := GroupTotal{AreaHa: 0, ProductionMT: 0}
	_, ok = g.AvgYieldMTPerHa()
	assert.False(t, ok)
}
