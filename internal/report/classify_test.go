package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCornColors(t *testing.T) {
	tests := []struct {
		name    string
		variety string
		want    string
		ok      bool
	}{
		{"yellow lowercase", "yellow", "Yellow", true},
		{"yellow canonical", "Yellow", "Yellow", true},
		{"white", "White", "White", true},
		{"padded", "  white  ", "White", true},
		{"unrecognized color", "Purple", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := Classify(Record{
				Barangay:     "Banuyo",
				Municipality: "Gasan",
				Category:     CategoryCorn,
				Variety:      tt.variety,
			})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, key.CropType)
			}
		})
	}
}

func TestClassifyRiceEcosystems(t *testing.T) {
	key, ok := Classify(Record{
		Barangay:     "Bangbang",
		Municipality: "Gasan",
		Category:     CategoryRice,
		CropType:     "irrigated",
		Variety:      "NSIC Rc 222",
	})
	require.True(t, ok)
	assert.Equal(t, "Irrigated", key.CropType)
	assert.Equal(t, "NSIC Rc 222", key.Variety)

	_, ok = Classify(Record{
		Barangay:     "Bangbang",
		Municipality: "Gasan",
		Category:     CategoryRice,
		CropType:     "hydroponic",
	})
	assert.False(t, ok, "unrecognized rice classification must be dropped")
}

func TestClassifyRequiresLocation(t *testing.T) {
	_, ok := Classify(Record{Category: CategoryCorn, Variety: "Yellow", Municipality: "Gasan"})
	assert.False(t, ok)
	_, ok = Classify(Record{Category: CategoryCorn, Variety: "Yellow", Barangay: "Banuyo"})
	assert.False(t, ok)
}

func TestClassifyDeterministic(t *testing.T) {
	rec := Record{
		Barangay:     "Banuyo",
		Municipality: "Gasan",
		Category:     CategoryHighValue,
		CropType:     "vegetable",
		Variety:      "Eggplant",
	}
	first, ok1 := Classify(rec)
	second, ok2 := Classify(rec)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second, "classification must be idempotent")
}

func TestParseCropCategory(t *testing.T) {
	tests := []struct {
		in   string
		want CropCategory
		ok   bool
	}{
		{"rice", CategoryRice, true},
		{"Corn", CategoryCorn, true},
		{"high-value", CategoryHighValue, true},
		{"HVC", CategoryHighValue, true},
		{"livestock", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCropCategory(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
