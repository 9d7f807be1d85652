package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlantingStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from PlantingStatus
		to   PlantingStatus
		ok   bool
	}{
		{"inspection to harvest", StatusInspection, StatusHarvest, true},
		{"inspection to harvested", StatusInspection, StatusHarvested, true},
		{"harvest to harvested", StatusHarvest, StatusHarvested, true},
		{"harvest back to inspection", StatusHarvest, StatusInspection, false},
		{"harvested is terminal", StatusHarvested, StatusHarvest, false},
		{"no self transition", StatusHarvest, StatusHarvest, false},
		{"unknown source", PlantingStatus("weird"), StatusHarvest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}
}

func TestInitialPlantingStatus(t *testing.T) {
	assert.Equal(t, StatusHarvest, initialPlantingStatus("2026-08-28", "2026-08-28"))
	assert.Equal(t, StatusInspection, initialPlantingStatus("2026-09-15", "2026-08-28"))
	assert.Equal(t, StatusInspection, initialPlantingStatus("", "2026-08-28"))
}

func TestParsePlantingStatus(t *testing.T) {
	got, ok := ParsePlantingStatus(" Harvested ")
	assert.True(t, ok)
	assert.Equal(t, StatusHarvested, got)

	_, ok = ParsePlantingStatus("replanted")
	assert.False(t, ok)
}

func TestParseDamageSeverity(t *testing.T) {
	got, ok := ParseDamageSeverity("")
	assert.True(t, ok, "empty severity defaults to none")
	assert.Equal(t, SeverityNone, got)

	got, ok = ParseDamageSeverity("SEVERE")
	assert.True(t, ok)
	assert.Equal(t, SeveritySevere, got)

	_, ok = ParseDamageSeverity("catastrophic")
	assert.False(t, ok)
}

func TestParseGrowthStage(t *testing.T) {
	got, ok := ParseGrowthStage("mature")
	assert.True(t, ok)
	assert.Equal(t, StageMaturity, got)

	_, ok = ParseGrowthStage("sprouting")
	assert.False(t, ok)
}
