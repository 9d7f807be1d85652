package api

import "strings"

// PlantingStatus is the planting lifecycle: inspection -> harvest ->
// harvested, forward-only, harvested terminal.
type PlantingStatus string

const (
	StatusInspection PlantingStatus = "inspection"
	StatusHarvest    PlantingStatus = "harvest"
	StatusHarvested  PlantingStatus = "harvested"
)

func ParsePlantingStatus(v string) (PlantingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "inspection":
		return StatusInspection, true
	case "harvest":
		return StatusHarvest, true
	case "harvested":
		return StatusHarvested, true
	default:
		return "", false
	}
}

func (s PlantingStatus) rank() int {
	switch s {
	case StatusInspection:
		return 0
	case StatusHarvest:
		return 1
	case StatusHarvested:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether moving to next is a legal forward step.
// There is no compensating transition: a mis-recorded harvest cannot be
// reverted through the API.
func (s PlantingStatus) CanTransition(next PlantingStatus) bool {
	return s.rank() >= 0 && next.rank() > s.rank()
}

// initialPlantingStatus implements the creation rule: a planting whose
// expected harvest date is already today starts in harvest, everything else
// starts in inspection.
func initialPlantingStatus(expectedHarvestDate, today string) PlantingStatus {
	if expectedHarvestDate != "" && expectedHarvestDate == today {
		return StatusHarvest
	}
	return StatusInspection
}

type DamageSeverity string

const (
	SeverityNone     DamageSeverity = "none"
	SeverityLow      DamageSeverity = "low"
	SeverityModerate DamageSeverity = "moderate"
	SeverityHigh     DamageSeverity = "high"
	SeveritySevere   DamageSeverity = "severe"
)

func ParseDamageSeverity(v string) (DamageSeverity, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return SeverityNone, true
	case "low":
		return SeverityLow, true
	case "moderate":
		return SeverityModerate, true
	case "high":
		return SeverityHigh, true
	case "severe":
		return SeveritySevere, true
	default:
		return "", false
	}
}

type GrowthStage string

const (
	StageSeedling     GrowthStage = "seedling"
	StageVegetative   GrowthStage = "vegetative"
	StageReproductive GrowthStage = "reproductive"
	StageMaturity     GrowthStage = "maturity"
)

func ParseGrowthStage(v string) (GrowthStage, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "seedling":
		return StageSeedling, true
	case "vegetative":
		return StageVegetative, true
	case "reproductive":
		return StageReproductive, true
	case "maturity", "mature":
		return StageMaturity, true
	default:
		return "", false
	}
}
