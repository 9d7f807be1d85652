package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Server) handleHarvests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(r)
	offset := (page - 1) * pageSize

	var total int64
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM harvests`).Scan(&total)

	rows, err := s.db.Query(ctx, `
		SELECT h.id, h.planting_id, f.full_name, f.barangay, f.municipality, p.category, p.crop_type, p.variety,
			h.harvest_date, h.yield_kg, h.area_harvested_ha, h.damaged_kg, h.profit
		FROM harvests h
		JOIN plantings p ON p.id = h.planting_id
		JOIN farmers f ON f.id = p.farmer_id
		ORDER BY h.harvest_date DESC, h.id DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load harvests"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id, plantingID int64
		var farmer, barangay, muni, category, cropType, variety string
		var harvestDate time.Time
		var yieldKg, areaHa, damagedKg, profit float64
		if err := rows.Scan(&id, &plantingID, &farmer, &barangay, &muni, &category, &cropType, &variety, &harvestDate, &yieldKg, &areaHa, &damagedKg, &profit); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse harvests"})
			return
		}
		out = append(out, map[string]any{
			"id":              id,
			"plantingId":      plantingID,
			"farmer":          farmer,
			"barangay":        barangay,
			"municipality":    muni,
			"category":        category,
			"cropType":        cropType,
			"variety":         variety,
			"harvestDate":     s.formatISODate(harvestDate),
			"yieldKg":         yieldKg,
			"areaHarvestedHa": areaHa,
			"damagedKg":       damagedKg,
			"profit":          profit,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":    out,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (s *Server) handlePlantingHarvests(w http.ResponseWriter, r *http.Request) {
	plantingID, err := parsePathID(r, "id")
	if err != nil || plantingID <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid planting id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, harvest_date, yield_kg, area_harvested_ha, damaged_kg, profit
		FROM harvests
		WHERE planting_id = $1
		ORDER BY harvest_date DESC
	`, plantingID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load harvests"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var harvestDate time.Time
		var yieldKg, areaHa, damagedKg, profit float64
		if err := rows.Scan(&id, &harvestDate, &yieldKg, &areaHa, &damagedKg, &profit); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse harvests"})
			return
		}
		out = append(out, map[string]any{
			"id":              id,
			"harvestDate":     s.formatISODate(harvestDate),
			"yieldKg":         yieldKg,
			"areaHarvestedHa": areaHa,
			"damagedKg":       damagedKg,
			"profit":          profit,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateHarvest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlantingID      int64    `json:"plantingId"`
		HarvestDate     string   `json:"harvestDate"`
		YieldKg         *float64 `json:"yieldKg"`
		AreaHarvestedHa *float64 `json:"areaHarvestedHa"`
		DamagedKg       float64  `json:"damagedKg"`
		Profit          float64  `json:"profit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	if in.PlantingID <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "plantingId is required"})
		return
	}
	if in.YieldKg == nil || *in.YieldKg < 0 || in.AreaHarvestedHa == nil || *in.AreaHarvestedHa < 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "yieldKg and areaHarvestedHa must be non-negative numbers"})
		return
	}
	harvestDate, err := requiredDate(in.HarvestDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "harvestDate must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The harvest insert and the status transition land together or not at
	// all.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record harvest"})
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var currentRaw string
	err = tx.QueryRow(ctx, `SELECT status FROM plantings WHERE id = $1 FOR UPDATE`, in.PlantingID).Scan(&currentRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "planting not found"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record harvest"})
		return
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO harvests(planting_id, harvest_date, yield_kg, area_harvested_ha, damaged_kg, profit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.PlantingID, harvestDate, *in.YieldKg, *in.AreaHarvestedHa, in.DamagedKg, in.Profit).Scan(&id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record harvest"})
		return
	}

	// Submitting a harvest marks the planting harvested from any earlier
	// state.
	if current, _ := ParsePlantingStatus(currentRaw); current != StatusHarvested {
		if _, err := tx.Exec(ctx, `UPDATE plantings SET status = $1 WHERE id = $2`, string(StatusHarvested), in.PlantingID); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record harvest"})
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record harvest"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id, "plantingStatus": StatusHarvested})
}
