package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

func (s *Server) handleInspections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(r)
	offset := (page - 1) * pageSize
	priorityOnly := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("priority")), "true")

	var total int64
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM inspections WHERE ($1 = false OR priority = true)`, priorityOnly).Scan(&total)

	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.planting_id, f.full_name, f.barangay, f.municipality, p.category, p.crop_type,
			i.inspection_date, i.damaged_area_ha, i.severity, i.growth_stage, i.priority, i.findings, i.image_urls
		FROM inspections i
		JOIN plantings p ON p.id = i.planting_id
		JOIN farmers f ON f.id = p.farmer_id
		WHERE ($1 = false OR i.priority = true)
		ORDER BY i.priority DESC, i.inspection_date DESC, i.id DESC
		LIMIT $2 OFFSET $3
	`, priorityOnly, pageSize, offset)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load inspections"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id, plantingID int64
		var farmer, barangay, muni, category, cropType, severity, growthStage, findings string
		var date time.Time
		var damagedArea float64
		var priority bool
		var imageURLs []string
		if err := rows.Scan(&id, &plantingID, &farmer, &barangay, &muni, &category, &cropType, &date, &damagedArea, &severity, &growthStage, &priority, &findings, &imageURLs); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse inspections"})
			return
		}
		out = append(out, map[string]any{
			"id":             id,
			"plantingId":     plantingID,
			"farmer":         farmer,
			"barangay":       barangay,
			"municipality":   muni,
			"category":       category,
			"cropType":       cropType,
			"inspectionDate": s.formatISODate(date),
			"damagedAreaHa":  damagedArea,
			"severity":       severity,
			"growthStage":    growthStage,
			"priority":       priority,
			"findings":       findings,
			"imageUrls":      imageURLs,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":    out,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

type inspectionInput struct {
	PlantingID     int64    `json:"plantingId"`
	InspectionDate string   `json:"inspectionDate"`
	DamagedAreaHa  float64  `json:"damagedAreaHa"`
	Severity       string   `json:"severity"`
	GrowthStage    string   `json:"growthStage"`
	Priority       bool     `json:"priority"`
	Findings       string   `json:"findings"`
	ImageURLs      []string `json:"imageUrls"`
}

func (in *inspectionInput) validate() (DamageSeverity, GrowthStage, string) {
	if in.PlantingID <= 0 {
		return "", "", "plantingId is required"
	}
	if in.DamagedAreaHa < 0 {
		return "", "", "damagedAreaHa must be non-negative"
	}
	severity, ok := ParseDamageSeverity(in.Severity)
	if !ok {
		return "", "", "severity must be one of none, low, moderate, high, severe"
	}
	stage := GrowthStage("")
	if strings.TrimSpace(in.GrowthStage) != "" {
		stage, ok = ParseGrowthStage(in.GrowthStage)
		if !ok {
			return "", "", "growthStage must be one of seedling, vegetative, reproductive, maturity"
		}
	}
	if in.ImageURLs == nil {
		in.ImageURLs = []string{}
	}
	return severity, stage, ""
}

func (s *Server) handleCreateInspection(w http.ResponseWriter, r *http.Request) {
	var in inspectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	severity, stage, problem := in.validate()
	if problem != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}
	date, err := requiredDate(in.InspectionDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "inspectionDate must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var id int64
	err = s.db.QueryRow(ctx, `
		INSERT INTO inspections(planting_id, inspection_date, damaged_area_ha, severity, growth_stage, priority, findings, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, in.PlantingID, date, in.DamagedAreaHa, string(severity), string(stage), in.Priority, strings.TrimSpace(in.Findings), in.ImageURLs).Scan(&id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "planting does not exist"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create inspection"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (s *Server) handleUpdateInspection(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inspection id"})
		return
	}

	var in inspectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	severity, stage, problem := in.validate()
	if problem != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}
	date, err := requiredDate(in.InspectionDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "inspectionDate must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `
		UPDATE inspections
		SET inspection_date = $1, damaged_area_ha = $2, severity = $3, growth_stage = $4, priority = $5, findings = $6, image_urls = $7
		WHERE id = $8
	`, date, in.DamagedAreaHa, string(severity), string(stage), in.Priority, strings.TrimSpace(in.Findings), in.ImageURLs, id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update inspection"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "inspection not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteInspection(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inspection id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `DELETE FROM inspections WHERE id = $1`, id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete inspection"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "inspection not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
