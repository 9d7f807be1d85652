package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agritrack/backend/internal/report"
)

func (s *Server) handlePlantings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(r)
	offset := (page - 1) * pageSize

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category != "" {
		parsed, ok := report.ParseCropCategory(category)
		if !ok {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be rice, corn, or high-value"})
			return
		}
		category = string(parsed)
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" {
		parsed, ok := ParsePlantingStatus(status)
		if !ok {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be inspection, harvest, or harvested"})
			return
		}
		status = string(parsed)
	}
	barangay := strings.TrimSpace(r.URL.Query().Get("barangay"))

	from, err := optionalDate(r.URL.Query().Get("from"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := optionalDate(r.URL.Query().Get("to"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "to must be YYYY-MM-DD"})
		return
	}

	filter := `
		WHERE ($1 = '' OR p.category = $1)
			AND ($2 = '' OR p.status = $2)
			AND ($3 = '' OR f.barangay ILIKE $3)
			AND ($4::date IS NULL OR p.planting_date >= $4)
			AND ($5::date IS NULL OR p.planting_date <= $5)`

	var total int64
	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM plantings p
		JOIN farmers f ON f.id = p.farmer_id`+filter,
		category, status, barangay, from, to).Scan(&total)

	rows, err := s.db.Query(ctx, `
		SELECT p.id, f.full_name, f.barangay, f.municipality, p.category, p.crop_type, p.variety,
			p.area_ha, p.planting_date, p.expected_harvest_date, p.status, p.land_type, p.water_supply, p.remarks
		FROM plantings p
		JOIN farmers f ON f.id = p.farmer_id`+filter+`
		ORDER BY p.planting_date DESC, p.id DESC
		LIMIT $6 OFFSET $7
	`, category, status, barangay, from, to, pageSize, offset)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load plantings"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var farmer, brgy, muni, cat, cropType, variety, plantingStatus, landType, waterSupply, remarks string
		var area float64
		var planted time.Time
		var expected *time.Time
		if err := rows.Scan(&id, &farmer, &brgy, &muni, &cat, &cropType, &variety, &area, &planted, &expected, &plantingStatus, &landType, &waterSupply, &remarks); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse plantings"})
			return
		}
		expectedOut := ""
		if expected != nil {
			expectedOut = s.formatISODate(*expected)
		}
		out = append(out, map[string]any{
			"id":                  id,
			"farmer":              farmer,
			"barangay":            brgy,
			"municipality":        muni,
			"category":            cat,
			"cropType":            cropType,
			"variety":             variety,
			"areaHa":              area,
			"plantingDate":        s.formatISODate(planted),
			"expectedHarvestDate": expectedOut,
			"status":              plantingStatus,
			"landType":            landType,
			"waterSupply":         waterSupply,
			"remarks":             remarks,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":    out,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

type plantingInput struct {
	FarmerID            int64    `json:"farmerId"`
	Category            string   `json:"category"`
	CropType            string   `json:"cropType"`
	Variety             string   `json:"variety"`
	AreaHa              *float64 `json:"areaHa"`
	PlantingDate        string   `json:"plantingDate"`
	ExpectedHarvestDate string   `json:"expectedHarvestDate"`
	LandType            string   `json:"landType"`
	WaterSupply         string   `json:"waterSupply"`
	Remarks             string   `json:"remarks"`
}

func (in *plantingInput) validate() (report.CropCategory, string) {
	category, ok := report.ParseCropCategory(in.Category)
	if !ok {
		return "", "category must be rice, corn, or high-value"
	}
	in.CropType = strings.TrimSpace(in.CropType)
	in.Variety = strings.TrimSpace(in.Variety)
	if in.FarmerID <= 0 || in.CropType == "" {
		return "", "farmerId and cropType are required"
	}
	if in.AreaHa == nil || *in.AreaHa < 0 {
		return "", "areaHa must be a non-negative number"
	}
	// Land type and water supply only describe rice plantings.
	if category != report.CategoryRice {
		in.LandType = ""
		in.WaterSupply = ""
	}
	return category, ""
}

func (s *Server) handleCreatePlanting(w http.ResponseWriter, r *http.Request) {
	var in plantingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	category, problem := in.validate()
	if problem != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}

	plantingDate, err := requiredDate(in.PlantingDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "plantingDate must be YYYY-MM-DD"})
		return
	}
	expected, err := optionalDate(in.ExpectedHarvestDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "expectedHarvestDate must be YYYY-MM-DD"})
		return
	}

	expectedStr := ""
	if expected != nil {
		expectedStr = expected.Format("2006-01-02")
	}
	status := initialPlantingStatus(expectedStr, s.formatISODate(s.now()))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var id int64
	err = s.db.QueryRow(ctx, `
		INSERT INTO plantings(farmer_id, category, crop_type, variety, area_ha, planting_date, expected_harvest_date, status, land_type, water_supply, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, in.FarmerID, string(category), in.CropType, in.Variety, *in.AreaHa, plantingDate, expected,
		string(status), strings.TrimSpace(in.LandType), strings.TrimSpace(in.WaterSupply), strings.TrimSpace(in.Remarks)).Scan(&id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "farmer does not exist"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create planting"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id, "status": status})
}

func (s *Server) handleUpdatePlanting(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid planting id"})
		return
	}

	var in plantingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	category, problem := in.validate()
	if problem != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": problem})
		return
	}
	plantingDate, err := requiredDate(in.PlantingDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "plantingDate must be YYYY-MM-DD"})
		return
	}
	expected, err := optionalDate(in.ExpectedHarvestDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "expectedHarvestDate must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `
		UPDATE plantings
		SET farmer_id = $1, category = $2, crop_type = $3, variety = $4, area_ha = $5,
			planting_date = $6, expected_harvest_date = $7, land_type = $8, water_supply = $9, remarks = $10
		WHERE id = $11
	`, in.FarmerID, string(category), in.CropType, in.Variety, *in.AreaHa, plantingDate, expected,
		strings.TrimSpace(in.LandType), strings.TrimSpace(in.WaterSupply), strings.TrimSpace(in.Remarks), id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update planting"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "planting not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handlePlantingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid planting id"})
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	next, ok := ParsePlantingStatus(in.Status)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be inspection, harvest, or harvested"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var currentRaw string
	if err := s.db.QueryRow(ctx, `SELECT status FROM plantings WHERE id = $1`, id).Scan(&currentRaw); err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "planting not found"})
		return
	}
	current, _ := ParsePlantingStatus(currentRaw)
	if !current.CanTransition(next) {
		respondJSON(w, http.StatusConflict, map[string]string{"error": "status can only move forward: inspection -> harvest -> harvested"})
		return
	}

	if _, err := s.db.Exec(ctx, `UPDATE plantings SET status = $1 WHERE id = $2`, string(next), id); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "status": next})
}

func (s *Server) handleDeletePlanting(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid planting id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `DELETE FROM plantings WHERE id = $1`, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") {
			respondJSON(w, http.StatusConflict, map[string]string{"error": "planting has harvest or inspection records"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete planting"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "planting not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
