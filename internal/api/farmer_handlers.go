package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"agritrack/backend/internal/report"
)

// Marinduque's six municipalities. Farmer records outside the province are
// rejected at the boundary so report grouping stays closed over this set.
var marinduqueMunicipalities = map[string]string{
	"boac":       "Boac",
	"buenavista": "Buenavista",
	"gasan":      "Gasan",
	"mogpog":     "Mogpog",
	"santa cruz": "Santa Cruz",
	"torrijos":   "Torrijos",
}

var rsbsaRe = regexp.MustCompile(`^[0-9]{2}-[0-9]{2}-[0-9]{2}-[0-9]{3}-[0-9]{6}$`)

func normalizeMunicipality(v string) (string, bool) {
	canonical, ok := marinduqueMunicipalities[strings.ToLower(strings.TrimSpace(v))]
	return canonical, ok
}

func (s *Server) handleFarmers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(r)
	search := parseSearch(r)
	municipality := strings.TrimSpace(r.URL.Query().Get("municipality"))
	offset := (page - 1) * pageSize

	var total int64
	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM farmers
		WHERE is_active = true
			AND ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR rsbsa_number ILIKE '%' || $1 || '%' OR barangay ILIKE '%' || $1 || '%')
			AND ($2 = '' OR municipality = $2)
	`, search, municipality).Scan(&total)

	rows, err := s.db.Query(ctx, `
		SELECT id, full_name, rsbsa_number, contact, barangay, municipality, province, created_at
		FROM farmers
		WHERE is_active = true
			AND ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR rsbsa_number ILIKE '%' || $1 || '%' OR barangay ILIKE '%' || $1 || '%')
			AND ($2 = '' OR municipality = $2)
		ORDER BY full_name
		LIMIT $3 OFFSET $4
	`, search, municipality, pageSize, offset)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load farmers"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var name, rsbsa, contact, barangay, muni, province string
		var created time.Time
		if err := rows.Scan(&id, &name, &rsbsa, &contact, &barangay, &muni, &province, &created); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse farmers"})
			return
		}
		out = append(out, map[string]any{
			"id":           id,
			"fullName":     name,
			"rsbsaNumber":  rsbsa,
			"contact":      contact,
			"barangay":     barangay,
			"municipality": muni,
			"province":     province,
			"registeredOn": s.formatISODate(created),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":    out,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (s *Server) handleCreateFarmer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FullName     string `json:"fullName"`
		RSBSANumber  string `json:"rsbsaNumber"`
		Contact      string `json:"contact"`
		Barangay     string `json:"barangay"`
		Municipality string `json:"municipality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.RSBSANumber = strings.TrimSpace(in.RSBSANumber)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Barangay = strings.TrimSpace(in.Barangay)
	if in.FullName == "" || in.Barangay == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "fullName and barangay are required"})
		return
	}
	municipality, ok := normalizeMunicipality(in.Municipality)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "municipality must be within the province"})
		return
	}
	if in.RSBSANumber != "" && !rsbsaRe.MatchString(in.RSBSANumber) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "rsbsaNumber must match NN-NN-NN-NNN-NNNNNN"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO farmers(full_name, rsbsa_number, contact, barangay, municipality, province)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.FullName, in.RSBSANumber, in.Contact, in.Barangay, municipality, s.province).Scan(&id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			respondJSON(w, http.StatusConflict, map[string]string{"error": "RSBSA number already registered"})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create farmer"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (s *Server) handleUpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid farmer id"})
		return
	}

	var in struct {
		FullName     string `json:"fullName"`
		RSBSANumber  string `json:"rsbsaNumber"`
		Contact      string `json:"contact"`
		Barangay     string `json:"barangay"`
		Municipality string `json:"municipality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.RSBSANumber = strings.TrimSpace(in.RSBSANumber)
	in.Barangay = strings.TrimSpace(in.Barangay)
	if in.FullName == "" || in.Barangay == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "fullName and barangay are required"})
		return
	}
	municipality, ok := normalizeMunicipality(in.Municipality)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "municipality must be within the province"})
		return
	}
	if in.RSBSANumber != "" && !rsbsaRe.MatchString(in.RSBSANumber) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "rsbsaNumber must match NN-NN-NN-NNN-NNNNNN"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `
		UPDATE farmers
		SET full_name = $1, rsbsa_number = $2, contact = $3, barangay = $4, municipality = $5
		WHERE id = $6 AND is_active = true
	`, in.FullName, in.RSBSANumber, strings.TrimSpace(in.Contact), in.Barangay, municipality, id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update farmer"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "farmer not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid farmer id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Farmers are deactivated, never hard-deleted: plantings keep their
	// reference for historical reports.
	res, err := s.db.Exec(ctx, `UPDATE farmers SET is_active = false WHERE id = $1`, id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete farmer"})
		return
	}
	if res.RowsAffected() == 0 {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "farmer not found"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleMembers returns the full member list: the member list contract is a
// flat 200 array or a 500 {"error"} payload, nothing else.
func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, full_name, rsbsa_number, barangay, municipality, province
		FROM farmers
		WHERE is_active = true
		ORDER BY full_name
	`)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load members"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var name, rsbsa, barangay, muni, province string
		if err := rows.Scan(&id, &name, &rsbsa, &barangay, &muni, &province); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse members"})
			return
		}
		out = append(out, map[string]any{
			"id":           id,
			"fullName":     name,
			"rsbsaNumber":  rsbsa,
			"barangay":     barangay,
			"municipality": muni,
			"province":     province,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleFarmerMasterlistPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT full_name, rsbsa_number, contact, barangay, municipality, province
		FROM farmers
		WHERE is_active = true
		ORDER BY municipality, barangay, full_name
	`)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load farmers"})
		return
	}
	defer rows.Close()

	farmers := make([]report.FarmerRow, 0)
	for rows.Next() {
		var f report.FarmerRow
		if err := rows.Scan(&f.FullName, &f.RSBSANumber, &f.Contact, &f.Barangay, &f.Municipality, &f.Province); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse farmers"})
			return
		}
		farmers = append(farmers, f)
	}

	pdfBytes, err := report.WriteMasterlistPDF(s.province, s.formatISODate(s.now()), farmers)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render masterlist"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="farmer-masterlist.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	_, _ = w.Write(pdfBytes)
}
