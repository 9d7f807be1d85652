package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agritrack/backend/internal/report"
)

func normalizeReportFormat(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "PDF":
		return "PDF"
	case "XLSX", "EXCEL":
		return "XLSX"
	case "JSON":
		return "JSON"
	default:
		return "CSV"
	}
}

// fetchReportRecords is the record fetcher: one best-effort query loading
// the whole filtered set, no pagination, no retry.
func (s *Server) fetchReportRecords(ctx context.Context, category report.CropCategory, variant report.Variant, start, end time.Time) ([]report.Record, error) {
	var query string
	switch variant {
	case report.VariantHarvest:
		query = `
			SELECT f.full_name, f.barangay, f.municipality, p.category, p.crop_type, p.variety,
				h.area_harvested_ha, h.yield_kg
			FROM harvests h
			JOIN plantings p ON p.id = h.planting_id
			JOIN farmers f ON f.id = p.farmer_id
			WHERE p.category = $1 AND h.harvest_date BETWEEN $2 AND $3`
	case report.VariantStanding:
		query = `
			SELECT f.full_name, f.barangay, f.municipality, p.category, p.crop_type, p.variety,
				p.area_ha, 0::numeric
			FROM plantings p
			JOIN farmers f ON f.id = p.farmer_id
			WHERE p.category = $1 AND p.status = 'inspection'
				AND p.planting_date BETWEEN $2 AND $3`
	default:
		query = `
			SELECT f.full_name, f.barangay, f.municipality, p.category, p.crop_type, p.variety,
				p.area_ha, 0::numeric
			FROM plantings p
			JOIN farmers f ON f.id = p.farmer_id
			WHERE p.category = $1 AND p.planting_date BETWEEN $2 AND $3`
	}

	rows, err := s.db.Query(ctx, query, string(category), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]report.Record, 0)
	for rows.Next() {
		var rec report.Record
		var cat string
		if err := rows.Scan(&rec.Farmer, &rec.Barangay, &rec.Municipality, &cat, &rec.CropType, &rec.Variety, &rec.AreaHa, &rec.YieldKg); err != nil {
			return nil, err
		}
		rec.Category, _ = report.ParseCropCategory(cat)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Variant     string `json:"variant"`
		PeriodStart string `json:"periodStart"`
		PeriodEnd   string `json:"periodEnd"`
		Format      string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	category, ok := report.ParseCropCategory(in.Category)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be rice, corn, or high-value"})
		return
	}
	variant, ok := report.ParseVariant(in.Variant)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "variant must be accomplishment, standing, or harvest"})
		return
	}
	start, err := requiredDate(in.PeriodStart)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "periodStart must be YYYY-MM-DD"})
		return
	}
	end, err := requiredDate(in.PeriodEnd)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "periodEnd must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "periodEnd must not precede periodStart"})
		return
	}

	format := normalizeReportFormat(in.Format)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = fmt.Sprintf("%s %s report (%s to %s)", category, variant, in.PeriodStart, in.PeriodEnd)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var id int64
	err = s.db.QueryRow(ctx, `
		INSERT INTO reports(title, category, variant, period_start, period_end, format)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, title, string(category), string(variant), start, end, format).Scan(&id)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate report"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"ok": true,
		"report": map[string]any{
			"id":          id,
			"title":       title,
			"category":    category,
			"variant":     variant,
			"periodStart": in.PeriodStart,
			"periodEnd":   in.PeriodEnd,
			"format":      format,
		},
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, title, category, variant, period_start, period_end, format, generated_at
		FROM reports
		ORDER BY generated_at DESC, id DESC
		LIMIT 100
	`)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load reports"})
		return
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var id int64
		var title, category, variant, format string
		var start, end, generated time.Time
		if err := rows.Scan(&id, &title, &category, &variant, &start, &end, &format, &generated); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse reports"})
			return
		}
		out = append(out, map[string]any{
			"id":          id,
			"title":       title,
			"category":    category,
			"variant":     variant,
			"periodStart": s.formatISODate(start),
			"periodEnd":   s.formatISODate(end),
			"format":      format,
			"generatedOn": s.formatISODate(generated),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid report id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var title, categoryRaw, variantRaw, storedFormat string
	var start, end, generated time.Time
	err = s.db.QueryRow(ctx, `
		SELECT title, category, variant, period_start, period_end, format, generated_at
		FROM reports
		WHERE id = $1
	`, id).Scan(&title, &categoryRaw, &variantRaw, &start, &end, &storedFormat, &generated)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
		return
	}

	category, _ := report.ParseCropCategory(categoryRaw)
	variant, _ := report.ParseVariant(variantRaw)
	format := storedFormat
	if v := strings.TrimSpace(r.URL.Query().Get("format")); v != "" {
		format = normalizeReportFormat(v)
	}

	records, err := s.fetchReportRecords(ctx, category, variant, start, end)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build report"})
		return
	}

	res := report.Aggregate(records, report.Options{
		CollectEntries: variant == report.VariantAccomplishment,
	})
	period := fmt.Sprintf("%s to %s", s.formatISODate(start), s.formatISODate(end))
	doc := report.BuildDocument(res, category, variant, s.province, period, generated)

	filename := reportFilename(title)
	switch format {
	case "PDF":
		body, err := report.WritePDF(doc)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render pdf report"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		_, _ = w.Write(body)
	case "XLSX":
		body, err := report.WriteExcel(doc)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render excel report"})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
		_, _ = w.Write(body)
	case "JSON":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".json"))
		respondJSON(w, http.StatusOK, doc)
	default:
		body, err := report.WriteCSV(doc)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render csv report"})
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		_, _ = w.Write(body)
	}
}

func reportFilename(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)
	if base == "" {
		return "report"
	}
	return base
}
