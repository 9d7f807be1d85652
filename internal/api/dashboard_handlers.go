package api

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var totalFarmers, standing, dueForHarvest, harvestedThisMonth, priorityInspections int64
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM farmers WHERE is_active = true`).Scan(&totalFarmers)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM plantings WHERE status = 'inspection'`).Scan(&standing)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM plantings WHERE status = 'harvest'`).Scan(&dueForHarvest)
	_ = s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM harvests
		WHERE DATE_TRUNC('month', harvest_date) = DATE_TRUNC('month', CURRENT_DATE)
	`).Scan(&harvestedThisMonth)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM inspections WHERE priority = true`).Scan(&priorityInspections)

	areaByCategory := make([]map[string]any, 0)
	rows, err := s.db.Query(ctx, `
		SELECT category, COALESCE(SUM(area_ha), 0)
		FROM plantings
		WHERE status <> 'harvested'
		GROUP BY category
		ORDER BY category
	`)
	if err == nil {
		for rows.Next() {
			var category string
			var area float64
			if err := rows.Scan(&category, &area); err != nil {
				break
			}
			areaByCategory = append(areaByCategory, map[string]any{
				"category": category,
				"areaHa":   area,
			})
		}
		rows.Close()
	}

	recent := make([]map[string]any, 0)
	rows, err = s.db.Query(ctx, `
		SELECT f.full_name, p.category, p.crop_type, p.planting_date, p.status
		FROM plantings p
		JOIN farmers f ON f.id = p.farmer_id
		ORDER BY p.created_at DESC
		LIMIT 10
	`)
	if err == nil {
		for rows.Next() {
			var farmer, category, cropType, status string
			var planted time.Time
			if err := rows.Scan(&farmer, &category, &cropType, &planted, &status); err != nil {
				break
			}
			recent = append(recent, map[string]any{
				"farmer":       farmer,
				"category":     category,
				"cropType":     cropType,
				"plantingDate": s.formatISODate(planted),
				"status":       status,
			})
		}
		rows.Close()
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"totalFarmers":        totalFarmers,
		"standingCrops":       standing,
		"dueForHarvest":       dueForHarvest,
		"harvestedThisMonth":  harvestedThisMonth,
		"priorityInspections": priorityInspections,
		"areaByCategory":      areaByCategory,
		"recentPlantings":     recent,
	})
}
