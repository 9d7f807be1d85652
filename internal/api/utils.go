package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondAuthzError wraps authorization failures in the nested
// {"error":{"message":...}} shape.
func respondAuthzError(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusForbidden, map[string]any{
		"error": map[string]string{"message": message},
	})
}

func parsePagination(r *http.Request) (page int, pageSize int) {
	page = 1
	pageSize = 10

	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("pageSize")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 100 {
				n = 100
			}
			pageSize = n
		}
	}
	return page, pageSize
}

func parseSearch(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

func parsePathID(r *http.Request, field string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(r.PathValue(field)), 10, 64)
}

func optionalDate(input string) (*time.Time, error) {
	v := strings.TrimSpace(input)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requiredDate(input string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(input))
}

func (s *Server) now() time.Time {
	if s.location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.location)
}

func (s *Server) formatISODate(d time.Time) string {
	if s.location == nil {
		return d.Format("2006-01-02")
	}
	return d.In(s.location).Format("2006-01-02")
}

func (s *Server) formatDate(d time.Time) string {
	if s.location == nil {
		return d.Format("02/01/2006")
	}
	return d.In(s.location).Format("02/01/2006")
}
