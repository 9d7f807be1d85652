package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/farmers?page=3&pageSize=25", nil)
	page, size := parsePagination(r)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	r = httptest.NewRequest("GET", "/api/farmers", nil)
	page, size = parsePagination(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	r = httptest.NewRequest("GET", "/api/farmers?page=-2&pageSize=5000", nil)
	page, size = parsePagination(r)
	assert.Equal(t, 1, page, "negative page falls back to first")
	assert.Equal(t, 100, size, "page size is capped")

	r = httptest.NewRequest("GET", "/api/farmers?page=abc&pageSize=0", nil)
	page, size = parsePagination(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, size)
}

func TestOptionalDate(t *testing.T) {
	got, err := optionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = optionalDate(" 2026-01-15 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-01-15", got.Format("2006-01-02"))

	_, err = optionalDate("15/01/2026")
	assert.Error(t, err)
}

func TestRequiredDate(t *testing.T) {
	d, err := requiredDate("2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-30", d.Format("2006-01-02"))

	_, err = requiredDate("")
	assert.Error(t, err)
}

func TestRespondAuthzErrorShape(t *testing.T) {
	w := httptest.NewRecorder()
	respondAuthzError(w, "You do not have the required permissions")

	assert.Equal(t, 403, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "You do not have the required permissions", body.Error.Message)
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, 404, map[string]string{"error": "farmer not found"})

	assert.Equal(t, 404, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "farmer not found", body["error"])
}
