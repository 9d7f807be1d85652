package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMunicipality(t *testing.T) {
	got, ok := normalizeMunicipality("  gasan ")
	assert.True(t, ok)
	assert.Equal(t, "Gasan", got)

	got, ok = normalizeMunicipality("SANTA CRUZ")
	assert.True(t, ok)
	assert.Equal(t, "Santa Cruz", got)

	_, ok = normalizeMunicipality("Quezon City")
	assert.False(t, ok, "municipalities outside the province are rejected")

	_, ok = normalizeMunicipality("")
	assert.False(t, ok)
}

func TestRSBSANumberFormat(t *testing.T) {
	assert.True(t, rsbsaRe.MatchString("04-40-04-003-000123"))
	assert.False(t, rsbsaRe.MatchString("04-40-04-003"))
	assert.False(t, rsbsaRe.MatchString("04400400300012"))
	assert.False(t, rsbsaRe.MatchString("aa-bb-cc-ddd-eeeeee"))
}

func TestNormalizeReportFormat(t *testing.T) {
	assert.Equal(t, "PDF", normalizeReportFormat("pdf"))
	assert.Equal(t, "XLSX", normalizeReportFormat("Excel"))
	assert.Equal(t, "JSON", normalizeReportFormat("json"))
	assert.Equal(t, "CSV", normalizeReportFormat(""))
	assert.Equal(t, "CSV", normalizeReportFormat("docx"))
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "rice-accomplishment-q1", reportFilename("Rice Accomplishment Q1"))
	assert.Equal(t, "report", reportFilename("   "))
	assert.Equal(t, "harvest-2026", reportFilename("Harvest (2026)!"))
}

func TestNormalizeUserRole(t *testing.T) {
	role, ok := normalizeUserRole("")
	assert.True(t, ok)
	assert.Equal(t, "technician", role)

	role, ok = normalizeUserRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, "admin", role)

	_, ok = normalizeUserRole("superuser")
	assert.False(t, ok)
}
