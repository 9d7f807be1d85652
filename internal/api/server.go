package api

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agritrack/backend/internal/config"
)

type Server struct {
	db             *pgxpool.Pool
	jwtSecret      []byte
	logger         *zap.Logger
	location       *time.Location
	province       string
	uploadDir      string
	maxUploadBytes int64
	allowedOrigins map[string]struct{}
	allowAnyOrigin bool
	loginLimiter   *attemptLimiter
}

type authContextKey string

const userIDContextKey authContextKey = "user_id"
const userRoleContextKey authContextKey = "user_role"

func NewServer(db *pgxpool.Pool, cfg config.Config, logger *zap.Logger) (*Server, error) {
	location, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	allowAny := false
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return &Server{
		db:             db,
		jwtSecret:      []byte(cfg.JWTSecret),
		logger:         logger,
		location:       location,
		province:       cfg.Province,
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadMB << 20,
		allowedOrigins: allowed,
		allowAnyOrigin: allowAny,
		loginLimiter:   newAttemptLimiter(8, 10*time.Minute),
	}, nil
}

func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.authRequired(http.HandlerFunc(s.handleMe)))

	mux.Handle("GET /api/dashboard", s.authRequired(http.HandlerFunc(s.handleDashboard)))

	mux.Handle("GET /api/members", s.authRequired(http.HandlerFunc(s.handleMembers)))
	mux.Handle("GET /dashboard/farmers/pdf", s.authRequired(http.HandlerFunc(s.handleFarmerMasterlistPDF)))

	mux.Handle("GET /api/farmers", s.authRequired(http.HandlerFunc(s.handleFarmers)))
	mux.Handle("POST /api/farmers", s.authRequired(http.HandlerFunc(s.handleCreateFarmer)))
	mux.Handle("PUT /api/farmers/{id}", s.authRequired(http.HandlerFunc(s.handleUpdateFarmer)))
	mux.Handle("DELETE /api/farmers/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleDeleteFarmer), "admin", "coordinator")))

	mux.Handle("GET /api/plantings", s.authRequired(http.HandlerFunc(s.handlePlantings)))
	mux.Handle("POST /api/plantings", s.authRequired(http.HandlerFunc(s.handleCreatePlanting)))
	mux.Handle("PUT /api/plantings/{id}", s.authRequired(http.HandlerFunc(s.handleUpdatePlanting)))
	mux.Handle("PUT /api/plantings/{id}/status", s.authRequired(http.HandlerFunc(s.handlePlantingStatus)))
	mux.Handle("DELETE /api/plantings/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleDeletePlanting), "admin", "coordinator")))

	mux.Handle("GET /api/harvests", s.authRequired(http.HandlerFunc(s.handleHarvests)))
	mux.Handle("POST /api/harvests", s.authRequired(http.HandlerFunc(s.handleCreateHarvest)))
	mux.Handle("GET /api/plantings/{id}/harvests", s.authRequired(http.HandlerFunc(s.handlePlantingHarvests)))

	mux.Handle("GET /api/inspections", s.authRequired(http.HandlerFunc(s.handleInspections)))
	mux.Handle("POST /api/inspections", s.authRequired(http.HandlerFunc(s.handleCreateInspection)))
	mux.Handle("PUT /api/inspections/{id}", s.authRequired(http.HandlerFunc(s.handleUpdateInspection)))
	mux.Handle("DELETE /api/inspections/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleDeleteInspection), "admin", "coordinator")))

	mux.Handle("POST /api/uploads", s.authRequired(http.HandlerFunc(s.handleUpload)))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))

	mux.Handle("GET /api/reports", s.authRequired(http.HandlerFunc(s.handleReports)))
	mux.Handle("POST /api/reports/generate", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleGenerateReport), "admin", "coordinator")))
	mux.Handle("GET /api/reports/{id}/download", s.authRequired(http.HandlerFunc(s.handleDownloadReport)))

	mux.Handle("GET /api/users", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleUsers), "admin", "coordinator")))
	mux.Handle("POST /api/users", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleCreateUser), "admin")))
	mux.Handle("PUT /api/users/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleUpdateUser), "admin")))
	mux.Handle("DELETE /api/users/{id}", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleDeleteUser), "admin")))
	mux.Handle("POST /api/users/{id}/reset-password", s.authRequired(s.roleRequired(http.HandlerFunc(s.handleResetPassword), "admin")))

	return s.withCORS(s.withRequestLog(mux))
}
