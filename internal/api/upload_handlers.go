package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// handleUpload stores an inspection photo on local disk under a random
// name and returns the URL it will be served from.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to prepare upload directory"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or oversized multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "only jpg, jpeg, png, and webp images are accepted"})
		return
	}

	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file"})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"ok":  true,
		"url": fmt.Sprintf("/uploads/%s", filename),
	})
}
