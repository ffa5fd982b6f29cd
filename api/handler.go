package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/easyocr/vision-ocr/internal/ai"
	"github.com/easyocr/vision-ocr/internal/db"
	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.0.0"
)

// Handler handles HTTP requests for image recognition
type Handler struct {
	config *models.Config
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config) *Handler {
	return &Handler{
		config: config,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Main endpoints
	router.HandleFunc("/api/ocr", h.ProcessImage).Methods("POST")
	router.HandleFunc("/api/runs", h.GetRuns).Methods("GET")
	router.HandleFunc("/api/models", h.GetModels).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Memory    MemoryStats       `json:"memory"`
	Pdftoppm  ServiceStatus     `json:"pdftoppm"`
	Database  ServiceStatus     `json:"database"`
	Storage   ServiceStatus     `json:"storage"`
	AI        map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// Check services
	pdftoppmStatus := h.checkPdftoppm()
	databaseStatus := h.checkDatabase()
	storageStatus := h.checkStorage()

	// Build response
	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Pdftoppm: pdftoppmStatus,
		Database: databaseStatus,
		Storage:  storageStatus,
		AI: map[string]string{
			"defaultProvider": h.config.AI.DefaultProvider,
			"models":          strings.Join(ai.Selectors(), ", "),
		},
	}

	// Database and storage are optional; only a missing inference runtime
	// would make the service useless, and that is only visible per request.
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkPdftoppm verifies poppler-utils is available for the PDF pipeline
func (h *Handler) checkPdftoppm() ServiceStatus {
	cmd := exec.Command("pdftoppm", "-v")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "pdftoppm not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// ProcessImage runs one recognition request over an uploaded image
func (h *Handler) ProcessImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	requestStart := time.Now()

	// Parse multipart form
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	// Get file - accept both "file" and "image" field names
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("image")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' or 'image' field)")
			return
		}
	}
	defer file.Close()

	// Read file bytes
	imageData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	// Resolve inference parameters
	providerName := r.FormValue("provider")
	if providerName == "" {
		providerName = h.config.AI.DefaultProvider
	}

	selector := r.FormValue("model")
	if selector == "" {
		selector = "granite"
	}
	spec, err := ai.LookupModel(selector)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := ai.Params{
		Selector:    selector,
		ModelID:     spec.ResolveID(providerName, r.FormValue("modelId"), ai.FallbackModel(providerName, h.config.AI)),
		Prompt:      r.FormValue("prompt"),
		MaxTokens:   4096,
		Temperature: 0,
	}
	if v := r.FormValue("maxTokens"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.MaxTokens = n
		}
	}

	provider, err := ai.NewProvider(providerName, h.config.AI)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Generate unique stored filename
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	storedName := fmt.Sprintf("%s_%s%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		storage.GetFileExtension(contentType),
	)

	// Upload source image to MinIO (if configured)
	var imageURL string
	if storage.Client != nil {
		imageURL, err = storage.UploadDocument(
			ctx,
			storedName,
			bytes.NewReader(imageData),
			int64(len(imageData)),
			contentType,
		)
		if err != nil {
			// Log but don't fail - image storage is optional
			fmt.Printf("Warning: failed to upload image to MinIO: %v\n", err)
		}
	}

	// Run recognition
	recognizer := ai.NewRecognizer(provider)
	result, recognizeErr := recognizer.Recognize(ctx, header.Filename, imageData, params)

	totalDuration := time.Since(requestStart).Seconds()

	run := &db.OCRRun{
		Filename: header.Filename,
		Provider: providerName,
		Model:    params.ModelID,
		ImageURL: imageURL,
	}

	if recognizeErr != nil {
		run.Success = false
		run.Error = recognizeErr.Error()
		h.recordRun(ctx, run)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       false,
			"error":         recognizeErr.Error(),
			"totalDuration": totalDuration,
		})
		return
	}

	// Upload artifact to MinIO (if configured)
	var artifactURL string
	if storage.Client != nil {
		artifactName := strings.TrimSuffix(storedName, storage.GetFileExtension(contentType)) + "_ocr.md"
		artifactURL, err = storage.UploadArtifact(ctx, artifactName, result.Text)
		if err != nil {
			fmt.Printf("Warning: failed to upload artifact to MinIO: %v\n", err)
		}
	}

	run.Success = true
	run.Chars = result.Chars
	run.Duration = result.Duration
	run.ArtifactURL = artifactURL
	h.recordRun(ctx, run)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"text":          result.Text,
		"provider":      result.Provider,
		"model":         result.Model,
		"chars":         result.Chars,
		"ocrDuration":   result.Duration,
		"totalDuration": totalDuration,
		"imageUrl":      imageURL,
		"artifactUrl":   artifactURL,
	})
}

// recordRun persists run history when a database is configured
func (h *Handler) recordRun(ctx context.Context, run *db.OCRRun) {
	if db.Pool == nil {
		return
	}
	if err := db.SaveRun(ctx, run); err != nil {
		fmt.Printf("Warning: failed to save run to DB: %v\n", err)
	}
}

// GetRuns returns recent run history
func (h *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get runs: %v", err))
		return
	}

	// Generate presigned URLs for stored objects
	for i := range runs {
		if runs[i].ImageURL != "" && storage.Client != nil {
			if presignedURL, err := storage.GetPresignedURL(ctx, runs[i].ImageURL); err == nil {
				runs[i].ImageURL = presignedURL
			}
		}
		if runs[i].ArtifactURL != "" && storage.Client != nil {
			if presignedURL, err := storage.GetPresignedURL(ctx, runs[i].ArtifactURL); err == nil {
				runs[i].ArtifactURL = presignedURL
			}
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"runs":    runs,
		"count":   len(runs),
	})
}

// GetModels returns the available model selectors and their runtime mappings
func (h *Handler) GetModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	type modelInfo struct {
		Selector string            `json:"selector"`
		IDs      map[string]string `json:"ids"`
	}

	selectors := ai.Selectors()
	infos := make([]modelInfo, 0, len(selectors))
	for _, name := range selectors {
		spec, err := ai.LookupModel(name)
		if err != nil {
			continue
		}
		infos = append(infos, modelInfo{Selector: spec.Selector, IDs: spec.IDs})
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":         true,
		"models":          infos,
		"defaultProvider": h.config.AI.DefaultProvider,
	})
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
