package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/easyocr/vision-ocr/api"
	"github.com/easyocr/vision-ocr/internal/auth"
	"github.com/easyocr/vision-ocr/internal/db"
	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/storage"
)

func main() {
	// Load .env if present (local development)
	_ = godotenv.Load()

	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Running without run history")
	} else {
		defer db.Close()
		if err := db.EnsureSchema(context.Background()); err != nil {
			log.Printf("Warning: failed to ensure schema: %v", err)
		}
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Images and artifacts will not be stored")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := models.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create API handler
	handler := api.NewHandler(config)
	router := handler.SetupRoutes()

	// Add login endpoint
	router.HandleFunc("/api/login", auth.LoginHandler(config.Users)).Methods("POST")

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Vision OCR Service v%s on %s", api.Version, addr)
	log.Printf("Default AI Provider: %s", config.AI.DefaultProvider)
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login   - Authenticate", addr)
	log.Printf("  POST http://%s/api/ocr     - Recognize an uploaded image (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/runs    - Recent run history (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/models  - Available models (requires JWT)", addr)
	log.Printf("  GET  http://%s/health      - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
