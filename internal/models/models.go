package models

import "time"

// OCRRequest describes a single recognition call against a vision model.
type OCRRequest struct {
	// Image data, base64-encoded with data URI prefix for providers that
	// want inline images, or a plain path for providers that read files.
	ImagePath   string
	ImageData   []byte
	MimeType    string
	ModelID     string  // runtime model identifier, already resolved
	Prompt      string  // full instruction text sent alongside the image
	MaxTokens   int
	Temperature float32
}

// OCRResult is the raw outcome of one recognition call.
type OCRResult struct {
	Text        string    `json:"text"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Chars       int       `json:"chars"`
	Duration    float64   `json:"duration"` // seconds
	ProcessedAt time.Time `json:"processedAt"`
}

// BatchSummary is the aggregate outcome of a directory run.
type BatchSummary struct {
	Processed  int               `json:"processed"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	OutputDir  string            `json:"outputDir"`
	Failures   map[string]string `json:"failures,omitempty"` // file -> error
}

// PDFSummary is the aggregate outcome of a PDF pipeline run.
type PDFSummary struct {
	Pages        int      `json:"pages"`
	PageFiles    []string `json:"pageFiles"`
	CombinedFile string   `json:"combinedFile"`
	Failed       int      `json:"failed"`
}
