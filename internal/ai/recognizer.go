package ai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/ocr"
)

// Params carries the per-invocation knobs for a recognition call. ModelID must
// already be resolved through ModelSpec.ResolveID; an empty Prompt falls back
// to the selector's default prompt.
type Params struct {
	Selector    string
	ModelID     string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Recognizer runs single-image recognition against a Provider. It owns the
// fail-fast input validation and response cleanup; everything between those
// two steps happens inside the external runtime.
type Recognizer struct {
	provider Provider
}

func NewRecognizer(provider Provider) *Recognizer {
	return &Recognizer{provider: provider}
}

// RecognizeFile validates the image path, sends exactly one inference request
// and returns the cleaned text. Provider failures propagate unretried.
func (r *Recognizer) RecognizeFile(ctx context.Context, imagePath string, params Params) (*models.OCRResult, error) {
	if err := ocr.ValidateImagePath(imagePath); err != nil {
		return nil, err
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return r.Recognize(ctx, imagePath, imageData, params)
}

// Recognize is the in-memory variant used by the HTTP service, where the image
// arrives as an upload. The name is only used for extension validation and MIME
// detection.
func (r *Recognizer) Recognize(ctx context.Context, name string, imageData []byte, params Params) (*models.OCRResult, error) {
	if err := ocr.ValidateImageName(name); err != nil {
		return nil, err
	}

	prompt := params.Prompt
	if prompt == "" {
		spec, err := LookupModel(params.Selector)
		if err != nil {
			return nil, err
		}
		prompt = spec.Prompt
	}

	startTime := time.Now()
	response, err := r.provider.Generate(ctx, models.OCRRequest{
		ImagePath:   name,
		ImageData:   imageData,
		MimeType:    ocr.MimeTypeFor(name),
		ModelID:     params.ModelID,
		Prompt:      prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	text := cleanResponse(response)
	return &models.OCRResult{
		Text:        text,
		Provider:    r.provider.Name(),
		Model:       params.ModelID,
		Chars:       len(text),
		Duration:    time.Since(startTime).Seconds(),
		ProcessedAt: startTime,
	}, nil
}

// cleanResponse strips the markdown code fence some models wrap their whole
// answer in. Fences inside the answer are left alone.
func cleanResponse(response string) string {
	text := strings.TrimSpace(response)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}

	body := strings.TrimSuffix(text, "```")
	body = strings.TrimPrefix(body, "```")
	// Drop the language tag on the opening fence ("markdown", "json", ...)
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, " \t") && len(firstLine) <= 16 {
			body = body[idx+1:]
		}
	}
	return strings.TrimSpace(body)
}
