package ai

import (
	"context"
	"fmt"

	"github.com/easyocr/vision-ocr/internal/models"
)

// Provider abstracts an external vision-model runtime. Implementations send a
// single image plus an instruction prompt and return the generated text verbatim.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req models.OCRRequest) (string, error)
}

// NewProvider creates the appropriate provider for the given name.
func NewProvider(name string, cfg models.AIConfig) (Provider, error) {
	switch name {
	case "openai":
		if cfg.OpenAI.APIKey == "" && cfg.OpenAI.BaseURL == "" {
			return nil, fmt.Errorf("openai provider not configured: set OPENAI_API_KEY or a base_url")
		}
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), nil

	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini provider not configured: set GEMINI_API_KEY")
		}
		return NewGeminiProvider(cfg.Gemini.APIKey), nil

	case "ollama":
		return NewOllamaProvider(cfg.Ollama.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", name)
	}
}

// FallbackModel returns the configured default model id for a provider, used
// when a selector has no runtime-specific mapping.
func FallbackModel(provider string, cfg models.AIConfig) string {
	switch provider {
	case "openai":
		return cfg.OpenAI.Model
	case "gemini":
		return cfg.Gemini.Model
	case "ollama":
		return cfg.Ollama.Model
	}
	return ""
}
