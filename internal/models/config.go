package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the toolkit configuration, shared by the CLI and the server.
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// AI config
	AI AIConfig `yaml:"ai"`

	// PDF pipeline config
	PDF PDFConfig `yaml:"pdf"`

	// Users allowed to log in to the HTTP service
	Users []UserConfig `yaml:"users"`
}

// AIConfig represents AI provider configuration
type AIConfig struct {
	// OpenAI-compatible runtimes (OpenAI, LM Studio, vLLM, ...)
	OpenAI OpenAIConfig `yaml:"openai"`

	// Gemini
	Gemini GeminiConfig `yaml:"gemini"`

	// Ollama (local)
	Ollama OllamaConfig `yaml:"ollama"`

	// Default provider
	DefaultProvider string `yaml:"default_provider"` // "openai", "gemini", "ollama"
}

// OpenAIConfig for OpenAI or any OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Fallback model id
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}

// OllamaConfig for local Ollama
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // Default: "http://localhost:11434"
	Model   string `yaml:"model"`    // e.g., "granite3.2-vision"
}

// PDFConfig for the pdftoppm rasterization step
type PDFConfig struct {
	DPI int `yaml:"dpi"` // Default: 300
}

// UserConfig is a server login entry. PasswordHash is a bcrypt hash.
type UserConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Port: 8080,
		Host: "0.0.0.0",
		AI: AIConfig{
			DefaultProvider: "ollama",
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
			Gemini: GeminiConfig{
				Model: "gemini-1.5-flash",
			},
			Ollama: OllamaConfig{
				BaseURL: "http://localhost:11434",
				Model:   "granite3.2-vision",
			},
		},
		PDF: PDFConfig{DPI: 300},
	}
}

// LoadConfig reads the YAML config at path and applies environment overrides.
// A missing file is not an error: defaults plus environment are returned so
// the CLI works without any setup.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.AI.Ollama.BaseURL = baseURL
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.AI.Ollama.Model = model
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}

	if config.PDF.DPI <= 0 {
		config.PDF.DPI = 300
	}

	return config, nil
}
