package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyocr/vision-ocr/internal/models"
)

// stubProvider records every request it receives and plays back a canned
// response.
type stubProvider struct {
	response string
	err      error
	requests []models.OCRRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(_ context.Context, req models.OCRRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func writeTestImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0644))
	return path
}

func TestRecognizeFile(t *testing.T) {
	provider := &stubProvider{response: "Hello OCR"}
	rec := NewRecognizer(provider)
	imagePath := writeTestImage(t, "scan.png")

	result, err := rec.RecognizeFile(context.Background(), imagePath, Params{
		Selector: "granite",
		ModelID:  "granite3.2-vision",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello OCR", result.Text)
	assert.Equal(t, "stub", result.Provider)
	assert.Equal(t, "granite3.2-vision", result.Model)
	assert.Equal(t, len("Hello OCR"), result.Chars)

	// Exactly one inference request per accepted file.
	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, []byte("fake image bytes"), req.ImageData)
	assert.Equal(t, "image/png", req.MimeType)
	assert.Equal(t, "Convert this page to markdown format.", req.Prompt)
}

func TestRecognizeFile_ValidationBeforeInference(t *testing.T) {
	provider := &stubProvider{response: "never reached"}
	rec := NewRecognizer(provider)

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

		_, err := rec.RecognizeFile(context.Background(), path, Params{Selector: "granite"})
		require.Error(t, err)
		assert.Empty(t, provider.requests, "no inference request may be sent for rejected input")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := rec.RecognizeFile(context.Background(), "does-not-exist.png", Params{Selector: "granite"})
		require.Error(t, err)
		assert.Empty(t, provider.requests)
	})
}

func TestRecognize_CustomPromptWins(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	rec := NewRecognizer(provider)

	_, err := rec.Recognize(context.Background(), "scan.jpg", []byte("img"), Params{
		Selector: "granite",
		Prompt:   "Transcribe only the headings.",
	})
	require.NoError(t, err)
	require.Len(t, provider.requests, 1)
	assert.Equal(t, "Transcribe only the headings.", provider.requests[0].Prompt)
}

func TestRecognize_ProviderErrorPropagates(t *testing.T) {
	provider := &stubProvider{err: errors.New("model not loaded")}
	rec := NewRecognizer(provider)

	_, err := rec.Recognize(context.Background(), "scan.jpg", []byte("img"), Params{Selector: "granite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	// No retry: still exactly one request.
	assert.Len(t, provider.requests, 1)
}

func TestRecognize_Deterministic(t *testing.T) {
	provider := &stubProvider{response: "stable output"}
	rec := NewRecognizer(provider)
	params := Params{Selector: "granite", ModelID: "m"}

	first, err := rec.Recognize(context.Background(), "scan.png", []byte("img"), params)
	require.NoError(t, err)
	second, err := rec.Recognize(context.Background(), "scan.png", []byte("img"), params)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	require.Len(t, provider.requests, 2)
	assert.Equal(t, provider.requests[0].Prompt, provider.requests[1].Prompt)
	assert.Zero(t, provider.requests[0].Temperature)
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Plain text.", "Plain text."},
		{"outer fence stripped", "```\nSome text\n```", "Some text"},
		{"language tag dropped", "```markdown\n# Title\n```", "# Title"},
		{"surrounding whitespace", "  \n```\nbody\n```\n ", "body"},
		{
			"inner fences preserved",
			"Intro\n```go\ncode\n```\nOutro",
			"Intro\n```go\ncode\n```\nOutro",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.in))
		})
	}
}
