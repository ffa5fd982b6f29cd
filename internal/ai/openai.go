package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/easyocr/vision-ocr/internal/models"
)

// OpenAIProvider talks to OpenAI or any OpenAI-compatible runtime (LM Studio,
// vLLM, llama.cpp server) through the chat completions API with an inline image.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider against the given endpoint. An empty
// baseURL means the hosted OpenAI API.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Generate sends the image and prompt in a single user message and returns the
// first choice verbatim.
func (p *OpenAIProvider) Generate(ctx context.Context, req models.OCRRequest) (string, error) {
	imageURL := fmt.Sprintf("data:%s;base64,%s",
		req.MimeType,
		base64.StdEncoding.EncodeToString(req.ImageData),
	)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.ModelID,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices for model %s", req.ModelID)
	}
	return resp.Choices[0].Message.Content, nil
}
