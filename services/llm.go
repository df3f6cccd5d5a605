package services

import (
	"context"
	"fmt"
	"log"

	"divorce_intake_go/config"

	"google.golang.org/genai"
)

// LLMClient exposes the two hosted-model operations the platform needs:
// plain text generation (synthesis) and vision generation (OCR extraction).
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateVision(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// LLM is the global LLM client instance
var LLM LLMClient

type geminiClient struct {
	client      *genai.Client
	model       string
	visionModel string
}

// InitializeLLM sets up the Gemini client. Without an API key the global
// stays nil and callers surface the failure as an alert.
func InitializeLLM(cfg *config.Config) error {
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARNING] GEMINI_API_KEY not set, OCR and analysis are disabled")
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	LLM = &geminiClient{
		client:      client,
		model:       cfg.GeminiModel,
		visionModel: cfg.GeminiVisionModel,
	}
	log.Printf("LLM client initialized (model: %s, vision: %s)", cfg.GeminiModel, cfg.GeminiVisionModel)
	return nil
}

func (g *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.2)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil || resp.Text() == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return resp.Text(), nil
}

func (g *geminiClient) GenerateVision(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	temperature := float32(0.0)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.visionModel, contents, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate vision response: %w", err)
	}
	if resp == nil || resp.Text() == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return resp.Text(), nil
}
