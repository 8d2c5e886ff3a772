package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type Usage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Model runs a single JSON-answering prompt, optionally with one attached image.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string, image []byte, mimeType string) (string, Usage, error)
}

type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (g *GeminiModel) GenerateJSON(ctx context.Context, prompt string, image []byte, mimeType string) (string, Usage, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image, mimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", Usage{Model: g.model}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	usage := Usage{Model: g.model}
	if md := resp.UsageMetadata; md != nil {
		usage.PromptTokens = int(md.PromptTokenCount)
		usage.CompletionTokens = int(md.CandidatesTokenCount)
		usage.TotalTokens = int(md.TotalTokenCount)
	}
	return resp.Text(), usage, nil
}
