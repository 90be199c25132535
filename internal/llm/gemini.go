package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const suggestTimeout = 10 * time.Second

var ErrGeminiNoAPIKey = fmt.Errorf("gemini: api key not configured")

// GeminiProvider calls the Gemini API via the official genai client.
// Safe for concurrent use: HTTP handlers share one provider.
type GeminiProvider struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{apiKey: strings.TrimSpace(apiKey), model: strings.TrimSpace(model)}
}

func (p *GeminiProvider) ensureClient(ctx context.Context) error {
	if p.apiKey == "" {
		return ErrGeminiNoAPIKey
	}
	p.initOnce.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if p.initErr != nil {
		return fmt.Errorf("gemini: create client: %w", p.initErr)
	}
	return nil
}

// Suggest sends the prompt and returns the model's trimmed text output.
// A 10s timeout bounds the call, matching the places client's discipline.
func (p *GeminiProvider) Suggest(ctx context.Context, prompt string) (string, error) {
	if err := p.ensureClient(ctx); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}
