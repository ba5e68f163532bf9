package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/caarlos0/env/v11"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// ProviderConfig configures the OpenAI-compatible responses endpoint.
type ProviderConfig struct {
	ResponsesURL string `env:"ANUNCIOS_AI_RESPONSES_URL" envDefault:"https://api.openai.com/v1/responses"`
	Model        string `env:"ANUNCIOS_AI_MODEL"         envDefault:"gpt-4o-mini"`
	APIKey       string `env:"ANUNCIOS_AI_API_KEY"`

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client `env:"-"`
}

// LoadProviderConfigFromEnv reads provider configuration. A missing API
// key is not an error here; the provider reports AI_NOT_CONFIGURED on use.
func LoadProviderConfigFromEnv() (ProviderConfig, error) {
	var cfg ProviderConfig
	if err := env.Parse(&cfg); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse ai env: %w", err)
	}
	return cfg, nil
}

// OpenAIProvider calls an OpenAI-compatible responses endpoint.
type OpenAIProvider struct {
	cfg ProviderConfig
}

// NewOpenAIProvider builds the default provider.
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	return &OpenAIProvider{cfg: cfg}
}

// Invoke sends one prompt and returns the model's text output.
func (p *OpenAIProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	apiKey := strings.TrimSpace(p.cfg.APIKey)
	if apiKey == "" {
		return "", apperrors.New(apperrors.CodeAINotConfigured, "ai api key is not configured")
	}
	model := strings.TrimSpace(p.cfg.Model)
	if model == "" {
		return "", apperrors.New(apperrors.CodeAINotConfigured, "ai model is not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": model,
		"input": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal ai request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build ai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material goes only in the Authorization header and is
	// never echoed in errors.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeAIProviderFailure, "ai request failed", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return "", apperrors.New(apperrors.CodeAIUnauthorized, "ai provider rejected the credential")
	case res.StatusCode == http.StatusTooManyRequests:
		return "", apperrors.New(apperrors.CodeAIRateLimited, "ai provider rate limited the request")
	case res.StatusCode < 200 || res.StatusCode >= 300:
		body, readErr := io.ReadAll(io.LimitReader(res.Body, 4096))
		if readErr != nil {
			return "", apperrors.Wrap(apperrors.CodeAIProviderFailure, "read ai error body", readErr)
		}
		return "", apperrors.New(apperrors.CodeAIProviderFailure,
			fmt.Sprintf("ai request status %d: %s", res.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", apperrors.Wrap(apperrors.CodeAIProviderFailure, "decode ai response", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", apperrors.New(apperrors.CodeAIInvalidOutput, "ai response missing output text")
	}
	return outputText, nil
}
