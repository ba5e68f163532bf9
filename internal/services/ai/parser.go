package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// MaxSourceTextBytes bounds pasted ad text before it reaches a provider.
const MaxSourceTextBytes = 32 * 1024

// Provider sends one prompt to a language model and returns its text output.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ParseGate meters parse operations per user. The billing service
// implements it; a nil gate means unmetered parsing.
type ParseGate interface {
	CheckParseQuota(ctx context.Context, userID string) error
	RecordParse(ctx context.Context, userID string) error
}

// Parser turns free-form ad text into listing drafts.
type Parser struct {
	provider Provider
	gate     ParseGate
	tracer   trace.Tracer
}

// NewParser creates a parser over the given provider. A nil gate
// disables quota metering.
func NewParser(provider Provider, gate ParseGate) *Parser {
	return &Parser{
		provider: provider,
		gate:     gate,
		tracer:   otel.Tracer("anuncios/ai"),
	}
}

// ParseListingText extracts one structured draft from pasted ad text.
// Successful parses count against the user's monthly quota.
func (p *Parser) ParseListingText(ctx context.Context, userID, text string) (Draft, error) {
	ctx, span := p.tracer.Start(ctx, "ai.ParseListingText",
		trace.WithAttributes(attribute.Int("text.bytes", len(text))),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return Draft{}, apperrors.New(apperrors.CodeAIEmptyText, "ad text is required")
	}
	if len(text) > MaxSourceTextBytes {
		cut := MaxSourceTextBytes
		// Back up to a rune boundary so the provider never sees a torn
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if p.provider == nil {
		return Draft{}, apperrors.New(apperrors.CodeAINotConfigured, "ai provider is not configured")
	}

	if p.gate != nil {
		if err := p.gate.CheckParseQuota(ctx, userID); err != nil {
			return Draft{}, err
		}
	}

	output, err := p.provider.Invoke(ctx, buildPrompt(text))
	if err != nil {
		return Draft{}, err
	}

	draft, err := decodeDraft(output)
	if err != nil {
		return Draft{}, err
	}

	if p.gate != nil {
		if err := p.gate.RecordParse(ctx, userID); err != nil {
			return Draft{}, fmt.Errorf("record parse usage: %w", err)
		}
	}
	return draft, nil
}

const promptPreamble = `Extraia os dados estruturados do anúncio de imóvel abaixo.
Responda somente com um objeto JSON, sem explicações e sem cercas de código.
Campos: title, street, neighborhood, city, price_cents, condo_fee_cents,
iptu_cents, area_m2, bedrooms, bathrooms, parking_spots, amenities,
contact_name, contact_phone, url, notes, confidence.
Valores monetários em centavos (R$ 350.000,00 vira 35000000). Omita campos
que o texto não informa. O campo title resume o imóvel em uma linha. O campo
confidence aponta, em uma frase, os campos que ficaram incertos; omita-o se
tudo estiver claro.

Anúncio:
`

func buildPrompt(text string) string {
	return promptPreamble + text
}

// decodeDraft parses the model output strictly. Code fences are
// stripped first because models add them despite instructions.
func decodeDraft(output string) (Draft, error) {
	cleaned := stripCodeFence(output)
	if cleaned == "" {
		return Draft{}, apperrors.New(apperrors.CodeAIInvalidOutput, "model returned no output")
	}

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	var draft Draft
	if err := decoder.Decode(&draft); err != nil {
		return Draft{}, apperrors.Wrap(apperrors.CodeAIInvalidOutput, "model output is not valid json", err)
	}

	draft.normalize()
	if draft.Title == "" {
		return Draft{}, apperrors.New(apperrors.CodeAIInvalidOutput, "model output missing title")
	}
	return draft, nil
}

func stripCodeFence(output string) string {
	cleaned := strings.TrimSpace(output)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
