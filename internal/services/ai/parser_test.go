package ai

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

type fakeProvider struct {
	output  string
	err     error
	prompts []string
}

func (f *fakeProvider) Invoke(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakeGate struct {
	checkErr error
	checks   int
	records  int
}

func (f *fakeGate) CheckParseQuota(_ context.Context, _ string) error {
	f.checks++
	return f.checkErr
}

func (f *fakeGate) RecordParse(_ context.Context, _ string) error {
	f.records++
	return nil
}

const sampleOutput = `{
	"title": "Apartamento 3 quartos na Savassi",
	"neighborhood": "Savassi",
	"city": "Belo Horizonte",
	"price_cents": 85000000,
	"condo_fee_cents": 95000,
	"area_m2": 92.5,
	"bedrooms": 3,
	"bathrooms": 2,
	"parking_spots": 1,
	"amenities": ["piscina", " academia ", ""]
}`

func TestParseListingText(t *testing.T) {
	provider := &fakeProvider{output: sampleOutput}
	gate := &fakeGate{}
	parser := NewParser(provider, gate)

	draft, err := parser.ParseListingText(context.Background(), "user-1", "Vendo apto 3 quartos na Savassi, R$ 850.000")
	if err != nil {
		t.Fatalf("ParseListingText() error = %v", err)
	}
	if draft.Title != "Apartamento 3 quartos na Savassi" {
		t.Fatalf("ParseListingText() Title = %q", draft.Title)
	}
	if draft.PriceCents != 85000000 || draft.Bedrooms != 3 || draft.AreaM2 != 92.5 {
		t.Fatalf("ParseListingText() draft = %+v", draft)
	}
	if len(draft.Amenities) != 2 || draft.Amenities[1] != "academia" {
		t.Fatalf("ParseListingText() Amenities = %v", draft.Amenities)
	}
	if gate.checks != 1 || gate.records != 1 {
		t.Fatalf("gate calls = %d checks, %d records", gate.checks, gate.records)
	}
	if len(provider.prompts) != 1 || !strings.Contains(provider.prompts[0], "Savassi") {
		t.Fatalf("prompt = %v", provider.prompts)
	}
}

func TestParseListingTextTrimsOnRuneBoundary(t *testing.T) {
	provider := &fakeProvider{output: sampleOutput}
	parser := NewParser(provider, nil)

	// Pad so the byte limit falls in the middle of a two-byte rune.
	text := strings.Repeat("a", MaxSourceTextBytes-1) + "çç"
	if _, err := parser.ParseListingText(context.Background(), "user-1", text); err != nil {
		t.Fatalf("ParseListingText() error = %v", err)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(provider.prompts))
	}
	if !utf8.ValidString(provider.prompts[0]) {
		t.Fatal("prompt carries a torn multi-byte character")
	}
}

func TestParseListingTextCodeFence(t *testing.T) {
	provider := &fakeProvider{output: "```json\n" + sampleOutput + "\n```"}
	parser := NewParser(provider, nil)

	draft, err := parser.ParseListingText(context.Background(), "user-1", "anúncio")
	if err != nil {
		t.Fatalf("ParseListingText() error = %v", err)
	}
	if draft.City != "Belo Horizonte" {
		t.Fatalf("ParseListingText() City = %q", draft.City)
	}
}

func TestParseListingTextErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		output   string
		wantCode apperrors.Code
	}{
		{name: "empty text", text: "   ", output: sampleOutput, wantCode: apperrors.CodeAIEmptyText},
		{name: "not json", text: "anúncio", output: "o imóvel custa 850 mil", wantCode: apperrors.CodeAIInvalidOutput},
		{name: "missing title", text: "anúncio", output: `{"city":"BH"}`, wantCode: apperrors.CodeAIInvalidOutput},
		{name: "empty output", text: "anúncio", output: "   ", wantCode: apperrors.CodeAIInvalidOutput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser := NewParser(&fakeProvider{output: tc.output}, nil)
			_, err := parser.ParseListingText(context.Background(), "user-1", tc.text)
			if !apperrors.IsCode(err, tc.wantCode) {
				t.Fatalf("ParseListingText() code = %v, want %v", apperrors.GetCode(err), tc.wantCode)
			}
		})
	}
}

func TestParseListingTextQuotaDenied(t *testing.T) {
	gate := &fakeGate{checkErr: apperrors.New(apperrors.CodeBillingParseQuota, "parse quota exhausted")}
	provider := &fakeProvider{output: sampleOutput}
	parser := NewParser(provider, gate)

	_, err := parser.ParseListingText(context.Background(), "user-1", "anúncio")
	if !apperrors.IsCode(err, apperrors.CodeBillingParseQuota) {
		t.Fatalf("ParseListingText() code = %v, want BILLING_PARSE_QUOTA_EXCEEDED", apperrors.GetCode(err))
	}
	if len(provider.prompts) != 0 {
		t.Fatal("provider should not be called when quota is exhausted")
	}
	if gate.records != 0 {
		t.Fatal("usage should not be recorded when quota is exhausted")
	}
}

func TestParseListingTextNoProvider(t *testing.T) {
	parser := NewParser(nil, nil)
	_, err := parser.ParseListingText(context.Background(), "user-1", "anúncio")
	if !apperrors.IsCode(err, apperrors.CodeAINotConfigured) {
		t.Fatalf("ParseListingText() code = %v, want AI_NOT_CONFIGURED", apperrors.GetCode(err))
	}
}

func TestNegativeAmountsCleared(t *testing.T) {
	output := `{"title":"Casa","price_cents":-100,"bedrooms":-2,"area_m2":-1}`
	parser := NewParser(&fakeProvider{output: output}, nil)
	draft, err := parser.ParseListingText(context.Background(), "user-1", "anúncio")
	if err != nil {
		t.Fatalf("ParseListingText() error = %v", err)
	}
	if draft.PriceCents != 0 || draft.Bedrooms != 0 || draft.AreaM2 != 0 {
		t.Fatalf("ParseListingText() draft = %+v", draft)
	}
}
