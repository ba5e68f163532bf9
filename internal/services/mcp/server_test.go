package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/meusanuncios/anuncios/internal/services/ai"
	listapp "github.com/meusanuncios/anuncios/internal/services/listing/app"
	"github.com/meusanuncios/anuncios/internal/services/listing/storage"
)

type fakeBrowser struct {
	accessible []listapp.AccessibleCollection
	userID     string
}

func (f *fakeBrowser) ListAccessibleCollections(_ context.Context, actorID string) ([]listapp.AccessibleCollection, error) {
	f.userID = actorID
	return f.accessible, nil
}

type fakeTextParser struct {
	draft  ai.Draft
	err    error
	userID string
	text   string
}

func (f *fakeTextParser) ParseListingText(_ context.Context, userID, text string) (ai.Draft, error) {
	f.userID = userID
	f.text = text
	if f.err != nil {
		return ai.Draft{}, f.err
	}
	return f.draft, nil
}

func TestNewRequiresServices(t *testing.T) {
	if _, err := New(nil, &fakeTextParser{}, "user-1"); err == nil {
		t.Fatal("expected error for nil listing service")
	}
	if _, err := New(&fakeBrowser{}, nil, "user-1"); err == nil {
		t.Fatal("expected error for nil parser")
	}
	if _, err := New(&fakeBrowser{}, &fakeTextParser{}, "user-1"); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestResolveUserIDFallsBackToDefault(t *testing.T) {
	server, err := New(&fakeBrowser{}, &fakeTextParser{}, "user-default")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	userID, err := server.resolveUserID("  user-9  ")
	if err != nil || userID != "user-9" {
		t.Fatalf("resolveUserID(user-9) = %q, %v", userID, err)
	}
	userID, err = server.resolveUserID("")
	if err != nil || userID != "user-default" {
		t.Fatalf("resolveUserID() = %q, %v", userID, err)
	}

	noDefault, err := New(&fakeBrowser{}, &fakeTextParser{}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := noDefault.resolveUserID(""); err == nil {
		t.Fatal("expected error without a user")
	}
}

func TestParseListingHandler(t *testing.T) {
	parser := &fakeTextParser{draft: ai.Draft{
		Title:      "Apartamento Savassi",
		City:       "Belo Horizonte",
		PriceCents: 35000000,
		Amenities:  []string{"piscina"},
	}}
	handler := parseListingHandler(parser, func(string) (string, error) { return "user-1", nil })

	_, result, err := handler(context.Background(), nil, ParseListingInput{Text: "texto do anúncio"})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.Title != "Apartamento Savassi" || result.PriceCents != 35000000 {
		t.Fatalf("result = %+v", result)
	}
	if parser.userID != "user-1" || parser.text != "texto do anúncio" {
		t.Fatalf("parser saw user %q text %q", parser.userID, parser.text)
	}
}

func TestSimulateHandler(t *testing.T) {
	handler := simulateHandler()

	_, result, err := handler(context.Background(), nil, SimulateInput{
		PrincipalCents:    30000000,
		AnnualRatePercent: 12,
		TermMonths:        120,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.PayoffMonth != 120 {
		t.Fatalf("payoff month = %d, want 120", result.PayoffMonth)
	}
	if result.TotalInterestCents <= 0 {
		t.Fatalf("total interest = %d", result.TotalInterestCents)
	}
	if len(result.Rows) != 0 {
		t.Fatal("rows should be omitted unless requested")
	}

	_, result, err = handler(context.Background(), nil, SimulateInput{
		PrincipalCents:    30000000,
		AnnualRatePercent: 12,
		TermMonths:        120,
		IncludeRows:       true,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(result.Rows) != 120 {
		t.Fatalf("rows = %d, want 120", len(result.Rows))
	}
}

func TestSimulateHandlerRunsLuaScript(t *testing.T) {
	handler := simulateHandler()

	_, fixed, err := handler(context.Background(), nil, SimulateInput{
		PrincipalCents:    30000000,
		AnnualRatePercent: 12,
		TermMonths:        120,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	_, scripted, err := handler(context.Background(), nil, SimulateInput{
		PrincipalCents:    30000000,
		AnnualRatePercent: 12,
		TermMonths:        120,
		ExtraScript:       "function extra(month, balance, installment) return 50000 end",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if scripted.PayoffMonth >= fixed.PayoffMonth {
		t.Fatalf("payoff month = %d, want earlier than %d", scripted.PayoffMonth, fixed.PayoffMonth)
	}
	if scripted.TotalInterestCents >= fixed.TotalInterestCents {
		t.Fatalf("interest = %d, want less than %d", scripted.TotalInterestCents, fixed.TotalInterestCents)
	}

	_, _, err = handler(context.Background(), nil, SimulateInput{
		PrincipalCents:    30000000,
		AnnualRatePercent: 12,
		TermMonths:        120,
		ExtraScript:       "this is not lua",
	})
	if err == nil {
		t.Fatal("expected error for a broken script")
	}
}

func TestSimulateHandlerRejectsBadInput(t *testing.T) {
	handler := simulateHandler()
	if _, _, err := handler(context.Background(), nil, SimulateInput{TermMonths: 12}); err == nil {
		t.Fatal("expected error for zero principal")
	}
}

func TestCompareHandler(t *testing.T) {
	handler := compareHandler()

	_, result, err := handler(context.Background(), nil, CompareInput{
		SimulateInput: SimulateInput{
			PrincipalCents:    50000000,
			AnnualRatePercent: 9,
			TermMonths:        240,
		},
		SecondaryValueCents: 20000000,
		HaircutPercent:      10,
		SaleMonth:           6,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.Winner != "permuta" && result.Winner != "venda_posterior" {
		t.Fatalf("winner = %q", result.Winner)
	}
	if result.Permuta.TotalPaidCents <= 0 || result.VendaPosterior.TotalPaidCents <= 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.DeltaCents != result.PermutaPocketCents-result.VendaPocketCents {
		t.Fatalf("delta = %d, pockets %d and %d", result.DeltaCents, result.PermutaPocketCents, result.VendaPocketCents)
	}
}

func TestCompareHandlerRunsLuaScript(t *testing.T) {
	handler := compareHandler()
	input := CompareInput{
		SimulateInput: SimulateInput{
			PrincipalCents:    30000000,
			AnnualRatePercent: 10,
			TermMonths:        360,
		},
		SecondaryValueCents: 10000000,
		HaircutPercent:      10,
		SaleMonth:           12,
	}

	_, plain, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	input.ExtraScript = "function extra(month, balance, installment) return 100000 end"
	_, scripted, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if scripted.Permuta.PayoffMonth >= plain.Permuta.PayoffMonth {
		t.Fatalf("permuta payoff = %d, want earlier than %d", scripted.Permuta.PayoffMonth, plain.Permuta.PayoffMonth)
	}
	if scripted.VendaPosterior.PayoffMonth >= plain.VendaPosterior.PayoffMonth {
		t.Fatalf("venda payoff = %d, want earlier than %d", scripted.VendaPosterior.PayoffMonth, plain.VendaPosterior.PayoffMonth)
	}

	input.ExtraScript = "this is not lua"
	if _, _, err := handler(context.Background(), nil, input); err == nil {
		t.Fatal("expected error for a broken script")
	}
}

func TestCollectionListResource(t *testing.T) {
	browser := &fakeBrowser{accessible: []listapp.AccessibleCollection{
		{
			Collection: storage.Collection{ID: "col-1", Name: "Imóveis BH", OwnerKind: storage.OwnerKindUser},
			Role:       listapp.AccessOwner,
		},
		{
			Collection: storage.Collection{ID: "col-2", Name: "Compartilhada", OwnerKind: storage.OwnerKindOrg},
			Role:       listapp.AccessViewer,
		},
	}}
	handler := collectionListHandler(browser, func(string) (string, error) { return "user-1", nil })

	result, err := handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != collectionListURI || content.MIMEType != "application/json" {
		t.Fatalf("content = %+v", content)
	}
	var payload CollectionListPayload
	if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Collections) != 2 {
		t.Fatalf("collections = %d, want 2", len(payload.Collections))
	}
	if payload.Collections[0].Role != "owner" || payload.Collections[1].Role != "viewer" {
		t.Fatalf("payload = %+v", payload)
	}
	if browser.userID != "user-1" {
		t.Fatalf("browser saw user %q", browser.userID)
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	server, err := New(&fakeBrowser{}, &fakeTextParser{}, "user-1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	runErr := server.Run(context.Background(), Config{Transport: "carrier-pigeon"})
	if runErr == nil || !strings.Contains(runErr.Error(), "unsupported transport") {
		t.Fatalf("Run() error = %v", runErr)
	}
}
