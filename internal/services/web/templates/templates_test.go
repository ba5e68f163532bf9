package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/services/simulator"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
)

type keyLocalizer struct{}

func (keyLocalizer) Sprintf(key string, _ ...any) string { return key }

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := component.Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q\n%s", want, out)
		}
	}
}

func TestLayoutSignedOut(t *testing.T) {
	page := Layout("Coleções", "pt-BR", module.Viewer{}, nil, keyLocalizer{})
	ctx := templ.WithChildren(context.Background(), templ.Raw("<p>child</p>"))
	var sb strings.Builder
	if err := page.Render(ctx, &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	mustContain(t, out,
		`lang="pt-BR"`,
		"Coleções · layout.app_name",
		"layout.nav.login",
		"layout.nav.simulator",
		"<p>child</p>",
	)
	if strings.Contains(out, "layout.nav.logout") {
		t.Fatal("signed-out layout should not show logout")
	}
}

func TestLayoutSignedInWithToast(t *testing.T) {
	viewer := module.Viewer{DisplayName: "Ana", Username: "ana", SignedIn: true}
	toast := &Toast{Kind: "success", Message: "Coleção criada"}
	page := Layout("", "pt-BR", viewer, toast, keyLocalizer{})
	ctx := templ.WithChildren(context.Background(), templ.Raw(""))
	var sb strings.Builder
	if err := page.Render(ctx, &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	mustContain(t, sb.String(),
		"layout.nav.logout",
		"layout.nav.collections",
		"toast-success",
		"Coleção criada",
	)
}

func TestLandingAndAuthPages(t *testing.T) {
	mustContain(t, render(t, Landing(keyLocalizer{})), "landing.title", "landing.cta", "/register")
	mustContain(t, render(t, LoginPage(keyLocalizer{})),
		"auth.login.title", "auth.passkey_login", "/auth/passkey/login/begin")
	mustContain(t, render(t, RegisterPage(keyLocalizer{})),
		"auth.register.title", "auth.passkey_register", "/auth/passkey/register/begin")
}

func TestCollectionsPageEscapesNames(t *testing.T) {
	out := render(t, CollectionsPage(keyLocalizer{}, []CollectionView{
		{ID: "col-1", Name: "<b>Casa</b>", OrgOwned: true},
		{ID: "col-2", Name: "Praia", Shared: true},
	}))
	mustContain(t, out,
		"&lt;b&gt;Casa&lt;/b&gt;",
		"collections.org_badge",
		"collections.shared_badge",
		"/app/colecoes/col-1",
		"collections.create",
	)
	if strings.Contains(out, "<b>Casa</b>") {
		t.Fatal("collection name was not escaped")
	}
}

func TestSharesFragment(t *testing.T) {
	out := render(t, SharesFragment(keyLocalizer{}, "col-1", []ShareView{
		{ID: "share-1", Username: "bruno", Role: "editor"},
	}, "https://example.test/compartilhado?grant=abc"))
	mustContain(t, out,
		"bruno",
		"collections.share.role_editor",
		"/app/colecoes/col-1/shares/share-1/revoke",
		"/app/colecoes/col-1/share-link",
		"https://example.test/compartilhado?grant=abc",
	)
}

func TestListingTable(t *testing.T) {
	out := render(t, ListingTable(keyLocalizer{}, "pt-BR", []ListingView{
		{ID: "lst-1", Title: "Apartamento Savassi", PriceCents: 35000000, Neighborhood: "Savassi", AreaM2: 72, Bedrooms: 2},
		{ID: "lst-2", Title: "Casa antiga", Archived: true},
	}, []CollectionView{{ID: "col-2", Name: "Praia"}}))
	mustContain(t, out,
		"Apartamento Savassi",
		"/app/anuncios/lst-1",
		"anuncios.archive",
		"anuncios.unarchive",
		"anuncios.move",
		"Praia",
	)
	if !strings.Contains(out, "350.000,00") {
		t.Fatalf("expected formatted price, got\n%s", out)
	}
}

func TestListingTableEmpty(t *testing.T) {
	out := render(t, ListingTable(keyLocalizer{}, "pt-BR", nil, nil))
	mustContain(t, out, "anuncios.empty")
	if strings.Contains(out, "<table") {
		t.Fatal("empty listing table should not render a table")
	}
}

func TestListingFormPrefill(t *testing.T) {
	out := render(t, ListingForm(keyLocalizer{}, "col-1", ListingView{
		Title:      "Cobertura",
		PriceCents: 123456,
		Amenities:  []string{"piscina", "academia"},
	}, "texto original"))
	mustContain(t, out,
		`action="/app/colecoes/col-1/listings"`,
		`value="Cobertura"`,
		`value="1234.56"`,
		`value="piscina, academia"`,
		`name="source_text" value="texto original"`,
	)
}

func TestListingFormEditTargetsListing(t *testing.T) {
	out := render(t, ListingForm(keyLocalizer{}, "col-1", ListingView{ID: "lst-9", Title: "Casa"}, ""))
	mustContain(t, out, `action="/app/anuncios/lst-9"`)
	if strings.Contains(out, "source_text") {
		t.Fatal("edit form should not carry source text")
	}
}

func TestParseBox(t *testing.T) {
	out := render(t, ParseBox(keyLocalizer{}, "col-1"))
	mustContain(t, out,
		`hx-post="/app/colecoes/col-1/parse"`,
		`hx-target="#listing-form"`,
		"anuncios.parse",
	)
}

func TestSimulatorPageWithSchedule(t *testing.T) {
	schedule, err := simulator.Simulate(simulator.Input{
		PrincipalCents:    30000000,
		AnnualRatePercent: 10,
		TermMonths:        12,
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	out := render(t, SimulatorPage(keyLocalizer{}, "pt-BR",
		SimulatorForm{Principal: "300000", TermMonths: "12"},
		&schedule, CompareForm{}, nil))
	mustContain(t, out,
		"sim.title",
		`value="300000"`,
		"sim.total_paid",
		"sim.compare.run",
		`action="/simulador/comparar"`,
	)
}

func TestComparisonResult(t *testing.T) {
	comparison, err := simulator.Compare(simulator.ComparisonInput{
		Financing: simulator.Input{
			PrincipalCents:    50000000,
			AnnualRatePercent: 9,
			TermMonths:        120,
		},
		SecondaryValueCents: 20000000,
		HaircutPercent:      10,
		SaleMonth:           6,
	})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	out := render(t, ComparisonResult(keyLocalizer{}, "pt-BR", comparison))
	mustContain(t, out, "sim.compare.delta", "sim.compare.permuta", "sim.compare.venda", "sim.compare.out_of_pocket")
}

func TestSettingsPage(t *testing.T) {
	out := render(t, SettingsPage(keyLocalizer{}, ProfileView{
		Username:    "ana",
		DisplayName: "Ana",
		Locale:      "pt-BR",
		Locales:     []string{"pt-BR", "en-US"},
	}, PlanView{
		Plan:             "free",
		CollectionsUsed:  2,
		CollectionsLimit: "3",
		ParsesLimit:      "10",
	}))
	mustContain(t, out,
		"settings.profile",
		`value="Ana"`,
		`<option value="pt-BR" selected>`,
		"settings.plan.free",
		"settings.plan.activate",
		"/app/ajustes/plano/activate",
	)

	out = render(t, SettingsPage(keyLocalizer{}, ProfileView{}, PlanView{Plan: "pro"}))
	mustContain(t, out, "settings.plan.pro", "settings.plan.cancel")
}

func TestClaimPage(t *testing.T) {
	out := render(t, ClaimPage(keyLocalizer{}, "Imóveis BH", "grant-token"))
	mustContain(t, out,
		"claim.title",
		"claim.description",
		`value="grant-token"`,
		`action="/compartilhado"`,
	)
}

func TestErrorState(t *testing.T) {
	cases := []struct {
		status int
		key    string
	}{
		{404, "error.http.not_found"},
		{401, "error.http.unauthorized"},
		{403, "error.http.forbidden"},
		{402, "error.http.quota"},
		{502, "error.http.unavailable"},
		{500, "error.http.internal"},
	}
	for _, tc := range cases {
		out := render(t, ErrorState(tc.status, keyLocalizer{}))
		mustContain(t, out, tc.key)
	}
}
