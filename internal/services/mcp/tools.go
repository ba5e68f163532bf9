package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	sac "github.com/meusanuncios/anuncios/internal/services/simulator"
	"github.com/meusanuncios/anuncios/internal/services/simulator/strategy"
)

// resolveUser maps a requested user to the effective tool user.
type resolveUser func(requested string) (string, error)

// ParseListingInput is the parse_listing tool input.
type ParseListingInput struct {
	Text   string `json:"text" jsonschema:"raw ad text to parse"`
	UserID string `json:"user_id,omitempty" jsonschema:"user identifier for quota metering (defaults to the configured user)"`
}

// ParseListingResult is the structured draft extracted from ad text.
type ParseListingResult struct {
	Title         string   `json:"title" jsonschema:"listing title"`
	Street        string   `json:"street,omitempty" jsonschema:"street address"`
	Neighborhood  string   `json:"neighborhood,omitempty" jsonschema:"neighborhood"`
	City          string   `json:"city,omitempty" jsonschema:"city"`
	PriceCents    int64    `json:"price_cents,omitempty" jsonschema:"asking price in centavos"`
	CondoFeeCents int64    `json:"condo_fee_cents,omitempty" jsonschema:"monthly condo fee in centavos"`
	IPTUCents     int64    `json:"iptu_cents,omitempty" jsonschema:"annual IPTU property tax in centavos"`
	AreaM2        float64  `json:"area_m2,omitempty" jsonschema:"area in square meters"`
	Bedrooms      int      `json:"bedrooms,omitempty" jsonschema:"bedroom count"`
	Bathrooms     int      `json:"bathrooms,omitempty" jsonschema:"bathroom count"`
	ParkingSpots  int      `json:"parking_spots,omitempty" jsonschema:"parking spot count"`
	Amenities     []string `json:"amenities,omitempty" jsonschema:"amenity list"`
	ContactName   string   `json:"contact_name,omitempty" jsonschema:"contact name"`
	ContactPhone  string   `json:"contact_phone,omitempty" jsonschema:"contact phone"`
	URL           string   `json:"url,omitempty" jsonschema:"source listing URL"`
	Notes         string   `json:"notes,omitempty" jsonschema:"free-form notes"`
	Confidence    string   `json:"confidence,omitempty" jsonschema:"model note naming the fields it was unsure about"`
}

func registerParseTools(server *mcp.Server, parser TextParser, resolve resolveUser) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_listing",
		Description: "Extract a structured real-estate listing draft from pasted ad text",
	}, parseListingHandler(parser, resolve))
}

func parseListingHandler(parser TextParser, resolve resolveUser) mcp.ToolHandlerFor[ParseListingInput, ParseListingResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ParseListingInput) (*mcp.CallToolResult, ParseListingResult, error) {
		userID, err := resolve(input.UserID)
		if err != nil {
			return nil, ParseListingResult{}, err
		}
		draft, err := parser.ParseListingText(ctx, userID, input.Text)
		if err != nil {
			return nil, ParseListingResult{}, fmt.Errorf("parse listing failed: %w", err)
		}
		return nil, ParseListingResult{
			Title:         draft.Title,
			Street:        draft.Street,
			Neighborhood:  draft.Neighborhood,
			City:          draft.City,
			PriceCents:    draft.PriceCents,
			CondoFeeCents: draft.CondoFeeCents,
			IPTUCents:     draft.IPTUCents,
			AreaM2:        draft.AreaM2,
			Bedrooms:      draft.Bedrooms,
			Bathrooms:     draft.Bathrooms,
			ParkingSpots:  draft.ParkingSpots,
			Amenities:     draft.Amenities,
			ContactName:   draft.ContactName,
			ContactPhone:  draft.ContactPhone,
			URL:           draft.URL,
			Notes:         draft.Notes,
			Confidence:    draft.Confidence,
		}, nil
	}
}

// SimulateInput is the simulate_sac tool input.
type SimulateInput struct {
	PrincipalCents    int64   `json:"principal_cents" jsonschema:"financed amount in centavos"`
	AnnualRatePercent float64 `json:"annual_rate_percent" jsonschema:"nominal annual interest rate in percent"`
	TermMonths        int     `json:"term_months" jsonschema:"contract term in months (max 420)"`
	ExtraMonthlyCents int64   `json:"extra_monthly_cents,omitempty" jsonschema:"extra amortization paid every month in centavos"`
	AdminFeeCents     int64   `json:"admin_fee_cents,omitempty" jsonschema:"fixed monthly administrative fee in centavos"`
	InsuranceCents    int64   `json:"insurance_cents,omitempty" jsonschema:"fixed monthly insurance in centavos"`
	ExtraScript       string  `json:"extra_script,omitempty" jsonschema:"Lua script defining extra(month, balance_cents, installment_cents) returning the extra amortization in centavos, overrides extra_monthly_cents"`
	IncludeRows       bool    `json:"include_rows,omitempty" jsonschema:"include the full month-by-month schedule in the result"`
}

// ScheduleRow is one month of an amortization schedule.
type ScheduleRow struct {
	Month             int   `json:"month" jsonschema:"month number, starting at 1"`
	InstallmentCents  int64 `json:"installment_cents" jsonschema:"contract installment in centavos"`
	AmortizationCents int64 `json:"amortization_cents" jsonschema:"principal amortization in centavos"`
	InterestCents     int64 `json:"interest_cents" jsonschema:"interest in centavos"`
	FeesCents         int64 `json:"fees_cents" jsonschema:"admin fee plus insurance in centavos"`
	ExtraCents        int64 `json:"extra_cents" jsonschema:"extra amortization in centavos"`
	BalanceCents      int64 `json:"balance_cents" jsonschema:"remaining balance in centavos"`
}

// SimulateResult summarizes a SAC amortization schedule.
type SimulateResult struct {
	TotalPaidCents     int64         `json:"total_paid_cents" jsonschema:"total paid over the schedule in centavos"`
	TotalInterestCents int64         `json:"total_interest_cents" jsonschema:"total interest in centavos"`
	TotalFeesCents     int64         `json:"total_fees_cents" jsonschema:"total fees in centavos"`
	PayoffMonth        int           `json:"payoff_month" jsonschema:"month the balance reaches zero"`
	Rows               []ScheduleRow `json:"rows,omitempty" jsonschema:"month-by-month schedule when include_rows is set"`
}

func registerSimulatorTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "simulate_sac",
		Description: "Compute a SAC (constant amortization) mortgage schedule with optional extra monthly amortization",
	}, simulateHandler())
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_scenarios",
		Description: "Compare trading in a secondary property (permuta) against financing in full and selling it later",
	}, compareHandler())
}

func simulateHandler() mcp.ToolHandlerFor[SimulateInput, SimulateResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SimulateInput) (*mcp.CallToolResult, SimulateResult, error) {
		var extra sac.ExtraStrategy
		if input.ExtraScript != "" {
			compiled, err := strategy.CompileLuaExtra(input.ExtraScript)
			if err != nil {
				return nil, SimulateResult{}, err
			}
			extra = compiled
		}
		schedule, err := sac.SimulateWithStrategy(simulateInput(input), extra)
		if err != nil {
			return nil, SimulateResult{}, err
		}
		result := SimulateResult{
			TotalPaidCents:     schedule.TotalPaidCents,
			TotalInterestCents: schedule.TotalInterestCents,
			TotalFeesCents:     schedule.TotalFeesCents,
			PayoffMonth:        schedule.PayoffMonth,
		}
		if input.IncludeRows {
			result.Rows = scheduleRows(schedule)
		}
		return nil, result, nil
	}
}

// CompareInput is the compare_scenarios tool input.
type CompareInput struct {
	SimulateInput
	SecondaryValueCents int64   `json:"secondary_value_cents" jsonschema:"market value of the secondary property in centavos"`
	HaircutPercent      float64 `json:"haircut_percent,omitempty" jsonschema:"permuta haircut in percent of the secondary value"`
	SaleMonth           int     `json:"sale_month" jsonschema:"month the secondary property sells in the venda-posterior scenario"`
	SaleCostsCents      int64   `json:"sale_costs_cents,omitempty" jsonschema:"broker and transfer costs of the later sale in centavos"`
}

// ScenarioSummary is the cost of one comparison scenario.
type ScenarioSummary struct {
	TotalPaidCents     int64 `json:"total_paid_cents" jsonschema:"total paid in centavos"`
	TotalInterestCents int64 `json:"total_interest_cents" jsonschema:"total interest in centavos"`
	PayoffMonth        int   `json:"payoff_month" jsonschema:"month the balance reaches zero"`
}

// CompareResult reports both scenarios and the cheaper one. Out-of-pocket
// figures exclude the secondary property's value, which the buyer gives up
// in both scenarios.
type CompareResult struct {
	Permuta            ScenarioSummary `json:"permuta" jsonschema:"trade-in scenario"`
	VendaPosterior     ScenarioSummary `json:"venda_posterior" jsonschema:"finance-then-sell scenario"`
	PermutaPocketCents int64           `json:"permuta_out_of_pocket_cents" jsonschema:"cash the permuta scenario takes from the buyer in centavos"`
	VendaPocketCents   int64           `json:"venda_out_of_pocket_cents" jsonschema:"venda-posterior cash cost in centavos after crediting the sale proceeds"`
	DeltaCents         int64           `json:"delta_cents" jsonschema:"permuta out-of-pocket cost minus venda-posterior out-of-pocket cost in centavos (negative means permuta costs less)"`
	Winner             string          `json:"winner" jsonschema:"cheaper scenario (permuta or venda_posterior)"`
}

func compareHandler() mcp.ToolHandlerFor[CompareInput, CompareResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, CompareResult, error) {
		var extra sac.ExtraStrategy
		if input.ExtraScript != "" {
			compiled, err := strategy.CompileLuaExtra(input.ExtraScript)
			if err != nil {
				return nil, CompareResult{}, err
			}
			extra = compiled
		}
		comparison, err := sac.CompareWithStrategy(sac.ComparisonInput{
			Financing:           simulateInput(input.SimulateInput),
			SecondaryValueCents: input.SecondaryValueCents,
			HaircutPercent:      input.HaircutPercent,
			SaleMonth:           input.SaleMonth,
			SaleCostsCents:      input.SaleCostsCents,
		}, extra)
		if err != nil {
			return nil, CompareResult{}, err
		}
		return nil, CompareResult{
			Permuta:            scenarioSummary(comparison.Permuta),
			VendaPosterior:     scenarioSummary(comparison.VendaPosterior),
			PermutaPocketCents: comparison.PermutaOutOfPocketCents,
			VendaPocketCents:   comparison.VendaOutOfPocketCents,
			DeltaCents:         comparison.DeltaCents,
			Winner:             comparison.Winner,
		}, nil
	}
}

func simulateInput(input SimulateInput) sac.Input {
	return sac.Input{
		PrincipalCents:    input.PrincipalCents,
		AnnualRatePercent: input.AnnualRatePercent,
		TermMonths:        input.TermMonths,
		ExtraMonthlyCents: input.ExtraMonthlyCents,
		AdminFeeCents:     input.AdminFeeCents,
		InsuranceCents:    input.InsuranceCents,
	}
}

func scheduleRows(schedule sac.Schedule) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(schedule.Rows))
	for _, row := range schedule.Rows {
		rows = append(rows, ScheduleRow{
			Month:             row.Month,
			InstallmentCents:  row.InstallmentCents,
			AmortizationCents: row.AmortizationCents,
			InterestCents:     row.InterestCents,
			FeesCents:         row.FeesCents,
			ExtraCents:        row.ExtraCents,
			BalanceCents:      row.BalanceCents,
		})
	}
	return rows
}

func scenarioSummary(schedule sac.Schedule) ScenarioSummary {
	return ScenarioSummary{
		TotalPaidCents:     schedule.TotalPaidCents,
		TotalInterestCents: schedule.TotalInterestCents,
		PayoffMonth:        schedule.PayoffMonth,
	}
}
