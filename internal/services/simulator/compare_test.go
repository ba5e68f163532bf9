package simulator

import (
	"testing"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

func baseComparison() ComparisonInput {
	return ComparisonInput{
		Financing: Input{
			PrincipalCents:    500000_00,
			AnnualRatePercent: 10,
			TermMonths:        360,
		},
		SecondaryValueCents: 200000_00,
		HaircutPercent:      10,
		SaleMonth:           12,
		SaleCostsCents:      12000_00,
	}
}

func TestComparePermutaReducesPrincipal(t *testing.T) {
	comparison, err := Compare(baseComparison())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// Trade-in of 200k with 10% haircut finances 320k instead of 500k.
	firstAmort := comparison.Permuta.Rows[0].AmortizationCents
	wantAmort := int64(320000_00) / 360
	if diff := firstAmort - wantAmort; diff > 100 || diff < -100 {
		t.Fatalf("permuta first amortization = %d, want about %d", firstAmort, wantAmort)
	}
	if comparison.Permuta.TotalInterestCents >= comparison.VendaPosterior.TotalInterestCents {
		t.Fatal("permuta should accrue less interest than a year of full principal")
	}
}

func TestCompareVendaPosteriorAppliesLumpSum(t *testing.T) {
	in := baseComparison()
	comparison, err := Compare(in)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var saleRow Row
	for _, row := range comparison.VendaPosterior.Rows {
		if row.Month == in.SaleMonth {
			saleRow = row
		}
	}
	want := in.SecondaryValueCents - in.SaleCostsCents
	if saleRow.ExtraCents != want {
		t.Fatalf("sale month extra = %d, want %d", saleRow.ExtraCents, want)
	}
	if comparison.VendaPosterior.PayoffMonth >= in.Financing.TermMonths {
		t.Fatal("lump sum should shorten the venda-posterior schedule")
	}
}

func TestCompareWinnerAndDelta(t *testing.T) {
	in := baseComparison()
	comparison, err := Compare(in)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	saleNet := in.SecondaryValueCents - in.SaleCostsCents
	if got, want := comparison.PermutaOutOfPocketCents, comparison.Permuta.TotalPaidCents; got != want {
		t.Fatalf("permuta out of pocket = %d, want %d", got, want)
	}
	if got, want := comparison.VendaOutOfPocketCents, comparison.VendaPosterior.TotalPaidCents-saleNet; got != want {
		t.Fatalf("venda out of pocket = %d, want %d", got, want)
	}
	delta := comparison.PermutaOutOfPocketCents - comparison.VendaOutOfPocketCents
	if comparison.DeltaCents != delta {
		t.Fatalf("delta = %d, want %d", comparison.DeltaCents, delta)
	}
	switch comparison.Winner {
	case WinnerPermuta:
		if delta > 0 {
			t.Fatal("permuta declared winner despite costing more")
		}
	case WinnerVendaPosterior:
		if delta <= 0 {
			t.Fatal("venda posterior declared winner despite costing more")
		}
	default:
		t.Fatalf("unexpected winner %q", comparison.Winner)
	}
}

func TestCompareTradeInCoversEverything(t *testing.T) {
	in := baseComparison()
	in.Financing.PrincipalCents = 150000_00
	in.HaircutPercent = 0
	comparison, err := Compare(in)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(comparison.Permuta.Rows) != 0 {
		t.Fatal("fully covered purchase should produce an empty permuta schedule")
	}
	if comparison.Winner != WinnerPermuta {
		t.Fatalf("winner = %q, want %q", comparison.Winner, WinnerPermuta)
	}
}

func TestCompareDeltaExcludesPropertyValue(t *testing.T) {
	in := ComparisonInput{
		Financing: Input{
			PrincipalCents:    300000_00,
			AnnualRatePercent: 10,
			TermMonths:        360,
		},
		SecondaryValueCents: 100000_00,
		HaircutPercent:      10,
		SaleMonth:           12,
	}
	comparison, err := Compare(in)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// The property changes hands in both scenarios, so the delta must
	// reflect financing cost only, never the trade-in value itself.
	tradeIn := int64(90000_00)
	delta := comparison.DeltaCents
	if delta < 0 {
		delta = -delta
	}
	if delta >= tradeIn {
		t.Fatalf("delta %d is on the order of the trade-in %d", comparison.DeltaCents, tradeIn)
	}
	if got, want := comparison.VendaOutOfPocketCents, comparison.VendaPosterior.TotalPaidCents-in.SecondaryValueCents; got != want {
		t.Fatalf("venda out of pocket = %d, want %d", got, want)
	}
}

func TestCompareWithStrategyAppliesExtra(t *testing.T) {
	in := baseComparison()
	plain, err := Compare(in)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	boosted, err := CompareWithStrategy(in, FixedExtra(1000_00))
	if err != nil {
		t.Fatalf("compare with strategy: %v", err)
	}
	if boosted.Permuta.PayoffMonth >= plain.Permuta.PayoffMonth {
		t.Fatalf("permuta payoff = %d, want earlier than %d", boosted.Permuta.PayoffMonth, plain.Permuta.PayoffMonth)
	}
	if boosted.VendaPosterior.PayoffMonth >= plain.VendaPosterior.PayoffMonth {
		t.Fatalf("venda payoff = %d, want earlier than %d", boosted.VendaPosterior.PayoffMonth, plain.VendaPosterior.PayoffMonth)
	}
	if boosted.Permuta.TotalInterestCents >= plain.Permuta.TotalInterestCents {
		t.Fatal("extra amortization should cut permuta interest")
	}
}

func TestCompareValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ComparisonInput)
		code   apperrors.Code
	}{
		{
			name:   "haircut above range",
			mutate: func(in *ComparisonInput) { in.HaircutPercent = 100 },
			code:   apperrors.CodeSimInvalidHaircut,
		},
		{
			name:   "negative haircut",
			mutate: func(in *ComparisonInput) { in.HaircutPercent = -5 },
			code:   apperrors.CodeSimInvalidHaircut,
		},
		{
			name:   "sale month beyond term",
			mutate: func(in *ComparisonInput) { in.SaleMonth = 361 },
			code:   apperrors.CodeSimInvalidSaleMonth,
		},
		{
			name:   "sale month zero",
			mutate: func(in *ComparisonInput) { in.SaleMonth = 0 },
			code:   apperrors.CodeSimInvalidSaleMonth,
		},
		{
			name:   "zero secondary value",
			mutate: func(in *ComparisonInput) { in.SecondaryValueCents = 0 },
			code:   apperrors.CodeSimInvalidPrincipal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := baseComparison()
			tc.mutate(&in)
			_, err := Compare(in)
			if !apperrors.IsCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}
