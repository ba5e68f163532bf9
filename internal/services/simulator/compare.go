package simulator

import (
	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// ComparisonInput describes a permuta versus venda-posterior decision.
// The secondary property either enters the deal as a trade-in with a
// haircut (permuta) or is sold at SaleMonth with SaleCostsCents deducted
// and the net applied as a lump-sum amortization (venda posterior).
type ComparisonInput struct {
	Financing           Input
	SecondaryValueCents int64
	HaircutPercent      float64
	SaleMonth           int
	SaleCostsCents      int64
}

// Comparison holds both schedules and the winner.
//
// The buyer gives up the secondary property in both scenarios, so the
// out-of-pocket figures exclude its value: permuta pays only its
// installments, and the venda-posterior total is reduced by the net sale
// amount that funded the lump-sum amortization.
type Comparison struct {
	Permuta        Schedule
	VendaPosterior Schedule
	// PermutaOutOfPocketCents is the cash the permuta scenario takes
	// from the buyer over the whole schedule.
	PermutaOutOfPocketCents int64
	// VendaOutOfPocketCents is the venda-posterior cash cost after the
	// sale proceeds are credited back.
	VendaOutOfPocketCents int64
	// DeltaCents is the permuta out-of-pocket cost minus the
	// venda-posterior one. Negative means permuta costs less.
	DeltaCents int64
	Winner     string
}

const (
	WinnerPermuta        = "permuta"
	WinnerVendaPosterior = "venda_posterior"
)

// Compare runs both scenarios over the same financing terms.
func Compare(in ComparisonInput) (Comparison, error) {
	return CompareWithStrategy(in, nil)
}

// CompareWithStrategy runs both scenarios letting extra decide the monthly
// extra amortization, on top of the venda-posterior lump sum. A nil extra
// falls back to the fixed monthly extra from the financing input.
func CompareWithStrategy(in ComparisonInput, extra ExtraStrategy) (Comparison, error) {
	if err := in.Financing.validate(); err != nil {
		return Comparison{}, err
	}
	if in.SecondaryValueCents <= 0 {
		return Comparison{}, apperrors.New(apperrors.CodeSimInvalidPrincipal,
			"secondary property value must be positive")
	}
	if in.HaircutPercent < 0 || in.HaircutPercent >= 100 {
		return Comparison{}, apperrors.New(apperrors.CodeSimInvalidHaircut,
			"haircut must be between 0 and 100 percent")
	}
	if in.SaleMonth < 1 || in.SaleMonth > in.Financing.TermMonths {
		return Comparison{}, apperrors.New(apperrors.CodeSimInvalidSaleMonth,
			"sale month must fall within the financing term")
	}
	if extra == nil {
		extra = FixedExtra(in.Financing.ExtraMonthlyCents)
	}

	tradeIn := roundCents(float64(in.SecondaryValueCents) * (1 - in.HaircutPercent/100))
	permutaInput := in.Financing
	permutaInput.PrincipalCents -= tradeIn
	if permutaInput.PrincipalCents <= 0 {
		// Trade-in covers the whole purchase; nothing is financed.
		permutaInput.PrincipalCents = 0
	}

	var permuta Schedule
	if permutaInput.PrincipalCents > 0 {
		var err error
		permuta, err = SimulateWithStrategy(permutaInput, extra)
		if err != nil {
			return Comparison{}, err
		}
	}

	saleNet := in.SecondaryValueCents - in.SaleCostsCents
	if saleNet < 0 {
		saleNet = 0
	}
	vendaStrategy := multiStrategy{
		extra,
		LumpSum{Month: in.SaleMonth, Cents: saleNet},
	}
	venda, err := SimulateWithStrategy(in.Financing, vendaStrategy)
	if err != nil {
		return Comparison{}, err
	}

	comparison := Comparison{
		Permuta:                 permuta,
		VendaPosterior:          venda,
		PermutaOutOfPocketCents: permuta.TotalPaidCents,
		VendaOutOfPocketCents:   venda.TotalPaidCents - saleNet,
	}
	comparison.DeltaCents = comparison.PermutaOutOfPocketCents - comparison.VendaOutOfPocketCents
	if comparison.DeltaCents <= 0 {
		comparison.Winner = WinnerPermuta
	} else {
		comparison.Winner = WinnerVendaPosterior
	}
	return comparison, nil
}
