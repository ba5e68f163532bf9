// Package simulator computes SAC mortgage amortization schedules and
// compares financing scenarios for the Casa simulator.
package simulator

import (
	"math"
	"strconv"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// MaxTermMonths is the longest financing term accepted (35 years).
const MaxTermMonths = 420

// Input describes one SAC financing simulation.
type Input struct {
	PrincipalCents    int64
	AnnualRatePercent float64
	TermMonths        int
	ExtraMonthlyCents int64
	AdminFeeCents     int64
	InsuranceCents    int64
}

// Row is one month of an amortization schedule. InstallmentCents is the
// contractual payment (amortization + interest + fees); ExtraCents is paid
// on top of it.
type Row struct {
	Month             int
	InstallmentCents  int64
	AmortizationCents int64
	InterestCents     int64
	FeesCents         int64
	ExtraCents        int64
	BalanceCents      int64
}

// Schedule is a complete amortization run.
type Schedule struct {
	Rows               []Row
	TotalPaidCents     int64
	TotalInterestCents int64
	TotalFeesCents     int64
	PayoffMonth        int
}

// ExtraStrategy computes the extra amortization applied in a given month.
// Returning zero means no extra payment that month.
type ExtraStrategy interface {
	ExtraFor(month int, balanceCents, installmentCents int64) (int64, error)
}

// FixedExtra pays the same extra amount every month.
type FixedExtra int64

func (f FixedExtra) ExtraFor(int, int64, int64) (int64, error) {
	return int64(f), nil
}

// LumpSum pays a single extra amount at one month.
type LumpSum struct {
	Month int
	Cents int64
}

func (l LumpSum) ExtraFor(month int, _, _ int64) (int64, error) {
	if month == l.Month {
		return l.Cents, nil
	}
	return 0, nil
}

func (in Input) validate() error {
	if in.PrincipalCents <= 0 {
		return apperrors.New(apperrors.CodeSimInvalidPrincipal, "principal must be positive")
	}
	if in.AnnualRatePercent < 0 {
		return apperrors.New(apperrors.CodeSimInvalidRate, "annual rate must not be negative")
	}
	if in.TermMonths < 1 || in.TermMonths > MaxTermMonths {
		return apperrors.WithMetadata(apperrors.CodeSimInvalidTerm,
			"term must be between 1 and 420 months",
			map[string]string{"term_months": strconv.Itoa(in.TermMonths)})
	}
	if in.ExtraMonthlyCents < 0 || in.AdminFeeCents < 0 || in.InsuranceCents < 0 {
		return apperrors.New(apperrors.CodeSimInvalidPrincipal, "monthly amounts must not be negative")
	}
	return nil
}

// monthlyRate converts an annual effective percentage to a monthly
// effective rate.
func monthlyRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12) - 1
}

func roundCents(value float64) int64 {
	return int64(math.Round(value))
}
