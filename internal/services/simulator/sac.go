package simulator

// Simulate runs a SAC schedule for the input. Amortization is re-derived
// from the remaining balance each month, so extra payments shorten the
// term instead of lowering the base amortization.
func Simulate(in Input) (Schedule, error) {
	return SimulateWithStrategy(in, nil)
}

// SimulateWithStrategy runs a SAC schedule letting strategy decide the
// extra amortization each month. A nil strategy falls back to the fixed
// monthly extra from the input.
func SimulateWithStrategy(in Input, strategy ExtraStrategy) (Schedule, error) {
	if err := in.validate(); err != nil {
		return Schedule{}, err
	}
	if strategy == nil {
		strategy = FixedExtra(in.ExtraMonthlyCents)
	}

	rate := monthlyRate(in.AnnualRatePercent)
	balance := in.PrincipalCents
	schedule := Schedule{Rows: make([]Row, 0, in.TermMonths)}

	for month := 1; month <= in.TermMonths && balance > 0; month++ {
		remaining := int64(in.TermMonths - month + 1)
		amortization := (balance + remaining/2) / remaining
		if amortization > balance || month == in.TermMonths {
			amortization = balance
		}
		interest := roundCents(float64(balance) * rate)
		fees := in.AdminFeeCents + in.InsuranceCents
		installment := amortization + interest + fees

		extra, err := strategy.ExtraFor(month, balance, installment)
		if err != nil {
			return Schedule{}, err
		}
		if extra < 0 {
			extra = 0
		}
		if extra > balance-amortization {
			extra = balance - amortization
		}

		balance -= amortization + extra
		row := Row{
			Month:             month,
			InstallmentCents:  installment,
			AmortizationCents: amortization,
			InterestCents:     interest,
			FeesCents:         fees,
			ExtraCents:        extra,
			BalanceCents:      balance,
		}
		schedule.Rows = append(schedule.Rows, row)
		schedule.TotalPaidCents += installment + extra
		schedule.TotalInterestCents += interest
		schedule.TotalFeesCents += fees
		schedule.PayoffMonth = month
	}

	return schedule, nil
}

// multiStrategy combines strategies by summing their extras.
type multiStrategy []ExtraStrategy

func (m multiStrategy) ExtraFor(month int, balance, installment int64) (int64, error) {
	var total int64
	for _, s := range m {
		extra, err := s.ExtraFor(month, balance, installment)
		if err != nil {
			return 0, err
		}
		total += extra
	}
	return total, nil
}
