package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/meusanuncios/anuncios/internal/platform/i18n/money"
	"github.com/meusanuncios/anuncios/internal/services/simulator"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
)

// SimulatorForm holds submitted values so the form can be re-rendered.
type SimulatorForm struct {
	Principal  string
	AnnualRate string
	TermMonths string
	Extra      string
	AdminFee   string
	Insurance  string
}

// CompareForm holds the comparison-specific inputs.
type CompareForm struct {
	SecondaryValue string
	Haircut        string
	SaleMonth      string
	SaleCosts      string
}

// SimulatorPage renders the SAC form, an optional schedule and the
// scenario comparison block.
func SimulatorPage(loc Localizer, locale string, form SimulatorForm, schedule *simulator.Schedule, compareForm CompareForm, comparison *simulator.Comparison) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<section><h1>")
		h.text(T(loc, "sim.title"))
		h.raw("</h1>")
		if err := simulatorInputs(loc, form).Render(ctx, w); err != nil {
			return err
		}
		if schedule != nil {
			if err := ScheduleTable(loc, locale, *schedule).Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw("<h2>")
		h.text(T(loc, "sim.compare.title"))
		h.raw("</h2>")
		if err := compareInputs(loc, form, compareForm).Render(ctx, w); err != nil {
			return err
		}
		if comparison != nil {
			if err := ComparisonResult(loc, locale, *comparison).Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw("</section>")
		return h.err
	})
}

func simulatorInputs(loc Localizer, form SimulatorForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<form method="post" action="`)
		h.text(routepath.Simulator)
		h.raw(`" class="sim-form">`)
		simField(h, loc, "sim.principal", "principal", form.Principal, "0.01")
		simField(h, loc, "sim.annual_rate", "annual_rate", form.AnnualRate, "0.01")
		simField(h, loc, "sim.term_months", "term_months", form.TermMonths, "1")
		simField(h, loc, "sim.extra", "extra", form.Extra, "0.01")
		simField(h, loc, "sim.admin_fee", "admin_fee", form.AdminFee, "0.01")
		simField(h, loc, "sim.insurance", "insurance", form.Insurance, "0.01")
		h.raw(`<button type="submit">`)
		h.text(T(loc, "sim.calculate"))
		h.raw("</button></form>")
		return h.err
	})
}

func compareInputs(loc Localizer, form SimulatorForm, compareForm CompareForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<form method="post" action="`)
		h.text(routepath.SimulatorCompare)
		h.raw(`" class="sim-form">`)
		for _, hidden := range []struct{ name, value string }{
			{"principal", form.Principal},
			{"annual_rate", form.AnnualRate},
			{"term_months", form.TermMonths},
			{"extra", form.Extra},
			{"admin_fee", form.AdminFee},
			{"insurance", form.Insurance},
		} {
			h.raw(`<input type="hidden" name="`)
			h.text(hidden.name)
			h.raw(`"`)
			h.attr("value", hidden.value)
			h.raw(">")
		}
		simField(h, loc, "sim.compare.secondary_value", "secondary_value", compareForm.SecondaryValue, "0.01")
		simField(h, loc, "sim.compare.haircut", "haircut", compareForm.Haircut, "0.01")
		simField(h, loc, "sim.compare.sale_month", "sale_month", compareForm.SaleMonth, "1")
		simField(h, loc, "sim.compare.sale_costs", "sale_costs", compareForm.SaleCosts, "0.01")
		h.raw(`<button type="submit">`)
		h.text(T(loc, "sim.compare.run"))
		h.raw("</button></form>")
		return h.err
	})
}

func simField(h *html, loc Localizer, key, name, value, step string) {
	h.raw(`<label for="sim-`)
	h.text(name)
	h.raw(`">`)
	h.text(T(loc, key))
	h.raw(`</label><input type="number" id="sim-`)
	h.text(name)
	h.raw(`" name="`)
	h.text(name)
	h.raw(`" step="`)
	h.text(step)
	h.raw(`" min="0"`)
	h.attr("value", value)
	h.raw(">")
}

// ScheduleTable renders one amortization schedule with totals.
func ScheduleTable(loc Localizer, locale string, schedule simulator.Schedule) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="sim-result"><p class="sim-totals">`)
		h.text(T(loc, "sim.total_paid"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, schedule.TotalPaidCents))
		h.raw(" · ")
		h.text(T(loc, "sim.total_interest"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, schedule.TotalInterestCents))
		h.raw(" · ")
		h.text(T(loc, "sim.payoff_month", schedule.PayoffMonth))
		h.raw(`</p><table class="schedule"><thead><tr><th>`)
		h.text(T(loc, "sim.month"))
		h.raw("</th><th>")
		h.text(T(loc, "sim.installment"))
		h.raw("</th><th>")
		h.text(T(loc, "sim.amortization"))
		h.raw("</th><th>")
		h.text(T(loc, "sim.interest"))
		h.raw("</th><th>")
		h.text(T(loc, "sim.fees"))
		h.raw("</th><th>")
		h.text(T(loc, "sim.balance"))
		h.raw("</th></tr></thead><tbody>")
		for _, row := range schedule.Rows {
			h.raw("<tr><td>")
			h.text(strconv.Itoa(row.Month))
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, row.InstallmentCents+row.ExtraCents))
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, row.AmortizationCents+row.ExtraCents))
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, row.InterestCents))
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, row.FeesCents))
			h.raw("</td><td>")
			h.text(money.FormatBRL(locale, row.BalanceCents))
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table></div>")
		return h.err
	})
}

// ComparisonResult summarizes both scenarios and names the cheaper one.
func ComparisonResult(loc Localizer, locale string, comparison simulator.Comparison) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		winner := T(loc, "sim.compare.permuta")
		if comparison.Winner == simulator.WinnerVendaPosterior {
			winner = T(loc, "sim.compare.venda")
		}
		delta := comparison.DeltaCents
		if delta < 0 {
			delta = -delta
		}
		h.raw(`<div class="compare-result"><p class="compare-winner">`)
		h.text(T(loc, "sim.compare.delta", winner))
		h.raw(": ")
		h.text(money.FormatBRL(locale, delta))
		h.raw(`</p><div class="compare-grid"><div><h3>`)
		h.text(T(loc, "sim.compare.permuta"))
		h.raw("</h3><p>")
		h.text(T(loc, "sim.total_paid"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, comparison.Permuta.TotalPaidCents))
		h.raw("</p><p>")
		h.text(T(loc, "sim.compare.out_of_pocket"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, comparison.PermutaOutOfPocketCents))
		h.raw("</p></div><div><h3>")
		h.text(T(loc, "sim.compare.venda"))
		h.raw("</h3><p>")
		h.text(T(loc, "sim.total_paid"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, comparison.VendaPosterior.TotalPaidCents))
		h.raw("</p><p>")
		h.text(T(loc, "sim.compare.out_of_pocket"))
		h.raw(": ")
		h.text(money.FormatBRL(locale, comparison.VendaOutOfPocketCents))
		h.raw("</p></div></div></div>")
		return h.err
	})
}
