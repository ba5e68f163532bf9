// Package simulator serves the Casa SAC financing simulator.
package simulator

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
	sac "github.com/meusanuncios/anuncios/internal/services/simulator"
	"github.com/meusanuncios/anuncios/internal/services/web/module"
	"github.com/meusanuncios/anuncios/internal/services/web/platform/modulehandler"
	"github.com/meusanuncios/anuncios/internal/services/web/routepath"
	webtemplates "github.com/meusanuncios/anuncios/internal/services/web/templates"
)

// Module provides the public simulator routes.
type Module struct {
	base modulehandler.Base
}

// New returns a simulator module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "simulator" }

// Mount wires the simulator routes.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: m.base}
	mux.HandleFunc(http.MethodGet+" "+routepath.Simulator, h.handleForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Simulator, h.handleSimulate)
	mux.HandleFunc(http.MethodPost+" "+routepath.SimulatorCompare, h.handleCompare)
	return module.Mount{Prefix: routepath.Simulator + "/", Handler: mux}, nil
}

type handlers struct {
	modulehandler.Base
}

func (h handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	page := webtemplates.SimulatorPage(loc, lang, webtemplates.SimulatorForm{}, nil, webtemplates.CompareForm{}, nil)
	h.WritePage(w, r, webtemplates.T(loc, "sim.title"), http.StatusOK, page)
}

func (h handlers) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse simulator form", err))
		return
	}
	form := readSimulatorForm(r)
	input, err := form.toInput()
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	schedule, err := sac.Simulate(input)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, lang := h.PageLocalizer(w, r)
	page := webtemplates.SimulatorPage(loc, lang, form.view(), &schedule, webtemplates.CompareForm{}, nil)
	h.WritePage(w, r, webtemplates.T(loc, "sim.title"), http.StatusOK, page)
}

func (h handlers) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse comparison form", err))
		return
	}
	form := readSimulatorForm(r)
	input, err := form.toInput()
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	compareForm := readCompareForm(r)
	comparisonInput, err := compareForm.toInput(input)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	comparison, err := sac.Compare(comparisonInput)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, lang := h.PageLocalizer(w, r)
	page := webtemplates.SimulatorPage(loc, lang, form.view(), nil, compareForm.view(), &comparison)
	h.WritePage(w, r, webtemplates.T(loc, "sim.title"), http.StatusOK, page)
}

type simulatorForm struct {
	principal  string
	annualRate string
	termMonths string
	extra      string
	adminFee   string
	insurance  string
}

func readSimulatorForm(r *http.Request) simulatorForm {
	return simulatorForm{
		principal:  strings.TrimSpace(r.FormValue("principal")),
		annualRate: strings.TrimSpace(r.FormValue("annual_rate")),
		termMonths: strings.TrimSpace(r.FormValue("term_months")),
		extra:      strings.TrimSpace(r.FormValue("extra")),
		adminFee:   strings.TrimSpace(r.FormValue("admin_fee")),
		insurance:  strings.TrimSpace(r.FormValue("insurance")),
	}
}

func (f simulatorForm) view() webtemplates.SimulatorForm {
	return webtemplates.SimulatorForm{
		Principal:  f.principal,
		AnnualRate: f.annualRate,
		TermMonths: f.termMonths,
		Extra:      f.extra,
		AdminFee:   f.adminFee,
		Insurance:  f.insurance,
	}
}

func (f simulatorForm) toInput() (sac.Input, error) {
	principal, err := parseCents(f.principal)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "principal is not a valid amount")
	}
	rate, err := parseFloat(f.annualRate)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidRate, "annual rate is not a valid number")
	}
	term, err := parseInt(f.termMonths)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidTerm, "term is not a valid month count")
	}
	extra, err := parseCents(f.extra)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "extra amount is not valid")
	}
	adminFee, err := parseCents(f.adminFee)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "admin fee is not valid")
	}
	insurance, err := parseCents(f.insurance)
	if err != nil {
		return sac.Input{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "insurance is not valid")
	}
	return sac.Input{
		PrincipalCents:    principal,
		AnnualRatePercent: rate,
		TermMonths:        term,
		ExtraMonthlyCents: extra,
		AdminFeeCents:     adminFee,
		InsuranceCents:    insurance,
	}, nil
}

type compareForm struct {
	secondaryValue string
	haircut        string
	saleMonth      string
	saleCosts      string
}

func readCompareForm(r *http.Request) compareForm {
	return compareForm{
		secondaryValue: strings.TrimSpace(r.FormValue("secondary_value")),
		haircut:        strings.TrimSpace(r.FormValue("haircut")),
		saleMonth:      strings.TrimSpace(r.FormValue("sale_month")),
		saleCosts:      strings.TrimSpace(r.FormValue("sale_costs")),
	}
}

func (f compareForm) view() webtemplates.CompareForm {
	return webtemplates.CompareForm{
		SecondaryValue: f.secondaryValue,
		Haircut:        f.haircut,
		SaleMonth:      f.saleMonth,
		SaleCosts:      f.saleCosts,
	}
}

func (f compareForm) toInput(financing sac.Input) (sac.ComparisonInput, error) {
	secondary, err := parseCents(f.secondaryValue)
	if err != nil {
		return sac.ComparisonInput{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "secondary value is not valid")
	}
	haircut, err := parseFloat(f.haircut)
	if err != nil {
		return sac.ComparisonInput{}, apperrors.New(apperrors.CodeSimInvalidHaircut, "haircut is not a valid percentage")
	}
	saleMonth, err := parseInt(f.saleMonth)
	if err != nil {
		return sac.ComparisonInput{}, apperrors.New(apperrors.CodeSimInvalidSaleMonth, "sale month is not valid")
	}
	saleCosts, err := parseCents(f.saleCosts)
	if err != nil {
		return sac.ComparisonInput{}, apperrors.New(apperrors.CodeSimInvalidPrincipal, "sale costs are not valid")
	}
	return sac.ComparisonInput{
		Financing:           financing,
		SecondaryValueCents: secondary,
		HaircutPercent:      haircut,
		SaleMonth:           saleMonth,
		SaleCostsCents:      saleCosts,
	}, nil
}

// parseCents reads a decimal real amount ("350000.00" or "350000,00")
// into cents. Empty input is zero.
func parseCents(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	value = strings.ReplaceAll(value, ",", ".")
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(amount * 100)), nil
}

func parseFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
