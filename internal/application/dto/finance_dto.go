package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/domain/finance"
)

// FinanceDashboardQuery parámetros del resumen financiero. Los overrides
// manuales (opex, fixed, variable, tax_percent) se suman o reemplazan a los
// agregados de la DB según la semántica de cada campo.
type FinanceDashboardQuery struct {
	Start      *time.Time       `query:"start"`
	End        *time.Time       `query:"end"`
	Opex       *decimal.Decimal `query:"opex"`
	Fixed      *decimal.Decimal `query:"fixed"`
	Variable   *decimal.Decimal `query:"variable"`
	TaxPercent *decimal.Decimal `query:"tax_percent"`
}

// FinanceSummaryResponse resumen financiero. Todos los montos y porcentajes
// viajan como strings con 2 decimales fijos (half-up); break_even_revenue es
// null cuando no existe punto de equilibrio finito.
type FinanceSummaryResponse struct {
	Revenue          string  `json:"revenue"`
	COGS             string  `json:"cogs"`
	GrossProfit      string  `json:"gross_profit"`
	GrossMarginPct   string  `json:"gross_margin_pct"`
	Opex             string  `json:"opex"`
	EBIT             string  `json:"ebit"`
	TaxesPercent     string  `json:"taxes_percent"`
	Taxes            string  `json:"taxes"`
	TotalExpenses    string  `json:"total_expenses"`
	NetProfit        string  `json:"net_profit"`
	NetMarginPct     string  `json:"net_margin_pct"`
	FixedCosts       string  `json:"fixed_costs"`
	VariableCosts    string  `json:"variable_costs"`
	BreakEvenRevenue *string `json:"break_even_revenue"`
	Currency         string  `json:"currency"`
	PeriodStart      *string `json:"period_start,omitempty"`
	PeriodEnd        *string `json:"period_end,omitempty"`
	DealCount        int     `json:"deal_count"`
}

// NewFinanceSummaryResponse serializa el resumen del dominio al contrato HTTP:
// aquí y solo aquí se redondea a 2 decimales.
func NewFinanceSummaryResponse(s finance.Summary, currency string, dealCount int) FinanceSummaryResponse {
	resp := FinanceSummaryResponse{
		Revenue:        s.Revenue.StringFixed(2),
		COGS:           s.COGS.StringFixed(2),
		GrossProfit:    s.GrossProfit.StringFixed(2),
		GrossMarginPct: s.GrossMarginPct.StringFixed(2),
		Opex:           s.Opex.StringFixed(2),
		EBIT:           s.EBIT.StringFixed(2),
		TaxesPercent:   s.TaxesPercent.StringFixed(2),
		Taxes:          s.Taxes.StringFixed(2),
		TotalExpenses:  s.TotalExpenses.StringFixed(2),
		NetProfit:      s.NetProfit.StringFixed(2),
		NetMarginPct:   s.NetMarginPct.StringFixed(2),
		FixedCosts:     s.FixedCosts.StringFixed(2),
		VariableCosts:  s.VariableCosts.StringFixed(2),
		Currency:       currency,
		DealCount:      dealCount,
	}
	if s.BreakEvenRevenue != nil {
		be := s.BreakEvenRevenue.StringFixed(2)
		resp.BreakEvenRevenue = &be
	}
	return resp
}
