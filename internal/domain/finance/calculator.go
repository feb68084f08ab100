package finance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Input entradas del cálculo financiero. Todos los montos deben llegar
// saneados (≥ 0, TaxPercent en [0,100]); la validación es responsabilidad
// del borde HTTP, no de este paquete.
type Input struct {
	Revenue decimal.Decimal
	COGS    decimal.Decimal
	Opex    decimal.Decimal
	// FixedCosts bloque de costos fijos para el punto de equilibrio.
	// Si es cero, Opex hace de bloque fijo.
	FixedCosts decimal.Decimal
	// VariableCosts costos variables; nil = usar COGS como variable.
	VariableCosts *decimal.Decimal
	TaxPercent    decimal.Decimal
}

// Summary resultado del cálculo. Los valores conservan la precisión completa;
// el redondeo a 2 decimales (half-up) ocurre solo al serializar.
// BreakEvenRevenue es nil cuando el margen de contribución no es positivo:
// un negocio sin margen no tiene punto de equilibrio finito.
type Summary struct {
	Revenue          decimal.Decimal
	COGS             decimal.Decimal
	GrossProfit      decimal.Decimal
	GrossMarginPct   decimal.Decimal
	Opex             decimal.Decimal
	EBIT             decimal.Decimal
	TaxesPercent     decimal.Decimal
	Taxes            decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetProfit        decimal.Decimal
	NetMarginPct     decimal.Decimal
	FixedCosts       decimal.Decimal
	VariableCosts    decimal.Decimal
	BreakEvenRevenue *decimal.Decimal
}

// Calculate deriva todos los indicadores financieros a partir de las entradas.
// Función pura: sin reloj, sin aleatoriedad, sin I/O; entradas iguales
// producen siempre el mismo resultado.
//
//  1. gross_profit = revenue - cogs
//  2. gross_margin_pct = gross_profit / revenue * 100 (0 si revenue = 0)
//  3. ebit = gross_profit - opex
//  4. taxes = ebit * tax_percent / 100 solo si ebit > 0 (sin devolución
//     de impuestos sobre pérdidas)
//  5. net_profit = ebit - taxes
//  6. net_margin_pct = net_profit / revenue * 100 (0 si revenue = 0)
//  7. total_expenses = cogs + opex + taxes
//  8. break_even = bloque_fijo / ((revenue - variables) / revenue)
func Calculate(in Input) Summary {
	s := Summary{
		Revenue:      in.Revenue,
		COGS:         in.COGS,
		Opex:         in.Opex,
		TaxesPercent: in.TaxPercent,
		FixedCosts:   in.FixedCosts,
	}

	s.GrossProfit = in.Revenue.Sub(in.COGS)
	if in.Revenue.IsPositive() {
		s.GrossMarginPct = s.GrossProfit.Div(in.Revenue).Mul(hundred)
	}

	s.EBIT = s.GrossProfit.Sub(in.Opex)
	if s.EBIT.IsPositive() {
		s.Taxes = s.EBIT.Mul(in.TaxPercent).Div(hundred)
	}

	s.NetProfit = s.EBIT.Sub(s.Taxes)
	if in.Revenue.IsPositive() {
		s.NetMarginPct = s.NetProfit.Div(in.Revenue).Mul(hundred)
	}

	s.TotalExpenses = in.COGS.Add(in.Opex).Add(s.Taxes)

	variable := in.COGS
	if in.VariableCosts != nil {
		variable = *in.VariableCosts
	}
	s.VariableCosts = variable

	s.BreakEvenRevenue = breakEven(in.Revenue, variable, in.FixedCosts, in.Opex)
	return s
}

// breakEven calcula el nivel de ingresos donde la contribución cubre el bloque
// de costos fijos, asumiendo que la estructura de costos escala con revenue.
// Nil cuando revenue = 0 o el margen de contribución no es positivo.
func breakEven(revenue, variable, fixedCosts, opex decimal.Decimal) *decimal.Decimal {
	if !revenue.IsPositive() {
		return nil
	}
	contribution := revenue.Sub(variable)
	if !contribution.IsPositive() {
		return nil
	}
	fixedBlock := fixedCosts
	if fixedBlock.IsZero() {
		fixedBlock = opex
	}
	ratio := contribution.Div(revenue)
	be := fixedBlock.Div(ratio)
	return &be
}
