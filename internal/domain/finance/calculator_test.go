package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/domain/finance"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func dp(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	v := d(t, s)
	return &v
}

// fixed2 formatea como lo hace la capa HTTP: 2 decimales, half-up.
func fixed2(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios exactos (sin drift decimal)
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: revenue 150000, cogs 90000, opex 10000, tax 10%.
// Todos los resultados deben ser exactos, sin error de redondeo binario.
func TestCalculate_EscenarioExacto(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:    d(t, "150000.00"),
		COGS:       d(t, "90000.00"),
		Opex:       d(t, "10000.00"),
		TaxPercent: d(t, "10"),
	})

	assert.Equal(t, "60000.00", fixed2(s.GrossProfit), "gross_profit = revenue - cogs")
	assert.Equal(t, "40.00", fixed2(s.GrossMarginPct), "gross_margin_pct")
	assert.Equal(t, "50000.00", fixed2(s.EBIT), "ebit = gross_profit - opex")
	assert.Equal(t, "5000.00", fixed2(s.Taxes), "taxes = 10% de ebit")
	assert.Equal(t, "45000.00", fixed2(s.NetProfit), "net_profit = ebit - taxes")
	assert.Equal(t, "30.00", fixed2(s.NetMarginPct), "net_margin_pct")
	assert.Equal(t, "105000.00", fixed2(s.TotalExpenses), "total_expenses = cogs + opex + taxes")
}

// Mismo cálculo dos veces → mismo resultado (función pura, sin estado).
func TestCalculate_Deterministico(t *testing.T) {
	in := finance.Input{
		Revenue:    d(t, "1000000.00"),
		COGS:       d(t, "600000.00"),
		Opex:       d(t, "150000.00"),
		TaxPercent: d(t, "10.00"),
	}
	a := finance.Calculate(in)
	b := finance.Calculate(in)
	assert.True(t, a.NetProfit.Equal(b.NetProfit))
	assert.True(t, a.TotalExpenses.Equal(b.TotalExpenses))
	require.NotNil(t, a.BreakEvenRevenue)
	require.NotNil(t, b.BreakEvenRevenue)
	assert.True(t, a.BreakEvenRevenue.Equal(*b.BreakEvenRevenue))
}

// ──────────────────────────────────────────────────────────────────────────────
// Revenue cero: nunca divide por cero, márgenes en 0
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_RevenueCero_MargenesEnCero(t *testing.T) {
	cases := []struct {
		name            string
		cogs, opex, tax string
	}{
		{"todo en cero", "0", "0", "0"},
		{"con cogs y opex", "5000.00", "10000.00", "10"},
		{"tax maximo", "0", "999.99", "100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := finance.Calculate(finance.Input{
				Revenue:    decimal.Zero,
				COGS:       d(t, tc.cogs),
				Opex:       d(t, tc.opex),
				TaxPercent: d(t, tc.tax),
			})
			assert.True(t, s.GrossMarginPct.IsZero(), "gross_margin_pct debe ser 0 con revenue 0")
			assert.True(t, s.NetMarginPct.IsZero(), "net_margin_pct debe ser 0 con revenue 0")
			assert.Nil(t, s.BreakEvenRevenue, "sin revenue no hay punto de equilibrio")
		})
	}
}

// Tenant sin datos en el rango: el resumen sale completo y en ceros.
func TestCalculate_SinDatos_ResumenCompleto(t *testing.T) {
	s := finance.Calculate(finance.Input{})
	assert.Equal(t, "0.00", fixed2(s.Revenue))
	assert.Equal(t, "0.00", fixed2(s.COGS))
	assert.Equal(t, "0.00", fixed2(s.GrossProfit))
	assert.Equal(t, "0.00", fixed2(s.EBIT))
	assert.Equal(t, "0.00", fixed2(s.Taxes))
	assert.Equal(t, "0.00", fixed2(s.NetProfit))
	assert.Equal(t, "0.00", fixed2(s.TotalExpenses))
	assert.Nil(t, s.BreakEvenRevenue)
}

// ──────────────────────────────────────────────────────────────────────────────
// Impuestos: nunca sobre EBIT no positivo
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_EBITNegativo_SinImpuestos(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:    d(t, "100000.00"),
		COGS:       d(t, "80000.00"),
		Opex:       d(t, "50000.00"), // ebit = -30000
		TaxPercent: d(t, "10.00"),
	})
	assert.True(t, s.EBIT.IsNegative(), "ebit debe ser negativo")
	assert.True(t, s.Taxes.IsZero(), "no se aplican impuestos sobre pérdidas")
	assert.True(t, s.NetProfit.Equal(s.EBIT), "con taxes=0, net_profit = ebit")
}

func TestCalculate_EBITCero_SinImpuestos(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:    d(t, "100000.00"),
		COGS:       d(t, "60000.00"),
		Opex:       d(t, "40000.00"), // ebit = 0 exacto
		TaxPercent: d(t, "99.99"),
	})
	assert.True(t, s.EBIT.IsZero())
	assert.True(t, s.Taxes.IsZero(), "ebit = 0 tampoco tributa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad aditiva: total_expenses = cogs + opex + taxes, exacto
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_TotalExpenses_IdentidadExacta(t *testing.T) {
	cases := []finance.Input{
		{Revenue: decimal.NewFromInt(150000), COGS: decimal.NewFromInt(90000), Opex: decimal.NewFromInt(10000), TaxPercent: decimal.NewFromInt(10)},
		{Revenue: decimal.NewFromInt(100), COGS: decimal.NewFromInt(200), Opex: decimal.NewFromInt(50), TaxPercent: decimal.NewFromInt(20)},
		{Revenue: decimal.RequireFromString("999999.99"), COGS: decimal.RequireFromString("333333.33"), Opex: decimal.RequireFromString("111111.11"), TaxPercent: decimal.RequireFromString("17.5")},
	}
	for _, in := range cases {
		s := finance.Calculate(in)
		want := in.COGS.Add(in.Opex).Add(s.Taxes)
		assert.True(t, s.TotalExpenses.Equal(want),
			"total_expenses debe ser exactamente cogs+opex+taxes (got %s, want %s)", s.TotalExpenses, want)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Punto de equilibrio
// ──────────────────────────────────────────────────────────────────────────────

// Margen bruto cero (revenue = cogs) → break-even ausente, no error.
func TestCalculate_MargenCero_SinPuntoEquilibrio(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:    d(t, "50000.00"),
		COGS:       d(t, "50000.00"),
		Opex:       d(t, "1000.00"),
		TaxPercent: d(t, "10"),
	})
	assert.Nil(t, s.BreakEvenRevenue, "sin margen de contribución no hay equilibrio finito")
}

// Margen negativo (cogs > revenue) → también ausente.
func TestCalculate_MargenNegativo_SinPuntoEquilibrio(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue: d(t, "100.00"),
		COGS:    d(t, "150.00"),
		Opex:    d(t, "10.00"),
	})
	assert.Nil(t, s.BreakEvenRevenue)
}

// Forma simple: sin costos fijos/variables explícitos, el COGS hace de costo
// variable y el OPEX de bloque fijo.
func TestCalculate_PuntoEquilibrio_FormaSimple(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:    d(t, "2400000.00"),
		COGS:       d(t, "1700000.00"),
		Opex:       d(t, "500000.00"),
		TaxPercent: d(t, "10"),
	})
	// ratio de contribución = 700000/2400000; 500000 / ratio = 1714285.71...
	require.NotNil(t, s.BreakEvenRevenue)
	assert.Equal(t, "1714285.71", fixed2(*s.BreakEvenRevenue))
}

// Ejemplo documentado de la API: fixed 500000 y variable 150000 explícitos
// sobre el mismo período → 533333.33.
func TestCalculate_PuntoEquilibrio_EjemploDocumentado(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:       d(t, "2400000.00"),
		COGS:          d(t, "1700000.00"),
		Opex:          d(t, "500000.00"),
		FixedCosts:    d(t, "500000.00"),
		VariableCosts: dp(t, "150000.00"),
		TaxPercent:    d(t, "10"),
	})
	// contribución = 2400000-150000 = 2250000; ratio = 0.9375
	// break_even = 500000 / 0.9375 = 533333.33
	require.NotNil(t, s.BreakEvenRevenue)
	assert.Equal(t, "533333.33", fixed2(*s.BreakEvenRevenue))
}

// Caso clásico de libro: fixed 100000, variable 300000, revenue 500000.
func TestCalculate_PuntoEquilibrio_CasoClasico(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue:       d(t, "500000.00"),
		COGS:          d(t, "300000.00"),
		Opex:          d(t, "50000.00"),
		FixedCosts:    d(t, "100000.00"),
		VariableCosts: dp(t, "300000.00"),
	})
	// contribución = 200000; ratio = 0.4; break_even = 100000/0.4 = 250000
	require.NotNil(t, s.BreakEvenRevenue)
	assert.Equal(t, "250000.00", fixed2(*s.BreakEvenRevenue))
}

// ──────────────────────────────────────────────────────────────────────────────
// Variables informativos
// ──────────────────────────────────────────────────────────────────────────────

// Sin override, variable_costs reporta el COGS.
func TestCalculate_VariableCosts_DefaultCOGS(t *testing.T) {
	s := finance.Calculate(finance.Input{
		Revenue: d(t, "1000.00"),
		COGS:    d(t, "400.00"),
	})
	assert.Equal(t, "400.00", fixed2(s.VariableCosts))
}

// El override de variable_costs no altera EBIT ni net_profit.
func TestCalculate_VariableCosts_NoAfectaEBIT(t *testing.T) {
	base := finance.Calculate(finance.Input{
		Revenue: d(t, "1000.00"),
		COGS:    d(t, "400.00"),
		Opex:    d(t, "100.00"),
	})
	conVariable := finance.Calculate(finance.Input{
		Revenue:       d(t, "1000.00"),
		COGS:          d(t, "400.00"),
		Opex:          d(t, "100.00"),
		VariableCosts: dp(t, "999.00"),
	})
	assert.True(t, base.EBIT.Equal(conVariable.EBIT), "variable_costs es informativo para EBIT")
	assert.True(t, base.NetProfit.Equal(conVariable.NetProfit))
}
