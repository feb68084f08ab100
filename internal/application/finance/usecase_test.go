package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/application/dto"
	appfinance "github.com/bizio/bizio-api/internal/application/finance"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeFinanceRepo struct {
	deals          repository.DealAggregates
	expenses       repository.ExpenseTotals
	settings       *entity.FinancialSettings
	aggregateCalls int
}

func (f *fakeFinanceRepo) AggregateDeals(_ context.Context, _ string, _, _ time.Time) (repository.DealAggregates, error) {
	f.aggregateCalls++
	return f.deals, nil
}

func (f *fakeFinanceRepo) AggregateExpenses(_ context.Context, _ string, _, _ time.Time) (repository.ExpenseTotals, error) {
	return f.expenses, nil
}

func (f *fakeFinanceRepo) GetSettings(_ context.Context, _ string) (*entity.FinancialSettings, error) {
	if f.settings == nil {
		return nil, domain.ErrNotFound
	}
	return f.settings, nil
}

func (f *fakeFinanceRepo) UpsertSettings(_ context.Context, s *entity.FinancialSettings) error {
	f.settings = s
	return nil
}

type fakeTenantRepo struct {
	tenant *entity.Tenant
}

func (f *fakeTenantRepo) Create(*entity.Tenant) error { return nil }
func (f *fakeTenantRepo) GetByID(string) (*entity.Tenant, error) {
	if f.tenant == nil {
		return nil, domain.ErrNotFound
	}
	return f.tenant, nil
}
func (f *fakeTenantRepo) GetByCode(string) (*entity.Tenant, error) { return f.GetByID("") }
func (f *fakeTenantRepo) Update(*entity.Tenant) error              { return nil }
func (f *fakeTenantRepo) List(int, int) ([]*entity.Tenant, error)  { return nil, nil }

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := f.data[key]
	return v, ok
}
func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) {
	f.data[key] = value
}
func (f *fakeCache) Delete(_ context.Context, key string) { delete(f.data, key) }
func (f *fakeCache) TryLock(_ context.Context, _ string, _ time.Duration) bool {
	return true
}
func (f *fakeCache) Unlock(_ context.Context, _ string) {}

type fakePDFGenerator struct{}

func (fakePDFGenerator) GenerateSummaryPDF(_ string, _ dto.FinanceSummaryResponse) ([]byte, error) {
	return []byte("%PDF-1.7 fake"), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func buildUseCase(repo *fakeFinanceRepo, tenantRepo *fakeTenantRepo) *appfinance.FinanceUseCase {
	return appfinance.NewFinanceUseCase(repo, tenantRepo, newFakeCache(), fakePDFGenerator{})
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_ResumenBasico(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{
			Revenue:   dec("1000"),
			COGS:      dec("400"),
			DealCount: 2,
		},
		expenses: repository.ExpenseTotals{
			Fixed:    dec("100"),
			Variable: dec("50"),
			Total:    dec("150"),
		},
		settings: &entity.FinancialSettings{
			TaxRate:  dec("10"),
			Currency: "KZT",
		},
	}
	uc := buildUseCase(repo, &fakeTenantRepo{})

	resp, err := uc.Dashboard(context.Background(), "t1", dto.FinanceDashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, "1000.00", resp.Revenue)
	assert.Equal(t, "400.00", resp.COGS)
	assert.Equal(t, "600.00", resp.GrossProfit)
	assert.Equal(t, "60.00", resp.GrossMarginPct)
	assert.Equal(t, "150.00", resp.Opex, "opex debe salir del total de gastos")
	assert.Equal(t, "450.00", resp.EBIT)
	assert.Equal(t, "45.00", resp.Taxes, "10% sobre EBIT positivo")
	assert.Equal(t, "595.00", resp.TotalExpenses, "cogs + opex + taxes")
	assert.Equal(t, "405.00", resp.NetProfit)
	assert.Equal(t, "40.50", resp.NetMarginPct)
	assert.Equal(t, "100.00", resp.FixedCosts)
	assert.Equal(t, "450.00", resp.VariableCosts, "variables = COGS + gastos variables del período")
	require.NotNil(t, resp.BreakEvenRevenue)
	// 100 / ((1000-450)/1000) = 181.818...
	assert.Equal(t, "181.82", *resp.BreakEvenRevenue)
	assert.Equal(t, "KZT", resp.Currency)
	assert.Equal(t, 2, resp.DealCount)
	require.NotNil(t, resp.PeriodStart)
	require.NotNil(t, resp.PeriodEnd)
}

// Los overrides de opex y fixed SUMAN sobre los totales de gastos;
// variable y tax_percent REEMPLAZAN el valor derivado.
func TestDashboard_OverridesSumanYReemplazan(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{
			Revenue:   dec("1000"),
			COGS:      dec("400"),
			DealCount: 1,
		},
		expenses: repository.ExpenseTotals{
			Fixed:    dec("100"),
			Variable: dec("50"),
			Total:    dec("150"),
		},
		settings: &entity.FinancialSettings{TaxRate: dec("10"), Currency: "KZT"},
	}
	uc := buildUseCase(repo, &fakeTenantRepo{})

	resp, err := uc.Dashboard(context.Background(), "t1", dto.FinanceDashboardQuery{
		Opex:       decPtr("50"),
		Fixed:      decPtr("25"),
		Variable:   decPtr("30"),
		TaxPercent: decPtr("0"),
	})
	require.NoError(t, err)

	assert.Equal(t, "200.00", resp.Opex, "opex override suma: 150 + 50")
	assert.Equal(t, "125.00", resp.FixedCosts, "fixed override suma: 100 + 25")
	assert.Equal(t, "30.00", resp.VariableCosts, "variable override reemplaza la suma COGS+variables")
	assert.Equal(t, "0.00", resp.TaxesPercent, "tax_percent override reemplaza al de settings")
	assert.Equal(t, "0.00", resp.Taxes)
	assert.Equal(t, "400.00", resp.EBIT, "600 - 200")
	assert.Equal(t, "400.00", resp.NetProfit)
	require.NotNil(t, resp.BreakEvenRevenue)
	// 125 / ((1000-30)/1000) = 128.865...
	assert.Equal(t, "128.87", *resp.BreakEvenRevenue)
}

// Sin margen de contribución no hay punto de equilibrio finito.
func TestDashboard_SinMargen_BreakEvenNull(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{
			Revenue:   dec("100"),
			COGS:      dec("150"),
			DealCount: 1,
		},
		// sin settings: la moneda cae al tenant
	}
	uc := buildUseCase(repo, &fakeTenantRepo{tenant: &entity.Tenant{Currency: "RUB"}})

	resp, err := uc.Dashboard(context.Background(), "t1", dto.FinanceDashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, "-50.00", resp.GrossProfit)
	assert.Nil(t, resp.BreakEvenRevenue, "COGS > revenue → break-even null")
	assert.Equal(t, "0.00", resp.Taxes, "sin impuestos sobre pérdidas")
	assert.Equal(t, "RUB", resp.Currency, "sin settings la moneda viene del tenant")
}

func TestDashboard_SegundaLlamadaUsaCache(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{Revenue: dec("500"), COGS: dec("200"), DealCount: 1},
	}
	uc := buildUseCase(repo, &fakeTenantRepo{})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	q := dto.FinanceDashboardQuery{Start: &start, End: &end}

	first, err := uc.Dashboard(context.Background(), "t1", q)
	require.NoError(t, err)
	second, err := uc.Dashboard(context.Background(), "t1", q)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.aggregateCalls, "la segunda llamada debe salir del cache")
	assert.Equal(t, first.Revenue, second.Revenue)
	assert.Equal(t, first.NetProfit, second.NetProfit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Monthly / Period / ReportPDF
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthly_MesInvalido_RetornaError(t *testing.T) {
	uc := buildUseCase(&fakeFinanceRepo{}, &fakeTenantRepo{})

	_, err := uc.Monthly(context.Background(), "t1", 2026, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Monthly(context.Background(), "t1", 2026, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthly_MesValido(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{Revenue: dec("300"), DealCount: 1},
	}
	uc := buildUseCase(repo, &fakeTenantRepo{})

	resp, err := uc.Monthly(context.Background(), "t1", 2026, 3)
	require.NoError(t, err)

	require.NotNil(t, resp.PeriodStart)
	assert.Equal(t, "2026-03-01", *resp.PeriodStart)
	require.NotNil(t, resp.PeriodEnd)
	assert.Equal(t, "2026-04-01", *resp.PeriodEnd)
}

func TestPeriod_RangoInvertido_RetornaError(t *testing.T) {
	uc := buildUseCase(&fakeFinanceRepo{}, &fakeTenantRepo{})

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -10)

	_, err := uc.Period(context.Background(), "t1", start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportPDF_GeneraBytes(t *testing.T) {
	repo := &fakeFinanceRepo{
		deals: repository.DealAggregates{Revenue: dec("100"), DealCount: 1},
	}
	uc := buildUseCase(repo, &fakeTenantRepo{tenant: &entity.Tenant{Name: "Demo"}})

	pdf, err := uc.ReportPDF(context.Background(), "t1", dto.FinanceDashboardQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
