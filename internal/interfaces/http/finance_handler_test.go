package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/application/dto"
	appfinance "github.com/bizio/bizio-api/internal/application/finance"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
	infracache "github.com/bizio/bizio-api/internal/infrastructure/cache"
	apphttp "github.com/bizio/bizio-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs mínimos del módulo financiero
// ──────────────────────────────────────────────────────────────────────────────

type finRepoStub struct{}

func (finRepoStub) AggregateDeals(context.Context, string, time.Time, time.Time) (repository.DealAggregates, error) {
	return repository.DealAggregates{
		Revenue:   decimal.NewFromInt(1000),
		COGS:      decimal.NewFromInt(400),
		DealCount: 1,
	}, nil
}
func (finRepoStub) AggregateExpenses(context.Context, string, time.Time, time.Time) (repository.ExpenseTotals, error) {
	return repository.ExpenseTotals{}, nil
}
func (finRepoStub) GetSettings(context.Context, string) (*entity.FinancialSettings, error) {
	return nil, domain.ErrNotFound
}
func (finRepoStub) UpsertSettings(context.Context, *entity.FinancialSettings) error { return nil }

type finTenantStub struct{}

func (finTenantStub) Create(*entity.Tenant) error { return nil }
func (finTenantStub) GetByID(string) (*entity.Tenant, error) {
	return &entity.Tenant{ID: testTenantID, Currency: "KZT"}, nil
}
func (finTenantStub) GetByCode(string) (*entity.Tenant, error) { return nil, domain.ErrNotFound }
func (finTenantStub) Update(*entity.Tenant) error              { return nil }
func (finTenantStub) List(int, int) ([]*entity.Tenant, error)  { return nil, nil }

type finPDFStub struct{}

func (finPDFStub) GenerateSummaryPDF(string, dto.FinanceSummaryResponse) ([]byte, error) {
	return []byte("%PDF"), nil
}

func buildFinanceApp() *fiber.App {
	uc := appfinance.NewFinanceUseCase(finRepoStub{}, finTenantStub{}, infracache.NewNoopCache(), finPDFStub{})
	handler := apphttp.NewFinanceHandler(uc, nil)
	app := fiber.New()
	app.Get("/api/finance/dashboard", apphttp.AuthMiddleware(testJWTSecret), handler.Dashboard)
	return app
}

func getDashboard(t *testing.T, app *fiber.App, query string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/finance/dashboard"+query, nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Dashboard: validación de tax_percent en el borde HTTP
// ──────────────────────────────────────────────────────────────────────────────

// tax_percent es un porcentaje: valores fuera de [0,100] se rechazan antes de
// llegar al cálculo.
func TestDashboard_TaxPercentMayorA100_Retorna400(t *testing.T) {
	app := buildFinanceApp()

	resp := getDashboard(t, app, "?tax_percent=150")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "tax_percent")
}

func TestDashboard_TaxPercentNegativo_Retorna400(t *testing.T) {
	app := buildFinanceApp()

	resp := getDashboard(t, app, "?tax_percent=-5")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_TaxPercentEnRango_Retorna200(t *testing.T) {
	app := buildFinanceApp()

	resp := getDashboard(t, app, "?tax_percent=50")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	// Montos como strings con 2 decimales en el wire.
	assert.Contains(t, string(body), `"taxes_percent":"50.00"`)
	assert.Contains(t, string(body), `"revenue":"1000.00"`)
}
