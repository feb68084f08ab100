package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/finance"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// cacheTTL vida del resumen cacheado. Corto a propósito: el dashboard se
// consulta mucho más de lo que cambian los deals cerrados.
const cacheTTL = 60 * time.Second

// FinanceUseCase arma el resumen financiero del tenant: agregados de la DB
// (deals cerrados + gastos), overrides manuales, settings y el cálculo puro.
type FinanceUseCase struct {
	repo       repository.FinanceRepository
	tenantRepo repository.TenantRepository
	cache      ports.Cache
	pdf        ports.FinanceReportGenerator
}

// NewFinanceUseCase construye el caso de uso.
func NewFinanceUseCase(
	repo repository.FinanceRepository,
	tenantRepo repository.TenantRepository,
	cache ports.Cache,
	pdf ports.FinanceReportGenerator,
) *FinanceUseCase {
	return &FinanceUseCase{repo: repo, tenantRepo: tenantRepo, cache: cache, pdf: pdf}
}

// Dashboard calcula el resumen financiero del rango pedido. Los overrides
// manuales se combinan con los agregados: opex y fixed SUMAN sobre los
// totales de gastos; variable y tax_percent REEMPLAZAN el valor derivado.
func (uc *FinanceUseCase) Dashboard(ctx context.Context, tenantID string, q dto.FinanceDashboardQuery) (*dto.FinanceSummaryResponse, error) {
	from, to := window(q.Start, q.End)

	key := cacheKey(tenantID, from, to, q)
	if raw, ok := uc.cache.Get(ctx, key); ok {
		var cached dto.FinanceSummaryResponse
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	deals, err := uc.repo.AggregateDeals(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := uc.repo.AggregateExpenses(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	taxPercent := decimal.Zero
	currency := ""
	settings, err := uc.repo.GetSettings(ctx, tenantID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if settings != nil {
		taxPercent = settings.TaxRate
		currency = settings.Currency
	}
	if q.TaxPercent != nil {
		taxPercent = *q.TaxPercent
	}
	if currency == "" {
		if tenant, err := uc.tenantRepo.GetByID(tenantID); err == nil && tenant != nil {
			currency = tenant.Currency
		}
	}

	opex := expenses.Total
	if q.Opex != nil {
		opex = opex.Add(*q.Opex)
	}
	fixed := expenses.Fixed
	if q.Fixed != nil {
		fixed = fixed.Add(*q.Fixed)
	}

	in := finance.Input{
		Revenue:    deals.Revenue,
		COGS:       deals.COGS,
		Opex:       opex,
		FixedCosts: fixed,
		TaxPercent: taxPercent,
	}
	// Los costos variables del negocio son el COGS más los gastos variables
	// del período; el override manual reemplaza esa suma completa.
	if q.Variable != nil {
		in.VariableCosts = q.Variable
	} else {
		v := deals.COGS.Add(expenses.Variable)
		in.VariableCosts = &v
	}

	summary := finance.Calculate(in)

	resp := dto.NewFinanceSummaryResponse(summary, currency, deals.DealCount)
	ps := from.Format("2006-01-02")
	pe := to.Format("2006-01-02")
	resp.PeriodStart = &ps
	resp.PeriodEnd = &pe

	if raw, err := json.Marshal(resp); err == nil {
		uc.cache.Set(ctx, key, string(raw), cacheTTL)
	}
	return &resp, nil
}

// Monthly resumen de un mes calendario.
func (uc *FinanceUseCase) Monthly(ctx context.Context, tenantID string, year, month int) (*dto.FinanceSummaryResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return nil, domain.ErrInvalidInput
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return uc.Dashboard(ctx, tenantID, dto.FinanceDashboardQuery{Start: &start, End: &end})
}

// Period resumen de un rango arbitrario [start, end).
func (uc *FinanceUseCase) Period(ctx context.Context, tenantID string, start, end time.Time) (*dto.FinanceSummaryResponse, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	return uc.Dashboard(ctx, tenantID, dto.FinanceDashboardQuery{Start: &start, End: &end})
}

// ReportPDF genera el reporte financiero del rango en PDF.
func (uc *FinanceUseCase) ReportPDF(ctx context.Context, tenantID string, q dto.FinanceDashboardQuery) ([]byte, error) {
	summary, err := uc.Dashboard(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	tenantName := ""
	if tenant, err := uc.tenantRepo.GetByID(tenantID); err == nil && tenant != nil {
		tenantName = tenant.Name
	}
	return uc.pdf.GenerateSummaryPDF(tenantName, *summary)
}

// window aplica los defaults del rango: desde el inicio del mes actual hasta
// ahora, como el dashboard original.
func window(start, end *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	to := now
	if end != nil {
		to = *end
	}
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if start != nil {
		from = *start
	}
	return from, to
}

func cacheKey(tenantID string, from, to time.Time, q dto.FinanceDashboardQuery) string {
	ov := func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return d.String()
	}
	return fmt.Sprintf("finance:summary:%s:%d:%d:%s:%s:%s:%s",
		tenantID, from.Unix(), to.Unix(), ov(q.Opex), ov(q.Fixed), ov(q.Variable), ov(q.TaxPercent))
}
