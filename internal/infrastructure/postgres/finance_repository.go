package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo consultas de agregación del módulo financiero (read-mostly).
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// AggregateDeals suma revenue y COGS de los deals cerrados del rango.
// COALESCE garantiza cero (no NULL) cuando no hay filas.
func (r *FinanceRepo) AggregateDeals(ctx context.Context, tenantID string, from, to time.Time) (repository.DealAggregates, error) {
	query := `
		SELECT COALESCE(SUM(total_price), 0), COALESCE(SUM(total_cost), 0), COUNT(*)
		FROM deals
		WHERE tenant_id = $1
		  AND status = 'final_account'
		  AND closed_at >= $2 AND closed_at < $3`
	var agg repository.DealAggregates
	err := r.q.QueryRow(ctx, query, tenantID, from, to).Scan(&agg.Revenue, &agg.COGS, &agg.DealCount)
	if err != nil {
		return repository.DealAggregates{}, fmt.Errorf("aggregate deals: %w", err)
	}
	return agg, nil
}

// AggregateExpenses suma gastos del rango separando fijos de variables.
func (r *FinanceRepo) AggregateExpenses(ctx context.Context, tenantID string, from, to time.Time) (repository.ExpenseTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE is_fixed), 0),
			COALESCE(SUM(amount) FILTER (WHERE NOT is_fixed), 0),
			COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE tenant_id = $1 AND date >= $2 AND date < $3`
	var totals repository.ExpenseTotals
	err := r.q.QueryRow(ctx, query, tenantID, from, to).Scan(&totals.Fixed, &totals.Variable, &totals.Total)
	if err != nil {
		return repository.ExpenseTotals{}, fmt.Errorf("aggregate expenses: %w", err)
	}
	return totals, nil
}

// GetSettings devuelve la fila única de configuración del tenant.
func (r *FinanceRepo) GetSettings(ctx context.Context, tenantID string) (*entity.FinancialSettings, error) {
	query := `
		SELECT id, tenant_id, tax_rate, currency, fiscal_year_start_month, updated_at
		FROM financial_settings WHERE tenant_id = $1`
	var s entity.FinancialSettings
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&s.ID, &s.TenantID, &s.TaxRate, &s.Currency, &s.FiscalYearStartMonth, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get financial settings: %w", err)
	}
	return &s, nil
}

// UpsertSettings crea o actualiza la configuración (una fila por tenant).
func (r *FinanceRepo) UpsertSettings(ctx context.Context, settings *entity.FinancialSettings) error {
	query := `
		INSERT INTO financial_settings (id, tenant_id, tax_rate, currency, fiscal_year_start_month, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE
		SET tax_rate = EXCLUDED.tax_rate,
		    currency = EXCLUDED.currency,
		    fiscal_year_start_month = EXCLUDED.fiscal_year_start_month,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		settings.ID, settings.TenantID, settings.TaxRate, settings.Currency,
		settings.FiscalYearStartMonth, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert financial settings: %w", err)
	}
	return nil
}
