package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/domain/entity"
)

// DealAggregates resultado crudo de la agregación de ventas cerradas.
// Lo produce la DB; el use case lo convierte en el resumen financiero.
type DealAggregates struct {
	Revenue   decimal.Decimal // SUM(total_price) de deals en final_account
	COGS      decimal.Decimal // SUM(total_cost) de los mismos deals
	DealCount int
}

// ExpenseTotals totales de gastos del período, separados por naturaleza.
type ExpenseTotals struct {
	Fixed    decimal.Decimal
	Variable decimal.Decimal
	Total    decimal.Decimal
}

// FinanceRepository define las consultas de lectura para el módulo financiero.
// Las agregaciones usan COALESCE para devolver cero cuando no hay filas.
type FinanceRepository interface {
	// AggregateDeals suma revenue y COGS de los deals cerrados (final_account)
	// con closed_at dentro de [from, to).
	AggregateDeals(
		ctx context.Context,
		tenantID string,
		from, to time.Time,
	) (DealAggregates, error)

	// AggregateExpenses suma los gastos del período separando fijos de variables.
	AggregateExpenses(
		ctx context.Context,
		tenantID string,
		from, to time.Time,
	) (ExpenseTotals, error)

	// GetSettings devuelve la configuración financiera del tenant o
	// domain.ErrNotFound si nunca se ha configurado.
	GetSettings(ctx context.Context, tenantID string) (*entity.FinancialSettings, error)

	// UpsertSettings crea o actualiza la fila única de configuración del tenant.
	UpsertSettings(ctx context.Context, settings *entity.FinancialSettings) error
}
