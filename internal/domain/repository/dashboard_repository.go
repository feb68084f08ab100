package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount cantidad de deals por estado del pipeline (embudo de ventas).
type StatusCount struct {
	Status string
	Count  int
	Amount decimal.Decimal
}

// MonthlyRevenue ingresos cerrados agrupados por mes calendario.
type MonthlyRevenue struct {
	Year    int
	Month   int
	Revenue decimal.Decimal
	COGS    decimal.Decimal
}

// TopProductResult producto ordenado por ingreso en el período.
type TopProductResult struct {
	ProductID string
	SKU       string
	Title     string
	UnitsSold decimal.Decimal
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
}

// DashboardRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type DashboardRepository interface {
	// GetFunnel devuelve el conteo y monto de deals por estado, creados
	// dentro de [from, to).
	GetFunnel(ctx context.Context, tenantID string, from, to time.Time) ([]StatusCount, error)

	// GetMonthlyRevenue devuelve revenue y COGS por mes de los deals
	// cerrados en el rango.
	GetMonthlyRevenue(ctx context.Context, tenantID string, from, to time.Time) ([]MonthlyRevenue, error)

	// GetTopProducts devuelve los `limit` productos con mayor ingreso
	// en el período.
	GetTopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]TopProductResult, error)
}
