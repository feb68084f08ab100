package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetFunnel conteo y monto de deals por estado, creados en [from, to).
func (r *DashboardRepo) GetFunnel(ctx context.Context, tenantID string, from, to time.Time) ([]repository.StatusCount, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM deals
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY status
		ORDER BY status`
	rows, err := r.q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("funnel: %w", err)
	}
	defer rows.Close()

	var out []repository.StatusCount
	for rows.Next() {
		var s repository.StatusCount
		if err := rows.Scan(&s.Status, &s.Count, &s.Amount); err != nil {
			return nil, fmt.Errorf("scan funnel: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMonthlyRevenue revenue y COGS por mes de los deals cerrados del rango.
func (r *DashboardRepo) GetMonthlyRevenue(ctx context.Context, tenantID string, from, to time.Time) ([]repository.MonthlyRevenue, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM closed_at)::int,
			EXTRACT(MONTH FROM closed_at)::int,
			COALESCE(SUM(total_price), 0),
			COALESCE(SUM(total_cost), 0)
		FROM deals
		WHERE tenant_id = $1 AND status = 'final_account'
		  AND closed_at >= $2 AND closed_at < $3
		GROUP BY 1, 2
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyRevenue
	for rows.Next() {
		var m repository.MonthlyRevenue
		if err := rows.Scan(&m.Year, &m.Month, &m.Revenue, &m.COGS); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTopProducts productos con mayor ingreso en deals cerrados del rango.
func (r *DashboardRepo) GetTopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.sku, p.title,
			COALESCE(SUM(di.quantity), 0),
			COALESCE(SUM(di.total_price), 0),
			COALESCE(SUM(di.total_price - di.total_cost), 0)
		FROM deal_items di
		JOIN deals d ON d.id = di.deal_id
		JOIN products p ON p.id = di.product_id
		WHERE d.tenant_id = $1 AND d.status = 'final_account'
		  AND d.closed_at >= $2 AND d.closed_at < $3
		GROUP BY p.id, p.sku, p.title
		ORDER BY SUM(di.total_price) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, tenantID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Title, &t.UnitsSold, &t.Revenue, &t.Profit); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
