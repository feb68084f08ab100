package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.DealRepository = (*DealRepo)(nil)

// DealRepo implementación de DealRepository sobre PostgreSQL.
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

const dealColumns = `id, tenant_id, client_id, title, total_price, total_cost, margin, currency, status, source, source_details, external_id, responsible_id, comments, created_at, updated_at, closed_at`

// Create persiste la venta y sus líneas. Se asume que el Querier es una tx
// cuando hay líneas (lo garantiza el TxRunner).
func (r *DealRepo) Create(deal *entity.Deal) error {
	query := `
		INSERT INTO deals (id, tenant_id, client_id, title, total_price, total_cost, margin, currency, status, source, source_details, external_id, responsible_id, comments, created_at, updated_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		deal.ID, deal.TenantID, deal.ClientID, deal.Title, deal.TotalPrice, deal.TotalCost,
		deal.Margin, deal.Currency, deal.Status, deal.Source, deal.SourceDetails,
		deal.ExternalID, deal.ResponsibleID, deal.Comments, deal.CreatedAt, deal.UpdatedAt,
		deal.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	for i := range deal.Items {
		if err := r.AddItem(&deal.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *DealRepo) GetByID(id string) (*entity.Deal, error) {
	d, err := r.scanOne(`SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	if err != nil || d == nil {
		return d, err
	}
	items, err := r.listItems(d.ID)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return d, nil
}

// GetByExternalID busca por pedido de marketplace (deduplicación del sync).
func (r *DealRepo) GetByExternalID(tenantID, source, externalID string) (*entity.Deal, error) {
	return r.scanOne(
		`SELECT `+dealColumns+` FROM deals WHERE tenant_id = $1 AND source = $2 AND external_id = $3`,
		tenantID, source, externalID,
	)
}

func (r *DealRepo) scanOne(query string, args ...any) (*entity.Deal, error) {
	var d entity.Deal
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&d.ID, &d.TenantID, &d.ClientID, &d.Title, &d.TotalPrice, &d.TotalCost,
		&d.Margin, &d.Currency, &d.Status, &d.Source, &d.SourceDetails,
		&d.ExternalID, &d.ResponsibleID, &d.Comments, &d.CreatedAt, &d.UpdatedAt, &d.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return &d, nil
}

// Update actualiza la venta (campos + totales + estado).
func (r *DealRepo) Update(deal *entity.Deal) error {
	query := `
		UPDATE deals SET client_id = $2, title = $3, total_price = $4, total_cost = $5, margin = $6, status = $7, responsible_id = $8, comments = $9, updated_at = $10, closed_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		deal.ID, deal.ClientID, deal.Title, deal.TotalPrice, deal.TotalCost, deal.Margin,
		deal.Status, deal.ResponsibleID, deal.Comments, deal.UpdatedAt, deal.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

// AddItem inserta una línea de venta.
func (r *DealRepo) AddItem(item *entity.DealItem) error {
	query := `
		INSERT INTO deal_items (id, deal_id, product_id, quantity, unit_price, unit_cost, total_price, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DealID, item.ProductID, item.Quantity, item.UnitPrice,
		item.UnitCost, item.TotalPrice, item.TotalCost, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deal item: %w", err)
	}
	return nil
}

// DeleteItem elimina una línea de venta.
func (r *DealRepo) DeleteItem(dealID, itemID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM deal_items WHERE id = $1 AND deal_id = $2`, itemID, dealID)
	if err != nil {
		return fmt.Errorf("delete deal item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DealRepo) listItems(dealID string) ([]entity.DealItem, error) {
	query := `
		SELECT id, deal_id, product_id, quantity, unit_price, unit_cost, total_price, total_cost, created_at, updated_at
		FROM deal_items WHERE deal_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, dealID)
	if err != nil {
		return nil, fmt.Errorf("list deal items: %w", err)
	}
	defer rows.Close()

	var out []entity.DealItem
	for rows.Next() {
		var it entity.DealItem
		if err := rows.Scan(&it.ID, &it.DealID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.UnitCost, &it.TotalPrice, &it.TotalCost, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deal item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByTenant lista ventas del tenant con filtros (sin líneas).
func (r *DealRepo) ListByTenant(tenantID string, filter repository.DealFilter) ([]*entity.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR client_id = $3)
		  AND ($4 = '' OR source = $4)
		  AND ($5 = '' OR title ILIKE '%' || $5 || '%')
		ORDER BY created_at DESC LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(context.Background(), query,
		tenantID, filter.Status, filter.ClientID, filter.Source, filter.Search,
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var out []*entity.Deal
	for rows.Next() {
		var d entity.Deal
		if err := rows.Scan(&d.ID, &d.TenantID, &d.ClientID, &d.Title, &d.TotalPrice, &d.TotalCost,
			&d.Margin, &d.Currency, &d.Status, &d.Source, &d.SourceDetails,
			&d.ExternalID, &d.ResponsibleID, &d.Comments, &d.CreatedAt, &d.UpdatedAt, &d.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// CountByTenant cuenta ventas que matchean el filtro.
func (r *DealRepo) CountByTenant(tenantID string, filter repository.DealFilter) (int, error) {
	query := `
		SELECT COUNT(*) FROM deals
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR client_id = $3)
		  AND ($4 = '' OR source = $4)
		  AND ($5 = '' OR title ILIKE '%' || $5 || '%')`
	var total int
	err := r.q.QueryRow(context.Background(), query,
		tenantID, filter.Status, filter.ClientID, filter.Source, filter.Search,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return total, nil
}

// Delete elimina la venta y sus líneas (FK con ON DELETE CASCADE).
func (r *DealRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	return nil
}
