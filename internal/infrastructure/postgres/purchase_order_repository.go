package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, tenant_id, supplier_id, reference, total_amount, currency, status, eta, created_at, received_at`

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, tenant_id, supplier_id, reference, total_amount, currency, status, eta, created_at, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.TenantID, po.SupplierID, po.Reference, po.TotalAmount,
		po.Currency, po.Status, po.ETA, po.CreatedAt, po.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, it := range po.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO purchase_order_items (id, purchase_order_id, product_id, qty, unit_price, currency)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.PurchaseOrderID, it.ProductID, it.Qty, it.UnitPrice, it.Currency,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(),
		`SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id,
	).Scan(
		&po.ID, &po.TenantID, &po.SupplierID, &po.Reference, &po.TotalAmount,
		&po.Currency, &po.Status, &po.ETA, &po.CreatedAt, &po.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT id, purchase_order_id, product_id, qty, unit_price, currency
		 FROM purchase_order_items WHERE purchase_order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.Currency); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, it)
	}
	return &po, rows.Err()
}

// UpdateStatus cambia el estado; al recibir fija received_at.
func (r *PurchaseOrderRepo) UpdateStatus(id string, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, received_at = CASE WHEN $2 = 'received' THEN now() ELSE received_at END
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// ListByTenant lista órdenes del tenant, opcionalmente por estado (sin líneas).
func (r *PurchaseOrderRepo) ListByTenant(tenantID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + poColumns + `
		FROM purchase_orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.TenantID, &po.SupplierID, &po.Reference, &po.TotalAmount,
			&po.Currency, &po.Status, &po.ETA, &po.CreatedAt, &po.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, &po)
	}
	return out, rows.Err()
}
