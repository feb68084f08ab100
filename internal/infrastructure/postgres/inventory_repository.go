package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const batchColumns = `id, tenant_id, product_id, quantity, remaining_quantity, unit_cost, currency, received_date, supplier_id, reference, location, created_at`

// CreateBatch persiste un lote de inventario.
func (r *InventoryRepo) CreateBatch(batch *entity.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (id, tenant_id, product_id, quantity, remaining_quantity, unit_cost, currency, received_date, supplier_id, reference, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.TenantID, batch.ProductID, batch.Quantity, batch.RemainingQuantity,
		batch.UnitCost, batch.Currency, batch.ReceivedDate, batch.SupplierID,
		batch.Reference, batch.Location, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetBatchByID obtiene un lote por ID.
func (r *InventoryRepo) GetBatchByID(id string) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := r.q.QueryRow(context.Background(),
		`SELECT `+batchColumns+` FROM inventory_batches WHERE id = $1`, id,
	).Scan(
		&b.ID, &b.TenantID, &b.ProductID, &b.Quantity, &b.RemainingQuantity,
		&b.UnitCost, &b.Currency, &b.ReceivedDate, &b.SupplierID,
		&b.Reference, &b.Location, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListOpenBatches lotes con remaining > 0, ordenados por recepción asc.
// El orden es el contrato del costeo FIFO.
func (r *InventoryRepo) ListOpenBatches(tenantID, productID string) ([]*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE tenant_id = $1 AND product_id = $2 AND remaining_quantity > 0
		ORDER BY received_date ASC, id ASC`
	return r.listBatches(query, tenantID, productID)
}

// ListBatchesByProduct lista todos los lotes del producto, más recientes primero.
func (r *InventoryRepo) ListBatchesByProduct(tenantID, productID string, limit, offset int) ([]*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY received_date DESC LIMIT $3 OFFSET $4`
	return r.listBatches(query, tenantID, productID, limit, offset)
}

func (r *InventoryRepo) listBatches(query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryBatch
	for rows.Next() {
		var b entity.InventoryBatch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.ProductID, &b.Quantity, &b.RemainingQuantity,
			&b.UnitCost, &b.Currency, &b.ReceivedDate, &b.SupplierID,
			&b.Reference, &b.Location, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// DecrementBatch descuenta qty del remaining. El predicado remaining >= qty
// evita dejar el lote negativo bajo concurrencia.
func (r *InventoryRepo) DecrementBatch(batchID string, qty decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_batches SET remaining_quantity = remaining_quantity - $2
		 WHERE id = $1 AND remaining_quantity >= $2`,
		batchID, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// StockByProduct suma el remaining de todos los lotes del producto.
func (r *InventoryRepo) StockByProduct(tenantID, productID string) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(remaining_quantity), 0)
		 FROM inventory_batches WHERE tenant_id = $1 AND product_id = $2`,
		tenantID, productID,
	).Scan(&stock)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock by product: %w", err)
	}
	return stock, nil
}

// StockLevels stock agregado por producto y ubicación del tenant.
func (r *InventoryRepo) StockLevels(tenantID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, COALESCE(location, ''), COALESCE(SUM(remaining_quantity), 0), MAX(created_at)
		FROM inventory_batches
		WHERE tenant_id = $1
		GROUP BY product_id, location
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.Location, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
