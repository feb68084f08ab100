package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizio/bizio-api/internal/application/deal"
	"github.com/bizio/bizio-api/internal/application/usecase"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// Ensure TxRunner implements deal.TxRunner and usecase.PurchaseTxRunner.
var _ deal.TxRunner = (*TxRunner)(nil)
var _ usecase.PurchaseTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Lo usa el pipeline de ventas: deal + líneas + descuento
// FIFO de lotes son atómicos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	dealRepo repository.DealRepository,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dealRepo := NewDealRepository(tx)
	inventoryRepo := NewInventoryRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(dealRepo, inventoryRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchase inicia una transacción para la recepción de órdenes de compra:
// cambio de estado + alta de lotes de inventario.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	poRepo repository.PurchaseOrderRepository,
	inventoryRepo repository.InventoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	poRepo := NewPurchaseOrderRepository(tx)
	inventoryRepo := NewInventoryRepository(tx)

	if err := fn(poRepo, inventoryRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
