package repository

import (
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para lotes de inventario.
// Los lotes son la base del costeo FIFO: ListOpenBatches los devuelve ordenados
// por fecha de recepción ascendente para que el dominio los consuma en orden.
type InventoryRepository interface {
	CreateBatch(batch *entity.InventoryBatch) error
	GetBatchByID(id string) (*entity.InventoryBatch, error)
	// ListOpenBatches lotes con remaining > 0 del producto, ordenados por
	// received_date asc, id asc (desempate estable).
	ListOpenBatches(tenantID, productID string) ([]*entity.InventoryBatch, error)
	ListBatchesByProduct(tenantID, productID string, limit, offset int) ([]*entity.InventoryBatch, error)
	// DecrementBatch descuenta qty del remaining de un lote. Falla si el
	// lote quedaría negativo.
	DecrementBatch(batchID string, qty decimal.Decimal) error
	// StockByProduct existencia total (suma de remaining) por producto.
	StockByProduct(tenantID, productID string) (decimal.Decimal, error)
	StockLevels(tenantID string, limit, offset int) ([]*entity.StockLevel, error)
}
