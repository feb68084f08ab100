package deal

import (
	"context"

	"github.com/bizio/bizio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la venta, sus líneas y los
// descuentos de lotes FIFO se confirmen o reviertan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		dealRepo repository.DealRepository,
		inventoryRepo repository.InventoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}
