package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch representa una recepción de inventario (lote) de un producto.
// RemainingQuantity se descuenta en orden FIFO al vender.
type InventoryBatch struct {
	ID                string
	TenantID          string
	ProductID         string
	Quantity          decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	Currency          string
	ReceivedDate      time.Time
	SupplierID        *string
	Reference         string
	Location          string
	CreatedAt         time.Time
}

// StockLevel stock agregado de un producto por ubicación.
// Se mantiene sincronizado con los lotes al recibir y vender.
type StockLevel struct {
	ProductID string
	Location  string
	Quantity  decimal.Decimal
	Reserved  decimal.Decimal
	UpdatedAt time.Time
}
