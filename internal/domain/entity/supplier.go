package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor del tenant.
type Supplier struct {
	ID           string
	TenantID     string
	Name         string
	Contact      json.RawMessage
	Rating       *decimal.Decimal
	LeadTimeDays *int
	CreatedAt    time.Time
}

// SupplierOffer oferta de precio de un proveedor para un producto.
type SupplierOffer struct {
	ID           string
	SupplierID   string
	ProductID    string
	Price        decimal.Decimal
	Currency     string
	MOQ          *int // cantidad mínima de pedido
	LeadTimeDays *int
	ValidUntil   *time.Time
	CreatedAt    time.Time
}

// Estados de una orden de compra.
const (
	PurchaseOrderPending  = "pending"
	PurchaseOrderReceived = "received"
	PurchaseOrderCanceled = "canceled"
)

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID          string
	TenantID    string
	SupplierID  string
	Reference   string
	TotalAmount decimal.Decimal
	Currency    string
	Status      string
	ETA         string
	CreatedAt   time.Time
	ReceivedAt  *time.Time

	Items []PurchaseOrderItem
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Qty             int
	UnitPrice       decimal.Decimal
	Currency        string
}
