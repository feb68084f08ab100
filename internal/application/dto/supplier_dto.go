package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Contact      json.RawMessage  `json:"contact"`
	Rating       *decimal.Decimal `json:"rating"`
	LeadTimeDays *int             `json:"lead_time_days" validate:"omitempty,min=0"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Contact      json.RawMessage  `json:"contact"`
	Rating       *decimal.Decimal `json:"rating"`
	LeadTimeDays *int             `json:"lead_time_days" validate:"omitempty,min=0"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID           string           `json:"id"`
	TenantID     string           `json:"tenant_id"`
	Name         string           `json:"name"`
	Contact      json.RawMessage  `json:"contact,omitempty"`
	Rating       *decimal.Decimal `json:"rating,omitempty"`
	LeadTimeDays *int             `json:"lead_time_days,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateSupplierOfferRequest oferta de precio de un proveedor para un producto.
type CreateSupplierOfferRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	MOQ          *int            `json:"moq" validate:"omitempty,min=1"`
	LeadTimeDays *int            `json:"lead_time_days" validate:"omitempty,min=0"`
	ValidUntil   *time.Time      `json:"valid_until"`
}

// SupplierOfferResponse salida de una oferta.
type SupplierOfferResponse struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplier_id"`
	ProductID    string          `json:"product_id"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	MOQ          *int            `json:"moq,omitempty"`
	LeadTimeDays *int            `json:"lead_time_days,omitempty"`
	ValidUntil   *time.Time      `json:"valid_until,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int             `json:"qty" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required,uuid"`
	Reference  string                     `json:"reference" validate:"omitempty,max=100"`
	Currency   string                     `json:"currency" validate:"omitempty,len=3"`
	ETA        string                     `json:"eta" validate:"omitempty,max=100"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	TenantID    string                      `json:"tenant_id"`
	SupplierID  string                      `json:"supplier_id"`
	Reference   string                      `json:"reference,omitempty"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Currency    string                      `json:"currency"`
	Status      string                      `json:"status"`
	ETA         string                      `json:"eta,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	ReceivedAt  *time.Time                  `json:"received_at,omitempty"`
	Items       []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderItemResponse línea de una orden de compra en respuestas.
type PurchaseOrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
}
