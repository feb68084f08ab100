package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Title        string          `json:"title" validate:"required,min=1,max=300"`
	Description  string          `json:"description"`
	Category     string          `json:"category" validate:"omitempty,max=100"`
	DefaultCost  decimal.Decimal `json:"default_cost"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	Images       json.RawMessage `json:"images"`
}

// UpdateProductRequest entrada para actualizar (campos opcionales).
type UpdateProductRequest struct {
	Title        *string          `json:"title" validate:"omitempty,min=1,max=300"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	DefaultCost  *decimal.Decimal `json:"default_cost"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	Currency     *string          `json:"currency" validate:"omitempty,len=3"`
	Images       json.RawMessage  `json:"images"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	SKU          string          `json:"sku"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	DefaultCost  decimal.Decimal `json:"default_cost"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Currency     string          `json:"currency"`
	Images       json.RawMessage `json:"images,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReceiveInventoryRequest recepción de un lote de inventario.
type ReceiveInventoryRequest struct {
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost" validate:"required"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	ReceivedDate *time.Time      `json:"received_date"`
	SupplierID   *string         `json:"supplier_id" validate:"omitempty,uuid"`
	Reference    string          `json:"reference" validate:"omitempty,max=100"`
	Location     string          `json:"location" validate:"omitempty,max=100"`
}

// InventoryBatchResponse salida de un lote.
type InventoryBatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Currency          string          `json:"currency"`
	ReceivedDate      time.Time       `json:"received_date"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Location          string          `json:"location,omitempty"`
}

// ProductInventoryResponse lotes + stock total de un producto.
type ProductInventoryResponse struct {
	ProductID string                   `json:"product_id"`
	Stock     decimal.Decimal          `json:"stock"`
	Batches   []InventoryBatchResponse `json:"batches"`
}
