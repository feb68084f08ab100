package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealItemRequest línea de venta. UnitCost es opcional: si no viene, se
// calcula por FIFO sobre los lotes del producto.
type DealItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal  `json:"unit_price" validate:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// CreateDealRequest entrada para crear una venta.
type CreateDealRequest struct {
	ClientID      string            `json:"client_id" validate:"required,uuid"`
	Title         string            `json:"title" validate:"omitempty,max=300"`
	Currency      string            `json:"currency" validate:"omitempty,len=3"`
	Source        string            `json:"source" validate:"omitempty,max=50"`
	ResponsibleID *string           `json:"responsible_id" validate:"omitempty,uuid"`
	Comments      string            `json:"comments"`
	Items         []DealItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateDealRequest entrada para actualizar campos básicos de una venta.
type UpdateDealRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=300"`
	ClientID      *string `json:"client_id" validate:"omitempty,uuid"`
	ResponsibleID *string `json:"responsible_id" validate:"omitempty,uuid"`
	Comments      *string `json:"comments"`
}

// UpdateDealStatusRequest cambio de estado en el pipeline.
type UpdateDealStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new preparing_document prepaid_account at_work final_account"`
}

// DealItemResponse línea de venta en respuestas.
type DealItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// DealResponse salida de una venta con totales denormalizados.
type DealResponse struct {
	ID            string             `json:"id"`
	TenantID      string             `json:"tenant_id"`
	ClientID      string             `json:"client_id"`
	Title         string             `json:"title"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	Margin        decimal.Decimal    `json:"margin"`
	Currency      string             `json:"currency"`
	Status        string             `json:"status"`
	Source        string             `json:"source"`
	ExternalID    string             `json:"external_id,omitempty"`
	ResponsibleID *string            `json:"responsible_id,omitempty"`
	Comments      string             `json:"comments,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	ClosedAt      *time.Time         `json:"closed_at,omitempty"`
	Items         []DealItemResponse `json:"items,omitempty"`
}

// DealListResponse lista paginada de ventas.
type DealListResponse struct {
	Items []DealResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DealProfitResponse rentabilidad de una venta. Montos como strings con
// 2 decimales, igual que el resto del módulo financiero.
type DealProfitResponse struct {
	DealID     string  `json:"deal_id"`
	TotalPrice string  `json:"total_price"`
	TotalCost  string  `json:"total_cost"`
	Margin     string  `json:"margin"`
	MarginPct  *string `json:"margin_pct"`
}
