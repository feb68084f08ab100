package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MarketplaceOrder pedido normalizado de un marketplace externo.
// Los adaptadores (Kaspi, Wildberries) traducen su formato propio a este.
type MarketplaceOrder struct {
	ExternalID    string
	CustomerID    string // id del comprador en el marketplace
	CustomerName  string
	CustomerPhone string
	Total         decimal.Decimal
	Currency      string
	CreatedAt     time.Time
	Items         []MarketplaceOrderItem
}

// MarketplaceOrderItem línea de un pedido normalizado.
type MarketplaceOrderItem struct {
	SKU       string
	Title     string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// MarketplaceAdapter puerto de salida hacia un marketplace.
type MarketplaceAdapter interface {
	// Name identificador estable del marketplace ("kaspi", "wildberries").
	Name() string
	// FetchOrders trae los pedidos creados desde `since`.
	FetchOrders(ctx context.Context, since time.Time) ([]MarketplaceOrder, error)
}
