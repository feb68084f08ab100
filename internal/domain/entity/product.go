package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo del tenant.
// DefaultCost se usa como costo de respaldo cuando no hay lotes de inventario (FIFO).
type Product struct {
	ID           string
	TenantID     string
	SKU          string
	Title        string
	Description  string
	Category     string
	DefaultCost  decimal.Decimal
	DefaultPrice decimal.Decimal
	Currency     string
	Images       json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
