package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto operativo del tenant. IsFixed distingue costos fijos
// (arriendo, salarios) de variables; el cálculo de punto de equilibrio
// depende de esa distinción.
type Expense struct {
	ID               string
	TenantID         string
	UserID           *string
	Amount           decimal.Decimal
	Currency         string
	Category         string // rent, salaries, marketing, utilities, ...
	Description      string
	Date             time.Time
	DaysUntilPayment *int
	IsFixed          bool
	CreatedAt        time.Time
}

// FinancialSettings configuración financiera por tenant (una fila por tenant).
// Se pasa explícitamente al cálculo financiero, nunca como estado global.
type FinancialSettings struct {
	ID                   string
	TenantID             string
	TaxRate              decimal.Decimal // porcentaje 0-100
	Currency             string
	FiscalYearStartMonth int
	UpdatedAt            time.Time
}
