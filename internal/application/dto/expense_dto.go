package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest entrada para registrar un gasto.
type CreateExpenseRequest struct {
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	Currency         string          `json:"currency" validate:"omitempty,len=3"`
	Category         string          `json:"category" validate:"required,max=100"`
	Description      string          `json:"description"`
	Date             time.Time       `json:"date" validate:"required"`
	DaysUntilPayment *int            `json:"days_until_payment" validate:"omitempty,min=0"`
	IsFixed          bool            `json:"is_fixed"`
}

// UpdateExpenseRequest entrada para actualizar un gasto.
type UpdateExpenseRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	Category         *string          `json:"category" validate:"omitempty,max=100"`
	Description      *string          `json:"description"`
	Date             *time.Time       `json:"date"`
	DaysUntilPayment *int             `json:"days_until_payment" validate:"omitempty,min=0"`
	IsFixed          *bool            `json:"is_fixed"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenant_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Category         string          `json:"category"`
	Description      string          `json:"description,omitempty"`
	Date             time.Time       `json:"date"`
	DaysUntilPayment *int            `json:"days_until_payment,omitempty"`
	IsFixed          bool            `json:"is_fixed"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ExpenseListResponse lista paginada de gastos.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// FinancialSettingsRequest configuración financiera del tenant (PUT).
type FinancialSettingsRequest struct {
	TaxRate              decimal.Decimal `json:"tax_rate"`
	Currency             string          `json:"currency" validate:"omitempty,len=3"`
	FiscalYearStartMonth int             `json:"fiscal_year_start_month" validate:"omitempty,min=1,max=12"`
}

// FinancialSettingsResponse configuración financiera del tenant.
type FinancialSettingsResponse struct {
	TenantID             string          `json:"tenant_id"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	Currency             string          `json:"currency"`
	FiscalYearStartMonth int             `json:"fiscal_year_start_month"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
