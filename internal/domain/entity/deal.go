package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus estados del pipeline de una venta.
type DealStatus string

const (
	DealStatusNew               DealStatus = "new"
	DealStatusPreparingDocument DealStatus = "preparing_document"
	DealStatusPrepaidAccount    DealStatus = "prepaid_account"
	DealStatusAtWork            DealStatus = "at_work"
	DealStatusFinalAccount      DealStatus = "final_account"
)

// ValidDealStatus indica si s es un estado conocido del pipeline.
func ValidDealStatus(s string) bool {
	switch DealStatus(s) {
	case DealStatusNew, DealStatusPreparingDocument, DealStatusPrepaidAccount,
		DealStatusAtWork, DealStatusFinalAccount:
		return true
	}
	return false
}

// Deal representa una venta/pedido del tenant, con sus totales denormalizados.
// Solo los deals en final_account con ClosedAt dentro del rango cuentan para
// la agregación financiera (revenue/COGS).
// ExternalID + Source permiten deduplicar pedidos importados de marketplaces.
type Deal struct {
	ID            string
	TenantID      string
	ClientID      string
	Title         string
	TotalPrice    decimal.Decimal
	TotalCost     decimal.Decimal
	Margin        decimal.Decimal
	Currency      string
	Status        DealStatus
	Source        string // "manual" | "kaspi" | "wildberries" | ...
	SourceDetails string
	ExternalID    string
	ResponsibleID *string
	Comments      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time

	Items []DealItem
}

// DealItem línea de una venta. Totales precalculados para agregación rápida.
type DealItem struct {
	ID         string
	DealID     string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	UnitCost   decimal.Decimal
	TotalPrice decimal.Decimal
	TotalCost  decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecalcTotals recalcula TotalPrice, TotalCost y Margin a partir de los items.
func (d *Deal) RecalcTotals() {
	total := decimal.Zero
	cost := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.TotalPrice)
		cost = cost.Add(it.TotalCost)
	}
	d.TotalPrice = total
	d.TotalCost = cost
	d.Margin = total.Sub(cost)
}
