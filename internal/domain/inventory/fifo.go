package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
)

// Consumption cantidad a descontar de un lote concreto (resultado de Consume).
type Consumption struct {
	BatchID string
	Take    decimal.Decimal
}

// FIFOCost calcula el costo unitario promedio de vender qty unidades
// consumiendo los lotes en orden de llegada (los lotes deben venir ordenados
// por fecha de recepción ascendente). El resultado se redondea a 2 decimales.
// Retorna ErrInsufficientStock si los lotes no cubren la cantidad.
func FIFOCost(batches []entity.InventoryBatch, qty decimal.Decimal) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return decimal.Zero, domain.ErrInvalidInput
	}

	totalCost := decimal.Zero
	totalQty := decimal.Zero
	remaining := qty

	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.RemainingQuantity, remaining)
		if !take.IsPositive() {
			continue
		}
		totalCost = totalCost.Add(take.Mul(b.UnitCost))
		totalQty = totalQty.Add(take)
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	return totalCost.Div(totalQty).Round(2), nil
}

// Consume reparte qty entre los lotes en orden FIFO y devuelve cuánto
// descontar de cada uno. No muta los lotes; la persistencia aplica los deltas.
func Consume(batches []entity.InventoryBatch, qty decimal.Decimal) ([]Consumption, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var out []Consumption
	remaining := qty
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.RemainingQuantity, remaining)
		if !take.IsPositive() {
			continue
		}
		out = append(out, Consumption{BatchID: b.ID, Take: take})
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, domain.ErrInsufficientStock
	}
	return out, nil
}
