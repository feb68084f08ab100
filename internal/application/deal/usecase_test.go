package deal_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdeal "github.com/bizio/bizio-api/internal/application/deal"
	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memDeals struct {
	byID map[string]*entity.Deal
}

func newMemDeals() *memDeals { return &memDeals{byID: map[string]*entity.Deal{}} }

func (m *memDeals) Create(d *entity.Deal) error {
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}
func (m *memDeals) GetByID(id string) (*entity.Deal, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}
func (m *memDeals) GetByExternalID(string, string, string) (*entity.Deal, error) {
	return nil, nil
}
func (m *memDeals) Update(d *entity.Deal) error {
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}
func (m *memDeals) AddItem(*entity.DealItem) error  { return nil }
func (m *memDeals) DeleteItem(string, string) error { return nil }
func (m *memDeals) ListByTenant(string, repository.DealFilter) ([]*entity.Deal, error) {
	return nil, nil
}
func (m *memDeals) CountByTenant(string, repository.DealFilter) (int, error) { return 0, nil }
func (m *memDeals) Delete(id string) error {
	delete(m.byID, id)
	return nil
}

type memClients struct {
	byID map[string]*entity.Client
}

func (m *memClients) Create(c *entity.Client) error { m.byID[c.ID] = c; return nil }
func (m *memClients) GetByID(id string) (*entity.Client, error) {
	return m.byID[id], nil
}
func (m *memClients) GetByExternalID(string, string) (*entity.Client, error) { return nil, nil }
func (m *memClients) Update(*entity.Client) error                            { return nil }
func (m *memClients) ListByTenant(string, string, int, int) ([]*entity.Client, error) {
	return nil, nil
}
func (m *memClients) CountByTenant(string, string) (int, error) { return 0, nil }
func (m *memClients) Delete(string) error                       { return nil }

type memProducts struct {
	byID map[string]*entity.Product
}

func (m *memProducts) Create(p *entity.Product) error { m.byID[p.ID] = p; return nil }
func (m *memProducts) GetByID(id string) (*entity.Product, error) {
	return m.byID[id], nil
}
func (m *memProducts) GetByTenantAndSKU(string, string) (*entity.Product, error) {
	return nil, nil
}
func (m *memProducts) Update(*entity.Product) error { return nil }
func (m *memProducts) ListByTenant(string, string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (m *memProducts) CountByTenant(string, string) (int, error) { return 0, nil }
func (m *memProducts) Delete(string) error                       { return nil }

type memInventory struct {
	batches []*entity.InventoryBatch // ordenados por received_date asc
}

func (m *memInventory) CreateBatch(b *entity.InventoryBatch) error {
	m.batches = append(m.batches, b)
	return nil
}
func (m *memInventory) GetBatchByID(string) (*entity.InventoryBatch, error) { return nil, nil }
func (m *memInventory) ListOpenBatches(_, productID string) ([]*entity.InventoryBatch, error) {
	var out []*entity.InventoryBatch
	for _, b := range m.batches {
		if b.ProductID == productID && b.RemainingQuantity.IsPositive() {
			out = append(out, b)
		}
	}
	return out, nil
}
func (m *memInventory) ListBatchesByProduct(string, string, int, int) ([]*entity.InventoryBatch, error) {
	return nil, nil
}
func (m *memInventory) DecrementBatch(batchID string, qty decimal.Decimal) error {
	for _, b := range m.batches {
		if b.ID == batchID {
			b.RemainingQuantity = b.RemainingQuantity.Sub(qty)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (m *memInventory) StockByProduct(string, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (m *memInventory) StockLevels(string, int, int) ([]*entity.StockLevel, error) {
	return nil, nil
}

// fakeTx pasa los fakes directo al callback, sin transacción real.
type fakeTx struct {
	deals    *memDeals
	inv      *memInventory
	products *memProducts
}

func (t *fakeTx) Run(_ context.Context, fn func(
	repository.DealRepository,
	repository.InventoryRepository,
	repository.ProductRepository,
) error) error {
	return fn(t.deals, t.inv, t.products)
}

// ──────────────────────────────────────────────────────────────────────────────
// Harness
// ──────────────────────────────────────────────────────────────────────────────

type dealFixture struct {
	uc       *appdeal.DealUseCase
	deals    *memDeals
	clients  *memClients
	products *memProducts
	inv      *memInventory
}

func buildDealFixture() *dealFixture {
	f := &dealFixture{
		deals:    newMemDeals(),
		clients:  &memClients{byID: map[string]*entity.Client{}},
		products: &memProducts{byID: map[string]*entity.Product{}},
		inv:      &memInventory{},
	}
	f.clients.byID["c1"] = &entity.Client{ID: "c1", TenantID: "t1", Name: "Aslan"}
	f.products.byID["p1"] = &entity.Product{
		ID: "p1", TenantID: "t1", SKU: "SKU-001",
		DefaultCost: dec("50"), DefaultPrice: dec("30"),
	}
	tx := &fakeTx{deals: f.deals, inv: f.inv, products: f.products}
	f.uc = appdeal.NewDealUseCase(tx, f.deals, f.clients)
	return f
}

func (f *dealFixture) addBatch(id string, remaining, unitCost string, daysAgo int) {
	qty := dec(remaining)
	f.inv.batches = append(f.inv.batches, &entity.InventoryBatch{
		ID: id, TenantID: "t1", ProductID: "p1",
		Quantity: qty, RemainingQuantity: qty,
		UnitCost:     dec(unitCost),
		ReceivedDate: time.Now().AddDate(0, 0, -daysAgo),
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CosteaPorFIFO(t *testing.T) {
	f := buildDealFixture()
	// Lote viejo barato, lote nuevo caro.
	f.addBatch("b1", "5", "10", 30)
	f.addBatch("b2", "5", "20", 10)

	resp, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Title:    "Venta FIFO",
		Currency: "KZT",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("8"), UnitPrice: dec("30")},
		},
	})
	require.NoError(t, err)

	// 5 × 10 + 3 × 20 = 110 → costo unitario 13.75
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitCost.Equal(dec("13.75")), "costo FIFO: %s", resp.Items[0].UnitCost)
	assert.True(t, resp.TotalPrice.Equal(dec("240")))
	assert.True(t, resp.TotalCost.Equal(dec("110")))
	assert.True(t, resp.Margin.Equal(dec("130")))
	assert.Equal(t, string(entity.DealStatusNew), resp.Status)

	// Los lotes quedan descontados en orden de llegada.
	assert.True(t, f.inv.batches[0].RemainingQuantity.IsZero(), "el lote viejo se agota primero")
	assert.True(t, f.inv.batches[1].RemainingQuantity.Equal(dec("2")))
}

func TestCreate_SinLotes_UsaCostoPorDefecto(t *testing.T) {
	f := buildDealFixture()

	resp, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("30")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Items[0].UnitCost.Equal(dec("50")), "sin lotes manda el costo por defecto")
	assert.True(t, resp.TotalCost.Equal(dec("100")))
}

func TestCreate_CostoExplicitoManda(t *testing.T) {
	f := buildDealFixture()
	f.addBatch("b1", "10", "10", 30)

	resp, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("4"), UnitPrice: dec("30"), UnitCost: decPtr("7")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Items[0].UnitCost.Equal(dec("7")))
	assert.True(t, f.inv.batches[0].RemainingQuantity.Equal(dec("10")),
		"con costo explícito no se toca el inventario")
}

func TestCreate_StockInsuficiente_RetornaError(t *testing.T) {
	f := buildDealFixture()
	f.addBatch("b1", "3", "10", 30)

	_, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("5"), UnitPrice: dec("30")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreate_CantidadNoPositiva_RetornaError(t *testing.T) {
	f := buildDealFixture()

	_, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("0"), UnitPrice: dec("30")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ClienteDeOtroTenant_NotFound(t *testing.T) {
	f := buildDealFixture()

	_, err := f.uc.Create(context.Background(), "otro-tenant", dto.CreateDealRequest{ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_CerrarFijaClosedAt(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{ClientID: "c1"})
	require.NoError(t, err)

	resp, err := f.uc.UpdateStatus("t1", created.ID, "final_account")
	require.NoError(t, err)

	assert.Equal(t, "final_account", resp.Status)
	require.NotNil(t, resp.ClosedAt, "cerrar la venta fija closed_at")

	// Una venta cerrada no admite más transiciones.
	_, err = f.uc.UpdateStatus("t1", created.ID, "at_work")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_EstadoDesconocido_RetornaError(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{ClientID: "c1"})
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus("t1", created.ID, "archivado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items y rentabilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_VentaCerrada_Rechaza(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{ClientID: "c1"})
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus("t1", created.ID, "final_account")
	require.NoError(t, err)

	_, err = f.uc.AddItem(context.Background(), "t1", created.ID,
		dto.DealItemRequest{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("30")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRemoveItem_RecalculaTotales(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("30"), UnitCost: decPtr("10")},
			{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("100"), UnitCost: decPtr("40")},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	resp, err := f.uc.RemoveItem(context.Background(), "t1", created.ID, created.Items[1].ID)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.TotalPrice.Equal(dec("60")))
	assert.True(t, resp.TotalCost.Equal(dec("20")))
	assert.True(t, resp.Margin.Equal(dec("40")))
}

func TestRemoveItem_ItemInexistente_NotFound(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{ClientID: "c1"})
	require.NoError(t, err)

	_, err = f.uc.RemoveItem(context.Background(), "t1", created.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfit_CalculaMargenPorcentual(t *testing.T) {
	f := buildDealFixture()
	created, err := f.uc.Create(context.Background(), "t1", dto.CreateDealRequest{
		ClientID: "c1",
		Items: []dto.DealItemRequest{
			{ProductID: "p1", Quantity: dec("10"), UnitPrice: dec("20"), UnitCost: decPtr("15")},
		},
	})
	require.NoError(t, err)

	profit, err := f.uc.Profit("t1", created.ID)
	require.NoError(t, err)

	assert.Equal(t, "200.00", profit.TotalPrice)
	assert.Equal(t, "150.00", profit.TotalCost)
	assert.Equal(t, "50.00", profit.Margin)
	require.NotNil(t, profit.MarginPct)
	assert.Equal(t, "25.00", *profit.MarginPct)
}
