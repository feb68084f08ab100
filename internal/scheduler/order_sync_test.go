package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
	"github.com/bizio/bizio-api/internal/scheduler"
	"github.com/bizio/bizio-api/pkg/config"
	"github.com/bizio/bizio-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeTenants struct {
	tenant *entity.Tenant
}

func (f *fakeTenants) Create(*entity.Tenant) error              { return nil }
func (f *fakeTenants) GetByID(string) (*entity.Tenant, error)   { return f.tenant, nil }
func (f *fakeTenants) GetByCode(string) (*entity.Tenant, error) { return f.tenant, nil }
func (f *fakeTenants) Update(*entity.Tenant) error              { return nil }
func (f *fakeTenants) List(int, int) ([]*entity.Tenant, error)  { return nil, nil }

type fakeClients struct {
	byExternalID map[string]*entity.Client
	created      int
}

func newFakeClients() *fakeClients {
	return &fakeClients{byExternalID: map[string]*entity.Client{}}
}

func (f *fakeClients) Create(c *entity.Client) error {
	f.created++
	f.byExternalID[c.ExternalID] = c
	return nil
}
func (f *fakeClients) GetByID(string) (*entity.Client, error) { return nil, nil }
func (f *fakeClients) GetByExternalID(_, externalID string) (*entity.Client, error) {
	return f.byExternalID[externalID], nil
}
func (f *fakeClients) Update(*entity.Client) error { return nil }
func (f *fakeClients) ListByTenant(string, string, int, int) ([]*entity.Client, error) {
	return nil, nil
}
func (f *fakeClients) CountByTenant(string, string) (int, error) { return 0, nil }
func (f *fakeClients) Delete(string) error                       { return nil }

type fakeDeals struct {
	byExternalID map[string]*entity.Deal // key: source + ":" + externalID
	created      []*entity.Deal
}

func newFakeDeals() *fakeDeals {
	return &fakeDeals{byExternalID: map[string]*entity.Deal{}}
}

func (f *fakeDeals) Create(d *entity.Deal) error {
	f.created = append(f.created, d)
	f.byExternalID[d.Source+":"+d.ExternalID] = d
	return nil
}
func (f *fakeDeals) GetByID(string) (*entity.Deal, error) { return nil, nil }
func (f *fakeDeals) GetByExternalID(_, source, externalID string) (*entity.Deal, error) {
	return f.byExternalID[source+":"+externalID], nil
}
func (f *fakeDeals) Update(*entity.Deal) error       { return nil }
func (f *fakeDeals) AddItem(*entity.DealItem) error  { return nil }
func (f *fakeDeals) DeleteItem(string, string) error { return nil }
func (f *fakeDeals) ListByTenant(string, repository.DealFilter) ([]*entity.Deal, error) {
	return nil, nil
}
func (f *fakeDeals) CountByTenant(string, repository.DealFilter) (int, error) { return 0, nil }
func (f *fakeDeals) Delete(string) error                                      { return nil }

type fakeProducts struct {
	bySKU   map[string]*entity.Product
	created int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{bySKU: map[string]*entity.Product{}}
}

func (f *fakeProducts) Create(p *entity.Product) error {
	f.created++
	f.bySKU[p.SKU] = p
	return nil
}
func (f *fakeProducts) GetByID(string) (*entity.Product, error) { return nil, nil }
func (f *fakeProducts) GetByTenantAndSKU(_, sku string) (*entity.Product, error) {
	return f.bySKU[sku], nil
}
func (f *fakeProducts) Update(*entity.Product) error { return nil }
func (f *fakeProducts) ListByTenant(string, string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) CountByTenant(string, string) (int, error) { return 0, nil }
func (f *fakeProducts) Delete(string) error                       { return nil }

type fakeAdapter struct {
	name   string
	orders []ports.MarketplaceOrder
}

func (f *fakeAdapter) Name() string { return f.name }
func (f *fakeAdapter) FetchOrders(context.Context, time.Time) ([]ports.MarketplaceOrder, error) {
	return f.orders, nil
}

// stubCache simula el lock distribuido: lockBusy=true representa otra
// instancia con el lock tomado.
type stubCache struct {
	lockBusy bool
}

func (c *stubCache) Get(context.Context, string) (string, bool)         { return "", false }
func (c *stubCache) Set(context.Context, string, string, time.Duration) {}
func (c *stubCache) Delete(context.Context, string)                     {}
func (c *stubCache) TryLock(context.Context, string, time.Duration) bool {
	return !c.lockBusy
}
func (c *stubCache) Unlock(context.Context, string) {}

// ──────────────────────────────────────────────────────────────────────────────
// Harness
// ──────────────────────────────────────────────────────────────────────────────

type syncFixture struct {
	svc      *scheduler.OrderSyncService
	tenants  *fakeTenants
	clients  *fakeClients
	deals    *fakeDeals
	products *fakeProducts
	cache    *stubCache
}

func buildSync(adapter ports.MarketplaceAdapter, tenantCode string) *syncFixture {
	f := &syncFixture{
		tenants:  &fakeTenants{tenant: &entity.Tenant{ID: "t1", Code: "demo", Currency: "KZT"}},
		clients:  newFakeClients(),
		deals:    newFakeDeals(),
		products: newFakeProducts(),
		cache:    &stubCache{},
	}
	cfg := config.OrderSyncConfig{
		Enabled:      true,
		CronSchedule: "*/30 * * * *",
		LookbackDays: 7,
		TenantCode:   tenantCode,
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	f.svc = scheduler.NewOrderSyncService(
		cfg, []ports.MarketplaceAdapter{adapter},
		f.tenants, f.clients, f.deals, f.products,
		f.cache, log,
	)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOrder() ports.MarketplaceOrder {
	return ports.MarketplaceOrder{
		ExternalID:    "ORD-1",
		CustomerID:    "cust-1",
		CustomerName:  "Aslan Bekov",
		CustomerPhone: "+7 701 000 0000",
		Total:         dec("500"),
		Currency:      "KZT",
		CreatedAt:     time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Items: []ports.MarketplaceOrderItem{
			{SKU: "SKU-A", Title: "Audífonos", Quantity: dec("2"), UnitPrice: dec("150")},
			{SKU: "SKU-B", Title: "Cargador", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRunOnce_ImportaPedidoComoDealCerrado(t *testing.T) {
	adapter := &fakeAdapter{name: "kaspi", orders: []ports.MarketplaceOrder{sampleOrder()}}
	f := buildSync(adapter, "demo")

	// SKU-A ya existe en el catálogo con costo conocido; SKU-B no.
	f.products.bySKU["SKU-A"] = &entity.Product{
		ID: "p1", TenantID: "t1", SKU: "SKU-A",
		DefaultCost: dec("80"), DefaultPrice: dec("150"),
	}

	results, err := f.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "kaspi", results[0].Source)
	assert.Equal(t, 1, results[0].OrdersFetched)
	assert.Equal(t, 1, results[0].DealsCreated)
	assert.Equal(t, 0, results[0].DealsSkipped)
	assert.Equal(t, 0, results[0].Errors)

	require.Len(t, f.deals.created, 1)
	deal := f.deals.created[0]
	assert.NotEmpty(t, deal.ID)
	assert.Equal(t, "t1", deal.TenantID)
	assert.Equal(t, entity.DealStatusFinalAccount, deal.Status,
		"los pedidos importados entran cerrados para contar en finanzas")
	assert.Equal(t, "kaspi", deal.Source)
	assert.Equal(t, "ORD-1", deal.ExternalID)
	require.NotNil(t, deal.ClosedAt)
	assert.True(t, deal.ClosedAt.Equal(time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)),
		"closed_at debe ser la fecha del pedido en el marketplace")

	// El total del marketplace (500) manda sobre la suma de líneas (400).
	assert.True(t, deal.TotalPrice.Equal(dec("500")), "total reportado: %s", deal.TotalPrice)
	assert.True(t, deal.TotalCost.Equal(dec("160")), "costo: 2 × 80 del SKU conocido")
	assert.True(t, deal.Margin.Equal(dec("340")))
	require.Len(t, deal.Items, 2)

	// Cliente y producto desconocidos se crean sobre la marcha.
	assert.Equal(t, 1, f.clients.created)
	created, _ := f.clients.GetByExternalID("t1", "kaspi:cust-1")
	require.NotNil(t, created, "el id externo del cliente se prefija con el source")
	assert.Equal(t, "Aslan Bekov", created.Name)
	assert.Equal(t, 1, f.products.created, "solo SKU-B es nuevo")
	require.NotNil(t, f.products.bySKU["SKU-B"])
	assert.True(t, f.products.bySKU["SKU-B"].DefaultCost.IsZero(),
		"producto importado arranca con costo cero hasta registrar una compra")
}

func TestRunOnce_PedidoYaImportado_SeOmite(t *testing.T) {
	adapter := &fakeAdapter{name: "kaspi", orders: []ports.MarketplaceOrder{sampleOrder()}}
	f := buildSync(adapter, "demo")
	f.deals.byExternalID["kaspi:ORD-1"] = &entity.Deal{ID: "d1"}

	results, err := f.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 0, results[0].DealsCreated)
	assert.Equal(t, 1, results[0].DealsSkipped)
	assert.Empty(t, f.deals.created, "no debe volver a crear el pedido")
}

func TestRunOnce_ClienteExistente_NoDuplica(t *testing.T) {
	adapter := &fakeAdapter{name: "wildberries", orders: []ports.MarketplaceOrder{sampleOrder()}}
	f := buildSync(adapter, "demo")
	f.clients.byExternalID["wildberries:cust-1"] = &entity.Client{ID: "c1", TenantID: "t1"}

	_, err := f.svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, f.clients.created)
	require.Len(t, f.deals.created, 1)
	assert.Equal(t, "c1", f.deals.created[0].ClientID)
}

func TestRunOnce_SinTenantConfigurado_RetornaError(t *testing.T) {
	adapter := &fakeAdapter{name: "kaspi"}
	f := buildSync(adapter, "")

	_, err := f.svc.RunOnce(context.Background())
	assert.Error(t, err, "sin ORDER_SYNC_TENANT la corrida debe fallar explícitamente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards de solapamiento
// ──────────────────────────────────────────────────────────────────────────────

// blockingAdapter se queda bloqueado en FetchOrders hasta que el test lo
// libere, para mantener una corrida en curso.
type blockingAdapter struct {
	started     chan struct{}
	startedOnce sync.Once
	release     chan struct{}
}

func newBlockingAdapter() *blockingAdapter {
	return &blockingAdapter{started: make(chan struct{}), release: make(chan struct{})}
}

func (a *blockingAdapter) Name() string { return "kaspi" }
func (a *blockingAdapter) FetchOrders(context.Context, time.Time) ([]ports.MarketplaceOrder, error) {
	a.startedOnce.Do(func() { close(a.started) })
	<-a.release
	return nil, nil
}

func TestRunGuarded_SinCorridaEnCurso_Ejecuta(t *testing.T) {
	adapter := &fakeAdapter{name: "kaspi", orders: []ports.MarketplaceOrder{sampleOrder()}}
	f := buildSync(adapter, "demo")

	results, ok, err := f.svc.RunGuarded(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].DealsCreated)
}

func TestRunGuarded_CorridaEnCurso_NoSolapa(t *testing.T) {
	adapter := newBlockingAdapter()
	f := buildSync(adapter, "demo")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok, err := f.svc.RunGuarded(context.Background())
		assert.NoError(t, err)
		assert.True(t, ok)
	}()
	<-adapter.started

	// Con la primera corrida todavía adentro, la segunda no debe arrancar.
	_, ok, err := f.svc.RunGuarded(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "una corrida en curso debe rechazar la segunda")

	close(adapter.release)
	<-done

	// Terminada la primera, el guard queda libre.
	_, ok, err = f.svc.RunGuarded(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunGuarded_LockDistribuidoOcupado_NoCorre(t *testing.T) {
	adapter := &fakeAdapter{name: "kaspi", orders: []ports.MarketplaceOrder{sampleOrder()}}
	f := buildSync(adapter, "demo")
	f.cache.lockBusy = true

	results, ok, err := f.svc.RunGuarded(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "otra instancia con el lock debe frenar la corrida")
	assert.Nil(t, results)
	assert.Empty(t, f.deals.created)
}
