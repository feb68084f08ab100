// Package scheduler agenda la sincronización periódica de pedidos de
// marketplaces externos (Kaspi, Wildberries) hacia el pipeline de ventas.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
	"github.com/bizio/bizio-api/pkg/config"
	"github.com/bizio/bizio-api/pkg/logger"
)

const syncLockKey = "sync:orders:lock"

// OrderSyncService gestiona el agendamiento y la ejecución de la importación
// de pedidos. Cada pedido importado se convierte en un deal cerrado
// (final_account) para que cuente en la agregación financiera.
type OrderSyncService struct {
	scheduler   *gocron.Scheduler
	cfg         config.OrderSyncConfig
	adapters    []ports.MarketplaceAdapter
	tenantRepo  repository.TenantRepository
	clientRepo  repository.ClientRepository
	dealRepo    repository.DealRepository
	productRepo repository.ProductRepository
	cache       ports.Cache
	log         *logger.Logger

	syncRunning     bool
	syncMutex       sync.Mutex
	lastStartedAt   time.Time
	lastCompletedAt time.Time
}

// NewOrderSyncService crea el servicio de sincronización.
func NewOrderSyncService(
	cfg config.OrderSyncConfig,
	adapters []ports.MarketplaceAdapter,
	tenantRepo repository.TenantRepository,
	clientRepo repository.ClientRepository,
	dealRepo repository.DealRepository,
	productRepo repository.ProductRepository,
	cache ports.Cache,
	log *logger.Logger,
) *OrderSyncService {
	return &OrderSyncService{
		scheduler:   gocron.NewScheduler(time.UTC),
		cfg:         cfg,
		adapters:    adapters,
		tenantRepo:  tenantRepo,
		clientRepo:  clientRepo,
		dealRepo:    dealRepo,
		productRepo: productRepo,
		cache:       cache,
		log:         log,
	}
}

// Start agenda la sincronización según el cron configurado. El agendador se
// detiene cuando el contexto se cancela.
func (s *OrderSyncService) Start(ctx context.Context) error {
	if !s.cfg.Enabled || len(s.adapters) == 0 {
		s.log.Info().Msg("Sincronización de pedidos deshabilitada")
		return nil
	}

	s.log.Info().
		Str("cron", s.cfg.CronSchedule).
		Int("lookback_days", s.cfg.LookbackDays).
		Int("adapters", len(s.adapters)).
		Msg("Iniciando agendador de sincronización de pedidos")

	_, err := s.scheduler.Cron(s.cfg.CronSchedule).Do(func() {
		s.runLocked(context.Background())
	})
	if err != nil {
		return fmt.Errorf("agendar sincronización de pedidos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("Deteniendo agendador de sincronización de pedidos")
		s.scheduler.Stop()
	}()

	return nil
}

// GetStatus estado actual del agendador (para diagnóstico).
func (s *OrderSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return map[string]any{
		"enabled":           s.cfg.Enabled,
		"cron":              s.cfg.CronSchedule,
		"lookback_days":     s.cfg.LookbackDays,
		"running":           s.syncRunning,
		"last_started_at":   s.lastStartedAt,
		"last_completed_at": s.lastCompletedAt,
	}
}

// RunGuarded ejecuta RunOnce protegido contra solapamiento: el guard local
// cubre corridas concurrentes en el mismo proceso (cron vs endpoint manual) y
// el lock distribuido cubre otras instancias detrás del balanceador. Devuelve
// ok=false si otra corrida ya tiene alguno de los dos guards.
func (s *OrderSyncService) RunGuarded(ctx context.Context) ([]dto.SyncResultResponse, bool, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, false, nil
	}
	s.syncRunning = true
	s.lastStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	if !s.cache.TryLock(ctx, syncLockKey, 10*time.Minute) {
		return nil, false, nil
	}
	defer s.cache.Unlock(ctx, syncLockKey)

	results, err := s.RunOnce(ctx)
	return results, true, err
}

// runLocked corrida del cron: RunGuarded más logging del resultado.
func (s *OrderSyncService) runLocked(ctx context.Context) {
	results, ok, err := s.RunGuarded(ctx)
	if !ok {
		s.log.Info().Msg("Sincronización de pedidos ya en curso, ignorando")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Sincronización de pedidos falló")
		return
	}
	for _, r := range results {
		s.log.Info().
			Str("source", r.Source).
			Int("fetched", r.OrdersFetched).
			Int("created", r.DealsCreated).
			Int("skipped", r.DealsSkipped).
			Int("errors", r.Errors).
			Msg("Sincronización de pedidos completada")
	}
}

// RunOnce importa los pedidos de todos los adapters desde la ventana de
// lookback. No toma guards: los llamadores pasan por RunGuarded.
func (s *OrderSyncService) RunOnce(ctx context.Context) ([]dto.SyncResultResponse, error) {
	if s.cfg.TenantCode == "" {
		return nil, fmt.Errorf("sincronización de pedidos: ORDER_SYNC_TENANT no configurado")
	}
	tenant, err := s.tenantRepo.GetByCode(s.cfg.TenantCode)
	if err != nil {
		return nil, fmt.Errorf("sincronización de pedidos: buscar tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("sincronización de pedidos: tenant %q no existe", s.cfg.TenantCode)
	}

	since := time.Now().AddDate(0, 0, -s.cfg.LookbackDays)

	results := make([]dto.SyncResultResponse, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		results = append(results, s.syncAdapter(ctx, tenant, adapter, since))
	}
	return results, nil
}

func (s *OrderSyncService) syncAdapter(ctx context.Context, tenant *entity.Tenant, adapter ports.MarketplaceAdapter, since time.Time) dto.SyncResultResponse {
	source := adapter.Name()
	result := dto.SyncResultResponse{Source: source}

	orders, err := adapter.FetchOrders(ctx, since)
	if err != nil {
		s.log.Error().Err(err).Str("source", source).Msg("Error al traer pedidos del marketplace")
		result.Errors++
		return result
	}
	result.OrdersFetched = len(orders)

	for _, order := range orders {
		created, err := s.importOrder(tenant, source, order)
		if err != nil {
			s.log.Error().Err(err).
				Str("source", source).
				Str("external_id", order.ExternalID).
				Msg("Error al importar pedido")
			result.Errors++
			continue
		}
		if created {
			result.DealsCreated++
		} else {
			result.DealsSkipped++
		}
	}
	return result
}

// importOrder crea el deal para un pedido si aún no existe. Devuelve true si
// se creó, false si ya estaba importado.
func (s *OrderSyncService) importOrder(tenant *entity.Tenant, source string, order ports.MarketplaceOrder) (bool, error) {
	existing, err := s.dealRepo.GetByExternalID(tenant.ID, source, order.ExternalID)
	if err != nil {
		return false, fmt.Errorf("deduplicar pedido: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	client, err := s.resolveClient(tenant, source, order)
	if err != nil {
		return false, err
	}

	closedAt := order.CreatedAt
	deal := &entity.Deal{
		ID:         uuid.New().String(),
		TenantID:   tenant.ID,
		ClientID:   client.ID,
		Title:      fmt.Sprintf("Pedido %s %s", source, order.ExternalID),
		Currency:   order.Currency,
		Status:     entity.DealStatusFinalAccount,
		Source:     source,
		ExternalID: order.ExternalID,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.CreatedAt,
		ClosedAt:   &closedAt,
	}

	for _, item := range order.Items {
		product, err := s.resolveProduct(tenant, order.Currency, item)
		if err != nil {
			return false, err
		}
		deal.Items = append(deal.Items, entity.DealItem{
			ID:         uuid.New().String(),
			DealID:     deal.ID,
			ProductID:  product.ID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			UnitCost:   product.DefaultCost,
			TotalPrice: item.UnitPrice.Mul(item.Quantity),
			TotalCost:  product.DefaultCost.Mul(item.Quantity),
			CreatedAt:  order.CreatedAt,
			UpdatedAt:  order.CreatedAt,
		})
	}

	deal.RecalcTotals()
	// El total reportado por el marketplace manda (incluye descuentos y
	// comisiones que las líneas no reflejan).
	if order.Total.IsPositive() {
		deal.TotalPrice = order.Total
		deal.Margin = deal.TotalPrice.Sub(deal.TotalCost)
	}

	if err := s.dealRepo.Create(deal); err != nil {
		return false, fmt.Errorf("crear deal importado: %w", err)
	}
	return true, nil
}

// resolveClient busca el cliente del pedido por su id externo y lo crea si no
// existe. El id externo se prefija con el source para evitar colisiones entre
// marketplaces.
func (s *OrderSyncService) resolveClient(tenant *entity.Tenant, source string, order ports.MarketplaceOrder) (*entity.Client, error) {
	externalID := source + ":" + order.CustomerID
	client, err := s.clientRepo.GetByExternalID(tenant.ID, externalID)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente externo: %w", err)
	}
	if client != nil {
		return client, nil
	}

	name := order.CustomerName
	if name == "" {
		name = fmt.Sprintf("Cliente %s %s", source, order.CustomerID)
	}
	now := time.Now()
	client = &entity.Client{
		ID:         uuid.New().String(),
		TenantID:   tenant.ID,
		Name:       name,
		Phone:      order.CustomerPhone,
		ExternalID: externalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, fmt.Errorf("crear cliente externo: %w", err)
	}
	return client, nil
}

// resolveProduct busca el producto por SKU y lo crea si no existe todavía en
// el catálogo (costo por defecto cero hasta que se registre una compra).
func (s *OrderSyncService) resolveProduct(tenant *entity.Tenant, currency string, item ports.MarketplaceOrderItem) (*entity.Product, error) {
	product, err := s.productRepo.GetByTenantAndSKU(tenant.ID, item.SKU)
	if err != nil {
		return nil, fmt.Errorf("buscar producto por SKU: %w", err)
	}
	if product != nil {
		return product, nil
	}

	title := item.Title
	if title == "" {
		title = item.SKU
	}
	now := time.Now()
	product = &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		SKU:          item.SKU,
		Title:        title,
		DefaultPrice: item.UnitPrice,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("crear producto importado: %w", err)
	}
	return product, nil
}
