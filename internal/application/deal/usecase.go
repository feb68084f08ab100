package deal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/inventory"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// DealUseCase casos de uso del pipeline de ventas: creación con costeo FIFO,
// líneas, transiciones de estado y rentabilidad.
type DealUseCase struct {
	txRunner   TxRunner
	dealRepo   repository.DealRepository
	clientRepo repository.ClientRepository
}

// NewDealUseCase construye el caso de uso.
func NewDealUseCase(txRunner TxRunner, dealRepo repository.DealRepository, clientRepo repository.ClientRepository) *DealUseCase {
	return &DealUseCase{txRunner: txRunner, dealRepo: dealRepo, clientRepo: clientRepo}
}

// Create crea una venta con sus líneas en una sola transacción. El costo
// unitario de cada línea sale del FIFO de lotes; si el producto no tiene
// lotes abiertos se usa su costo por defecto.
func (uc *DealUseCase) Create(ctx context.Context, tenantID string, in dto.CreateDealRequest) (*dto.DealResponse, error) {
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	source := in.Source
	if source == "" {
		source = "manual"
	}
	d := &entity.Deal{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ClientID:      in.ClientID,
		Title:         in.Title,
		Currency:      in.Currency,
		Status:        entity.DealStatusNew,
		Source:        source,
		ResponsibleID: in.ResponsibleID,
		Comments:      in.Comments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(
		dealRepo repository.DealRepository,
		inventoryRepo repository.InventoryRepository,
		productRepo repository.ProductRepository,
	) error {
		for _, it := range in.Items {
			item, err := buildItem(tenantID, d.ID, it, inventoryRepo, productRepo)
			if err != nil {
				return err
			}
			d.Items = append(d.Items, *item)
		}
		d.RecalcTotals()
		return dealRepo.Create(d)
	})
	if err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *DealUseCase) GetByID(tenantID, id string) (*dto.DealResponse, error) {
	d, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// Update actualiza campos básicos de una venta.
func (uc *DealUseCase) Update(tenantID, id string, in dto.UpdateDealRequest) (*dto.DealResponse, error) {
	d, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		d.Title = *in.Title
	}
	if in.ClientID != nil {
		client, err := uc.clientRepo.GetByID(*in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil || client.TenantID != tenantID {
			return nil, domain.ErrNotFound
		}
		d.ClientID = *in.ClientID
	}
	if in.ResponsibleID != nil {
		d.ResponsibleID = in.ResponsibleID
	}
	if in.Comments != nil {
		d.Comments = *in.Comments
	}
	d.UpdatedAt = time.Now()
	if err := uc.dealRepo.Update(d); err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// UpdateStatus mueve la venta en el pipeline. Una venta cerrada
// (final_account) no admite más transiciones; al cerrar se fija ClosedAt,
// que es lo que la hace contar en la agregación financiera.
func (uc *DealUseCase) UpdateStatus(tenantID, id string, status string) (*dto.DealResponse, error) {
	if !entity.ValidDealStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DealStatusFinalAccount {
		return nil, domain.ErrInvalidTransition
	}
	d.Status = entity.DealStatus(status)
	d.UpdatedAt = time.Now()
	if d.Status == entity.DealStatusFinalAccount {
		now := time.Now()
		d.ClosedAt = &now
	}
	if err := uc.dealRepo.Update(d); err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// AddItem agrega una línea a una venta abierta, costeando por FIFO y
// descontando lotes en la misma transacción.
func (uc *DealUseCase) AddItem(ctx context.Context, tenantID, dealID string, in dto.DealItemRequest) (*dto.DealResponse, error) {
	d, err := uc.getOwned(tenantID, dealID)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DealStatusFinalAccount {
		return nil, domain.ErrInvalidTransition
	}

	err = uc.txRunner.Run(ctx, func(
		dealRepo repository.DealRepository,
		inventoryRepo repository.InventoryRepository,
		productRepo repository.ProductRepository,
	) error {
		item, err := buildItem(tenantID, d.ID, in, inventoryRepo, productRepo)
		if err != nil {
			return err
		}
		if err := dealRepo.AddItem(item); err != nil {
			return err
		}
		d.Items = append(d.Items, *item)
		d.RecalcTotals()
		d.UpdatedAt = time.Now()
		return dealRepo.Update(d)
	})
	if err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// RemoveItem elimina una línea de una venta abierta y recalcula totales.
// El stock descontado no se repone: la corrección de inventario es una
// recepción manual.
func (uc *DealUseCase) RemoveItem(ctx context.Context, tenantID, dealID, itemID string) (*dto.DealResponse, error) {
	d, err := uc.getOwned(tenantID, dealID)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DealStatusFinalAccount {
		return nil, domain.ErrInvalidTransition
	}
	found := false
	kept := d.Items[:0]
	for _, it := range d.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	d.Items = kept

	err = uc.txRunner.Run(ctx, func(
		dealRepo repository.DealRepository,
		_ repository.InventoryRepository,
		_ repository.ProductRepository,
	) error {
		if err := dealRepo.DeleteItem(d.ID, itemID); err != nil {
			return err
		}
		d.RecalcTotals()
		d.UpdatedAt = time.Now()
		return dealRepo.Update(d)
	})
	if err != nil {
		return nil, err
	}
	return toDealResponse(d), nil
}

// Profit devuelve la rentabilidad de la venta.
func (uc *DealUseCase) Profit(tenantID, id string) (*dto.DealProfitResponse, error) {
	d, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.DealProfitResponse{
		DealID:     d.ID,
		TotalPrice: d.TotalPrice.StringFixed(2),
		TotalCost:  d.TotalCost.StringFixed(2),
		Margin:     d.Margin.StringFixed(2),
	}
	if d.TotalPrice.IsPositive() {
		pct := d.Margin.Div(d.TotalPrice).Mul(decimal.NewFromInt(100)).StringFixed(2)
		resp.MarginPct = &pct
	}
	return resp, nil
}

// List lista ventas del tenant con filtros y paginación.
func (uc *DealUseCase) List(tenantID string, filter repository.DealFilter) (*dto.DealListResponse, error) {
	list, err := uc.dealRepo.ListByTenant(tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.dealRepo.CountByTenant(tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DealResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDealResponse(d))
	}
	return &dto.DealListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// Delete elimina una venta por ID.
func (uc *DealUseCase) Delete(tenantID, id string) error {
	if _, err := uc.getOwned(tenantID, id); err != nil {
		return err
	}
	return uc.dealRepo.Delete(id)
}

func (uc *DealUseCase) getOwned(tenantID, id string) (*entity.Deal, error) {
	d, err := uc.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil || d.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// buildItem arma una línea de venta: valida producto, resuelve el costo
// unitario (explícito > FIFO > costo por defecto) y descuenta lotes.
func buildItem(
	tenantID, dealID string,
	in dto.DealItemRequest,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) (*entity.DealItem, error) {
	if !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	unitCost := decimal.Zero
	switch {
	case in.UnitCost != nil:
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		unitCost = *in.UnitCost
	default:
		batches, err := inventoryRepo.ListOpenBatches(tenantID, in.ProductID)
		if err != nil {
			return nil, err
		}
		if len(batches) == 0 {
			// sin lotes: costo por defecto del producto
			unitCost = product.DefaultCost
		} else {
			deref := make([]entity.InventoryBatch, 0, len(batches))
			for _, b := range batches {
				deref = append(deref, *b)
			}
			cost, err := inventory.FIFOCost(deref, in.Quantity)
			if err != nil {
				return nil, err
			}
			consumptions, err := inventory.Consume(deref, in.Quantity)
			if err != nil {
				return nil, err
			}
			for _, c := range consumptions {
				if err := inventoryRepo.DecrementBatch(c.BatchID, c.Take); err != nil {
					return nil, err
				}
			}
			unitCost = cost
		}
	}

	now := time.Now()
	return &entity.DealItem{
		ID:         uuid.New().String(),
		DealID:     dealID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		UnitCost:   unitCost,
		TotalPrice: in.UnitPrice.Mul(in.Quantity),
		TotalCost:  unitCost.Mul(in.Quantity),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func toDealResponse(d *entity.Deal) *dto.DealResponse {
	if d == nil {
		return nil
	}
	items := make([]dto.DealItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dto.DealItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			UnitCost:   it.UnitCost,
			TotalPrice: it.TotalPrice,
			TotalCost:  it.TotalCost,
		})
	}
	return &dto.DealResponse{
		ID:            d.ID,
		TenantID:      d.TenantID,
		ClientID:      d.ClientID,
		Title:         d.Title,
		TotalPrice:    d.TotalPrice,
		TotalCost:     d.TotalCost,
		Margin:        d.Margin,
		Currency:      d.Currency,
		Status:        string(d.Status),
		Source:        d.Source,
		ExternalID:    d.ExternalID,
		ResponsibleID: d.ResponsibleID,
		Comments:      d.Comments,
		CreatedAt:     d.CreatedAt,
		ClosedAt:      d.ClosedAt,
		Items:         items,
	}
}
