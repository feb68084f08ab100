package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// PurchaseTxRunner ejecuta la recepción de una orden de compra de forma
// atómica: cambio de estado + alta de lotes de inventario.
type PurchaseTxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		inventoryRepo repository.InventoryRepository,
	) error) error
}

// SupplierUseCase casos de uso de proveedores, ofertas y órdenes de compra.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	poRepo   repository.PurchaseOrderRepository
	txRunner PurchaseTxRunner
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, poRepo repository.PurchaseOrderRepository, txRunner PurchaseTxRunner) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, poRepo: poRepo, txRunner: txRunner}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(tenantID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         in.Name,
		Contact:      in.Contact,
		Rating:       in.Rating,
		LeadTimeDays: in.LeadTimeDays,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	return toSupplierResponse(supplier), nil
}

// Update actualiza un proveedor (campos opcionales).
func (uc *SupplierUseCase) Update(id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	if in.Name != nil {
		supplier.Name = *in.Name
	}
	if len(in.Contact) > 0 {
		supplier.Contact = in.Contact
	}
	if in.Rating != nil {
		supplier.Rating = in.Rating
	}
	if in.LeadTimeDays != nil {
		supplier.LeadTimeDays = in.LeadTimeDays
	}
	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores del tenant con búsqueda y paginación.
func (uc *SupplierUseCase) List(tenantID, search string, limit, offset int) (*dto.SupplierListResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un proveedor por ID.
func (uc *SupplierUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// CreateOffer registra una oferta de precio del proveedor para un producto.
func (uc *SupplierUseCase) CreateOffer(supplierID string, in dto.CreateSupplierOfferRequest) (*dto.SupplierOfferResponse, error) {
	supplier, err := uc.repo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	offer := &entity.SupplierOffer{
		ID:           uuid.New().String(),
		SupplierID:   supplierID,
		ProductID:    in.ProductID,
		Price:        in.Price,
		Currency:     in.Currency,
		MOQ:          in.MOQ,
		LeadTimeDays: in.LeadTimeDays,
		ValidUntil:   in.ValidUntil,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.CreateOffer(offer); err != nil {
		return nil, err
	}
	return toOfferResponse(offer), nil
}

// ListOffers lista las ofertas de un proveedor.
func (uc *SupplierUseCase) ListOffers(supplierID string) ([]dto.SupplierOfferResponse, error) {
	offers, err := uc.repo.ListOffersBySupplier(supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierOfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, *toOfferResponse(o))
	}
	return out, nil
}

// DeleteOffer elimina una oferta del proveedor. La oferta debe pertenecer al
// proveedor indicado; una oferta de otro proveedor es ErrNotFound.
func (uc *SupplierUseCase) DeleteOffer(supplierID, offerID string) error {
	return uc.repo.DeleteOffer(supplierID, offerID)
}

// CreatePurchaseOrder crea una orden de compra en estado pending.
// El total se calcula de las líneas.
func (uc *SupplierUseCase) CreatePurchaseOrder(tenantID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplier, err := uc.repo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		SupplierID: in.SupplierID,
		Reference:  in.Reference,
		Currency:   in.Currency,
		Status:     entity.PurchaseOrderPending,
		ETA:        in.ETA,
		CreatedAt:  time.Now(),
	}
	total := decimal.Zero
	for _, it := range in.Items {
		if it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		line := entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       it.ProductID,
			Qty:             it.Qty,
			UnitPrice:       it.UnitPrice,
			Currency:        in.Currency,
		}
		po.Items = append(po.Items, line)
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	po.TotalAmount = total

	if err := uc.poRepo.Create(po); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder obtiene una orden de compra por ID.
func (uc *SupplierUseCase) GetPurchaseOrder(tenantID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil || po.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return toPurchaseOrderResponse(po), nil
}

// ListPurchaseOrders lista órdenes de compra del tenant.
func (uc *SupplierUseCase) ListPurchaseOrders(tenantID, status string, limit, offset int) ([]dto.PurchaseOrderResponse, error) {
	list, err := uc.poRepo.ListByTenant(tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *toPurchaseOrderResponse(po))
	}
	return out, nil
}

// ReceivePurchaseOrder marca la orden como recibida y crea un lote de
// inventario por cada línea, todo en una transacción.
func (uc *SupplierUseCase) ReceivePurchaseOrder(ctx context.Context, tenantID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil || po.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if po.Status != entity.PurchaseOrderPending {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	err = uc.txRunner.RunPurchase(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		inventoryRepo repository.InventoryRepository,
	) error {
		for _, it := range po.Items {
			qty := decimal.NewFromInt(int64(it.Qty))
			batch := &entity.InventoryBatch{
				ID:                uuid.New().String(),
				TenantID:          tenantID,
				ProductID:         it.ProductID,
				Quantity:          qty,
				RemainingQuantity: qty,
				UnitCost:          it.UnitPrice,
				Currency:          it.Currency,
				ReceivedDate:      now,
				SupplierID:        &po.SupplierID,
				Reference:         po.Reference,
				CreatedAt:         now,
			}
			if err := inventoryRepo.CreateBatch(batch); err != nil {
				return err
			}
		}
		return poRepo.UpdateStatus(po.ID, entity.PurchaseOrderReceived)
	})
	if err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderReceived
	po.ReceivedAt = &now
	return toPurchaseOrderResponse(po), nil
}

// CancelPurchaseOrder cancela una orden pendiente.
func (uc *SupplierUseCase) CancelPurchaseOrder(tenantID, id string) error {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return err
	}
	if po == nil || po.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if po.Status != entity.PurchaseOrderPending {
		return domain.ErrConflict
	}
	return uc.poRepo.UpdateStatus(id, entity.PurchaseOrderCanceled)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:           s.ID,
		TenantID:     s.TenantID,
		Name:         s.Name,
		Contact:      s.Contact,
		Rating:       s.Rating,
		LeadTimeDays: s.LeadTimeDays,
		CreatedAt:    s.CreatedAt,
	}
}

func toOfferResponse(o *entity.SupplierOffer) *dto.SupplierOfferResponse {
	if o == nil {
		return nil
	}
	return &dto.SupplierOfferResponse{
		ID:           o.ID,
		SupplierID:   o.SupplierID,
		ProductID:    o.ProductID,
		Price:        o.Price,
		Currency:     o.Currency,
		MOQ:          o.MOQ,
		LeadTimeDays: o.LeadTimeDays,
		ValidUntil:   o.ValidUntil,
		CreatedAt:    o.CreatedAt,
	}
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Currency:  it.Currency,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:          po.ID,
		TenantID:    po.TenantID,
		SupplierID:  po.SupplierID,
		Reference:   po.Reference,
		TotalAmount: po.TotalAmount,
		Currency:    po.Currency,
		Status:      po.Status,
		ETA:         po.ETA,
		CreatedAt:   po.CreatedAt,
		ReceivedAt:  po.ReceivedAt,
		Items:       items,
	}
}
