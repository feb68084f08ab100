package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y recepción de inventario.
type ProductUseCase struct {
	repo          repository.ProductRepository
	inventoryRepo repository.InventoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, inventoryRepo repository.InventoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, inventoryRepo: inventoryRepo}
}

// Create crea un producto. El SKU es único por tenant.
func (uc *ProductUseCase) Create(tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetByTenantAndSKU(tenantID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.DefaultCost.IsNegative() || in.DefaultPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		SKU:          in.SKU,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		DefaultCost:  in.DefaultCost,
		DefaultPrice: in.DefaultPrice,
		Currency:     in.Currency,
		Images:       in.Images,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto (campos opcionales).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.DefaultCost != nil {
		if in.DefaultCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.DefaultCost = *in.DefaultCost
	}
	if in.DefaultPrice != nil {
		if in.DefaultPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.DefaultPrice = *in.DefaultPrice
	}
	if in.Currency != nil {
		product.Currency = *in.Currency
	}
	if len(in.Images) > 0 {
		product.Images = in.Images
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant con búsqueda y paginación.
func (uc *ProductUseCase) List(tenantID, search string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByTenant(tenantID, search)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// ReceiveInventory registra un lote de inventario del producto.
// La cantidad y el costo unitario deben ser positivos.
func (uc *ProductUseCase) ReceiveInventory(tenantID, productID string, in dto.ReceiveInventoryRequest) (*dto.InventoryBatchResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if !in.Quantity.IsPositive() || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	received := time.Now()
	if in.ReceivedDate != nil {
		received = *in.ReceivedDate
	}
	currency := in.Currency
	if currency == "" {
		currency = product.Currency
	}
	batch := &entity.InventoryBatch{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		ProductID:         productID,
		Quantity:          in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          in.UnitCost,
		Currency:          currency,
		ReceivedDate:      received,
		SupplierID:        in.SupplierID,
		Reference:         in.Reference,
		Location:          in.Location,
		CreatedAt:         time.Now(),
	}
	if err := uc.inventoryRepo.CreateBatch(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// GetInventory devuelve los lotes y el stock total del producto.
func (uc *ProductUseCase) GetInventory(tenantID, productID string, limit, offset int) (*dto.ProductInventoryResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	batches, err := uc.inventoryRepo.ListBatchesByProduct(tenantID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	stock, err := uc.inventoryRepo.StockByProduct(tenantID, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryBatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, *toBatchResponse(b))
	}
	return &dto.ProductInventoryResponse{
		ProductID: productID,
		Stock:     stock,
		Batches:   items,
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		SKU:          p.SKU,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		DefaultCost:  p.DefaultCost,
		DefaultPrice: p.DefaultPrice,
		Currency:     p.Currency,
		Images:       p.Images,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toBatchResponse(b *entity.InventoryBatch) *dto.InventoryBatchResponse {
	if b == nil {
		return nil
	}
	return &dto.InventoryBatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitCost:          b.UnitCost,
		Currency:          b.Currency,
		ReceivedDate:      b.ReceivedDate,
		SupplierID:        b.SupplierID,
		Reference:         b.Reference,
		Location:          b.Location,
	}
}
