package repository

import "github.com/bizio/bizio-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier y sus ofertas.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	ListByTenant(tenantID string, search string, limit, offset int) ([]*entity.Supplier, error)
	Delete(id string) error

	CreateOffer(offer *entity.SupplierOffer) error
	ListOffersBySupplier(supplierID string) ([]*entity.SupplierOffer, error)
	ListOffersByProduct(tenantID, productID string) ([]*entity.SupplierOffer, error)
	// DeleteOffer elimina la oferta solo si pertenece al proveedor indicado;
	// ErrNotFound en caso contrario.
	DeleteOffer(supplierID, id string) error
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	UpdateStatus(id string, status string) error
	ListByTenant(tenantID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
