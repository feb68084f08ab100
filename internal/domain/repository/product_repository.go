package repository

import "github.com/bizio/bizio-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByTenantAndSKU(tenantID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByTenant(tenantID string, search string, limit, offset int) ([]*entity.Product, error)
	CountByTenant(tenantID string, search string) (int, error)
	Delete(id string) error
}
