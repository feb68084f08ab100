package repository

import "github.com/bizio/bizio-api/internal/domain/entity"

// DealFilter filtros de listado de negocios.
type DealFilter struct {
	Status   string
	ClientID string
	Source   string
	Search   string
	Limit    int
	Offset   int
}

// DealRepository define el puerto de persistencia para Deal y sus líneas.
type DealRepository interface {
	// Create persiste el negocio y sus items en una sola transacción.
	Create(deal *entity.Deal) error
	GetByID(id string) (*entity.Deal, error)
	// GetByExternalID busca por el id del pedido en el marketplace de origen
	// (deduplicación de la sincronización).
	GetByExternalID(tenantID, source, externalID string) (*entity.Deal, error)
	Update(deal *entity.Deal) error
	AddItem(item *entity.DealItem) error
	DeleteItem(dealID, itemID string) error
	ListByTenant(tenantID string, filter DealFilter) ([]*entity.Deal, error)
	CountByTenant(tenantID string, filter DealFilter) (int, error)
	Delete(id string) error
}
