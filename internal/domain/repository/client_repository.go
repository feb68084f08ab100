package repository

import "github.com/bizio/bizio-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client (CRM).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// GetByExternalID busca por el identificador del marketplace de origen
	// (lo usa la sincronización de pedidos para deduplicar).
	GetByExternalID(tenantID, externalID string) (*entity.Client, error)
	Update(client *entity.Client) error
	ListByTenant(tenantID string, search string, limit, offset int) ([]*entity.Client, error)
	CountByTenant(tenantID string, search string) (int, error)
	Delete(id string) error
}
