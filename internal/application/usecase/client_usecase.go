package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes del CRM.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente del tenant.
func (uc *ClientUseCase) Create(tenantID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		ExtraData: in.ExtraData,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return toClientResponse(client), nil
}

// Update actualiza un cliente (campos opcionales).
func (uc *ClientUseCase) Update(id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Company != nil {
		client.Company = *in.Company
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if len(in.ExtraData) > 0 {
		client.ExtraData = in.ExtraData
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes del tenant con búsqueda y paginación.
func (uc *ClientUseCase) List(tenantID, search string, limit, offset int) (*dto.ClientListResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByTenant(tenantID, search)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un cliente por ID.
func (uc *ClientUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		Name:       c.Name,
		Company:    c.Company,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		ExternalID: c.ExternalID,
		ExtraData:  c.ExtraData,
		CreatedAt:  c.CreatedAt,
	}
}
