package dto

import (
	"encoding/json"
	"time"
)

// CreateClientRequest entrada para crear un cliente del CRM.
type CreateClientRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Company   string          `json:"company" validate:"omitempty,max=200"`
	Email     string          `json:"email" validate:"omitempty,email"`
	Phone     string          `json:"phone" validate:"omitempty,max=32"`
	Address   string          `json:"address" validate:"omitempty,max=500"`
	ExtraData json.RawMessage `json:"extra_data"`
}

// UpdateClientRequest entrada para actualizar (campos opcionales).
type UpdateClientRequest struct {
	Name      *string         `json:"name" validate:"omitempty,min=1,max=200"`
	Company   *string         `json:"company" validate:"omitempty,max=200"`
	Email     *string         `json:"email" validate:"omitempty,email"`
	Phone     *string         `json:"phone" validate:"omitempty,max=32"`
	Address   *string         `json:"address" validate:"omitempty,max=500"`
	ExtraData json.RawMessage `json:"extra_data"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	Name       string          `json:"name"`
	Company    string          `json:"company,omitempty"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	ExternalID string          `json:"external_id,omitempty"`
	ExtraData  json.RawMessage `json:"extra_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
