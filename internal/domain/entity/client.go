package entity

import (
	"encoding/json"
	"time"
)

// Client representa un cliente (comprador) del tenant.
// ExternalID enlaza con el identificador del cliente en un marketplace externo.
type Client struct {
	ID         string
	TenantID   string
	Name       string
	Company    string
	Email      string
	Phone      string
	Address    string
	ExternalID string
	ExtraData  json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
