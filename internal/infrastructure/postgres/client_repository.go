package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, tenant_id, name, company, email, phone, address, external_id, extra_data, created_at, updated_at`

// Create persiste un cliente nuevo.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, company, email, phone, address, external_id, extra_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.TenantID, client.Name, client.Company, client.Email,
		client.Phone, client.Address, client.ExternalID, client.ExtraData,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) scanOne(query string, args ...any) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Address,
		&c.ExternalID, &c.ExtraData, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.scanOne(`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByExternalID busca por el identificador del marketplace de origen.
func (r *ClientRepo) GetByExternalID(tenantID, externalID string) (*entity.Client, error) {
	return r.scanOne(
		`SELECT `+clientColumns+` FROM clients WHERE tenant_id = $1 AND external_id = $2`,
		tenantID, externalID,
	)
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, company = $3, email = $4, phone = $5, address = $6, extra_data = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Company, client.Email, client.Phone,
		client.Address, client.ExtraData, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// ListByTenant lista clientes con búsqueda (nombre/email/teléfono) y paginación.
func (r *ClientRepo) ListByTenant(tenantID string, search string, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Company, &c.Email, &c.Phone,
			&c.Address, &c.ExternalID, &c.ExtraData, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CountByTenant cuenta clientes que matchean la búsqueda.
func (r *ClientRepo) CountByTenant(tenantID string, search string) (int, error) {
	query := `
		SELECT COUNT(*) FROM clients
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%')`
	var total int
	if err := r.q.QueryRow(context.Background(), query, tenantID, search).Scan(&total); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return total, nil
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
