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

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un tenant nuevo.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, code, timezone, currency, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Code, tenant.Timezone, tenant.Currency,
		tenant.IsActive, tenant.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `
		SELECT id, name, code, timezone, currency, is_active, created_at
		FROM tenants WHERE id = $1`
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Name, &t.Code, &t.Timezone, &t.Currency, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// GetByCode obtiene un tenant por código corto.
func (r *TenantRepo) GetByCode(code string) (*entity.Tenant, error) {
	query := `
		SELECT id, name, code, timezone, currency, is_active, created_at
		FROM tenants WHERE code = $1`
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&t.ID, &t.Name, &t.Code, &t.Timezone, &t.Currency, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by code: %w", err)
	}
	return &t, nil
}

// Update actualiza un tenant.
func (r *TenantRepo) Update(tenant *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, timezone = $3, currency = $4, is_active = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Timezone, tenant.Currency, tenant.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// List lista tenants con paginación.
func (r *TenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	query := `
		SELECT id, name, code, timezone, currency, is_active, created_at
		FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.Timezone, &t.Currency, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
