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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor nuevo.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, tenant_id, name, contact, rating, lead_time_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.TenantID, supplier.Name, supplier.Contact,
		supplier.Rating, supplier.LeadTimeDays, supplier.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, contact, rating, lead_time_days, created_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Contact, &s.Rating, &s.LeadTimeDays, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// Update actualiza un proveedor.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact = $3, rating = $4, lead_time_days = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.Contact, supplier.Rating, supplier.LeadTimeDays,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// ListByTenant lista proveedores con búsqueda por nombre.
func (r *SupplierRepo) ListByTenant(tenantID string, search string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, contact, rating, lead_time_days, created_at
		FROM suppliers
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Contact, &s.Rating, &s.LeadTimeDays, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Delete elimina un proveedor por ID.
func (r *SupplierRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

// CreateOffer persiste una oferta de precio.
func (r *SupplierRepo) CreateOffer(offer *entity.SupplierOffer) error {
	query := `
		INSERT INTO supplier_offers (id, supplier_id, product_id, price, currency, moq, lead_time_days, valid_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		offer.ID, offer.SupplierID, offer.ProductID, offer.Price, offer.Currency,
		offer.MOQ, offer.LeadTimeDays, offer.ValidUntil, offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

const offerColumns = `id, supplier_id, product_id, price, currency, moq, lead_time_days, valid_until, created_at`

// ListOffersBySupplier lista ofertas de un proveedor.
func (r *SupplierRepo) ListOffersBySupplier(supplierID string) ([]*entity.SupplierOffer, error) {
	return r.listOffers(
		`SELECT `+offerColumns+` FROM supplier_offers WHERE supplier_id = $1 ORDER BY created_at DESC`,
		supplierID,
	)
}

// ListOffersByProduct lista ofertas vigentes para un producto del tenant.
func (r *SupplierRepo) ListOffersByProduct(tenantID, productID string) ([]*entity.SupplierOffer, error) {
	return r.listOffers(`
		SELECT o.id, o.supplier_id, o.product_id, o.price, o.currency, o.moq, o.lead_time_days, o.valid_until, o.created_at
		FROM supplier_offers o
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE s.tenant_id = $1 AND o.product_id = $2
		ORDER BY o.price ASC`,
		tenantID, productID,
	)
}

func (r *SupplierRepo) listOffers(query string, args ...any) ([]*entity.SupplierOffer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var out []*entity.SupplierOffer
	for rows.Next() {
		var o entity.SupplierOffer
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.ProductID, &o.Price, &o.Currency,
			&o.MOQ, &o.LeadTimeDays, &o.ValidUntil, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// DeleteOffer elimina una oferta de un proveedor concreto. ErrNotFound si la
// oferta no existe o pertenece a otro proveedor.
func (r *SupplierRepo) DeleteOffer(supplierID, id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM supplier_offers WHERE id = $1 AND supplier_id = $2`, id, supplierID)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
