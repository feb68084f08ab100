package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/application/usecase"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	apphttp "github.com/bizio/bizio-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de proveedores
// ──────────────────────────────────────────────────────────────────────────────

type fakeSuppliers struct {
	suppliers map[string]*entity.Supplier
	offers    map[string]*entity.SupplierOffer
}

func newFakeSuppliers() *fakeSuppliers {
	return &fakeSuppliers{
		suppliers: map[string]*entity.Supplier{},
		offers:    map[string]*entity.SupplierOffer{},
	}
}

func (f *fakeSuppliers) Create(s *entity.Supplier) error { f.suppliers[s.ID] = s; return nil }
func (f *fakeSuppliers) GetByID(id string) (*entity.Supplier, error) {
	return f.suppliers[id], nil
}
func (f *fakeSuppliers) Update(*entity.Supplier) error { return nil }
func (f *fakeSuppliers) ListByTenant(string, string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (f *fakeSuppliers) Delete(id string) error { delete(f.suppliers, id); return nil }

func (f *fakeSuppliers) CreateOffer(o *entity.SupplierOffer) error { f.offers[o.ID] = o; return nil }
func (f *fakeSuppliers) ListOffersBySupplier(string) ([]*entity.SupplierOffer, error) {
	return nil, nil
}
func (f *fakeSuppliers) ListOffersByProduct(string, string) ([]*entity.SupplierOffer, error) {
	return nil, nil
}

// DeleteOffer replica el contrato del repositorio real: borra solo si la
// oferta pertenece al proveedor indicado.
func (f *fakeSuppliers) DeleteOffer(supplierID, id string) error {
	o, ok := f.offers[id]
	if !ok || o.SupplierID != supplierID {
		return domain.ErrNotFound
	}
	delete(f.offers, id)
	return nil
}

func buildSupplierApp(repo *fakeSuppliers) *fiber.App {
	app := fiber.New()
	handler := apphttp.NewSupplierHandler(usecase.NewSupplierUseCase(repo, nil, nil))
	app.Delete("/api/suppliers/:id/offers/:offer_id",
		apphttp.AuthMiddleware(testJWTSecret), handler.DeleteOffer)
	return app
}

func deleteOffer(t *testing.T, app *fiber.App, supplierID, offerID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete,
		"/api/suppliers/"+supplierID+"/offers/"+offerID, nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests DeleteOffer: aislamiento por tenant y por proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteOffer_OfertaPropia_Elimina(t *testing.T) {
	repo := newFakeSuppliers()
	repo.suppliers["sup-a"] = &entity.Supplier{ID: "sup-a", TenantID: testTenantID}
	repo.offers["off-a"] = &entity.SupplierOffer{ID: "off-a", SupplierID: "sup-a"}
	app := buildSupplierApp(repo)

	resp := deleteOffer(t, app, "sup-a", "off-a")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotContains(t, repo.offers, "off-a")
}

// Una oferta de otro proveedor no puede borrarse a través de un proveedor
// propio: la oferta debe colgar del proveedor de la URL.
func TestDeleteOffer_OfertaDeOtroProveedor_NotFound(t *testing.T) {
	repo := newFakeSuppliers()
	repo.suppliers["sup-a"] = &entity.Supplier{ID: "sup-a", TenantID: testTenantID}
	repo.suppliers["sup-b"] = &entity.Supplier{ID: "sup-b", TenantID: "otro-tenant"}
	repo.offers["off-b"] = &entity.SupplierOffer{ID: "off-b", SupplierID: "sup-b"}
	app := buildSupplierApp(repo)

	resp := deleteOffer(t, app, "sup-a", "off-b")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, repo.offers, "off-b", "la oferta ajena debe sobrevivir")
}

func TestDeleteOffer_ProveedorDeOtroTenant_NotFound(t *testing.T) {
	repo := newFakeSuppliers()
	repo.suppliers["sup-b"] = &entity.Supplier{ID: "sup-b", TenantID: "otro-tenant"}
	repo.offers["off-b"] = &entity.SupplierOffer{ID: "off-b", SupplierID: "sup-b"}
	app := buildSupplierApp(repo)

	resp := deleteOffer(t, app, "sup-b", "off-b")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, repo.offers, "off-b")
}
