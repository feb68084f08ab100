package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizio/bizio-api/internal/application/ports"
	"github.com/bizio/bizio-api/internal/domain/entity"
	infracache "github.com/bizio/bizio-api/internal/infrastructure/cache"
	apphttp "github.com/bizio/bizio-api/internal/interfaces/http"
	"github.com/bizio/bizio-api/internal/scheduler"
	"github.com/bizio/bizio-api/pkg/config"
	"github.com/bizio/bizio-api/pkg/logger"
)

// busyLockCache simula otra instancia con el lock de sincronización tomado.
type busyLockCache struct{ infracache.NoopCache }

func (busyLockCache) TryLock(context.Context, string, time.Duration) bool { return false }

type syncTenantStub struct{}

func (syncTenantStub) Create(*entity.Tenant) error { return nil }
func (syncTenantStub) GetByID(string) (*entity.Tenant, error) {
	return &entity.Tenant{ID: testTenantID, Code: "demo"}, nil
}
func (syncTenantStub) GetByCode(string) (*entity.Tenant, error) {
	return &entity.Tenant{ID: testTenantID, Code: "demo"}, nil
}
func (syncTenantStub) Update(*entity.Tenant) error             { return nil }
func (syncTenantStub) List(int, int) ([]*entity.Tenant, error) { return nil, nil }

func buildSyncApp(cache ports.Cache) *fiber.App {
	cfg := config.OrderSyncConfig{Enabled: true, CronSchedule: "0 * * * *", LookbackDays: 7, TenantCode: "demo"}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	svc := scheduler.NewOrderSyncService(cfg, nil, syncTenantStub{}, nil, nil, nil, cache, log)
	handler := apphttp.NewSyncHandler(svc)
	app := fiber.New()
	app.Post("/api/sync/orders", apphttp.AuthMiddleware(testJWTSecret), handler.Run)
	return app
}

func postSyncOrders(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sync/orders", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSyncRun_SinCorridaEnCurso_Retorna200(t *testing.T) {
	app := buildSyncApp(infracache.NewNoopCache())

	resp := postSyncOrders(t, app)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"started":true`)
}

// Una corrida activa (lock tomado) debe rechazar el disparo manual en vez de
// solaparse con el cron.
func TestSyncRun_CorridaActiva_Retorna409(t *testing.T) {
	app := buildSyncApp(busyLockCache{})

	resp := postSyncOrders(t, app)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"started":false`)
}
