// seed carga datos de demostración: un tenant con usuario admin, catálogo,
// lotes de inventario, ventas (abiertas y cerradas), gastos y configuración
// financiera. Pensado para entornos de desarrollo.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/infrastructure/postgres"
	"github.com/bizio/bizio-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración", err)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL", err)
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	financeRepo := postgres.NewFinanceRepository(pool)

	now := time.Now()

	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      "Demo Trading",
		Code:      "demo",
		Timezone:  "Asia/Almaty",
		Currency:  "KZT",
		IsActive:  true,
		CreatedAt: now,
	}
	if err := tenantRepo.Create(tenant); err != nil {
		fail("crear tenant", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	admin := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        "admin@demo.local",
		FullName:     "Admin Demo",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		fail("crear usuario admin", err)
	}

	client := &entity.Client{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		Name:      "Aslan Bekov",
		Company:   "Bekov LLP",
		Email:     "aslan@bekov.kz",
		Phone:     "+7 701 000 0000",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := clientRepo.Create(client); err != nil {
		fail("crear cliente", err)
	}

	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		SKU:          "SKU-001",
		Title:        "Audífonos inalámbricos",
		Category:     "electrónica",
		DefaultCost:  decimal.NewFromInt(9000),
		DefaultPrice: decimal.NewFromInt(15000),
		Currency:     "KZT",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := productRepo.Create(product); err != nil {
		fail("crear producto", err)
	}

	// Dos lotes con costos distintos para ejercitar el FIFO.
	for i, c := range []int64{8500, 9200} {
		qty := decimal.NewFromInt(50)
		batch := &entity.InventoryBatch{
			ID:                uuid.New().String(),
			TenantID:          tenant.ID,
			ProductID:         product.ID,
			Quantity:          qty,
			RemainingQuantity: qty,
			UnitCost:          decimal.NewFromInt(c),
			Currency:          "KZT",
			ReceivedDate:      now.AddDate(0, 0, -30+i*10),
			Reference:         fmt.Sprintf("LOTE-%03d", i+1),
			CreatedAt:         now,
		}
		if err := inventoryRepo.CreateBatch(batch); err != nil {
			fail("crear lote", err)
		}
	}

	// Venta cerrada este mes: cuenta para el resumen financiero.
	closedAt := now.AddDate(0, 0, -2)
	closed := &entity.Deal{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		ClientID:  client.ID,
		Title:     "Pedido mayorista",
		Currency:  "KZT",
		Status:    entity.DealStatusFinalAccount,
		Source:    "manual",
		CreatedAt: closedAt,
		UpdatedAt: closedAt,
		ClosedAt:  &closedAt,
		Items: []entity.DealItem{{
			ID:         uuid.New().String(),
			ProductID:  product.ID,
			Quantity:   decimal.NewFromInt(10),
			UnitPrice:  decimal.NewFromInt(15000),
			UnitCost:   decimal.NewFromInt(8500),
			TotalPrice: decimal.NewFromInt(150000),
			TotalCost:  decimal.NewFromInt(85000),
			CreatedAt:  closedAt,
			UpdatedAt:  closedAt,
		}},
	}
	closed.Items[0].DealID = closed.ID
	closed.RecalcTotals()
	if err := dealRepo.Create(closed); err != nil {
		fail("crear venta cerrada", err)
	}

	open := &entity.Deal{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		ClientID:  client.ID,
		Title:     "Cotización en curso",
		Currency:  "KZT",
		Status:    entity.DealStatusAtWork,
		Source:    "manual",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := dealRepo.Create(open); err != nil {
		fail("crear venta abierta", err)
	}

	// Gastos del mes: uno fijo y uno variable.
	expenses := []*entity.Expense{
		{
			ID: uuid.New().String(), TenantID: tenant.ID, UserID: &admin.ID,
			Amount: decimal.NewFromInt(40000), Currency: "KZT",
			Category: "renta", Description: "Alquiler bodega",
			Date: now.AddDate(0, 0, -5), IsFixed: true, CreatedAt: now,
		},
		{
			ID: uuid.New().String(), TenantID: tenant.ID, UserID: &admin.ID,
			Amount: decimal.NewFromInt(12000), Currency: "KZT",
			Category: "envíos", Description: "Mensajería del mes",
			Date: now.AddDate(0, 0, -3), IsFixed: false, CreatedAt: now,
		},
	}
	for _, e := range expenses {
		if err := expenseRepo.Create(e); err != nil {
			fail("crear gasto", err)
		}
	}

	settings := &entity.FinancialSettings{
		ID:                   uuid.New().String(),
		TenantID:             tenant.ID,
		TaxRate:              decimal.NewFromInt(10),
		Currency:             "KZT",
		FiscalYearStartMonth: 1,
		UpdatedAt:            now,
	}
	if err := financeRepo.UpsertSettings(ctx, settings); err != nil {
		fail("crear configuración financiera", err)
	}

	fmt.Printf("Seed completado. Tenant %q (code=%s), login admin@demo.local / demo12345\n",
		tenant.Name, tenant.Code)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
