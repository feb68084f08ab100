package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

// ExpenseUseCase casos de uso de gastos y configuración financiera del tenant.
type ExpenseUseCase struct {
	repo        repository.ExpenseRepository
	financeRepo repository.FinanceRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, financeRepo repository.FinanceRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, financeRepo: financeRepo}
}

// Create registra un gasto del tenant.
func (uc *ExpenseUseCase) Create(tenantID string, userID *string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	expense := &entity.Expense{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		UserID:           userID,
		Amount:           in.Amount,
		Currency:         in.Currency,
		Category:         in.Category,
		Description:      in.Description,
		Date:             in.Date,
		DaysUntilPayment: in.DaysUntilPayment,
		IsFixed:          in.IsFixed,
		CreatedAt:        time.Now(),
	}
	if err := uc.repo.Create(expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// GetByID obtiene un gasto del tenant.
func (uc *ExpenseUseCase) GetByID(tenantID, id string) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil || expense.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return toExpenseResponse(expense), nil
}

// Update actualiza un gasto (campos opcionales).
func (uc *ExpenseUseCase) Update(tenantID, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil || expense.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		expense.Amount = *in.Amount
	}
	if in.Category != nil {
		expense.Category = *in.Category
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	if in.DaysUntilPayment != nil {
		expense.DaysUntilPayment = in.DaysUntilPayment
	}
	if in.IsFixed != nil {
		expense.IsFixed = *in.IsFixed
	}
	if err := uc.repo.Update(expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List lista gastos del tenant en un rango de fechas.
func (uc *ExpenseUseCase) List(tenantID string, from, to time.Time, limit, offset int) (*dto.ExpenseListResponse, error) {
	list, err := uc.repo.ListByTenant(tenantID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un gasto del tenant.
func (uc *ExpenseUseCase) Delete(tenantID, id string) error {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if expense == nil || expense.TenantID != tenantID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// GetSettings devuelve la configuración financiera del tenant; si nunca se
// configuró, devuelve los valores por defecto (tax 0, sin moneda).
func (uc *ExpenseUseCase) GetSettings(ctx context.Context, tenantID string) (*dto.FinancialSettingsResponse, error) {
	settings, err := uc.financeRepo.GetSettings(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &dto.FinancialSettingsResponse{
				TenantID:             tenantID,
				TaxRate:              decimal.Zero,
				FiscalYearStartMonth: 1,
			}, nil
		}
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings crea o actualiza la configuración financiera del tenant.
func (uc *ExpenseUseCase) UpdateSettings(ctx context.Context, tenantID string, in dto.FinancialSettingsRequest) (*dto.FinancialSettingsResponse, error) {
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}
	month := in.FiscalYearStartMonth
	if month == 0 {
		month = 1
	}
	settings := &entity.FinancialSettings{
		ID:                   uuid.New().String(),
		TenantID:             tenantID,
		TaxRate:              in.TaxRate,
		Currency:             in.Currency,
		FiscalYearStartMonth: month,
		UpdatedAt:            time.Now(),
	}
	if err := uc.financeRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	return &dto.ExpenseResponse{
		ID:               e.ID,
		TenantID:         e.TenantID,
		Amount:           e.Amount,
		Currency:         e.Currency,
		Category:         e.Category,
		Description:      e.Description,
		Date:             e.Date,
		DaysUntilPayment: e.DaysUntilPayment,
		IsFixed:          e.IsFixed,
		CreatedAt:        e.CreatedAt,
	}
}

func toSettingsResponse(s *entity.FinancialSettings) *dto.FinancialSettingsResponse {
	if s == nil {
		return nil
	}
	return &dto.FinancialSettingsResponse{
		TenantID:             s.TenantID,
		TaxRate:              s.TaxRate,
		Currency:             s.Currency,
		FiscalYearStartMonth: s.FiscalYearStartMonth,
		UpdatedAt:            s.UpdatedAt,
	}
}
