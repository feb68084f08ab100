package repository

import (
	"time"

	"github.com/bizio/bizio-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	Update(expense *entity.Expense) error
	ListByTenant(tenantID string, from, to time.Time, limit, offset int) ([]*entity.Expense, error)
	Delete(id string) error
}
