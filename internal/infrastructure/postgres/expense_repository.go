package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, tenant_id, user_id, amount, currency, category, description, date, days_until_payment, is_fixed, created_at`

// Create persiste un gasto nuevo.
func (r *ExpenseRepo) Create(expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, tenant_id, user_id, amount, currency, category, description, date, days_until_payment, is_fixed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.TenantID, expense.UserID, expense.Amount, expense.Currency,
		expense.Category, expense.Description, expense.Date, expense.DaysUntilPayment,
		expense.IsFixed, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	var e entity.Expense
	err := r.q.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id,
	).Scan(
		&e.ID, &e.TenantID, &e.UserID, &e.Amount, &e.Currency, &e.Category,
		&e.Description, &e.Date, &e.DaysUntilPayment, &e.IsFixed, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Update actualiza un gasto.
func (r *ExpenseRepo) Update(expense *entity.Expense) error {
	query := `
		UPDATE expenses SET amount = $2, category = $3, description = $4, date = $5, days_until_payment = $6, is_fixed = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.Amount, expense.Category, expense.Description,
		expense.Date, expense.DaysUntilPayment, expense.IsFixed,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// ListByTenant lista gastos del tenant con date en [from, to).
func (r *ExpenseRepo) ListByTenant(tenantID string, from, to time.Time, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, tenantID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UserID, &e.Amount, &e.Currency, &e.Category,
			&e.Description, &e.Date, &e.DaysUntilPayment, &e.IsFixed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Delete elimina un gasto por ID.
func (r *ExpenseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
