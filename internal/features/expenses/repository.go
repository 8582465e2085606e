package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/db/postgres"
)

// Repository — доступ к таблицам expenses и expense_categories.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateCategory вставляет категорию с заданным кодом.
// Повтор кода — common.ErrDuplicateCategory, подбор суффикса делает сервис.
func (r *Repository) CreateCategory(ctx context.Context, code, name string) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO expense_categories (code, name)
		VALUES ($1, $2)
		RETURNING category_id, code, name, is_active`,
		code, name).Scan(&c.ID, &c.Code, &c.Name, &c.IsActive)
	if postgres.IsUniqueViolation(err) {
		return nil, common.ErrDuplicateCategory
	}
	if err != nil {
		return nil, fmt.Errorf("создание категории %q: %w", name, err)
	}
	return &c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT category_id, code, name, is_active
		FROM expense_categories WHERE category_id = $1`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.IsActive)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("категория %d: %w", id, err)
	}
	return &c, nil
}

// ListCategories возвращает категории по алфавиту; onlyActive скрывает
// отключённые.
func (r *Repository) ListCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	q := `SELECT category_id, code, name, is_active FROM expense_categories`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY lower(name)`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("список категорий: %w", err)
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RenameCategory меняет название; код остаётся прежним.
func (r *Repository) RenameCategory(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expense_categories SET name = $2 WHERE category_id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("переименование категории %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) SetCategoryActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expense_categories SET is_active = $2 WHERE category_id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("изменение категории %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Create вставляет расход.
func (r *Repository) Create(ctx context.Context, ne NewExpense) (*Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (exp_date, category_id, amount, method, comment, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING expense_id, exp_date, category_id, amount, method, COALESCE(comment, ''), created_by, created_at`,
		ne.ExpDate, ne.CategoryID, ne.Amount, ne.Method, ne.Comment, ne.CreatedBy).
		Scan(&e.ID, &e.ExpDate, &e.CategoryID, &e.Amount, &e.Method, &e.Comment, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("создание расхода: %w", err)
	}
	return &e, nil
}

// UpdateAmount правит сумму расхода.
func (r *Repository) UpdateAmount(ctx context.Context, id int64, amount int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET amount = $2 WHERE expense_id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("правка расхода %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1`, id)
	if err != nil {
		return fmt.Errorf("удаление расхода %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListForPeriod — расходы за период с названиями категорий, новые первыми.
func (r *Repository) ListForPeriod(ctx context.Context, from, to time.Time) ([]ExpenseRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.expense_id, e.exp_date, c.name, e.amount, e.method, COALESCE(e.comment, '')
		FROM expenses e
		JOIN expense_categories c ON c.category_id = e.category_id
		WHERE e.exp_date BETWEEN $1 AND $2
		ORDER BY e.exp_date DESC, e.expense_id DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("расходы за период: %w", err)
	}
	defer rows.Close()
	var out []ExpenseRow
	for rows.Next() {
		var er ExpenseRow
		if err := rows.Scan(&er.ID, &er.ExpDate, &er.CategoryName, &er.Amount, &er.Method, &er.Comment); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

// LastByUser — последний расход, записанный этим администратором.
func (r *Repository) LastByUser(ctx context.Context, userID int64) (*ExpenseRow, error) {
	var er ExpenseRow
	err := r.pool.QueryRow(ctx, `
		SELECT e.expense_id, e.exp_date, e.category_id, c.name, e.amount, e.method, COALESCE(e.comment, '')
		FROM expenses e
		JOIN expense_categories c ON c.category_id = e.category_id
		WHERE e.created_by = $1
		ORDER BY e.created_at DESC, e.expense_id DESC
		LIMIT 1`, userID).
		Scan(&er.ID, &er.ExpDate, &er.CategoryID, &er.CategoryName, &er.Amount, &er.Method, &er.Comment)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("последний расход: %w", err)
	}
	return &er, nil
}

// SummaryForPeriod — итого и разбивка по методам одним запросом.
func (r *Repository) SummaryForPeriod(ctx context.Context, from, to time.Time) (Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COUNT(*),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'cash'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'transfer'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'qr'), 0)
		FROM expenses
		WHERE exp_date BETWEEN $1 AND $2`,
		from, to).Scan(&s.Total, &s.Count, &s.Cash, &s.Transfer, &s.QR)
	if err != nil {
		return Summary{}, fmt.Errorf("сводка расходов: %w", err)
	}
	return s, nil
}

// TotalsByCategory — суммы по категориям за период, крупные первыми.
func (r *Repository) TotalsByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name, COALESCE(SUM(e.amount), 0), COUNT(*)
		FROM expenses e
		JOIN expense_categories c ON c.category_id = e.category_id
		WHERE e.exp_date BETWEEN $1 AND $2
		GROUP BY c.name
		ORDER BY SUM(e.amount) DESC, c.name`, from, to)
	if err != nil {
		return nil, fmt.Errorf("расходы по категориям: %w", err)
	}
	defer rows.Close()
	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryName, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}
