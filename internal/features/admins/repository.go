// Package admins — repository.go выполняет все операции с таблицей admins.
package admins

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с админами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий админов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет админа: новый — вставляется, существующий —
// переименовывается и активируется заново.
func (r *Repository) Upsert(ctx context.Context, tgUserID int64, name string) error {
	query := `
		INSERT INTO admins (tg_user_id, name, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (tg_user_id) DO UPDATE SET
			name = EXCLUDED.name,
			is_active = TRUE
	`
	if _, err := r.db.Exec(ctx, query, tgUserID, name); err != nil {
		return fmt.Errorf("ошибка сохранения админа: %w", err)
	}
	return nil
}

// Deactivate отключает админа. Возвращает false, если такого админа нет.
func (r *Repository) Deactivate(ctx context.Context, tgUserID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE admins SET is_active = FALSE WHERE tg_user_id = $1", tgUserID,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка отключения админа: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IsActive отвечает, активен ли админ с данным telegram id.
func (r *Repository) IsActive(ctx context.Context, tgUserID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM admins WHERE tg_user_id = $1 AND is_active)", tgUserID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки админа: %w", err)
	}
	return exists, nil
}

// List возвращает всех админов: сначала активных, потом отключённых,
// внутри — по имени без учёта регистра.
func (r *Repository) List(ctx context.Context) (active, inactive []Admin, err error) {
	rows, err := r.db.Query(ctx, `
		SELECT tg_user_id, name, is_active, created_at
		FROM admins
		ORDER BY lower(name)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка списка админов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.TgUserID, &a.Name, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("ошибка сканирования админа: %w", err)
		}
		if a.IsActive {
			active = append(active, a)
		} else {
			inactive = append(inactive, a)
		}
	}
	return active, inactive, rows.Err()
}
