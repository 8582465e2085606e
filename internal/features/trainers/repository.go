// Package trainers — repository.go выполняет все операции с таблицей trainers.
package trainers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitadmin.ru/gym-bot/internal/common"
)

// Repository предоставляет методы для работы с тренерами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий тренеров.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create добавляет тренера и возвращает его id.
func (r *Repository) Create(ctx context.Context, fullName, phone, tgUsername string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO trainers (full_name, phone, tg_username)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING trainer_id
	`, fullName, phone, tgUsername).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания тренера: %w", err)
	}
	return id, nil
}

// GetByID возвращает тренера или common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Trainer, error) {
	var t Trainer
	err := r.db.QueryRow(ctx, `
		SELECT trainer_id, full_name, COALESCE(phone, ''), COALESCE(tg_username, ''), is_active
		FROM trainers WHERE trainer_id = $1
	`, id).Scan(&t.ID, &t.FullName, &t.Phone, &t.TgUsername, &t.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска тренера: %w", err)
	}
	return &t, nil
}

// List возвращает тренеров по имени; onlyActive скрывает отключённых.
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]Trainer, error) {
	query := `
		SELECT trainer_id, full_name, COALESCE(phone, ''), COALESCE(tg_username, ''), is_active
		FROM trainers
	`
	if onlyActive {
		query += " WHERE is_active"
	}
	query += " ORDER BY lower(full_name)"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка тренеров: %w", err)
	}
	defer rows.Close()

	var result []Trainer
	for rows.Next() {
		var t Trainer
		if err := rows.Scan(&t.ID, &t.FullName, &t.Phone, &t.TgUsername, &t.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования тренера: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Rename меняет имя тренера.
func (r *Repository) Rename(ctx context.Context, id int64, fullName string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE trainers SET full_name = $2 WHERE trainer_id = $1", id, fullName,
	)
	if err != nil {
		return fmt.Errorf("ошибка переименования тренера: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SetActive скрывает или активирует тренера.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE trainers SET is_active = $2 WHERE trainer_id = $1", id, active,
	)
	if err != nil {
		return fmt.Errorf("ошибка смены статуса тренера: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
