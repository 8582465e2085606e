// Package passes — repository.go выполняет все операции с таблицей passes.
package passes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/db/postgres"
)

// Repository предоставляет методы для работы с абонементами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий абонементов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Issue выдаёт абонемент. Второй активный на ту же пару (клиент, группа)
// отбивается частичным уникальным индексом — это common.ErrActivePassConflict,
// диалог показывает сообщение, а не ретраит.
func (r *Repository) Issue(ctx context.Context, p Pass) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO passes (client_id, group_id, type, start_date, end_date, is_active, price, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING pass_id
	`, p.ClientID, p.GroupID, p.Type, p.StartDate, p.EndDate, p.IsActive, p.Price, p.Comment).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, common.ErrActivePassConflict
		}
		return 0, fmt.Errorf("ошибка выдачи абонемента: %w", err)
	}
	return id, nil
}

// GetActive возвращает активный абонемент пары (клиент, группа)
// или common.ErrNotFound. Активный — не больше одного.
func (r *Repository) GetActive(ctx context.Context, clientID, groupID int64) (*Pass, error) {
	var p Pass
	err := r.db.QueryRow(ctx, `
		SELECT pass_id, client_id, group_id, type, start_date, end_date, is_active, price, COALESCE(comment, '')
		FROM passes
		WHERE client_id = $1 AND group_id = $2 AND is_active
	`, clientID, groupID).Scan(
		&p.ID, &p.ClientID, &p.GroupID, &p.Type,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.Price, &p.Comment,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска абонемента: %w", err)
	}
	return &p, nil
}

// ListActiveForClient возвращает активные абонементы клиента с именами групп.
func (r *Repository) ListActiveForClient(ctx context.Context, clientID int64) ([]PassInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.pass_id, p.client_id, p.group_id, p.type, p.start_date, p.end_date,
		       p.is_active, p.price, COALESCE(p.comment, ''), c.full_name, g.name
		FROM passes p
		JOIN clients c ON c.client_id = p.client_id
		JOIN groups g ON g.group_id = p.group_id
		WHERE p.client_id = $1 AND p.is_active
		ORDER BY p.end_date
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка абонементов: %w", err)
	}
	defer rows.Close()
	return scanPassInfos(rows)
}

// SetActive включает или отключает абонемент. Включение может упереться
// в частичный индекс — тогда common.ErrActivePassConflict.
func (r *Repository) SetActive(ctx context.Context, passID int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE passes SET is_active = $2 WHERE pass_id = $1", passID, active,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return common.ErrActivePassConflict
		}
		return fmt.Errorf("ошибка смены статуса абонемента: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ExtendEnd продлевает абонемент до новой даты окончания.
func (r *Repository) ExtendEnd(ctx context.Context, passID int64, newEnd time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE passes SET end_date = $2 WHERE pass_id = $1", passID, newEnd,
	)
	if err != nil {
		return fmt.Errorf("ошибка продления абонемента: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListActiveAsOf возвращает абонементы, действующие на дату.
func (r *Repository) ListActiveAsOf(ctx context.Context, date time.Time) ([]PassInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.pass_id, p.client_id, p.group_id, p.type, p.start_date, p.end_date,
		       p.is_active, p.price, COALESCE(p.comment, ''), c.full_name, g.name
		FROM passes p
		JOIN clients c ON c.client_id = p.client_id
		JOIN groups g ON g.group_id = p.group_id
		WHERE p.is_active AND p.start_date <= $1 AND p.end_date >= $1
		ORDER BY p.end_date, lower(c.full_name)
	`, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка действующих абонементов: %w", err)
	}
	defer rows.Close()
	return scanPassInfos(rows)
}

// ListExpiring возвращает активные абонементы, заканчивающиеся в окне дат.
func (r *Repository) ListExpiring(ctx context.Context, from, to time.Time) ([]PassInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.pass_id, p.client_id, p.group_id, p.type, p.start_date, p.end_date,
		       p.is_active, p.price, COALESCE(p.comment, ''), c.full_name, g.name
		FROM passes p
		JOIN clients c ON c.client_id = p.client_id
		JOIN groups g ON g.group_id = p.group_id
		WHERE p.is_active AND p.end_date BETWEEN $1 AND $2
		ORDER BY p.end_date, lower(c.full_name)
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка заканчивающихся абонементов: %w", err)
	}
	defer rows.Close()
	return scanPassInfos(rows)
}

// ListMembersWithoutPass возвращает клиентов с активным членством
// в активной группе, но без действующего на сегодня абонемента
// (анти-джойн против passes).
func (r *Repository) ListMembersWithoutPass(ctx context.Context, today time.Time) ([]MemberWithoutPass, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.full_name, g.name
		FROM client_groups cg
		JOIN clients c ON c.client_id = cg.client_id
		JOIN groups g ON g.group_id = cg.group_id
		WHERE cg.status = 'active'
		  AND g.is_active
		  AND (cg.until_date IS NULL OR cg.until_date >= $1)
		  AND NOT EXISTS (
			SELECT 1 FROM passes p
			WHERE p.client_id = cg.client_id
			  AND p.group_id = cg.group_id
			  AND p.is_active
			  AND p.start_date <= $1
			  AND p.end_date >= $1
		  )
		ORDER BY lower(c.full_name)
	`, today)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка клиентов без абонемента: %w", err)
	}
	defer rows.Close()

	var result []MemberWithoutPass
	for rows.Next() {
		var m MemberWithoutPass
		if err := rows.Scan(&m.ClientName, &m.GroupName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanPassInfos(rows pgx.Rows) ([]PassInfo, error) {
	var result []PassInfo
	for rows.Next() {
		var p PassInfo
		err := rows.Scan(
			&p.ID, &p.ClientID, &p.GroupID, &p.Type, &p.StartDate, &p.EndDate,
			&p.IsActive, &p.Price, &p.Comment, &p.ClientName, &p.GroupName,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования абонемента: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
