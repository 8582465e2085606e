// Package visits — repository.go выполняет все операции с таблицей visits.
package visits

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с визитами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий визитов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// BookSingle записывает клиента разово (без слота расписания).
// Идемпотентна: повторная запись на ту же (дату, группу) — не ошибка,
// а created=false. Уникальный ключ с COALESCE(slot_id, 0) отлавливает
// дубль на уровне БД, гонки двух админов решает она же.
func (r *Repository) BookSingle(ctx context.Context, date time.Time, groupID, clientID, createdBy int64) (created bool, err error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO visits (visit_date, group_id, client_id, status, created_by)
		VALUES ($1, $2, $3, 'booked', $4)
		ON CONFLICT (visit_date, group_id, client_id, (COALESCE(slot_id, 0))) DO NOTHING
	`, date, groupID, clientID, createdBy)
	if err != nil {
		return false, fmt.Errorf("ошибка записи на занятие: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpsertStatus отмечает посещение: существующий визит на (дату, группу,
// клиента, NULL-слот) обновляется, отсутствующий — создаётся сразу
// с нужным статусом. Один путь кода и для отметки, и для исправления.
func (r *Repository) UpsertStatus(ctx context.Context, date time.Time, groupID, clientID int64, status string, createdBy int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO visits (visit_date, group_id, client_id, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (visit_date, group_id, client_id, (COALESCE(slot_id, 0))) DO UPDATE SET
			status = EXCLUDED.status,
			created_by = EXCLUDED.created_by
	`, date, groupID, clientID, status, createdBy)
	if err != nil {
		return fmt.Errorf("ошибка отметки посещения: %w", err)
	}
	return nil
}

// ListForGroupDate возвращает клиентов, которых есть смысл отмечать
// в группе на дату: объединение (а) закреплённых с активным членством
// и (б) записанных разово именно на эту дату. Уже отменённые на эту
// дату из списка не исключаются — исторически так, и отчёты на это
// поведение полагаются.
func (r *Repository) ListForGroupDate(ctx context.Context, groupID int64, date time.Time) ([]AttendanceRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.client_id, c.full_name, c.phone,
		       COALESCE(v.status, '') AS visit_status
		FROM (
			SELECT cg.client_id
			FROM client_groups cg
			WHERE cg.group_id = $1 AND cg.status = 'active'
			UNION
			SELECT vv.client_id
			FROM visits vv
			WHERE vv.group_id = $1 AND vv.visit_date = $2
		) u
		JOIN clients c ON c.client_id = u.client_id
		LEFT JOIN visits v
			ON v.client_id = u.client_id
			AND v.group_id = $1
			AND v.visit_date = $2
			AND v.slot_id IS NULL
		ORDER BY lower(c.full_name)
	`, groupID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка посещений: %w", err)
	}
	defer rows.Close()

	var result []AttendanceRow
	for rows.Next() {
		var a AttendanceRow
		if err := rows.Scan(&a.ClientID, &a.FullName, &a.Phone, &a.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования посещения: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ListAttended возвращает пришедших в группу на дату (для «Кто был сегодня»).
func (r *Repository) ListAttended(ctx context.Context, groupID int64, date time.Time) ([]AttendanceRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.client_id, c.full_name, c.phone, v.status
		FROM visits v
		JOIN clients c ON c.client_id = v.client_id
		WHERE v.group_id = $1 AND v.visit_date = $2 AND v.status = 'attended'
		ORDER BY lower(c.full_name)
	`, groupID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка пришедших: %w", err)
	}
	defer rows.Close()

	var result []AttendanceRow
	for rows.Next() {
		var a AttendanceRow
		if err := rows.Scan(&a.ClientID, &a.FullName, &a.Phone, &a.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// CountByStatus возвращает количество визитов по статусам за период.
func (r *Repository) CountByStatus(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM visits
		WHERE visit_date BETWEEN $1 AND $2
		GROUP BY status
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка статистики посещений: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики: %w", err)
		}
		result[status] = count
	}
	return result, rows.Err()
}

// unpaidSingleCond — трёхчастное условие «разовый визит без оплаты»:
// статус booked/attended, дата визита не покрыта активным абонементом,
// и не существует незакрытого платежа purpose=single по этому визиту.
// Все три части должны выполняться одновременно.
const unpaidSingleCond = `
	v.visit_date BETWEEN $1 AND $2
	AND v.status IN ('booked', 'attended')
	AND NOT EXISTS (
		SELECT 1 FROM passes p
		WHERE p.client_id = v.client_id
		  AND p.group_id = v.group_id
		  AND p.is_active
		  AND p.start_date <= v.visit_date
		  AND p.end_date >= v.visit_date
	)
	AND NOT EXISTS (
		SELECT 1 FROM payments pay
		WHERE pay.visit_id = v.visit_id
		  AND pay.purpose = 'single'
		  AND pay.status != 'cancelled'
	)
`

// ListSinglesWithoutPayment возвращает разовые визиты без оплаты
// за период; limit <= 0 — без ограничения.
func (r *Repository) ListSinglesWithoutPayment(ctx context.Context, from, to time.Time, limit int) ([]UnpaidSingle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.visit_id, v.visit_date, c.full_name, g.name, v.status
		FROM visits v
		JOIN clients c ON c.client_id = v.client_id
		JOIN groups g ON g.group_id = v.group_id
		WHERE `+unpaidSingleCond+`
		ORDER BY v.visit_date DESC, v.visit_id DESC
		LIMIT NULLIF($3, 0)
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка неоплаченных разовых: %w", err)
	}
	defer rows.Close()

	var result []UnpaidSingle
	for rows.Next() {
		var u UnpaidSingle
		if err := rows.Scan(&u.VisitID, &u.Date, &u.ClientName, &u.GroupName, &u.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// CountSinglesWithoutPayment считает разовые визиты без оплаты за период.
func (r *Repository) CountSinglesWithoutPayment(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM visits v WHERE "+unpaidSingleCond, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта неоплаченных разовых: %w", err)
	}
	return count, nil
}

// CountSingles считает разовые визиты (не покрытые абонементом) за период.
func (r *Repository) CountSingles(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM visits v
		WHERE v.visit_date BETWEEN $1 AND $2
		  AND v.status IN ('booked', 'attended')
		  AND NOT EXISTS (
			SELECT 1 FROM passes p
			WHERE p.client_id = v.client_id
			  AND p.group_id = v.group_id
			  AND p.is_active
			  AND p.start_date <= v.visit_date
			  AND p.end_date >= v.visit_date
		  )
	`, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта разовых: %w", err)
	}
	return count, nil
}
