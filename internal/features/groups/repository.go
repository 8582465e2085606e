// Package groups — repository.go выполняет все операции с таблицами
// groups, schedule_slots и client_groups.
package groups

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

// Repository предоставляет методы для работы с группами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий групп.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// --- Группы ---

// Create создаёт группу и возвращает её id.
func (r *Repository) Create(ctx context.Context, name string, capacity int, trainerID *int64, room string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO groups (name, capacity, trainer_id, room)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING group_id
	`, name, capacity, trainerID, room).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания группы: %w", err)
	}
	return id, nil
}

// GetByID возвращает группу или common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	var g Group
	err := r.db.QueryRow(ctx, `
		SELECT group_id, name, trainer_id, capacity, COALESCE(room, ''), is_active
		FROM groups WHERE group_id = $1
	`, id).Scan(&g.ID, &g.Name, &g.TrainerID, &g.Capacity, &g.Room, &g.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска группы: %w", err)
	}
	return &g, nil
}

// List возвращает группы по имени; onlyActive скрывает отключённые.
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]Group, error) {
	query := `
		SELECT group_id, name, trainer_id, capacity, COALESCE(room, ''), is_active
		FROM groups
	`
	if onlyActive {
		query += " WHERE is_active"
	}
	query += " ORDER BY lower(name)"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка групп: %w", err)
	}
	defer rows.Close()

	var result []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.TrainerID, &g.Capacity, &g.Room, &g.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования группы: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// ListByTrainer возвращает группы, закреплённые за тренером.
func (r *Repository) ListByTrainer(ctx context.Context, trainerID int64) ([]Group, error) {
	rows, err := r.db.Query(ctx, `
		SELECT group_id, name, trainer_id, capacity, COALESCE(room, ''), is_active
		FROM groups
		WHERE trainer_id = $1
		ORDER BY lower(name)
	`, trainerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка групп тренера: %w", err)
	}
	defer rows.Close()

	var result []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.TrainerID, &g.Capacity, &g.Room, &g.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования группы: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Rename меняет имя группы.
func (r *Repository) Rename(ctx context.Context, id int64, name string) error {
	return r.updateOne(ctx, "UPDATE groups SET name = $2 WHERE group_id = $1", id, name)
}

// SetTrainer назначает тренера (nil — убрать тренера).
func (r *Repository) SetTrainer(ctx context.Context, id int64, trainerID *int64) error {
	return r.updateOne(ctx, "UPDATE groups SET trainer_id = $2 WHERE group_id = $1", id, trainerID)
}

// SetRoom меняет зал группы.
func (r *Repository) SetRoom(ctx context.Context, id int64, room string) error {
	return r.updateOne(ctx, "UPDATE groups SET room = NULLIF($2, '') WHERE group_id = $1", id, room)
}

// SetActive скрывает или активирует группу.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.updateOne(ctx, "UPDATE groups SET is_active = $2 WHERE group_id = $1", id, active)
}

func (r *Repository) updateOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления группы: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// --- Расписание ---

// AddSlot добавляет слот расписания. Дубль (группа, день, время) —
// common.ErrScheduleSlotExists.
func (r *Repository) AddSlot(ctx context.Context, groupID int64, weekday int, startTime string, durationMin int) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO schedule_slots (group_id, weekday, start_time, duration_min)
		VALUES ($1, $2, $3, $4)
		RETURNING slot_id
	`, groupID, weekday, startTime, durationMin).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, common.ErrScheduleSlotExists
		}
		return 0, fmt.Errorf("ошибка создания слота: %w", err)
	}
	return id, nil
}

// ListSlots возвращает слоты группы по дню недели и времени.
func (r *Repository) ListSlots(ctx context.Context, groupID int64) ([]ScheduleSlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot_id, group_id, weekday, start_time, duration_min, is_active
		FROM schedule_slots
		WHERE group_id = $1
		ORDER BY weekday, start_time
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("ошибка списка слотов: %w", err)
	}
	defer rows.Close()

	var result []ScheduleSlot
	for rows.Next() {
		var s ScheduleSlot
		if err := rows.Scan(&s.ID, &s.GroupID, &s.Weekday, &s.StartTime, &s.DurationMin, &s.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования слота: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// UpdateSlotTime меняет время начала слота. Дубль — common.ErrScheduleSlotExists.
func (r *Repository) UpdateSlotTime(ctx context.Context, slotID int64, startTime string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE schedule_slots SET start_time = $2 WHERE slot_id = $1", slotID, startTime,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return common.ErrScheduleSlotExists
		}
		return fmt.Errorf("ошибка изменения времени слота: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// UpdateSlotDuration меняет длительность слота.
func (r *Repository) UpdateSlotDuration(ctx context.Context, slotID int64, durationMin int) error {
	return r.updateOne(ctx,
		"UPDATE schedule_slots SET duration_min = $2 WHERE slot_id = $1", slotID, durationMin)
}

// SetSlotActive включает или отключает слот.
func (r *Repository) SetSlotActive(ctx context.Context, slotID int64, active bool) error {
	return r.updateOne(ctx,
		"UPDATE schedule_slots SET is_active = $2 WHERE slot_id = $1", slotID, active)
}

// DeleteSlot удаляет слот расписания.
func (r *Repository) DeleteSlot(ctx context.Context, slotID int64) error {
	return r.updateOne(ctx, "DELETE FROM schedule_slots WHERE slot_id = $1", slotID)
}

// --- Членство ---

// UpsertMembership закрепляет клиента за группой: новая пара —
// вставляется, существующая — активируется заново с новой датой начала.
func (r *Repository) UpsertMembership(ctx context.Context, clientID, groupID int64, since time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO client_groups (client_id, group_id, status, since_date)
		VALUES ($1, $2, 'active', $3)
		ON CONFLICT (client_id, group_id) DO UPDATE SET
			status = 'active',
			since_date = EXCLUDED.since_date,
			until_date = NULL
	`, clientID, groupID, since)
	if err != nil {
		return fmt.Errorf("ошибка закрепления клиента: %w", err)
	}
	return nil
}

// DeactivateMembership открепляет клиента от группы.
func (r *Repository) DeactivateMembership(ctx context.Context, clientID, groupID int64, until time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE client_groups SET status = 'inactive', until_date = $3
		WHERE client_id = $1 AND group_id = $2
	`, clientID, groupID, until)
	if err != nil {
		return fmt.Errorf("ошибка открепления клиента: %w", err)
	}
	return nil
}
