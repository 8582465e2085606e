// Package groups управляет группами, их расписанием и закреплением
// клиентов за группами (абонементное членство).
package groups

import "time"

// Group — строка таблицы groups.
type Group struct {
	ID        int64  `db:"group_id"`
	Name      string `db:"name"`
	TrainerID *int64 `db:"trainer_id"` // nil — тренер не назначен
	Capacity  int    `db:"capacity"`
	Room      string `db:"room"` // "" — зал не указан
	IsActive  bool   `db:"is_active"`
}

// ScheduleSlot — повторяющееся занятие группы.
// Уникален по (группа, день недели, время начала). Сам по себе
// записей (visits) не создаёт.
type ScheduleSlot struct {
	ID          int64  `db:"slot_id"`
	GroupID     int64  `db:"group_id"`
	Weekday     int    `db:"weekday"`    // 1 (Пн) … 7 (Вс)
	StartTime   string `db:"start_time"` // "ЧЧ:ММ"
	DurationMin int    `db:"duration_min"`
	IsActive    bool   `db:"is_active"`
}

// Статусы членства клиента в группе.
const (
	MembershipActive   = "active"
	MembershipInactive = "inactive"
)

// Membership — закрепление клиента за группой (через абонемент).
// Отличается от разовых записей на занятие.
type Membership struct {
	ClientID  int64      `db:"client_id"`
	GroupID   int64      `db:"group_id"`
	Status    string     `db:"status"`
	SinceDate time.Time  `db:"since_date"`
	UntilDate *time.Time `db:"until_date"`
}
