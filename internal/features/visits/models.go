// Package visits управляет записями на занятия и отметками посещений.
// models.go описывает структуру визита.
package visits

import "time"

// Статусы визита.
const (
	StatusBooked    = "booked"
	StatusAttended  = "attended"
	StatusNoShow    = "noshow"
	StatusCancelled = "cancelled"
)

// Visit — строка таблицы visits.
// Уникален по (дата, группа, слот, клиент); NULL-слот означает
// разовую запись вне расписания и участвует в ключе через COALESCE.
type Visit struct {
	ID        int64      `db:"visit_id"`
	Date      time.Time  `db:"visit_date"`
	GroupID   int64      `db:"group_id"`
	SlotID    *int64     `db:"slot_id"` // nil — разовая запись
	ClientID  int64      `db:"client_id"`
	Status    string     `db:"status"`
	CreatedBy int64      `db:"created_by"`
	Comment   string     `db:"comment"`
	CreatedAt time.Time  `db:"created_at"`
}

// AttendanceRow — клиент в списке «кого отмечаем» на дату:
// объединение закреплённых в группе и записанных разово на эту дату.
type AttendanceRow struct {
	ClientID int64
	FullName string
	Phone    string
	Status   string // статус визита на эту дату, "" — ещё не отмечен
}

// UnpaidSingle — разовый визит без оплаты: статус booked/attended,
// дата не покрыта активным абонементом, и нет незакрытого платежа
// purpose=single по этому визиту.
type UnpaidSingle struct {
	VisitID    int64
	Date       time.Time
	ClientName string
	GroupName  string
	Status     string
}
