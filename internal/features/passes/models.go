// Package passes управляет абонементами.
// models.go описывает структуру абонемента.
package passes

import "time"

// TypeMonthly — тип абонемента по умолчанию.
const TypeMonthly = "monthly"

// Pass — строка таблицы passes.
// Инвариант: не больше одного АКТИВНОГО абонемента на пару
// (клиент, группа) — частичный уникальный индекс. Неактивный
// будущий абонемент может сосуществовать с текущим активным.
type Pass struct {
	ID        int64     `db:"pass_id"`
	ClientID  int64     `db:"client_id"`
	GroupID   int64     `db:"group_id"`
	Type      string    `db:"type"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"` // включительно
	IsActive  bool      `db:"is_active"`
	Price     *int64    `db:"price"`
	Comment   string    `db:"comment"`
}

// PassInfo — абонемент с именами клиента и группы (для списков и отчётов).
type PassInfo struct {
	Pass
	ClientName string
	GroupName  string
}

// MemberWithoutPass — клиент с активным членством в группе,
// но без действующего абонемента на сегодня.
type MemberWithoutPass struct {
	ClientName string
	GroupName  string
}
