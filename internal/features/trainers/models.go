// Package trainers управляет тренерами студии.
package trainers

// Trainer — строка таблицы trainers. Тренеры не удаляются,
// только скрываются (is_active = FALSE).
type Trainer struct {
	ID         int64  `db:"trainer_id"`
	FullName   string `db:"full_name"`
	Phone      string `db:"phone"`       // "" — не задан
	TgUsername string `db:"tg_username"` // "" — не задан
	IsActive   bool   `db:"is_active"`
}
