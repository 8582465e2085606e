// Package admins управляет списком администраторов студии.
// Владелец в таблицу не попадает — он задан в конфиге; здесь только
// обычные админы, которых владелец добавляет и отключает.
package admins

import "time"

// Admin — строка таблицы admins.
type Admin struct {
	TgUserID  int64     `db:"tg_user_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
