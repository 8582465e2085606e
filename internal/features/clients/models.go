// Package clients управляет картотекой клиентов студии.
// models.go описывает структуру клиента.
package clients

import "time"

// Статусы клиента.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Client — строка таблицы clients. Клиенты никогда не удаляются,
// только переводятся в inactive.
type Client struct {
	ID         int64      `db:"client_id"`
	FullName   string     `db:"full_name"`
	Phone      string     `db:"phone"` // нормализован: цифры с ведущим кодом страны
	TgUserID   *int64     `db:"tg_user_id"`
	TgUsername string     `db:"tg_username"` // без ведущей @, "" — не задан
	BirthDate  *time.Time `db:"birth_date"`
	Comment    string     `db:"comment"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
}

// NewClient — поля, собираемые диалогом «Новый клиент».
type NewClient struct {
	FullName   string
	Phone      string
	TgUserID   *int64
	TgUsername string
	BirthDate  *time.Time
	Comment    string
}
