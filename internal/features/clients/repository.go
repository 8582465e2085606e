// Package clients — repository.go выполняет все операции с таблицей clients.
package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/db/postgres"
)

// SearchLimit — максимум результатов поиска по имени. Запрашиваем на один
// больше десяти: одиннадцатый результат — сигнал «уточните запрос».
const SearchLimit = 11

// likeEscaper экранирует спецсимволы шаблона LIKE: подчёркивание или
// процент в запросе ищутся буквально, а не как маска.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// Repository предоставляет методы для работы с клиентами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий клиентов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const clientColumns = `client_id, full_name, phone, tg_user_id,
	COALESCE(tg_username, ''), birth_date, COALESCE(comment, ''), status, created_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(
		&c.ID, &c.FullName, &c.Phone, &c.TgUserID,
		&c.TgUsername, &c.BirthDate, &c.Comment, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create вставляет нового клиента. Конфликт уникальности телефона —
// штатный исход: гонка между проверкой дубля в диалоге и коммитом
// решается на уровне БД, и обе ветки видят одно и то же
// common.ErrDuplicatePhone.
func (r *Repository) Create(ctx context.Context, c NewClient) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO clients (full_name, phone, tg_user_id, tg_username, birth_date, comment)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''))
		RETURNING client_id
	`, c.FullName, c.Phone, c.TgUserID, c.TgUsername, c.BirthDate, c.Comment).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, common.ErrDuplicatePhone
		}
		return 0, fmt.Errorf("ошибка создания клиента: %w", err)
	}
	return id, nil
}

// GetByID возвращает клиента по id или common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE client_id = $1", id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска клиента: %w", err)
	}
	return c, nil
}

// GetByPhone возвращает клиента по нормализованному телефону.
// Телефон уникален, результат всегда 0 или 1.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE phone = $1", phone,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска по телефону: %w", err)
	}
	return c, nil
}

// GetByUsername ищет клиента по telegram-нику: без учёта регистра,
// ведущая @ в запросе и в БД игнорируется.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE lower(ltrim(tg_username, '@')) = lower(ltrim($1, '@'))
		LIMIT 1
	`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска по нику: %w", err)
	}
	return c, nil
}

// SearchByName ищет клиентов по подстроке имени без учёта регистра.
// Возвращает не больше SearchLimit строк, отсортированных по имени.
func (r *Repository) SearchByName(ctx context.Context, query string) ([]Client, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY lower(full_name)
		LIMIT $2
	`, escapeLike(query), SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска по имени: %w", err)
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования клиента: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// SetStatus переводит клиента в active/inactive.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE clients SET status = $2 WHERE client_id = $1", id, status,
	)
	if err != nil {
		return fmt.Errorf("ошибка смены статуса клиента: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
