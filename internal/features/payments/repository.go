package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitadmin.ru/gym-bot/internal/common"
)

// Repository — доступ к таблице payments.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const paymentColumns = `pay_id, pay_date, client_id, group_id, pass_id, visit_id,
	amount, method, status, purpose, due_date, accepted_by, COALESCE(comment, ''), created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.PayDate, &p.ClientID, &p.GroupID, &p.PassID, &p.VisitID,
		&p.Amount, &p.Method, &p.Status, &p.Purpose, &p.DueDate, &p.AcceptedBy, &p.Comment, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create вставляет платёж. Статус и дата оплаты уже выведены из метода
// на уровне сервиса: отсрочка лежит без pay_date до закрытия.
func (r *Repository) Create(ctx context.Context, np NewPayment, status string, payDate *time.Time) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (pay_date, client_id, group_id, pass_id, visit_id,
			amount, method, status, purpose, due_date, accepted_by, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''))
		RETURNING `+paymentColumns,
		payDate, np.ClientID, np.GroupID, np.PassID, np.VisitID,
		np.Amount, np.Method, status, np.Purpose, np.DueDate, np.AcceptedBy, np.Comment)
	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("создание платежа: %w", err)
	}
	return p, nil
}

// GetByID возвращает платёж либо common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE pay_id = $1`, id)
	p, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("платёж %d: %w", id, err)
	}
	return p, nil
}

// CloseDeferred закрывает отсрочку на месте: метод фактической оплаты,
// статус paid, дата оплаты. Строка не создаётся и не удаляется.
func (r *Repository) CloseDeferred(ctx context.Context, id int64, method string, payDate time.Time, closedBy int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments
		SET method = $2, status = 'paid', pay_date = $3, accepted_by = $4
		WHERE pay_id = $1 AND status = 'deferred'`,
		id, method, payDate, closedBy)
	if err != nil {
		return fmt.Errorf("закрытие отсрочки %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Cancel помечает платёж отменённым.
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments SET status = 'cancelled'
		WHERE pay_id = $1 AND status <> 'cancelled'`, id)
	if err != nil {
		return fmt.Errorf("отмена платежа %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeferredSummaryForClient — сводка по незакрытым отсрочкам клиента
// одним запросом. Просрочка — срок строго раньше сегодняшней даты.
func (r *Repository) DeferredSummaryForClient(ctx context.Context, clientID int64, today time.Time) (DeferredSummary, error) {
	var s DeferredSummary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount), 0),
		       MIN(due_date),
		       COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < $2)
		FROM payments
		WHERE client_id = $1 AND status = 'deferred'`,
		clientID, today).Scan(&s.Count, &s.Total, &s.NearestDue, &s.Overdue)
	if err != nil {
		return DeferredSummary{}, fmt.Errorf("сводка отсрочек клиента %d: %w", clientID, err)
	}
	return s, nil
}

const deferredInfoQuery = `
	SELECT p.pay_id,
	       COALESCE(c.full_name, '—'),
	       COALESCE(g.name, '—'),
	       p.amount, p.purpose, p.created_at::date, p.due_date
	FROM payments p
	LEFT JOIN clients c ON c.client_id = p.client_id
	LEFT JOIN groups g ON g.group_id = p.group_id
	WHERE p.status = 'deferred'`

func (r *Repository) scanDeferredInfos(rows pgx.Rows) ([]DeferredInfo, error) {
	defer rows.Close()
	var out []DeferredInfo
	for rows.Next() {
		var d DeferredInfo
		if err := rows.Scan(&d.ID, &d.ClientName, &d.GroupName, &d.Amount, &d.Purpose, &d.CreatedDate, &d.DueDate); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListOpenDeferredForClient — незакрытые отсрочки клиента, старые первыми.
func (r *Repository) ListOpenDeferredForClient(ctx context.Context, clientID int64) ([]DeferredInfo, error) {
	rows, err := r.pool.Query(ctx, deferredInfoQuery+` AND p.client_id = $1 ORDER BY p.created_at`, clientID)
	if err != nil {
		return nil, fmt.Errorf("отсрочки клиента %d: %w", clientID, err)
	}
	return r.scanDeferredInfos(rows)
}

// ListDeferredCreated — отсрочки, открытые в периоде (по дате создания)
// и не закрытые к моменту отчёта. Закрытая отсрочка переписана на месте
// и попадает уже в выручку, а не сюда.
func (r *Repository) ListDeferredCreated(ctx context.Context, from, to time.Time) ([]DeferredInfo, error) {
	rows, err := r.pool.Query(ctx, deferredInfoQuery+`
		  AND p.created_at::date BETWEEN $1 AND $2
		ORDER BY p.created_at DESC, p.pay_id DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("отсрочки за период: %w", err)
	}
	return r.scanDeferredInfos(rows)
}

// ListOverdueDeferred — открытые отсрочки старше заданной даты создания.
// Используется в утренней сводке владельцу.
func (r *Repository) ListOverdueDeferred(ctx context.Context, createdBefore time.Time) ([]DeferredInfo, error) {
	rows, err := r.pool.Query(ctx, deferredInfoQuery+`
		  AND p.created_at::date <= $1
		ORDER BY p.created_at, p.pay_id`, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("просроченные отсрочки: %w", err)
	}
	return r.scanDeferredInfos(rows)
}

// RevenueSummary — выручка за период по дате оплаты: только полученные
// деньги, разбивка по методам.
func (r *Repository) RevenueSummary(ctx context.Context, from, to time.Time) (RevenueSummary, error) {
	var s RevenueSummary
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COUNT(*),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'cash'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'transfer'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE method = 'qr'), 0)
		FROM payments
		WHERE status = 'paid'
		  AND method IN ('cash', 'transfer', 'qr')
		  AND pay_date BETWEEN $1 AND $2`,
		from, to).Scan(&s.Total, &s.Count, &s.Cash, &s.Transfer, &s.QR)
	if err != nil {
		return RevenueSummary{}, fmt.Errorf("сводка выручки: %w", err)
	}
	return s, nil
}

// ListPaid — детализация выручки за период для отчёта.
func (r *Repository) ListPaid(ctx context.Context, from, to time.Time) ([]PaidRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.pay_date,
		       COALESCE(c.full_name, '—'),
		       COALESCE(g.name, '—'),
		       p.purpose, p.amount, p.method
		FROM payments p
		LEFT JOIN clients c ON c.client_id = p.client_id
		LEFT JOIN groups g ON g.group_id = p.group_id
		WHERE p.status = 'paid'
		  AND p.method IN ('cash', 'transfer', 'qr')
		  AND p.pay_date BETWEEN $1 AND $2
		ORDER BY p.pay_date DESC, p.pay_id DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("платежи за период: %w", err)
	}
	defer rows.Close()
	var out []PaidRow
	for rows.Next() {
		var pr PaidRow
		if err := rows.Scan(&pr.PayDate, &pr.ClientName, &pr.GroupName, &pr.Purpose, &pr.Amount, &pr.Method); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
