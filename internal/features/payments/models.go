// Package payments управляет платежами, включая отсрочки.
// models.go описывает структуру платежа и сводки по отсрочкам.
package payments

import "time"

// Методы оплаты.
const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodQR       = "qr"
	MethodDefer    = "defer"
)

// Статусы платежа.
const (
	StatusPaid      = "paid"
	StatusDeferred  = "deferred"
	StatusCancelled = "cancelled"
)

// Назначения платежа.
const (
	PurposePass   = "pass"
	PurposeSingle = "single"
	PurposeOther  = "other"
)

// Payment — строка таблицы payments.
// Отсрочка — это платёж method=defer, status=deferred с необязательным
// сроком; закрытие переписывает метод/статус/дату НА МЕСТЕ, новая
// строка не появляется.
type Payment struct {
	ID         int64      `db:"pay_id"`
	PayDate    *time.Time `db:"pay_date"` // nil у незакрытой отсрочки
	ClientID   *int64     `db:"client_id"`
	GroupID    *int64     `db:"group_id"`
	PassID     *int64     `db:"pass_id"`
	VisitID    *int64     `db:"visit_id"`
	Amount     int64      `db:"amount"`
	Method     string     `db:"method"`
	Status     string     `db:"status"`
	Purpose    string     `db:"purpose"`
	DueDate    *time.Time `db:"due_date"` // осмыслен только при method=defer
	AcceptedBy int64      `db:"accepted_by"`
	Comment    string     `db:"comment"`
	CreatedAt  time.Time  `db:"created_at"`
}

// NewPayment — поля создаваемого платежа; статус выводится из метода.
type NewPayment struct {
	ClientID   *int64
	GroupID    *int64
	PassID     *int64
	VisitID    *int64
	Amount     int64
	Method     string
	Purpose    string
	PayDate    time.Time
	DueDate    *time.Time
	AcceptedBy int64
	Comment    string
}

// DeferredSummary — сводка по незакрытым отсрочкам клиента.
// Показывается в карточке клиента, поэтому считается одним запросом.
type DeferredSummary struct {
	Count      int
	Total      int64
	NearestDue *time.Time // nil — ни у одной отсрочки нет срока
	Overdue    int        // срок строго раньше «сегодня»
}

// DeferredInfo — отсрочка с именами клиента и группы.
type DeferredInfo struct {
	ID          int64
	ClientName  string
	GroupName   string
	Amount      int64
	Purpose     string
	CreatedDate time.Time
	DueDate     *time.Time
}

// RevenueSummary — выручка за период: только реально полученные деньги
// (status=paid, метод cash/transfer/qr).
type RevenueSummary struct {
	Total    int64
	Count    int
	Cash     int64
	Transfer int64
	QR       int64
}

// PaidRow — строка детализации выручки для отчёта.
type PaidRow struct {
	PayDate    time.Time
	ClientName string
	GroupName  string
	Purpose    string
	Amount     int64
	Method     string
}
