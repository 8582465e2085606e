// Package expenses — учёт расходов и справочник категорий.
package expenses

import "time"

// Методы оплаты расхода. Отсрочек у расходов нет.
const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodQR       = "qr"
)

// Category — категория расходов. Code — машинный ключ, выводимый из
// названия один раз при создании; дальше он стабилен даже после
// переименования.
type Category struct {
	ID       int64  `db:"category_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

// Expense — строка таблицы expenses.
type Expense struct {
	ID         int64     `db:"expense_id"`
	ExpDate    time.Time `db:"exp_date"`
	CategoryID int64     `db:"category_id"`
	Amount     int64     `db:"amount"`
	Method     string    `db:"method"`
	Comment    string    `db:"comment"`
	CreatedBy  int64     `db:"created_by"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewExpense — поля создаваемого расхода.
type NewExpense struct {
	ExpDate    time.Time
	CategoryID int64
	Amount     int64
	Method     string
	Comment    string
	CreatedBy  int64
}

// ExpenseRow — расход с названием категории для списков и отчётов.
type ExpenseRow struct {
	ID           int64
	ExpDate      time.Time
	CategoryID   int64
	CategoryName string
	Amount       int64
	Method       string
	Comment      string
}

// CategoryTotal — сумма по категории за период.
type CategoryTotal struct {
	CategoryName string
	Total        int64
	Count        int
}

// Summary — расходы за период: всего и разбивка по методам.
type Summary struct {
	Total    int64
	Count    int
	Cash     int64
	Transfer int64
	QR       int64
}
