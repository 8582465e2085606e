// Package reports собирает сводки за период и выгружает их в Excel.
package reports

import (
	"time"

	"fitadmin.ru/gym-bot/internal/features/expenses"
	"fitadmin.ru/gym-bot/internal/features/passes"
	"fitadmin.ru/gym-bot/internal/features/payments"
	"fitadmin.ru/gym-bot/internal/features/visits"
)

// AttendanceSummary — визиты за период по статусам.
type AttendanceSummary struct {
	Booked    int
	Attended  int
	NoShow    int
	Cancelled int
}

// PeriodReport — всё, что попадает в отчёт за период. Только чтение,
// запись в хранилище отсюда не делается.
type PeriodReport struct {
	From, To time.Time

	Revenue    payments.RevenueSummary
	Expenses   expenses.Summary
	Categories []expenses.CategoryTotal // топ-N и «Прочие»
	Attendance AttendanceSummary
	Profit     int64 // выручка минус расходы

	PaidPayments []payments.PaidRow
	ExpenseRows  []expenses.ExpenseRow
	Deferred     []payments.DeferredInfo // открытые в периоде
	Overdue      []payments.DeferredInfo // висящие дольше допустимого
}

// PassesReport — сводка по абонементам на дату.
type PassesReport struct {
	AsOf        time.Time
	Active      []passes.PassInfo
	Expiring    []passes.PassInfo
	WithoutPass []passes.MemberWithoutPass
}

// SinglesReport — разовые визиты за период и долги по ним.
type SinglesReport struct {
	From, To    time.Time
	Total       int
	UnpaidCount int
	Unpaid      []visits.UnpaidSingle
}
