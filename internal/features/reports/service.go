package reports

import (
	"context"
	"fmt"
	"time"

	"fitadmin.ru/gym-bot/internal/features/expenses"
	"fitadmin.ru/gym-bot/internal/features/passes"
	"fitadmin.ru/gym-bot/internal/features/payments"
	"fitadmin.ru/gym-bot/internal/features/visits"
)

// Service — агрегатор отчётов поверх остальных сервисов.
type Service struct {
	payments *payments.Service
	expenses *expenses.Service
	visits   *visits.Service
	passes   *passes.Service

	topCategories   int
	deferOverdueDay int // через сколько дней отсрочка считается просроченной
	expiryWindow    int // окно «скоро истекает» для абонементов, дней
}

func NewService(pay *payments.Service, exp *expenses.Service, vis *visits.Service, pas *passes.Service,
	topCategories, deferOverdueDays, expiryWindowDays int) *Service {
	return &Service{
		payments:        pay,
		expenses:        exp,
		visits:          vis,
		passes:          pas,
		topCategories:   topCategories,
		deferOverdueDay: deferOverdueDays,
		expiryWindow:    expiryWindowDays,
	}
}

// BuildPeriodReport собирает сводку за период на дату today.
func (s *Service) BuildPeriodReport(ctx context.Context, from, to, today time.Time) (*PeriodReport, error) {
	rep := &PeriodReport{From: from, To: to}

	var err error
	if rep.Revenue, err = s.payments.RevenueSummary(ctx, from, to); err != nil {
		return nil, fmt.Errorf("выручка: %w", err)
	}
	if rep.Expenses, err = s.expenses.SummaryForPeriod(ctx, from, to); err != nil {
		return nil, fmt.Errorf("расходы: %w", err)
	}
	if rep.Categories, err = s.expenses.TopCategories(ctx, from, to, s.topCategories); err != nil {
		return nil, fmt.Errorf("категории расходов: %w", err)
	}
	rep.Profit = rep.Revenue.Total - rep.Expenses.Total

	byStatus, err := s.visits.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("посещаемость: %w", err)
	}
	rep.Attendance = AttendanceSummary{
		Booked:    byStatus[visits.StatusBooked],
		Attended:  byStatus[visits.StatusAttended],
		NoShow:    byStatus[visits.StatusNoShow],
		Cancelled: byStatus[visits.StatusCancelled],
	}

	if rep.PaidPayments, err = s.payments.ListPaid(ctx, from, to); err != nil {
		return nil, fmt.Errorf("платежи: %w", err)
	}
	if rep.ExpenseRows, err = s.expenses.ListForPeriod(ctx, from, to); err != nil {
		return nil, fmt.Errorf("список расходов: %w", err)
	}
	if rep.Deferred, err = s.payments.ListDeferredCreated(ctx, from, to); err != nil {
		return nil, fmt.Errorf("отсрочки: %w", err)
	}
	if rep.Overdue, err = s.payments.ListOverdueDeferred(ctx, today, s.deferOverdueDay); err != nil {
		return nil, fmt.Errorf("просроченные отсрочки: %w", err)
	}
	return rep, nil
}

// BuildPassesReport — действующие, скоро истекающие и отсутствующие
// абонементы на дату.
func (s *Service) BuildPassesReport(ctx context.Context, asOf time.Time) (*PassesReport, error) {
	rep := &PassesReport{AsOf: asOf}

	var err error
	if rep.Active, err = s.passes.ListActiveAsOf(ctx, asOf); err != nil {
		return nil, fmt.Errorf("действующие абонементы: %w", err)
	}
	if rep.Expiring, err = s.passes.ListExpiring(ctx, asOf, asOf.AddDate(0, 0, s.expiryWindow)); err != nil {
		return nil, fmt.Errorf("истекающие абонементы: %w", err)
	}
	if rep.WithoutPass, err = s.passes.ListMembersWithoutPass(ctx, asOf); err != nil {
		return nil, fmt.Errorf("клиенты без абонемента: %w", err)
	}
	return rep, nil
}

// BuildSinglesReport — разовые визиты за период и долги по ним.
func (s *Service) BuildSinglesReport(ctx context.Context, from, to time.Time) (*SinglesReport, error) {
	rep := &SinglesReport{From: from, To: to}

	var err error
	if rep.Total, err = s.visits.CountSingles(ctx, from, to); err != nil {
		return nil, fmt.Errorf("разовые визиты: %w", err)
	}
	if rep.UnpaidCount, err = s.visits.CountUnpaidSingles(ctx, from, to); err != nil {
		return nil, fmt.Errorf("неоплаченные разовые: %w", err)
	}
	if rep.Unpaid, err = s.visits.UnpaidSingles(ctx, from, to, 0); err != nil {
		return nil, fmt.Errorf("список неоплаченных: %w", err)
	}
	return rep, nil
}
