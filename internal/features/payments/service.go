package payments

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Service реализует платёжные правила поверх репозитория.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record создаёт платёж. Статус выводится из метода: defer открывает
// отсрочку без даты оплаты, остальные методы фиксируют оплату сразу.
// Срок хранится только у отсрочек, для прочих методов он отбрасывается.
func (s *Service) Record(ctx context.Context, np NewPayment) (*Payment, error) {
	if np.Amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	status := StatusPaid
	payDate := &np.PayDate
	if np.Method == MethodDefer {
		status = StatusDeferred
		payDate = nil
	} else {
		np.DueDate = nil
	}
	p, err := s.repo.Create(ctx, np, status, payDate)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"payment_id": p.ID,
		"amount":     p.Amount,
		"method":     p.Method,
		"status":     p.Status,
	}).Info("платёж записан")
	return p, nil
}

// CloseDeferred закрывает отсрочку фактическим методом оплаты.
// Метод defer при закрытии недопустим.
func (s *Service) CloseDeferred(ctx context.Context, id int64, method string, payDate time.Time, closedBy int64) error {
	if method == MethodDefer {
		return errors.New("отсрочку нельзя закрыть отсрочкой")
	}
	if err := s.repo.CloseDeferred(ctx, id, method, payDate, closedBy); err != nil {
		return err
	}
	log.WithFields(log.Fields{"payment_id": id, "method": method}).Info("отсрочка закрыта")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.repo.Cancel(ctx, id)
}

func (s *Service) DeferredSummary(ctx context.Context, clientID int64, today time.Time) (DeferredSummary, error) {
	return s.repo.DeferredSummaryForClient(ctx, clientID, today)
}

func (s *Service) ListOpenDeferred(ctx context.Context, clientID int64) ([]DeferredInfo, error) {
	return s.repo.ListOpenDeferredForClient(ctx, clientID)
}

func (s *Service) ListDeferredCreated(ctx context.Context, from, to time.Time) ([]DeferredInfo, error) {
	return s.repo.ListDeferredCreated(ctx, from, to)
}

// ListOverdueDeferred — отсрочки, висящие дольше allowDays дней.
func (s *Service) ListOverdueDeferred(ctx context.Context, today time.Time, allowDays int) ([]DeferredInfo, error) {
	return s.repo.ListOverdueDeferred(ctx, today.AddDate(0, 0, -allowDays))
}

func (s *Service) RevenueSummary(ctx context.Context, from, to time.Time) (RevenueSummary, error) {
	return s.repo.RevenueSummary(ctx, from, to)
}

func (s *Service) ListPaid(ctx context.Context, from, to time.Time) ([]PaidRow, error) {
	return s.repo.ListPaid(ctx, from, to)
}
