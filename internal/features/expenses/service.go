package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Service — правила учёта расходов поверх репозитория.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateCategory создаёт категорию; при совпадении кода подбирает
// числовой суффикс: arenda_zala, arenda_zala_2, arenda_zala_3…
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	base := CategoryCode(name)
	code := base
	for n := 2; ; n++ {
		c, err := s.repo.CreateCategory(ctx, code, name)
		if errors.Is(err, common.ErrDuplicateCategory) {
			if n > 50 {
				return nil, fmt.Errorf("не удалось подобрать код для категории %q", name)
			}
			code = fmt.Sprintf("%s_%d", base, n)
			continue
		}
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"category_id": c.ID, "code": c.Code}).Info("категория расходов создана")
		return c, nil
	}
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	return s.repo.ListCategories(ctx, onlyActive)
}

func (s *Service) RenameCategory(ctx context.Context, id int64, name string) error {
	return s.repo.RenameCategory(ctx, id, name)
}

func (s *Service) SetCategoryActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetCategoryActive(ctx, id, active)
}

// Record создаёт расход.
func (s *Service) Record(ctx context.Context, ne NewExpense) (*Expense, error) {
	if ne.Amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	e, err := s.repo.Create(ctx, ne)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"expense_id": e.ID,
		"amount":     e.Amount,
		"method":     e.Method,
	}).Info("расход записан")
	return e, nil
}

func (s *Service) UpdateAmount(ctx context.Context, id, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.UpdateAmount(ctx, id, amount)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// LastByUser — последний расход администратора, для «как в прошлый раз».
func (s *Service) LastByUser(ctx context.Context, userID int64) (*ExpenseRow, error) {
	return s.repo.LastByUser(ctx, userID)
}

func (s *Service) ListForPeriod(ctx context.Context, from, to time.Time) ([]ExpenseRow, error) {
	return s.repo.ListForPeriod(ctx, from, to)
}

func (s *Service) SummaryForPeriod(ctx context.Context, from, to time.Time) (Summary, error) {
	return s.repo.SummaryForPeriod(ctx, from, to)
}

// TopCategories — topN крупнейших категорий за период, остаток
// сворачивается в «Прочие».
func (s *Service) TopCategories(ctx context.Context, from, to time.Time, topN int) ([]CategoryTotal, error) {
	totals, err := s.repo.TotalsByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if topN <= 0 || len(totals) <= topN {
		return totals, nil
	}
	top := totals[:topN:topN]
	rest := CategoryTotal{CategoryName: "Прочие"}
	for _, ct := range totals[topN:] {
		rest.Total += ct.Total
		rest.Count += ct.Count
	}
	return append(top, rest), nil
}
