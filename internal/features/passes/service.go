// Package passes — service.go: бизнес-логика абонементов.
package passes

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service управляет абонементами.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис абонементов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// DefaultEnd возвращает дату окончания месячного абонемента:
// месяц от старта минус один день (конец включительно).
func DefaultEnd(start time.Time) time.Time {
	return start.AddDate(0, 1, -1)
}

// Issue выдаёт активный абонемент. common.ErrActivePassConflict —
// штатный исход, показываем пользователю, не ретраим.
func (s *Service) Issue(ctx context.Context, clientID, groupID int64, start, end time.Time, price *int64, comment string) (int64, error) {
	p := Pass{
		ClientID:  clientID,
		GroupID:   groupID,
		Type:      TypeMonthly,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
		Price:     price,
		Comment:   comment,
	}
	id, err := s.repo.Issue(ctx, p)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"pass_id": id, "client_id": clientID, "group_id": groupID,
	}).Info("Абонемент выдан")
	return id, nil
}

// GetActive возвращает активный абонемент пары (клиент, группа).
func (s *Service) GetActive(ctx context.Context, clientID, groupID int64) (*Pass, error) {
	return s.repo.GetActive(ctx, clientID, groupID)
}

// ListActiveForClient возвращает активные абонементы клиента.
func (s *Service) ListActiveForClient(ctx context.Context, clientID int64) ([]PassInfo, error) {
	return s.repo.ListActiveForClient(ctx, clientID)
}

// Extend продлевает абонемент до новой даты окончания.
func (s *Service) Extend(ctx context.Context, passID int64, newEnd time.Time) error {
	if err := s.repo.ExtendEnd(ctx, passID, newEnd); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"pass_id": passID, "end": newEnd.Format("2006-01-02"),
	}).Info("Абонемент продлён")
	return nil
}

// Deactivate отключает абонемент.
func (s *Service) Deactivate(ctx context.Context, passID int64) error {
	return s.repo.SetActive(ctx, passID, false)
}

// ListActiveAsOf возвращает действующие на дату абонементы.
func (s *Service) ListActiveAsOf(ctx context.Context, date time.Time) ([]PassInfo, error) {
	return s.repo.ListActiveAsOf(ctx, date)
}

// ListExpiring возвращает абонементы, заканчивающиеся в окне дат.
func (s *Service) ListExpiring(ctx context.Context, from, to time.Time) ([]PassInfo, error) {
	return s.repo.ListExpiring(ctx, from, to)
}

// ListMembersWithoutPass — клиенты с членством, но без действующего абонемента.
func (s *Service) ListMembersWithoutPass(ctx context.Context, today time.Time) ([]MemberWithoutPass, error) {
	return s.repo.ListMembersWithoutPass(ctx, today)
}
