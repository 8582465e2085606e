// Package admins — service.go: бизнес-логика управления админами.
package admins

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Service управляет списком админов.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис админов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Save сохраняет и активирует админа.
func (s *Service) Save(ctx context.Context, tgUserID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrNotFound
	}
	if err := s.repo.Upsert(ctx, tgUserID, name); err != nil {
		return err
	}
	log.WithFields(log.Fields{"tg_user_id": tgUserID, "name": name}).Info("Админ сохранён")
	return nil
}

// Disable отключает админа. Возвращает common.ErrNotFound, если его нет.
func (s *Service) Disable(ctx context.Context, tgUserID int64) error {
	ok, err := s.repo.Deactivate(ctx, tgUserID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound
	}
	log.WithField("tg_user_id", tgUserID).Info("Админ отключён")
	return nil
}

// IsActive отвечает, активен ли админ. Реализует access.AdminChecker.
func (s *Service) IsActive(ctx context.Context, tgUserID int64) (bool, error) {
	return s.repo.IsActive(ctx, tgUserID)
}

// List возвращает активных и отключённых админов.
func (s *Service) List(ctx context.Context) (active, inactive []Admin, err error) {
	return s.repo.List(ctx)
}
