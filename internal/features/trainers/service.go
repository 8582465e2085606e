// Package trainers — service.go: бизнес-логика управления тренерами.
package trainers

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Service управляет тренерами.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис тренеров.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create добавляет тренера.
func (s *Service) Create(ctx context.Context, fullName, phone, tgUsername string) (int64, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return 0, common.ErrNotFound
	}
	id, err := s.repo.Create(ctx, fullName, common.NormalizePhone(phone), common.NormalizeUsername(tgUsername))
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"trainer_id": id, "name": fullName}).Info("Тренер создан")
	return id, nil
}

// GetByID возвращает тренера.
func (s *Service) GetByID(ctx context.Context, id int64) (*Trainer, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает тренеров; onlyActive скрывает отключённых.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]Trainer, error) {
	return s.repo.List(ctx, onlyActive)
}

// Rename меняет имя тренера.
func (s *Service) Rename(ctx context.Context, id int64, fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return common.ErrNotFound
	}
	return s.repo.Rename(ctx, id, fullName)
}

// SetActive скрывает или активирует тренера.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
