// Package clients — service.go: бизнес-логика картотеки.
package clients

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Service управляет картотекой клиентов.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис клиентов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create создаёт клиента. Телефон должен быть уже нормализован диалогом.
// common.ErrDuplicatePhone — штатный исход, а не сбой.
func (s *Service) Create(ctx context.Context, c NewClient) (int64, error) {
	c.FullName = strings.TrimSpace(c.FullName)
	if c.FullName == "" || c.Phone == "" {
		return 0, common.ErrInvalidPhone
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"client_id": id, "phone": c.Phone}).Info("Клиент создан")
	return id, nil
}

// GetByID возвращает клиента по id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByPhone ищет клиента по сырому вводу телефона.
func (s *Service) FindByPhone(ctx context.Context, raw string) (*Client, error) {
	phone := common.NormalizePhone(raw)
	if phone == "" {
		return nil, common.ErrInvalidPhone
	}
	return s.repo.GetByPhone(ctx, phone)
}

// FindByUsername ищет клиента по telegram-нику.
func (s *Service) FindByUsername(ctx context.Context, raw string) (*Client, error) {
	username := common.NormalizeUsername(raw)
	if username == "" {
		return nil, common.ErrNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}

// SearchByName ищет клиентов по подстроке имени (без учёта регистра,
// не больше SearchLimit результатов).
func (s *Service) SearchByName(ctx context.Context, query string) ([]Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.repo.SearchByName(ctx, query)
}
