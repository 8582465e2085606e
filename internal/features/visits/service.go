// Package visits — service.go: бизнес-логика записей и посещений.
package visits

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service управляет записями на занятия.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис визитов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// BookSingle записывает клиента разово. created=false — уже был записан.
func (s *Service) BookSingle(ctx context.Context, date time.Time, groupID, clientID, createdBy int64) (bool, error) {
	created, err := s.repo.BookSingle(ctx, date, groupID, clientID, createdBy)
	if err != nil {
		return false, err
	}
	if created {
		log.WithFields(log.Fields{
			"client_id": clientID, "group_id": groupID, "date": date.Format("2006-01-02"),
		}).Info("Разовая запись создана")
	}
	return created, nil
}

// MarkStatus отмечает посещение (или правит статус задним числом).
func (s *Service) MarkStatus(ctx context.Context, date time.Time, groupID, clientID int64, status string, createdBy int64) error {
	if err := s.repo.UpsertStatus(ctx, date, groupID, clientID, status, createdBy); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"client_id": clientID, "group_id": groupID,
		"date": date.Format("2006-01-02"), "status": status,
	}).Info("Посещение отмечено")
	return nil
}

// AttendanceList возвращает, кого отмечаем в группе на дату.
func (s *Service) AttendanceList(ctx context.Context, groupID int64, date time.Time) ([]AttendanceRow, error) {
	return s.repo.ListForGroupDate(ctx, groupID, date)
}

// AttendedList возвращает пришедших в группу на дату.
func (s *Service) AttendedList(ctx context.Context, groupID int64, date time.Time) ([]AttendanceRow, error) {
	return s.repo.ListAttended(ctx, groupID, date)
}

// CountByStatus — количество визитов за период по статусам.
func (s *Service) CountByStatus(ctx context.Context, from, to time.Time) (map[string]int, error) {
	return s.repo.CountByStatus(ctx, from, to)
}

// CountSingles — разовые визиты за период (не покрытые абонементом).
func (s *Service) CountSingles(ctx context.Context, from, to time.Time) (int, error) {
	return s.repo.CountSingles(ctx, from, to)
}

// UnpaidSingles — разовые визиты без оплаты; limit <= 0 — без ограничения.
func (s *Service) UnpaidSingles(ctx context.Context, from, to time.Time, limit int) ([]UnpaidSingle, error) {
	return s.repo.ListSinglesWithoutPayment(ctx, from, to, limit)
}

// CountUnpaidSingles считает разовые визиты без оплаты за период.
func (s *Service) CountUnpaidSingles(ctx context.Context, from, to time.Time) (int, error) {
	return s.repo.CountSinglesWithoutPayment(ctx, from, to)
}
