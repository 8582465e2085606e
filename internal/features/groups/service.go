// Package groups — service.go: бизнес-логика групп и расписания.
package groups

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
)

// Weekdays — подписи дней недели, индекс = weekday − 1.
var Weekdays = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// WeekdayLabel возвращает подпись дня недели 1–7.
func WeekdayLabel(weekday int) string {
	if weekday < 1 || weekday > 7 {
		return "?"
	}
	return Weekdays[weekday-1]
}

// ParseWeekday находит день недели 1–7 по подписи («Пн» … «Вс»).
func ParseWeekday(label string) (int, bool) {
	for i, w := range Weekdays {
		if w == label {
			return i + 1, true
		}
	}
	return 0, false
}

// Service управляет группами, расписанием и членством.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис групп.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create создаёт группу.
func (s *Service) Create(ctx context.Context, name string, capacity int, trainerID *int64, room string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ErrNotFound
	}
	if capacity < 0 {
		capacity = 0
	}
	id, err := s.repo.Create(ctx, name, capacity, trainerID, room)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"group_id": id, "name": name}).Info("Группа создана")
	return id, nil
}

// GetByID возвращает группу.
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает группы.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]Group, error) {
	return s.repo.List(ctx, onlyActive)
}

// ListByTrainer возвращает группы тренера.
func (s *Service) ListByTrainer(ctx context.Context, trainerID int64) ([]Group, error) {
	return s.repo.ListByTrainer(ctx, trainerID)
}

// Rename меняет имя группы.
func (s *Service) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrNotFound
	}
	return s.repo.Rename(ctx, id, name)
}

// AssignTrainer назначает тренера группе.
func (s *Service) AssignTrainer(ctx context.Context, groupID, trainerID int64) error {
	return s.repo.SetTrainer(ctx, groupID, &trainerID)
}

// RemoveTrainer убирает тренера из группы.
func (s *Service) RemoveTrainer(ctx context.Context, groupID int64) error {
	return s.repo.SetTrainer(ctx, groupID, nil)
}

// SetRoom меняет зал группы.
func (s *Service) SetRoom(ctx context.Context, id int64, room string) error {
	return s.repo.SetRoom(ctx, id, strings.TrimSpace(room))
}

// SetActive скрывает или активирует группу.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// AddSlot добавляет слот расписания группы.
func (s *Service) AddSlot(ctx context.Context, groupID int64, weekday int, startTime string, durationMin int) (int64, error) {
	if weekday < 1 || weekday > 7 || durationMin <= 0 {
		return 0, common.ErrInvalidTime
	}
	id, err := s.repo.AddSlot(ctx, groupID, weekday, startTime, durationMin)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"group_id": groupID, "weekday": weekday, "time": startTime,
	}).Info("Слот расписания добавлен")
	return id, nil
}

// ListSlots возвращает расписание группы.
func (s *Service) ListSlots(ctx context.Context, groupID int64) ([]ScheduleSlot, error) {
	return s.repo.ListSlots(ctx, groupID)
}

// UpdateSlotTime меняет время слота.
func (s *Service) UpdateSlotTime(ctx context.Context, slotID int64, startTime string) error {
	return s.repo.UpdateSlotTime(ctx, slotID, startTime)
}

// UpdateSlotDuration меняет длительность слота.
func (s *Service) UpdateSlotDuration(ctx context.Context, slotID int64, durationMin int) error {
	if durationMin <= 0 {
		return common.ErrInvalidTime
	}
	return s.repo.UpdateSlotDuration(ctx, slotID, durationMin)
}

// SetSlotActive включает или отключает слот.
func (s *Service) SetSlotActive(ctx context.Context, slotID int64, active bool) error {
	return s.repo.SetSlotActive(ctx, slotID, active)
}

// DeleteSlot удаляет слот.
func (s *Service) DeleteSlot(ctx context.Context, slotID int64) error {
	return s.repo.DeleteSlot(ctx, slotID)
}

// Enroll закрепляет клиента за группой (абонементное членство).
func (s *Service) Enroll(ctx context.Context, clientID, groupID int64, since time.Time) error {
	if err := s.repo.UpsertMembership(ctx, clientID, groupID, since); err != nil {
		return err
	}
	log.WithFields(log.Fields{"client_id": clientID, "group_id": groupID}).Info("Клиент закреплён в группе")
	return nil
}

// Unenroll открепляет клиента от группы.
func (s *Service) Unenroll(ctx context.Context, clientID, groupID int64, until time.Time) error {
	return s.repo.DeactivateMembership(ctx, clientID, groupID, until)
}
