// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: утренний дайджест владельцу
// и ежечасную чистку протухших диалогов.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/config"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/passes"
	"fitadmin.ru/gym-bot/internal/features/payments"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	payments *payments.Service
	passes   *passes.Service
	sessions *dialog.Store
	sendFunc func(userID int64, text string)
}

// NewScheduler создаёт планировщик задач в часовом поясе студии.
func NewScheduler(cfg *config.Config, pay *payments.Service, pas *passes.Service,
	sessions *dialog.Store, sendFunc func(userID int64, text string)) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(cfg.Location())),
		cfg:      cfg,
		payments: pay,
		passes:   pas,
		sessions: sessions,
		sendFunc: sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Утренний дайджест владельцу
	if _, err := s.cron.AddFunc(s.cfg.DigestCronSpec, func() {
		log.Info("[CRON] Утренний дайджест")
		if err := s.SendOwnerDigest(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка дайджеста")
		}
	}); err != nil {
		log.WithError(err).Error("Не удалось запланировать дайджест")
	}

	// Чистка протухших диалогов каждый час
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if n := s.sessions.Sweep(); n > 0 {
			log.WithField("removed", n).Debug("[CRON] Протухшие диалоги удалены")
		}
	}); err != nil {
		log.WithError(err).Error("Не удалось запланировать чистку диалогов")
	}

	s.cron.Start()
	log.WithField("digest", s.cfg.DigestCronSpec).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик, дожидаясь текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// SendOwnerDigest собирает и отправляет владельцу утреннюю сводку:
// истекающие абонементы и просроченные отсрочки. Если сводка пустая,
// сообщение не отправляется.
func (s *Scheduler) SendOwnerDigest(ctx context.Context) error {
	today := common.Today(s.cfg.Location())

	expiring, err := s.passes.ListExpiring(ctx, today, today.AddDate(0, 0, s.cfg.PassExpiryWindowDays))
	if err != nil {
		return fmt.Errorf("истекающие абонементы: %w", err)
	}
	overdue, err := s.payments.ListOverdueDeferred(ctx, today, s.cfg.DeferOverdueDays)
	if err != nil {
		return fmt.Errorf("просроченные отсрочки: %w", err)
	}
	if len(expiring) == 0 && len(overdue) == 0 {
		log.Debug("Дайджест пуст, не отправляем")
		return nil
	}

	s.sendFunc(s.cfg.OwnerTgUserID, digestText(today, expiring, overdue))
	return nil
}

func digestText(today time.Time, expiring []passes.PassInfo, overdue []payments.DeferredInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "☀️ Сводка на %s\n", common.FormatDate(today))

	if len(expiring) > 0 {
		fmt.Fprintf(&sb, "\n🎫 Истекают абонементы (%d):\n", len(expiring))
		for _, p := range expiring {
			fmt.Fprintf(&sb, "• %s — %s, до %s\n", p.ClientName, p.GroupName, common.FormatDate(p.EndDate))
		}
	}
	if len(overdue) > 0 {
		fmt.Fprintf(&sb, "\n⏳ Просроченные отсрочки (%d):\n", len(overdue))
		for _, d := range overdue {
			fmt.Fprintf(&sb, "• %s, %s от %s\n", d.ClientName, common.FormatMoney(d.Amount), common.FormatDate(d.CreatedDate))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
