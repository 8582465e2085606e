// bot.go — инициализация бота, polling и маршрутизация апдейтов.
// Каждое сообщение проходит одинаковый путь: лог → rate limit →
// авторизация → глобальные кнопки → диспетчеризация по текущему
// состоянию диалога.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/access"
	"fitadmin.ru/gym-bot/internal/bot/middleware"
	"fitadmin.ru/gym-bot/internal/config"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/admins"
	"fitadmin.ru/gym-bot/internal/features/clients"
	"fitadmin.ru/gym-bot/internal/features/expenses"
	"fitadmin.ru/gym-bot/internal/features/groups"
	"fitadmin.ru/gym-bot/internal/features/passes"
	"fitadmin.ru/gym-bot/internal/features/payments"
	"fitadmin.ru/gym-bot/internal/features/reports"
	"fitadmin.ru/gym-bot/internal/features/trainers"
	"fitadmin.ru/gym-bot/internal/features/visits"
)

// Services — все доменные сервисы, нужные диалогам.
type Services struct {
	Admins   *admins.Service
	Clients  *clients.Service
	Trainers *trainers.Service
	Groups   *groups.Service
	Visits   *visits.Service
	Passes   *passes.Service
	Payments *payments.Service
	Expenses *expenses.Service
	Reports  *reports.Service
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config
	svc Services

	guard       *access.Guard
	sessions    *dialog.Store
	rateLimiter *middleware.RateLimiter

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт бота со всеми зависимостями.
func New(api *tgbotapi.BotAPI, cfg *config.Config, svc Services, guard *access.Guard, sessions *dialog.Store) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}
	return &Bot{
		api:         api,
		cfg:         cfg,
		svc:         svc,
		guard:       guard,
		sessions:    sessions,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Sessions возвращает таблицу сессий (для планировщика).
func (b *Bot) Sessions() *dialog.Store { return b.sessions }

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Бот работает только в личке: текст или поделённый контакт.
	message := update.Message
	if message == nil || message.From == nil || !message.Chat.IsPrivate() {
		return
	}
	if message.Text == "" && message.Contact == nil {
		return
	}

	middleware.LogMessage(message)

	userID := message.From.ID
	chatID := message.Chat.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	role, err := b.guard.Authorize(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка авторизации")
		b.send(chatID, "Не получилось проверить доступ, попробуйте ещё раз.", nil)
		return
	}
	if role == access.RoleDenied {
		b.sessions.Clear(userID)
		log.WithField("user_id", userID).Warn("Отказ в доступе")
		b.send(chatID, "Нет доступа.", nil)
		return
	}

	text := strings.TrimSpace(message.Text)

	// Глобальные команды работают из любого состояния.
	if text == "/start" || text == BtnCancel {
		b.sessions.Clear(userID)
		b.toMainMenu(chatID, userID, "Главное меню.")
		return
	}

	// Кнопка главного меню безусловно начинает новый процесс:
	// прежняя анкета выбрасывается.
	if b.routeMainMenu(ctx, chatID, userID, role, text) {
		return
	}

	sess := b.sessions.Get(userID)
	if sess.State == dialog.StateIdle {
		b.toMainMenu(chatID, userID, "Выберите действие в меню.")
		return
	}

	switch sess.State.Flow() {
	case "client":
		b.flowClient(ctx, chatID, userID, message, sess)
	case "picker":
		b.flowPicker(ctx, chatID, userID, text, sess)
	case "card":
		b.flowCard(ctx, chatID, userID, text, sess)
	case "booking":
		b.flowBooking(ctx, chatID, userID, text, sess)
	case "attendance":
		b.flowAttendance(ctx, chatID, userID, text, sess)
	case "payment":
		b.flowPayment(ctx, chatID, userID, text, sess)
	case "defer":
		b.flowDeferClose(ctx, chatID, userID, text, sess)
	case "pass", "passext":
		b.flowPass(ctx, chatID, userID, text, sess)
	case "expense":
		b.flowExpense(ctx, chatID, userID, text, sess)
	case "expcat":
		b.flowExpenseCategories(ctx, chatID, userID, text, sess)
	case "trainer":
		b.flowTrainer(ctx, chatID, userID, text, sess)
	case "group":
		b.flowGroup(ctx, chatID, userID, text, sess)
	case "schedule":
		b.flowSchedule(ctx, chatID, userID, text, sess)
	case "report":
		b.flowReport(ctx, chatID, userID, text, sess)
	case "admins":
		b.flowAdmins(ctx, chatID, userID, role, text, sess)
	default:
		log.WithFields(log.Fields{"user_id": userID, "state": sess.State}).
			Warn("Неизвестное состояние диалога, сбрасываю")
		b.sessions.Clear(userID)
		b.toMainMenu(chatID, userID, "Что-то пошло не так, начнём сначала.")
	}
}

// routeMainMenu обрабатывает нажатие кнопки главного меню.
// Возвращает true, если текст был такой кнопкой.
func (b *Bot) routeMainMenu(ctx context.Context, chatID, userID int64, role access.Role, text string) bool {
	switch text {
	case BtnNewClient:
		b.startNewClient(chatID, userID)
	case BtnFindClient:
		b.startPicker(chatID, userID, "card")
	case BtnBook:
		b.startPicker(chatID, userID, "booking")
	case BtnAttendance:
		b.startAttendance(ctx, chatID, userID)
	case BtnPayment:
		b.sessions.Begin(userID, dialog.StatePaymentMenu)
		b.send(chatID, "Оплата: что делаем?", paymentMenuKeyboard())
	case BtnPass:
		b.sessions.Begin(userID, dialog.StatePassMenu)
		b.send(chatID, "Абонемент: что делаем?", passMenuKeyboard())
	case BtnExpenses:
		b.sessions.Begin(userID, dialog.StateExpenseMenu)
		b.send(chatID, "Расходы: что делаем?", expenseMenuKeyboard())
	case BtnReports:
		b.sessions.Begin(userID, dialog.StateReportMenu)
		b.send(chatID, "Какой отчёт собрать?", reportMenuKeyboard())
	case BtnTrainers:
		b.sessions.Begin(userID, dialog.StateTrainerMenu)
		b.send(chatID, "Тренеры: что делаем?", trainersMenuKeyboard())
	case BtnGroups:
		b.sessions.Begin(userID, dialog.StateGroupMenu)
		b.send(chatID, "Группы: что делаем?", groupsMenuKeyboard())
	case BtnAdmins:
		if role != access.RoleOwner {
			b.send(chatID, "Эта кнопка только для владельца.", nil)
			return true
		}
		b.sessions.Begin(userID, dialog.StateAdminsMenu)
		b.send(chatID, "Админы: что делаем?", adminMenuKeyboard())
	default:
		return false
	}
	return true
}

// toMainMenu показывает главное меню.
func (b *Bot) toMainMenu(chatID, userID int64, text string) {
	b.send(chatID, text, mainMenuKeyboard(b.guard.IsOwner(userID)))
}

// finishToMenu завершает процесс: чистит сессию и показывает меню.
func (b *Bot) finishToMenu(chatID, userID int64, text string) {
	b.sessions.Clear(userID)
	b.toMainMenu(chatID, userID, text)
}

// send отправляет текст; kb == nil — клавиатура не меняется.
func (b *Bot) send(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// sendDocument отправляет файл (отчёт в Excel).
func (b *Bot) sendDocument(chatID int64, name string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки файла")
	}
}

// SendMessageToUser отправляет сообщение пользователю (для дайджестов).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}
