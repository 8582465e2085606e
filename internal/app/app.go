// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/access"
	"fitadmin.ru/gym-bot/internal/bot"
	"fitadmin.ru/gym-bot/internal/config"
	"fitadmin.ru/gym-bot/internal/db/postgres"
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
	"fitadmin.ru/gym-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	adminRepo := admins.NewRepository(pool)
	clientRepo := clients.NewRepository(pool)
	trainerRepo := trainers.NewRepository(pool)
	groupRepo := groups.NewRepository(pool)
	visitRepo := visits.NewRepository(pool)
	passRepo := passes.NewRepository(pool)
	paymentRepo := payments.NewRepository(pool)
	expenseRepo := expenses.NewRepository(pool)

	// === 4. Сервисы ===
	adminService := admins.NewService(adminRepo)
	clientService := clients.NewService(clientRepo)
	trainerService := trainers.NewService(trainerRepo)
	groupService := groups.NewService(groupRepo)
	visitService := visits.NewService(visitRepo)
	passService := passes.NewService(passRepo)
	paymentService := payments.NewService(paymentRepo)
	expenseService := expenses.NewService(expenseRepo)
	reportService := reports.NewService(paymentService, expenseService, visitService, passService,
		cfg.ReportTopCategories, cfg.DeferOverdueDays, cfg.PassExpiryWindowDays)

	// === 5. Доступ и сессии диалогов ===
	guard := access.NewGuard(cfg.OwnerTgUserID, adminService)
	sessions := dialog.NewStore(cfg.SessionTTL)

	// === 6. Собираем бота ===
	b := bot.New(botAPI, cfg, bot.Services{
		Admins:   adminService,
		Clients:  clientService,
		Trainers: trainerService,
		Groups:   groupService,
		Visits:   visitService,
		Passes:   passService,
		Payments: paymentService,
		Expenses: expenseService,
		Reports:  reportService,
	}, guard, sessions)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, paymentService, passService, sessions, b.SendMessageToUser)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции по порядку.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Admins},
		{2, migration002Clients},
		{3, migration003Groups},
		{4, migration004Visits},
		{5, migration005Passes},
		{6, migration006Payments},
		{7, migration007Expenses},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
	}
	log.Info("Миграции применены")

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Admins = `
CREATE TABLE IF NOT EXISTS admins (
    tg_user_id BIGINT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

var migration002Clients = `
CREATE TABLE IF NOT EXISTS clients (
    client_id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(255) NOT NULL,
    phone VARCHAR(32) UNIQUE NOT NULL,
    tg_user_id BIGINT,
    tg_username VARCHAR(255),
    birth_date DATE,
    comment TEXT,
    status VARCHAR(16) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_clients_full_name ON clients (lower(full_name));
CREATE INDEX IF NOT EXISTS idx_clients_tg_username ON clients (lower(ltrim(tg_username, '@')));
`

var migration003Groups = `
CREATE TABLE IF NOT EXISTS trainers (
    trainer_id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(255) NOT NULL,
    phone VARCHAR(32),
    tg_username VARCHAR(255),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS groups (
    group_id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    trainer_id BIGINT REFERENCES trainers(trainer_id),
    capacity INTEGER NOT NULL DEFAULT 0,
    room VARCHAR(255),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS schedule_slots (
    slot_id BIGSERIAL PRIMARY KEY,
    group_id BIGINT NOT NULL REFERENCES groups(group_id),
    weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 1 AND 7),
    start_time VARCHAR(5) NOT NULL,
    duration_min INTEGER NOT NULL DEFAULT 60 CHECK (duration_min > 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (group_id, weekday, start_time)
);
CREATE TABLE IF NOT EXISTS client_groups (
    client_id BIGINT NOT NULL REFERENCES clients(client_id),
    group_id BIGINT NOT NULL REFERENCES groups(group_id),
    status VARCHAR(16) NOT NULL DEFAULT 'active',
    since_date DATE NOT NULL,
    until_date DATE,
    PRIMARY KEY (client_id, group_id)
);
`

var migration004Visits = `
CREATE TABLE IF NOT EXISTS visits (
    visit_id BIGSERIAL PRIMARY KEY,
    visit_date DATE NOT NULL,
    group_id BIGINT NOT NULL REFERENCES groups(group_id),
    client_id BIGINT NOT NULL REFERENCES clients(client_id),
    slot_id BIGINT REFERENCES schedule_slots(slot_id),
    status VARCHAR(16) NOT NULL DEFAULT 'booked'
        CHECK (status IN ('booked', 'attended', 'noshow', 'cancelled')),
    created_by BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_visits_date_group_client_slot
    ON visits (visit_date, group_id, client_id, (COALESCE(slot_id, 0)));
CREATE INDEX IF NOT EXISTS idx_visits_date ON visits (visit_date);
`

var migration005Passes = `
CREATE TABLE IF NOT EXISTS passes (
    pass_id BIGSERIAL PRIMARY KEY,
    client_id BIGINT NOT NULL REFERENCES clients(client_id),
    group_id BIGINT NOT NULL REFERENCES groups(group_id),
    type VARCHAR(32) NOT NULL DEFAULT 'monthly',
    start_date DATE NOT NULL,
    end_date DATE NOT NULL CHECK (end_date >= start_date),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    price BIGINT CHECK (price IS NULL OR price >= 0),
    comment TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_passes_active_client_group
    ON passes (client_id, group_id) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_passes_end_date ON passes (end_date) WHERE is_active;
`

var migration006Payments = `
CREATE TABLE IF NOT EXISTS payments (
    pay_id BIGSERIAL PRIMARY KEY,
    pay_date DATE,
    client_id BIGINT REFERENCES clients(client_id),
    group_id BIGINT REFERENCES groups(group_id),
    pass_id BIGINT REFERENCES passes(pass_id),
    visit_id BIGINT REFERENCES visits(visit_id),
    amount BIGINT NOT NULL CHECK (amount > 0),
    method VARCHAR(16) NOT NULL CHECK (method IN ('cash', 'transfer', 'qr', 'defer')),
    status VARCHAR(16) NOT NULL CHECK (status IN ('paid', 'deferred', 'cancelled')),
    purpose VARCHAR(16) NOT NULL CHECK (purpose IN ('pass', 'single', 'other')),
    due_date DATE,
    accepted_by BIGINT NOT NULL,
    comment TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payments_pay_date ON payments (pay_date);
CREATE INDEX IF NOT EXISTS idx_payments_client ON payments (client_id);
CREATE INDEX IF NOT EXISTS idx_payments_deferred ON payments (created_at) WHERE status = 'deferred';
`

var migration007Expenses = `
CREATE TABLE IF NOT EXISTS expense_categories (
    category_id BIGSERIAL PRIMARY KEY,
    code VARCHAR(64) UNIQUE NOT NULL,
    name VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS expenses (
    expense_id BIGSERIAL PRIMARY KEY,
    exp_date DATE NOT NULL,
    category_id BIGINT NOT NULL REFERENCES expense_categories(category_id),
    amount BIGINT NOT NULL CHECK (amount > 0),
    method VARCHAR(16) NOT NULL CHECK (method IN ('cash', 'transfer', 'qr')),
    comment TEXT,
    created_by BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses (exp_date);
`
