// flow_report.go — отчёты: текстовые сводки и выгрузка Excel.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/payments"
	"fitadmin.ru/gym-bot/internal/features/reports"
)

func (b *Bot) flowReport(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateReportMenu:
		switch text {
		case BtnReportRevenue, BtnReportExpenses, BtnReportProfit, BtnReportAttendance,
			BtnReportSingles, BtnReportDefers, BtnReportExcel:
			sess.Form.ReportKind = text
			sess.State = dialog.StateReportPeriod
			b.sessions.Put(userID, sess)
			b.send(chatID, "За какой период?", periodKeyboard())
		case BtnReportPasses:
			// Абонементы — срез на сегодня, период не нужен.
			b.renderPassesReport(ctx, chatID, userID)
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите отчёт кнопкой.", reportMenuKeyboard())
		}

	case dialog.StateReportPeriod:
		from, to, ok := b.parsePeriodButton(chatID, userID, text, sess, dialog.StateReportFrom)
		if !ok {
			return
		}
		b.renderReport(ctx, chatID, userID, sess.Form.ReportKind, from, to)

	case dialog.StateReportFrom:
		from, err := common.ParseDate(text)
		if err != nil {
			b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", cancelKeyboard())
			return
		}
		sess.Form.PeriodFrom = &from
		sess.State = dialog.StateReportTo
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата конца периода (ДД.ММ.ГГГГ):", cancelKeyboard())

	case dialog.StateReportTo:
		to, err := common.ParseDate(text)
		if err != nil {
			b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", cancelKeyboard())
			return
		}
		from := *sess.Form.PeriodFrom
		if to.Before(from) {
			b.send(chatID, "Конец периода раньше начала, введите дату ещё раз.", cancelKeyboard())
			return
		}
		b.renderReport(ctx, chatID, userID, sess.Form.ReportKind, from, to)
	}
}

func (b *Bot) renderReport(ctx context.Context, chatID, userID int64, kind string, from, to time.Time) {
	switch kind {
	case BtnReportSingles:
		b.renderSinglesReport(ctx, chatID, userID, from, to)
		return
	}

	today := common.Today(b.cfg.Location())
	rep, err := b.svc.Reports.BuildPeriodReport(ctx, from, to, today)
	if err != nil {
		log.WithError(err).Error("Не удалось собрать отчёт")
		b.finishToMenu(chatID, userID, "Не удалось собрать отчёт, попробуйте позже.")
		return
	}

	switch kind {
	case BtnReportExcel:
		data, err := reports.BuildExcel(rep)
		if err != nil {
			log.WithError(err).Error("Не удалось собрать Excel")
			b.finishToMenu(chatID, userID, "Не удалось собрать Excel-файл.")
			return
		}
		name := fmt.Sprintf("report_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
		b.sendDocument(chatID, name, data)
		b.finishToMenu(chatID, userID, "Отчёт отправлен 📤")
	case BtnReportRevenue:
		b.finishToMenu(chatID, userID, revenueText(rep))
	case BtnReportExpenses:
		b.finishToMenu(chatID, userID, expensesText(rep))
	case BtnReportProfit:
		b.finishToMenu(chatID, userID, profitText(rep))
	case BtnReportAttendance:
		b.finishToMenu(chatID, userID, attendanceText(rep))
	case BtnReportDefers:
		b.finishToMenu(chatID, userID, defersText(rep))
	default:
		b.finishToMenu(chatID, userID, "Такого отчёта нет.")
	}
}

func periodHeader(title string, from, to time.Time) string {
	return fmt.Sprintf("%s %s — %s\n", title, common.FormatDate(from), common.FormatDate(to))
}

func revenueText(rep *reports.PeriodReport) string {
	var sb strings.Builder
	sb.WriteString(periodHeader("💰 Выручка", rep.From, rep.To))
	fmt.Fprintf(&sb, "Итого: %s (%d %s)\n",
		common.FormatMoney(rep.Revenue.Total), rep.Revenue.Count,
		common.PluralRu(int64(rep.Revenue.Count), "платёж", "платежа", "платежей"))
	fmt.Fprintf(&sb, "Наличные: %s\n", common.FormatMoney(rep.Revenue.Cash))
	fmt.Fprintf(&sb, "Перевод: %s\n", common.FormatMoney(rep.Revenue.Transfer))
	fmt.Fprintf(&sb, "QR: %s", common.FormatMoney(rep.Revenue.QR))
	return sb.String()
}

func expensesText(rep *reports.PeriodReport) string {
	var sb strings.Builder
	sb.WriteString(periodHeader("💸 Расходы", rep.From, rep.To))
	fmt.Fprintf(&sb, "Итого: %s (%d %s)\n",
		common.FormatMoney(rep.Expenses.Total), rep.Expenses.Count,
		common.PluralRu(int64(rep.Expenses.Count), "запись", "записи", "записей"))
	for _, c := range rep.Categories {
		fmt.Fprintf(&sb, "• %s — %s\n", c.CategoryName, common.FormatMoney(c.Total))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func profitText(rep *reports.PeriodReport) string {
	var sb strings.Builder
	sb.WriteString(periodHeader("📈 Прибыль", rep.From, rep.To))
	fmt.Fprintf(&sb, "Выручка: %s\n", common.FormatMoney(rep.Revenue.Total))
	fmt.Fprintf(&sb, "Расходы: %s\n", common.FormatMoney(rep.Expenses.Total))
	fmt.Fprintf(&sb, "Прибыль: %s", common.FormatMoney(rep.Profit))
	return sb.String()
}

func attendanceText(rep *reports.PeriodReport) string {
	var sb strings.Builder
	sb.WriteString(periodHeader("👥 Посещаемость", rep.From, rep.To))
	a := rep.Attendance
	fmt.Fprintf(&sb, "Записаны: %d\n", a.Booked)
	fmt.Fprintf(&sb, "Пришли: %d\n", a.Attended)
	fmt.Fprintf(&sb, "Не пришли: %d\n", a.NoShow)
	fmt.Fprintf(&sb, "Отменили: %d", a.Cancelled)
	return sb.String()
}

func defersText(rep *reports.PeriodReport) string {
	var sb strings.Builder
	sb.WriteString(periodHeader("⏳ Отсрочки", rep.From, rep.To))
	if len(rep.Deferred) == 0 {
		sb.WriteString("Открытых отсрочек за период нет.")
	} else {
		fmt.Fprintf(&sb, "Открыто за период: %d\n", len(rep.Deferred))
		for _, d := range rep.Deferred {
			sb.WriteString("• " + deferLine(d) + "\n")
		}
	}
	if len(rep.Overdue) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Висят дольше допустимого: %d\n", len(rep.Overdue))
		for _, d := range rep.Overdue {
			sb.WriteString("• " + deferLine(d) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func deferLine(d payments.DeferredInfo) string {
	s := fmt.Sprintf("%s, %s от %s", d.ClientName, common.FormatMoney(d.Amount), common.FormatDate(d.CreatedDate))
	if d.DueDate != nil {
		s += ", срок " + common.FormatDate(*d.DueDate)
	}
	return s
}

func (b *Bot) renderPassesReport(ctx context.Context, chatID, userID int64) {
	today := common.Today(b.cfg.Location())
	rep, err := b.svc.Reports.BuildPassesReport(ctx, today)
	if err != nil {
		log.WithError(err).Error("Не удалось собрать отчёт по абонементам")
		b.finishToMenu(chatID, userID, "Не удалось собрать отчёт, попробуйте позже.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎫 Абонементы на %s\n", common.FormatDate(rep.AsOf))
	fmt.Fprintf(&sb, "Активных: %d\n", len(rep.Active))
	if len(rep.Expiring) > 0 {
		sb.WriteString("\nИстекают скоро:\n")
		for _, p := range rep.Expiring {
			fmt.Fprintf(&sb, "• %s — %s, до %s\n", p.ClientName, p.GroupName, common.FormatDate(p.EndDate))
		}
	}
	if len(rep.WithoutPass) > 0 {
		sb.WriteString("\nВ группе, но без абонемента:\n")
		for _, m := range rep.WithoutPass {
			fmt.Fprintf(&sb, "• %s — %s\n", m.ClientName, m.GroupName)
		}
	}
	b.finishToMenu(chatID, userID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) renderSinglesReport(ctx context.Context, chatID, userID int64, from, to time.Time) {
	rep, err := b.svc.Reports.BuildSinglesReport(ctx, from, to)
	if err != nil {
		log.WithError(err).Error("Не удалось собрать отчёт по разовым")
		b.finishToMenu(chatID, userID, "Не удалось собрать отчёт, попробуйте позже.")
		return
	}

	var sb strings.Builder
	sb.WriteString(periodHeader("🧾 Разовые визиты", rep.From, rep.To))
	fmt.Fprintf(&sb, "Всего: %d, без оплаты: %d\n", rep.Total, rep.UnpaidCount)
	for _, u := range rep.Unpaid {
		fmt.Fprintf(&sb, "• %s — %s, %s\n", common.FormatDate(u.Date), u.ClientName, u.GroupName)
	}
	b.finishToMenu(chatID, userID, strings.TrimRight(sb.String(), "\n"))
}
