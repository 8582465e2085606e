// flow_attendance.go — отметка посещений: группа → дата → список
// клиентов → статус. Отметка идемпотентна: повторная правка статуса
// меняет ту же строку визита.
package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/visits"
)

func (b *Bot) startAttendance(ctx context.Context, chatID, userID int64) {
	opts, labels, err := b.groupOptions(ctx)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить группы")
		b.finishToMenu(chatID, userID, "Не удалось загрузить группы.")
		return
	}
	if len(opts) == 0 {
		b.finishToMenu(chatID, userID, "Активных групп нет.")
		return
	}
	sess := b.sessions.Begin(userID, dialog.StateAttendanceGroup)
	sess.Options = opts
	b.sessions.Put(userID, sess)
	b.send(chatID, "В какой группе отмечаем?", optionsKeyboard(labels))
}

func (b *Bot) flowAttendance(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateAttendanceGroup:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		sess.Form.GroupID = opt.ID
		sess.Form.GroupName = opt.Label
		sess.Options = nil
		sess.State = dialog.StateAttendanceDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "За какую дату?", attendanceDateKeyboard())

	case dialog.StateAttendanceDate:
		date, ok := b.parseDateButton(chatID, text, attendanceDateKeyboard())
		if !ok || date == nil {
			return
		}
		sess.Form.Date = date
		b.showAttendanceList(ctx, chatID, userID, sess)

	case dialog.StateAttendanceClient:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите клиента кнопкой из списка.", nil)
			return
		}
		sess.Form.ClientID = opt.ID
		sess.Form.ClientName = attendanceLabelName(opt.Label)
		sess.State = dialog.StateAttendanceStatus
		b.sessions.Put(userID, sess)
		b.send(chatID, sess.Form.ClientName+" — что отмечаем?", attendanceStatusKeyboard())

	case dialog.StateAttendanceStatus:
		var status string
		switch text {
		case BtnStatusAttended:
			status = visits.StatusAttended
		case BtnStatusNoShow:
			status = visits.StatusNoShow
		case BtnStatusCancelled:
			status = visits.StatusCancelled
		case BtnBack:
			b.showAttendanceList(ctx, chatID, userID, sess)
			return
		default:
			b.send(chatID, "Выберите статус кнопкой.", attendanceStatusKeyboard())
			return
		}
		err := b.svc.Visits.MarkStatus(ctx, *sess.Form.Date, sess.Form.GroupID, sess.Form.ClientID, status, userID)
		if err != nil {
			log.WithError(err).Error("Не удалось отметить посещение")
			b.send(chatID, "Не получилось отметить, попробуйте ещё раз.", attendanceStatusKeyboard())
			return
		}
		// отметили — возвращаемся к списку, чтобы отметить следующего
		b.showAttendanceList(ctx, chatID, userID, sess)
	}
}

// showAttendanceList строит список «кого отмечаем»: закреплённые
// в группе плюс записанные разово, с текущими статусами.
func (b *Bot) showAttendanceList(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	rows, err := b.svc.Visits.AttendanceList(ctx, sess.Form.GroupID, *sess.Form.Date)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить список посещений")
		b.finishToMenu(chatID, userID, "Не удалось загрузить список.")
		return
	}
	if len(rows) == 0 {
		b.finishToMenu(chatID, userID, fmt.Sprintf(
			"В «%s» на %s никого нет.", sess.Form.GroupName, common.FormatDateRu(*sess.Form.Date)))
		return
	}

	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		label := attendanceLabel(r.Status, r.FullName)
		sess.Options = append(sess.Options, dialog.Option{ID: r.ClientID, Label: label})
		labels = append(labels, label)
	}
	sess.State = dialog.StateAttendanceClient
	b.sessions.Put(userID, sess)

	var sb strings.Builder
	fmt.Fprintf(&sb, "«%s», %s — %d чел. Кого отмечаем?",
		sess.Form.GroupName, common.FormatDateRu(*sess.Form.Date), len(rows))
	b.send(chatID, sb.String(), optionsKeyboard(labels))
}

// attendanceLabel собирает подпись кнопки «эмодзи статуса + имя»;
// attendanceLabelName достаёт обратно чистое имя для формы.
func attendanceLabel(status, name string) string {
	return statusMark(status) + " " + name
}

func attendanceLabelName(label string) string {
	if _, name, ok := strings.Cut(label, " "); ok {
		return name
	}
	return label
}

func statusMark(status string) string {
	switch status {
	case visits.StatusAttended:
		return "✅"
	case visits.StatusNoShow:
		return "❌"
	case visits.StatusCancelled:
		return "🚫"
	case visits.StatusBooked:
		return "📅"
	default:
		return "▫️"
	}
}
