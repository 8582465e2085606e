// flow_booking.go — запись клиента на занятие: разовая или
// закрепление в группе по абонементу.
package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
)

// groupOptions строит список активных групп для выбора кнопкой.
func (b *Bot) groupOptions(ctx context.Context) ([]dialog.Option, []string, error) {
	list, err := b.svc.Groups.List(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	opts := make([]dialog.Option, 0, len(list))
	labels := make([]string, 0, len(list))
	for _, g := range list {
		opts = append(opts, dialog.Option{ID: g.ID, Label: g.Name})
		labels = append(labels, g.Name)
	}
	return opts, labels, nil
}

func (b *Bot) flowBooking(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateBookingKind:
		switch text {
		case BtnBookingSingle:
			sess.Form.BookingKind = "single"
		case BtnBookingMembership:
			sess.Form.BookingKind = "membership"
		default:
			b.send(chatID, "Выберите тип записи кнопкой.", bookingKindKeyboard())
			return
		}
		opts, labels, err := b.groupOptions(ctx)
		if err != nil {
			log.WithError(err).Error("Не удалось загрузить группы")
			b.finishToMenu(chatID, userID, "Не удалось загрузить группы.")
			return
		}
		if len(opts) == 0 {
			b.finishToMenu(chatID, userID, "Активных групп нет — сначала создайте группу.")
			return
		}
		sess.Options = opts
		sess.State = dialog.StateBookingGroup
		b.sessions.Put(userID, sess)
		b.send(chatID, "В какую группу?", optionsKeyboard(labels))

	case dialog.StateBookingGroup:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		sess.Form.GroupID = opt.ID
		sess.Form.GroupName = opt.Label
		sess.Options = nil

		if sess.Form.BookingKind == "membership" {
			// Закрепление в группе: членство активируется сразу,
			// абонемент выдаётся отдельным процессом.
			today := common.Today(b.cfg.Location())
			if err := b.svc.Groups.Enroll(ctx, sess.Form.ClientID, sess.Form.GroupID, today); err != nil {
				log.WithError(err).Error("Не удалось закрепить клиента в группе")
				b.finishToMenu(chatID, userID, "Не получилось закрепить клиента, попробуйте позже.")
				return
			}
			b.finishToMenu(chatID, userID, fmt.Sprintf(
				"%s закреплён(а) в группе «%s» ✅\nНе забудьте выдать абонемент: 🎫 Абонемент.",
				sess.Form.ClientName, sess.Form.GroupName))
			return
		}

		sess.State = dialog.StateBookingDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "На какую дату?", bookingDateKeyboard())

	case dialog.StateBookingDate:
		date, ok := b.parseDateButton(chatID, text, bookingDateKeyboard())
		if !ok {
			return
		}
		if date == nil {
			return // попросили ввести дату текстом, ждём следующий ввод
		}
		sess.Form.Date = date
		sess.State = dialog.StateBookingConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, fmt.Sprintf("Записать %s в «%s» на %s?",
			sess.Form.ClientName, sess.Form.GroupName, common.FormatDateRu(*date)), confirmKeyboard())

	case dialog.StateBookingConfirm:
		if text != BtnSave {
			b.send(chatID, "Нажмите «✅ Сохранить» или «❌ Отмена».", confirmKeyboard())
			return
		}
		created, err := b.svc.Visits.BookSingle(ctx, *sess.Form.Date, sess.Form.GroupID, sess.Form.ClientID, userID)
		if err != nil {
			log.WithError(err).Error("Не удалось создать запись")
			b.finishToMenu(chatID, userID, "Не получилось записать, попробуйте позже.")
			return
		}
		if !created {
			b.finishToMenu(chatID, userID, "Клиент уже записан в эту группу на эту дату.")
			return
		}
		b.finishToMenu(chatID, userID, fmt.Sprintf("Записал %s в «%s» на %s ✅",
			sess.Form.ClientName, sess.Form.GroupName, common.FormatDateRu(*sess.Form.Date)))
	}
}

// parseDateButton разбирает типовой выбор даты: «Сегодня» / «Завтра» /
// «Вчера» / ввод текстом. Возвращает (nil, true) когда нажата кнопка
// ручного ввода — дату ждём следующим сообщением.
func (b *Bot) parseDateButton(chatID int64, text string, kb interface{}) (*time.Time, bool) {
	today := common.Today(b.cfg.Location())
	switch text {
	case BtnToday:
		return &today, true
	case BtnTomorrow:
		d := today.AddDate(0, 0, 1)
		return &d, true
	case BtnYesterday:
		d := today.AddDate(0, 0, -1)
		return &d, true
	case BtnEnterDate, BtnPickDate:
		b.send(chatID, "Введите дату (ДД.ММ.ГГГГ):", cancelKeyboard())
		return nil, true
	}
	d, err := common.ParseDate(text)
	if err != nil {
		b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", kb)
		return nil, false
	}
	return &d, true
}
