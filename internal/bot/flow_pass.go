// flow_pass.go — выдача и продление абонементов.
// На пару (клиент, группа) может действовать только один абонемент —
// конфликт показывается администратору, а не ретраится.
package bot

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/passes"
	"fitadmin.ru/gym-bot/internal/features/payments"
)

func (b *Bot) flowPass(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StatePassMenu:
		switch text {
		case BtnPassIssue:
			b.startPicker(chatID, userID, "pass")
		case BtnPassExtend:
			b.startPicker(chatID, userID, "passext")
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", passMenuKeyboard())
		}

	case dialog.StatePassGroup:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		sess.Form.GroupID = opt.ID
		sess.Form.GroupName = opt.Label
		sess.Options = nil
		sess.State = dialog.StatePassStart
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата начала абонемента?", bookingDateKeyboard())

	case dialog.StatePassStart:
		date, ok := b.parseDateButton(chatID, text, bookingDateKeyboard())
		if !ok || date == nil {
			return
		}
		sess.Form.StartDate = date
		defEnd := passes.DefaultEnd(*date)
		sess.Form.EndDate = &defEnd
		sess.State = dialog.StatePassEnd
		b.sessions.Put(userID, sess)
		b.send(chatID, fmt.Sprintf("Дата окончания? «Пропустить» — месяц, до %s.",
			common.FormatDate(defEnd)), skipKeyboard())

	case dialog.StatePassEnd:
		if text != BtnSkip {
			end, err := common.ParseDate(text)
			if err != nil {
				b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", skipKeyboard())
				return
			}
			if end.Before(*sess.Form.StartDate) {
				b.send(chatID, "Окончание раньше начала, введите дату ещё раз.", skipKeyboard())
				return
			}
			sess.Form.EndDate = &end
		}
		sess.State = dialog.StatePassPrice
		b.sessions.Put(userID, sess)
		b.send(chatID, "Цена абонемента (₽), либо «Пропустить».", skipKeyboard())

	case dialog.StatePassPrice:
		if text != BtnSkip {
			price, err := common.ParseAmount(text)
			if err != nil {
				b.send(chatID, "Введите цену целым числом больше нуля.", skipKeyboard())
				return
			}
			sess.Form.Price = price
		}
		sess.State = dialog.StatePassConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, passSummary(sess.Form), confirmKeyboard())

	case dialog.StatePassConfirm:
		if text != BtnSave {
			b.send(chatID, "Нажмите «✅ Сохранить» или «❌ Отмена».", confirmKeyboard())
			return
		}
		var price *int64
		if sess.Form.Price > 0 {
			price = &sess.Form.Price
		}
		passID, err := b.svc.Passes.Issue(ctx, sess.Form.ClientID, sess.Form.GroupID,
			*sess.Form.StartDate, *sess.Form.EndDate, price, "")
		if errors.Is(err, common.ErrActivePassConflict) {
			b.finishToMenu(chatID, userID, fmt.Sprintf(
				"У %s уже есть действующий абонемент в «%s». Сначала продлите или закройте его.",
				sess.Form.ClientName, sess.Form.GroupName))
			return
		}
		if err != nil {
			log.WithError(err).Error("Не удалось выдать абонемент")
			b.finishToMenu(chatID, userID, "Не получилось выдать абонемент, попробуйте позже.")
			return
		}
		// Абонемент закрепляет клиента в группе.
		if err := b.svc.Groups.Enroll(ctx, sess.Form.ClientID, sess.Form.GroupID, *sess.Form.StartDate); err != nil {
			log.WithError(err).Warn("Абонемент выдан, но закрепление в группе не удалось")
		}
		sess.Form.PassID = passID
		sess.State = dialog.StatePassAfterSave
		b.sessions.Put(userID, sess)
		b.send(chatID, fmt.Sprintf("Абонемент выдан ✅ (%s, до %s). Принять оплату сразу?",
			sess.Form.GroupName, common.FormatDate(*sess.Form.EndDate)), passAfterSaveKeyboard())

	case dialog.StatePassAfterSave:
		switch text {
		case BtnPassPayNow:
			sess.Form.Purpose = payments.PurposePass
			if sess.Form.Price > 0 {
				sess.Form.Amount = sess.Form.Price
				sess.State = dialog.StatePaymentMethod
				b.sessions.Put(userID, sess)
				b.send(chatID, fmt.Sprintf("Сумма %s. Метод оплаты?",
					common.FormatMoney(sess.Form.Amount)), paymentMethodKeyboard(true))
				return
			}
			sess.State = dialog.StatePaymentAmount
			b.sessions.Put(userID, sess)
			b.send(chatID, "Сумма (₽):", cancelKeyboard())
		case BtnPassBackToMenu:
			b.sessions.Begin(userID, dialog.StatePassMenu)
			b.send(chatID, "Абонемент: что делаем?", passMenuKeyboard())
		default:
			b.send(chatID, "Выберите действие кнопкой.", passAfterSaveKeyboard())
		}

	case dialog.StatePassExtPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите абонемент кнопкой из списка.", nil)
			return
		}
		sess.Form.PassID = opt.ID
		sess.Options = nil
		sess.State = dialog.StatePassExtEnd
		b.sessions.Put(userID, sess)
		b.send(chatID, "Новая дата окончания (ДД.ММ.ГГГГ):", cancelKeyboard())

	case dialog.StatePassExtEnd:
		end, err := common.ParseDate(text)
		if err != nil {
			b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", cancelKeyboard())
			return
		}
		if err := b.svc.Passes.Extend(ctx, sess.Form.PassID, end); err != nil {
			log.WithError(err).Error("Не удалось продлить абонемент")
			b.finishToMenu(chatID, userID, "Не получилось продлить, попробуйте позже.")
			return
		}
		b.finishToMenu(chatID, userID, "Абонемент продлён до "+common.FormatDate(end)+" ✅")
	}
}

func passSummary(f dialog.Form) string {
	s := fmt.Sprintf("Абонемент: %s, группа «%s»\n%s — %s",
		f.ClientName, f.GroupName,
		common.FormatDate(*f.StartDate), common.FormatDate(*f.EndDate))
	if f.Price > 0 {
		s += "\nЦена: " + common.FormatMoney(f.Price)
	}
	return s + "\nСохранить?"
}

// askPassGroup — начало выдачи абонемента после выбора клиента.
func (b *Bot) askPassGroup(ctx context.Context, chatID, userID int64, sess dialog.Session) {
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
	sess.Options = opts
	sess.State = dialog.StatePassGroup
	b.sessions.Put(userID, sess)
	b.send(chatID, sess.Form.ClientName+": абонемент в какую группу?", optionsKeyboard(labels))
}

// showPassExtPick — выбор действующего абонемента клиента для продления.
func (b *Bot) showPassExtPick(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	active, err := b.svc.Passes.ListActiveForClient(ctx, sess.Form.ClientID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить абонементы")
		b.finishToMenu(chatID, userID, "Не удалось загрузить абонементы.")
		return
	}
	if len(active) == 0 {
		b.finishToMenu(chatID, userID, sess.Form.ClientName+": действующих абонементов нет.")
		return
	}

	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(active))
	for _, p := range active {
		label := fmt.Sprintf("%s до %s", p.GroupName, common.FormatDate(p.EndDate))
		sess.Options = append(sess.Options, dialog.Option{ID: p.ID, Label: label})
		labels = append(labels, label)
	}
	sess.State = dialog.StatePassExtPick
	b.sessions.Put(userID, sess)
	b.send(chatID, "Какой абонемент продлеваем?", optionsKeyboard(labels))
}
