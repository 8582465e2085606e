// flow_payment.go — приём оплаты и закрытие отсрочек.
// Статус платежа выводится из метода: «Отсрочка» открывает долг,
// остальные методы фиксируют оплату. Закрытие отсрочки переписывает
// ту же строку платежа, а не создаёт новую.
package bot

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/payments"
)

func methodFromButton(text string) string {
	switch text {
	case BtnMethodCash:
		return payments.MethodCash
	case BtnMethodTransfer:
		return payments.MethodTransfer
	case BtnMethodQR:
		return payments.MethodQR
	case BtnMethodDefer:
		return payments.MethodDefer
	}
	return ""
}

func (b *Bot) flowPayment(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StatePaymentMenu:
		switch text {
		case BtnPaymentAccept:
			if sess.Form.ClientID != 0 {
				sess.State = dialog.StatePaymentPurpose
				b.sessions.Put(userID, sess)
				b.send(chatID, sess.Form.ClientName+": за что оплата?", paymentPurposeKeyboard())
				return
			}
			b.startPicker(chatID, userID, "payment")
		case BtnPaymentCloseDefer:
			b.startPicker(chatID, userID, "defer")
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", paymentMenuKeyboard())
		}

	case dialog.StatePaymentPurpose:
		switch text {
		case BtnPurposeSingle:
			sess.Form.Purpose = payments.PurposeSingle
		case BtnPurposePass:
			sess.Form.Purpose = payments.PurposePass
		default:
			b.send(chatID, "Выберите назначение кнопкой.", paymentPurposeKeyboard())
			return
		}
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
		sess.State = dialog.StatePaymentGroup
		b.sessions.Put(userID, sess)
		b.send(chatID, "За какую группу?", optionsKeyboard(labels))

	case dialog.StatePaymentGroup:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите группу кнопкой из списка.", nil)
			return
		}
		sess.Form.GroupID = opt.ID
		sess.Form.GroupName = opt.Label
		sess.Options = nil
		sess.State = dialog.StatePaymentAmount
		b.sessions.Put(userID, sess)
		b.send(chatID, "Сумма (₽):", cancelKeyboard())

	case dialog.StatePaymentAmount:
		amount, err := common.ParseAmount(text)
		if err != nil {
			b.send(chatID, "Введите сумму целым числом больше нуля.", cancelKeyboard())
			return
		}
		sess.Form.Amount = amount
		sess.State = dialog.StatePaymentMethod
		b.sessions.Put(userID, sess)
		b.send(chatID, "Метод оплаты?", paymentMethodKeyboard(true))

	case dialog.StatePaymentMethod:
		method := methodFromButton(text)
		if method == "" {
			b.send(chatID, "Выберите метод кнопкой.", paymentMethodKeyboard(true))
			return
		}
		sess.Form.Method = method
		if method == payments.MethodDefer {
			sess.State = dialog.StatePaymentDueDate
			b.sessions.Put(userID, sess)
			b.send(chatID, "Срок оплаты долга?", dueDateKeyboard())
			return
		}
		sess.State = dialog.StatePaymentDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата оплаты?", payDateKeyboard())

	case dialog.StatePaymentDueDate:
		if text != BtnSkip {
			date, ok := b.parseDateButton(chatID, text, dueDateKeyboard())
			if !ok || date == nil {
				return
			}
			sess.Form.DueDate = date
		}
		today := common.Today(b.cfg.Location())
		sess.Form.PayDate = &today
		sess.State = dialog.StatePaymentConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, paymentSummary(sess.Form), confirmKeyboard())

	case dialog.StatePaymentDate:
		date, ok := b.parseDateButton(chatID, text, payDateKeyboard())
		if !ok || date == nil {
			return
		}
		sess.Form.PayDate = date
		sess.State = dialog.StatePaymentConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, paymentSummary(sess.Form), confirmKeyboard())

	case dialog.StatePaymentConfirm:
		if text != BtnSave {
			b.send(chatID, "Нажмите «✅ Сохранить» или «❌ Отмена».", confirmKeyboard())
			return
		}
		np := payments.NewPayment{
			Amount:     sess.Form.Amount,
			Method:     sess.Form.Method,
			Purpose:    sess.Form.Purpose,
			PayDate:    *sess.Form.PayDate,
			DueDate:    sess.Form.DueDate,
			AcceptedBy: userID,
		}
		if sess.Form.ClientID != 0 {
			np.ClientID = &sess.Form.ClientID
		}
		if sess.Form.GroupID != 0 {
			np.GroupID = &sess.Form.GroupID
		}
		if sess.Form.PassID != 0 {
			np.PassID = &sess.Form.PassID
		}
		p, err := b.svc.Payments.Record(ctx, np)
		if err != nil {
			log.WithError(err).Error("Не удалось записать платёж")
			b.finishToMenu(chatID, userID, "Не получилось сохранить платёж, попробуйте позже.")
			return
		}
		if p.Status == payments.StatusDeferred {
			msg := fmt.Sprintf("Отсрочка на %s открыта ⏳", common.FormatMoney(p.Amount))
			if p.DueDate != nil {
				msg += ", срок " + common.FormatDate(*p.DueDate)
			}
			b.finishToMenu(chatID, userID, msg)
			return
		}
		b.finishToMenu(chatID, userID, fmt.Sprintf("Платёж %s принят ✅", common.FormatMoney(p.Amount)))
	}
}

func paymentSummary(f dialog.Form) string {
	purpose := map[string]string{
		payments.PurposeSingle: "разовое",
		payments.PurposePass:   "абонемент",
		payments.PurposeOther:  "прочее",
	}[f.Purpose]
	s := fmt.Sprintf("Оплата: %s, %s", common.FormatMoney(f.Amount), purpose)
	if f.ClientName != "" {
		s += ", клиент " + f.ClientName
	}
	if f.GroupName != "" {
		s += ", группа «" + f.GroupName + "»"
	}
	switch f.Method {
	case payments.MethodDefer:
		s += "\nМетод: отсрочка"
		if f.DueDate != nil {
			s += ", срок " + common.FormatDate(*f.DueDate)
		}
	default:
		s += "\nМетод: " + methodLabel(f.Method)
		if f.PayDate != nil {
			s += ", дата " + common.FormatDate(*f.PayDate)
		}
	}
	return s + "\nСохранить?"
}

func methodLabel(method string) string {
	switch method {
	case payments.MethodCash:
		return "наличные"
	case payments.MethodTransfer:
		return "перевод"
	case payments.MethodQR:
		return "QR"
	case payments.MethodDefer:
		return "отсрочка"
	}
	return method
}

// showOpenDefers показывает незакрытые отсрочки клиента для выбора.
func (b *Bot) showOpenDefers(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	list, err := b.svc.Payments.ListOpenDeferred(ctx, sess.Form.ClientID)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить отсрочки")
		b.finishToMenu(chatID, userID, "Не удалось загрузить отсрочки.")
		return
	}
	if len(list) == 0 {
		b.finishToMenu(chatID, userID, sess.Form.ClientName+": открытых отсрочек нет 👌")
		return
	}

	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(list))
	for _, d := range list {
		label := fmt.Sprintf("%s от %s", common.FormatMoney(d.Amount), common.FormatDate(d.CreatedDate))
		if d.DueDate != nil {
			label += " (срок " + common.FormatDate(*d.DueDate) + ")"
		}
		sess.Options = append(sess.Options, dialog.Option{ID: d.ID, Label: label})
		labels = append(labels, label)
	}
	sess.State = dialog.StateDeferPick
	b.sessions.Put(userID, sess)
	b.send(chatID, "Какую отсрочку закрываем?", optionsKeyboard(labels))
}

func (b *Bot) flowDeferClose(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateDeferPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите отсрочку кнопкой из списка.", nil)
			return
		}
		sess.Form.PaymentID = opt.ID
		sess.Options = nil
		sess.State = dialog.StateDeferMethod
		b.sessions.Put(userID, sess)
		b.send(chatID, "Чем оплатили?", paymentMethodKeyboard(false))

	case dialog.StateDeferMethod:
		method := methodFromButton(text)
		if method == "" || method == payments.MethodDefer {
			b.send(chatID, "Выберите метод кнопкой.", paymentMethodKeyboard(false))
			return
		}
		sess.Form.Method = method
		sess.State = dialog.StateDeferDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата оплаты?", payDateKeyboard())

	case dialog.StateDeferDate:
		date, ok := b.parseDateButton(chatID, text, payDateKeyboard())
		if !ok || date == nil {
			return
		}
		err := b.svc.Payments.CloseDeferred(ctx, sess.Form.PaymentID, sess.Form.Method, *date, userID)
		if errors.Is(err, common.ErrNotFound) {
			b.finishToMenu(chatID, userID, "Эта отсрочка уже закрыта.")
			return
		}
		if err != nil {
			log.WithError(err).Error("Не удалось закрыть отсрочку")
			b.finishToMenu(chatID, userID, "Не получилось закрыть отсрочку, попробуйте позже.")
			return
		}
		b.finishToMenu(chatID, userID, "Отсрочка закрыта ✅")
	}
}
