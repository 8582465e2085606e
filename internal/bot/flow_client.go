// flow_client.go — три связанных процесса: анкета нового клиента,
// общий «пикер» поиска клиента и карточка клиента с действиями.
// Пикер — подпроцесс: пять процессов (карточка, запись, оплата,
// абонемент, отсрочка) начинаются с него и забирают выбранного клиента
// через Form.PickerTarget.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/clients"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) startNewClient(chatID, userID int64) {
	b.sessions.Begin(userID, dialog.StateClientPhone)
	b.send(chatID, "Новый клиент. Телефон: поделитесь контактом или введите вручную.", newClientPhoneKeyboard())
}

func (b *Bot) flowClient(ctx context.Context, chatID, userID int64, message *tgbotapi.Message, sess dialog.Session) {
	text := strings.TrimSpace(message.Text)

	switch sess.State {
	case dialog.StateClientPhone:
		var raw string
		switch {
		case message.Contact != nil:
			raw = message.Contact.PhoneNumber
		case text == BtnEnterManual:
			b.send(chatID, "Введите телефон (например, +79990001122).", cancelKeyboard())
			return
		default:
			raw = text
		}
		phone := common.NormalizePhone(raw)
		if phone == "" {
			b.send(chatID, "Не похоже на телефон, попробуйте ещё раз.", cancelKeyboard())
			return
		}
		sess.Form.Phone = phone
		sess.State = dialog.StateClientName
		b.sessions.Put(userID, sess)
		b.send(chatID, "Имя и фамилия клиента:", cancelKeyboard())

	case dialog.StateClientName:
		if text == "" {
			b.send(chatID, "Введите имя текстом.", cancelKeyboard())
			return
		}
		sess.Form.FullName = text
		sess.State = dialog.StateClientUsername
		b.sessions.Put(userID, sess)
		b.send(chatID, "Telegram-ник клиента (без @), либо «Пропустить».", skipKeyboard())

	case dialog.StateClientUsername:
		if text != BtnSkip {
			sess.Form.TgUsername = common.NormalizeUsername(text)
		}
		sess.State = dialog.StateClientBirthDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата рождения (ДД.ММ.ГГГГ), либо «Пропустить».", skipKeyboard())

	case dialog.StateClientBirthDate:
		if text != BtnSkip {
			bd, err := common.ParseDate(text)
			if err != nil {
				b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", skipKeyboard())
				return
			}
			sess.Form.BirthDate = &bd
		}
		sess.State = dialog.StateClientComment
		b.sessions.Put(userID, sess)
		b.send(chatID, "Комментарий (травмы, пожелания), либо «Пропустить».", skipKeyboard())

	case dialog.StateClientComment:
		if text != BtnSkip {
			sess.Form.Comment = text
		}
		sess.State = dialog.StateClientConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, newClientSummary(sess.Form), confirmKeyboard())

	case dialog.StateClientConfirm:
		if text != BtnSave {
			b.send(chatID, "Нажмите «✅ Сохранить» или «❌ Отмена».", confirmKeyboard())
			return
		}
		id, err := b.svc.Clients.Create(ctx, clients.NewClient{
			FullName:   sess.Form.FullName,
			Phone:      sess.Form.Phone,
			TgUsername: sess.Form.TgUsername,
			BirthDate:  sess.Form.BirthDate,
			Comment:    sess.Form.Comment,
		})
		if errors.Is(err, common.ErrDuplicatePhone) {
			existing, ferr := b.svc.Clients.FindByPhone(ctx, sess.Form.Phone)
			if ferr == nil && existing != nil {
				b.showClientCard(ctx, chatID, userID, existing.ID, sess.Form.PickerTarget)
				b.send(chatID, "Клиент с таким телефоном уже есть, открыл его карточку.", nil)
				return
			}
			b.finishToMenu(chatID, userID, "Клиент с таким телефоном уже есть.")
			return
		}
		if err != nil {
			log.WithError(err).Error("Не удалось создать клиента")
			b.finishToMenu(chatID, userID, "Не получилось сохранить клиента, попробуйте позже.")
			return
		}
		b.showClientCard(ctx, chatID, userID, id, "")
		b.send(chatID, "Клиент сохранён ✅", nil)
	}
}

func newClientSummary(f dialog.Form) string {
	var sb strings.Builder
	sb.WriteString("Проверьте анкету:\n")
	sb.WriteString("Имя: " + f.FullName + "\n")
	sb.WriteString("Телефон: " + f.Phone + "\n")
	if f.TgUsername != "" {
		sb.WriteString("Telegram: @" + f.TgUsername + "\n")
	}
	if f.BirthDate != nil {
		sb.WriteString("Дата рождения: " + common.FormatDate(*f.BirthDate) + "\n")
	}
	if f.Comment != "" {
		sb.WriteString("Комментарий: " + f.Comment + "\n")
	}
	return sb.String()
}

// startPicker начинает поиск клиента; target — процесс, который заберёт
// результат: "card", "booking", "payment", "pass", "defer".
func (b *Bot) startPicker(chatID, userID int64, target string) {
	sess := b.sessions.Begin(userID, dialog.StatePickerMode)
	sess.Form.PickerTarget = target
	b.sessions.Put(userID, sess)
	b.send(chatID, "Как ищем клиента?", searchModeKeyboard())
}

func (b *Bot) flowPicker(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StatePickerMode:
		switch text {
		case BtnSearchPhone:
			sess.Form.PickerMode = "phone"
			b.send(chatID, "Введите телефон:", cancelKeyboard())
		case BtnSearchName:
			sess.Form.PickerMode = "name"
			b.send(chatID, "Введите имя (или его часть):", cancelKeyboard())
		case BtnSearchTg:
			sess.Form.PickerMode = "tg"
			b.send(chatID, "Введите ник в Telegram:", cancelKeyboard())
		default:
			b.send(chatID, "Выберите способ поиска кнопкой.", searchModeKeyboard())
			return
		}
		sess.State = dialog.StatePickerQuery
		b.sessions.Put(userID, sess)

	case dialog.StatePickerQuery:
		b.runSearch(ctx, chatID, userID, text, sess)

	case dialog.StatePickerSelect:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите клиента кнопкой из списка.", nil)
			return
		}
		b.pickerDone(ctx, chatID, userID, opt.ID, sess)
	}
}

// runSearch выполняет поиск и решает, что дальше: не найден, единственное
// совпадение, короткий список на выбор или просьба уточнить запрос.
func (b *Bot) runSearch(ctx context.Context, chatID, userID int64, query string, sess dialog.Session) {
	switch sess.Form.PickerMode {
	case "phone":
		c, err := b.svc.Clients.FindByPhone(ctx, query)
		b.searchOne(ctx, chatID, userID, c, err, sess)
	case "tg":
		c, err := b.svc.Clients.FindByUsername(ctx, query)
		b.searchOne(ctx, chatID, userID, c, err, sess)
	case "name":
		found, err := b.svc.Clients.SearchByName(ctx, query)
		if err != nil {
			log.WithError(err).Error("Ошибка поиска по имени")
			b.send(chatID, "Поиск не удался, попробуйте ещё раз.", cancelKeyboard())
			return
		}
		switch {
		case len(found) == 0:
			b.send(chatID, "Никого не нашёл. Попробуйте иначе или заведите нового клиента.",
				oneTime(listRows([]string{BtnNewClient}, BtnCancel)...))
		case len(found) == 1:
			b.pickerDone(ctx, chatID, userID, found[0].ID, sess)
		case len(found) >= clients.SearchLimit:
			b.send(chatID, "Слишком много совпадений, уточните запрос.", cancelKeyboard())
		default:
			sess.Options = sess.Options[:0]
			labels := make([]string, 0, len(found))
			for _, c := range found {
				label := fmt.Sprintf("%s (%s)", c.FullName, c.Phone)
				sess.Options = append(sess.Options, dialog.Option{ID: c.ID, Label: label})
				labels = append(labels, label)
			}
			sess.State = dialog.StatePickerSelect
			b.sessions.Put(userID, sess)
			b.send(chatID, "Кого выбрать?", optionsKeyboard(labels))
		}
	}
}

func (b *Bot) searchOne(ctx context.Context, chatID, userID int64, c *clients.Client, err error, sess dialog.Session) {
	if errors.Is(err, common.ErrNotFound) {
		b.send(chatID, "Такого клиента нет. Заведите нового или попробуйте иначе.",
			oneTime(listRows([]string{BtnNewClient}, BtnCancel)...))
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка поиска клиента")
		b.send(chatID, "Поиск не удался, попробуйте ещё раз.", cancelKeyboard())
		return
	}
	b.pickerDone(ctx, chatID, userID, c.ID, sess)
}

// pickerDone передаёт выбранного клиента процессу-заказчику.
func (b *Bot) pickerDone(ctx context.Context, chatID, userID, clientID int64, sess dialog.Session) {
	client, err := b.svc.Clients.GetByID(ctx, clientID)
	if err != nil {
		log.WithError(err).WithField("client_id", clientID).Error("Клиент не загрузился")
		b.finishToMenu(chatID, userID, "Не удалось открыть клиента.")
		return
	}
	sess.Form.ClientID = client.ID
	sess.Form.ClientName = client.FullName
	sess.Options = nil

	switch sess.Form.PickerTarget {
	case "booking":
		sess.State = dialog.StateBookingKind
		b.sessions.Put(userID, sess)
		b.send(chatID, client.FullName+": какая запись?", bookingKindKeyboard())
	case "payment":
		sess.State = dialog.StatePaymentPurpose
		b.sessions.Put(userID, sess)
		b.send(chatID, client.FullName+": за что оплата?", paymentPurposeKeyboard())
	case "pass":
		b.askPassGroup(ctx, chatID, userID, sess)
	case "passext":
		b.showPassExtPick(ctx, chatID, userID, sess)
	case "defer":
		b.showOpenDefers(ctx, chatID, userID, sess)
	default: // "card" и всё неожиданное — просто карточка
		b.showClientCard(ctx, chatID, userID, client.ID, "")
	}
}

// showClientCard показывает карточку клиента и переводит диалог
// в состояние её действий.
func (b *Bot) showClientCard(ctx context.Context, chatID, userID, clientID int64, target string) {
	client, err := b.svc.Clients.GetByID(ctx, clientID)
	if err != nil {
		log.WithError(err).WithField("client_id", clientID).Error("Клиент не загрузился")
		b.finishToMenu(chatID, userID, "Не удалось открыть карточку.")
		return
	}

	sess := b.sessions.Begin(userID, dialog.StateCardActions)
	sess.Form.ClientID = client.ID
	sess.Form.ClientName = client.FullName
	sess.Form.PickerTarget = target
	b.sessions.Put(userID, sess)

	b.send(chatID, b.renderClientCard(ctx, client), clientCardKeyboard())
}

func (b *Bot) renderClientCard(ctx context.Context, c *clients.Client) string {
	var sb strings.Builder
	sb.WriteString("👤 " + c.FullName + "\n")
	sb.WriteString("📞 " + c.Phone + "\n")
	if c.TgUsername != "" {
		sb.WriteString("✈️ @" + c.TgUsername + "\n")
	}
	if c.BirthDate != nil {
		sb.WriteString("🎂 " + common.FormatDate(*c.BirthDate) + "\n")
	}
	if c.Comment != "" {
		sb.WriteString("💬 " + c.Comment + "\n")
	}
	if c.Status != "active" {
		sb.WriteString("⚠️ Статус: " + c.Status + "\n")
	}

	if active, err := b.svc.Passes.ListActiveForClient(ctx, c.ID); err == nil && len(active) > 0 {
		sb.WriteString("\n🎫 Абонементы:\n")
		for _, p := range active {
			sb.WriteString(fmt.Sprintf("• %s до %s\n", p.GroupName, common.FormatDate(p.EndDate)))
		}
	}

	today := common.Today(b.cfg.Location())
	if ds, err := b.svc.Payments.DeferredSummary(ctx, c.ID, today); err == nil && ds.Count > 0 {
		sb.WriteString(fmt.Sprintf("\n⏳ Отсрочки: %d на %s", ds.Count, common.FormatMoney(ds.Total)))
		if ds.NearestDue != nil {
			sb.WriteString(", ближайший срок " + common.FormatDate(*ds.NearestDue))
		}
		if ds.Overdue > 0 {
			sb.WriteString(fmt.Sprintf(", просрочено: %d", ds.Overdue))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// flowCard — действия из карточки клиента. Единственный разрешённый
// перенос данных между процессами: ClientID/ClientName уходят
// в следующий процесс уже выбранными.
func (b *Bot) flowCard(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch text {
	case BtnCardBook:
		sess.State = dialog.StateBookingKind
		sess.Form.PickerTarget = "card"
		b.sessions.Put(userID, sess)
		b.send(chatID, sess.Form.ClientName+": какая запись?", bookingKindKeyboard())
	case BtnCardAttendance:
		b.startAttendance(ctx, chatID, userID)
	case BtnCardPayment:
		sess.State = dialog.StatePaymentPurpose
		b.sessions.Put(userID, sess)
		b.send(chatID, sess.Form.ClientName+": за что оплата?", paymentPurposeKeyboard())
	case BtnCardPass:
		b.askPassGroup(ctx, chatID, userID, sess)
	case BtnBack:
		b.startPicker(chatID, userID, "card")
	default:
		b.send(chatID, "Выберите действие кнопкой.", clientCardKeyboard())
	}
}
