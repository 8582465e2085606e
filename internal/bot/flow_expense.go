// flow_expense.go — учёт расходов: добавление, список за период
// и справочник категорий.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fitadmin.ru/gym-bot/internal/common"
	"fitadmin.ru/gym-bot/internal/dialog"
	"fitadmin.ru/gym-bot/internal/features/expenses"
)

func (b *Bot) flowExpense(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateExpenseMenu:
		switch text {
		case BtnExpenseAdd:
			b.askExpenseCategory(ctx, chatID, userID, sess)
		case BtnExpenseList:
			sess.State = dialog.StateExpenseListPeriod
			b.sessions.Put(userID, sess)
			b.send(chatID, "За какой период?", periodKeyboard())
		case BtnExpenseCategories:
			sess.State = dialog.StateExpCatMenu
			b.sessions.Put(userID, sess)
			b.send(chatID, "Категории расходов: что делаем?", expenseCategoryMenuKeyboard())
		case BtnBack:
			b.finishToMenu(chatID, userID, "Главное меню.")
		default:
			b.send(chatID, "Выберите действие кнопкой.", expenseMenuKeyboard())
		}

	case dialog.StateExpenseCategory:
		// «Как в прошлый раз»: категория, сумма и метод берутся из
		// последнего расхода, остаётся дата и комментарий.
		if text == BtnExpenseRepeat {
			last, err := b.svc.Expenses.LastByUser(ctx, userID)
			if err != nil {
				b.send(chatID, "Предыдущих расходов не нашёл, выберите категорию.", nil)
				return
			}
			today := common.Today(b.cfg.Location())
			sess.Form.CategoryID = last.CategoryID
			sess.Form.CategoryName = last.CategoryName
			sess.Form.Amount = last.Amount
			sess.Form.Method = last.Method
			sess.Form.Date = &today
			sess.Options = nil
			sess.State = dialog.StateExpenseComment
			b.sessions.Put(userID, sess)
			b.send(chatID, fmt.Sprintf("Повторяю: %s, «%s», %s, сегодня.\nКомментарий, либо «Пропустить».",
				common.FormatMoney(last.Amount), last.CategoryName, methodLabel(last.Method)), skipKeyboard())
			return
		}
		// Внутри выбора категории можно завести новую, не выходя из процесса.
		if text == BtnExpCatNewInline {
			sess.Form.EditField = "newcat"
			b.sessions.Put(userID, sess)
			b.send(chatID, "Название новой категории:", cancelKeyboard())
			return
		}
		if sess.Form.EditField == "newcat" {
			cat, err := b.svc.Expenses.CreateCategory(ctx, text)
			if err != nil {
				log.WithError(err).Error("Не удалось создать категорию")
				b.send(chatID, "Не получилось создать категорию, попробуйте другое название.", cancelKeyboard())
				return
			}
			sess.Form.EditField = ""
			sess.Form.CategoryID = cat.ID
			sess.Form.CategoryName = cat.Name
			sess.Options = nil
			sess.State = dialog.StateExpenseDate
			b.sessions.Put(userID, sess)
			b.send(chatID, "Категория «"+cat.Name+"» создана. Дата расхода?", expenseDateKeyboard())
			return
		}
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите категорию кнопкой из списка.", nil)
			return
		}
		sess.Form.CategoryID = opt.ID
		sess.Form.CategoryName = opt.Label
		sess.Options = nil
		sess.State = dialog.StateExpenseDate
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата расхода?", expenseDateKeyboard())

	case dialog.StateExpenseDate:
		date, ok := b.parseDateButton(chatID, text, expenseDateKeyboard())
		if !ok || date == nil {
			return
		}
		sess.Form.Date = date
		sess.State = dialog.StateExpenseAmount
		b.sessions.Put(userID, sess)
		b.send(chatID, "Сумма (₽):", cancelKeyboard())

	case dialog.StateExpenseAmount:
		amount, err := common.ParseAmount(text)
		if err != nil {
			b.send(chatID, "Введите сумму целым числом больше нуля.", cancelKeyboard())
			return
		}
		sess.Form.Amount = amount
		sess.State = dialog.StateExpenseMethod
		b.sessions.Put(userID, sess)
		b.send(chatID, "Чем оплатили?", expenseMethodKeyboard())

	case dialog.StateExpenseMethod:
		method := methodFromButton(text)
		if method == "" || method == "defer" {
			b.send(chatID, "Выберите метод кнопкой.", expenseMethodKeyboard())
			return
		}
		sess.Form.Method = method
		sess.State = dialog.StateExpenseComment
		b.sessions.Put(userID, sess)
		b.send(chatID, "Комментарий, либо «Пропустить».", skipKeyboard())

	case dialog.StateExpenseComment:
		if text != BtnSkip {
			sess.Form.Comment = text
		}
		sess.State = dialog.StateExpenseConfirm
		b.sessions.Put(userID, sess)
		b.send(chatID, expenseSummary(sess.Form), confirmKeyboard())

	case dialog.StateExpenseConfirm:
		if text != BtnSave {
			b.send(chatID, "Нажмите «✅ Сохранить» или «❌ Отмена».", confirmKeyboard())
			return
		}
		_, err := b.svc.Expenses.Record(ctx, expenses.NewExpense{
			ExpDate:    *sess.Form.Date,
			CategoryID: sess.Form.CategoryID,
			Amount:     sess.Form.Amount,
			Method:     sess.Form.Method,
			Comment:    sess.Form.Comment,
			CreatedBy:  userID,
		})
		if err != nil {
			log.WithError(err).Error("Не удалось записать расход")
			b.finishToMenu(chatID, userID, "Не получилось сохранить расход, попробуйте позже.")
			return
		}
		b.finishToMenu(chatID, userID, fmt.Sprintf("Расход %s (%s) записан ✅",
			common.FormatMoney(sess.Form.Amount), sess.Form.CategoryName))

	case dialog.StateExpenseListPeriod:
		from, to, ok := b.parsePeriodButton(chatID, userID, text, sess, dialog.StateExpenseListFrom)
		if !ok {
			return
		}
		b.renderExpenseList(ctx, chatID, userID, from, to)

	case dialog.StateExpenseListFrom:
		from, err := common.ParseDate(text)
		if err != nil {
			b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", cancelKeyboard())
			return
		}
		sess.Form.PeriodFrom = &from
		sess.State = dialog.StateExpenseListTo
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата конца периода (ДД.ММ.ГГГГ):", cancelKeyboard())

	case dialog.StateExpenseListTo:
		to, err := common.ParseDate(text)
		if err != nil {
			b.send(chatID, "Не понял дату, формат ДД.ММ.ГГГГ.", cancelKeyboard())
			return
		}
		b.renderExpenseList(ctx, chatID, userID, *sess.Form.PeriodFrom, to)
	}
}

func expenseSummary(f dialog.Form) string {
	s := fmt.Sprintf("Расход: %s, «%s», %s, %s",
		common.FormatMoney(f.Amount), f.CategoryName,
		common.FormatDateRu(*f.Date), methodLabel(f.Method))
	if f.Comment != "" {
		s += "\nКомментарий: " + f.Comment
	}
	return s + "\nСохранить?"
}

func (b *Bot) askExpenseCategory(ctx context.Context, chatID, userID int64, sess dialog.Session) {
	cats, err := b.svc.Expenses.ListCategories(ctx, true)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить категории")
		b.finishToMenu(chatID, userID, "Не удалось загрузить категории.")
		return
	}
	sess.Options = sess.Options[:0]
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		sess.Options = append(sess.Options, dialog.Option{ID: c.ID, Label: c.Name})
		labels = append(labels, c.Name)
	}
	_, lastErr := b.svc.Expenses.LastByUser(ctx, userID)
	sess.State = dialog.StateExpenseCategory
	b.sessions.Put(userID, sess)
	b.send(chatID, "Категория расхода?", expenseCategoryPickKeyboard(labels, lastErr == nil))
}

// parsePeriodButton превращает кнопку периода в границы дат.
// «Выбрать даты» переводит в состояние ручного ввода.
func (b *Bot) parsePeriodButton(chatID, userID int64, text string, sess dialog.Session, manualState dialog.State) (time.Time, time.Time, bool) {
	today := common.Today(b.cfg.Location())
	switch text {
	case BtnToday:
		return today, today, true
	case BtnThisWeek:
		from, to := common.WeekBounds(today)
		return from, to, true
	case BtnThisMonth:
		from, to := common.MonthBounds(today)
		return from, to, true
	case BtnLastMonth:
		from, to := common.MonthBounds(today.AddDate(0, -1, 0))
		return from, to, true
	case BtnPickDates:
		sess.State = manualState
		b.sessions.Put(userID, sess)
		b.send(chatID, "Дата начала периода (ДД.ММ.ГГГГ):", cancelKeyboard())
		return time.Time{}, time.Time{}, false
	case BtnBack:
		b.finishToMenu(chatID, userID, "Главное меню.")
		return time.Time{}, time.Time{}, false
	}
	b.send(chatID, "Выберите период кнопкой.", periodKeyboard())
	return time.Time{}, time.Time{}, false
}

func (b *Bot) renderExpenseList(ctx context.Context, chatID, userID int64, from, to time.Time) {
	rows, err := b.svc.Expenses.ListForPeriod(ctx, from, to)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить расходы")
		b.finishToMenu(chatID, userID, "Не удалось загрузить расходы.")
		return
	}
	if len(rows) == 0 {
		b.finishToMenu(chatID, userID, "За этот период расходов нет.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Расходы %s — %s:\n", common.FormatDate(from), common.FormatDate(to))
	var total int64
	for _, e := range rows {
		fmt.Fprintf(&sb, "• %s — %s, %s", common.FormatDate(e.ExpDate), e.CategoryName, common.FormatMoney(e.Amount))
		if e.Comment != "" {
			sb.WriteString(" (" + e.Comment + ")")
		}
		sb.WriteByte('\n')
		total += e.Amount
	}
	fmt.Fprintf(&sb, "Итого: %s", common.FormatMoney(total))
	b.finishToMenu(chatID, userID, sb.String())
}

// flowExpenseCategories — справочник категорий: добавление,
// переименование, скрытие и возврат скрытых.
func (b *Bot) flowExpenseCategories(ctx context.Context, chatID, userID int64, text string, sess dialog.Session) {
	switch sess.State {
	case dialog.StateExpCatMenu:
		switch text {
		case BtnExpCatAdd:
			sess.State = dialog.StateExpCatAddName
			b.sessions.Put(userID, sess)
			b.send(chatID, "Название новой категории:", cancelKeyboard())
		case BtnExpCatRename:
			b.askCategoryPick(ctx, chatID, userID, sess, dialog.StateExpCatRenamePick, true, "Какую категорию переименовать?")
		case BtnExpCatHide:
			b.askCategoryPick(ctx, chatID, userID, sess, dialog.StateExpCatHidePick, true, "Какую категорию скрыть?")
		case BtnExpCatShowHidden:
			b.askCategoryPick(ctx, chatID, userID, sess, dialog.StateExpCatShowPick, false, "Какую категорию вернуть?")
		case BtnBack:
			sess.State = dialog.StateExpenseMenu
			b.sessions.Put(userID, sess)
			b.send(chatID, "Расходы: что делаем?", expenseMenuKeyboard())
		default:
			b.send(chatID, "Выберите действие кнопкой.", expenseCategoryMenuKeyboard())
		}

	case dialog.StateExpCatAddName:
		cat, err := b.svc.Expenses.CreateCategory(ctx, text)
		if err != nil {
			log.WithError(err).Error("Не удалось создать категорию")
			b.send(chatID, "Не получилось создать категорию, попробуйте другое название.", cancelKeyboard())
			return
		}
		b.backToCategoryMenu(chatID, userID, sess, fmt.Sprintf("Категория «%s» создана (код %s) ✅", cat.Name, cat.Code))

	case dialog.StateExpCatRenamePick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите категорию кнопкой из списка.", nil)
			return
		}
		sess.Form.CategoryID = opt.ID
		sess.Form.CategoryName = opt.Label
		sess.Options = nil
		sess.State = dialog.StateExpCatRenameName
		b.sessions.Put(userID, sess)
		b.send(chatID, "Новое название для «"+opt.Label+"»:", cancelKeyboard())

	case dialog.StateExpCatRenameName:
		if err := b.svc.Expenses.RenameCategory(ctx, sess.Form.CategoryID, text); err != nil {
			log.WithError(err).Error("Не удалось переименовать категорию")
			b.send(chatID, "Не получилось переименовать, попробуйте ещё раз.", cancelKeyboard())
			return
		}
		b.backToCategoryMenu(chatID, userID, sess, "Категория переименована ✅")

	case dialog.StateExpCatHidePick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите категорию кнопкой из списка.", nil)
			return
		}
		if err := b.svc.Expenses.SetCategoryActive(ctx, opt.ID, false); err != nil {
			log.WithError(err).Error("Не удалось скрыть категорию")
			b.send(chatID, "Не получилось скрыть, попробуйте ещё раз.", nil)
			return
		}
		b.backToCategoryMenu(chatID, userID, sess, "Категория «"+opt.Label+"» скрыта.")

	case dialog.StateExpCatShowPick:
		opt, ok := sess.PickOption(text)
		if !ok {
			b.send(chatID, "Выберите категорию кнопкой из списка.", nil)
			return
		}
		if err := b.svc.Expenses.SetCategoryActive(ctx, opt.ID, true); err != nil {
			log.WithError(err).Error("Не удалось вернуть категорию")
			b.send(chatID, "Не получилось вернуть, попробуйте ещё раз.", nil)
			return
		}
		b.backToCategoryMenu(chatID, userID, sess, "Категория «"+opt.Label+"» снова активна ✅")
	}
}

// askCategoryPick показывает категории на выбор; active=false — только
// скрытые (для возврата).
func (b *Bot) askCategoryPick(ctx context.Context, chatID, userID int64, sess dialog.Session, next dialog.State, active bool, prompt string) {
	cats, err := b.svc.Expenses.ListCategories(ctx, false)
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить категории")
		b.finishToMenu(chatID, userID, "Не удалось загрузить категории.")
		return
	}
	sess.Options = sess.Options[:0]
	var labels []string
	for _, c := range cats {
		if c.IsActive != active {
			continue
		}
		sess.Options = append(sess.Options, dialog.Option{ID: c.ID, Label: c.Name})
		labels = append(labels, c.Name)
	}
	if len(labels) == 0 {
		b.backToCategoryMenu(chatID, userID, sess, "Подходящих категорий нет.")
		return
	}
	sess.State = next
	b.sessions.Put(userID, sess)
	b.send(chatID, prompt, optionsKeyboard(labels))
}

func (b *Bot) backToCategoryMenu(chatID, userID int64, sess dialog.Session, text string) {
	sess.Options = nil
	sess.State = dialog.StateExpCatMenu
	b.sessions.Put(userID, sess)
	b.send(chatID, text, expenseCategoryMenuKeyboard())
}
