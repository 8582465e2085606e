// Package bot — keyboards.go: подписи кнопок и сборка reply-клавиатур.
// Подписи — это протокол общения с пользователем: по ним же
// маршрутизируется нажатие, поэтому они собраны в одном месте.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Главное меню.
const (
	BtnNewClient  = "➕ Новый клиент"
	BtnFindClient = "🔎 Найти клиента"
	BtnBook       = "📅 Записать на занятие"
	BtnAttendance = "✅ Отметить посещение"
	BtnPayment    = "💳 Принять оплату"
	BtnPass       = "🎫 Абонемент"
	BtnExpenses   = "💸 Расходы"
	BtnReports    = "📊 Отчеты"
	BtnTrainers   = "🧑‍🏫 Тренеры"
	BtnGroups     = "👥 Группы"
	BtnAdmins     = "👑 Админы"
)

// Служебные кнопки.
const (
	BtnCancel  = "❌ Отмена"
	BtnBack    = "↩️ Назад"
	BtnSkip    = "Пропустить"
	BtnSave    = "✅ Сохранить"
	BtnToday   = "Сегодня"
	BtnYesterday = "Вчера"
	BtnTomorrow  = "Завтра"
	BtnEnterDate = "Ввести дату"
	BtnPickDate  = "Выбрать дату"
)

// Новый клиент.
const (
	BtnSendContact = "📱 Отправить контакт"
	BtnEnterManual = "✍️ Ввести вручную"
)

// Поиск клиента.
const (
	BtnSearchPhone = "📱 По телефону"
	BtnSearchName  = "🔤 По имени"
	BtnSearchTg    = "👤 Telegram"
)

// Карточка клиента.
const (
	BtnCardBook       = "📅 Записать"
	BtnCardAttendance = "✅ Отметить"
	BtnCardPayment    = "💳 Оплата"
	BtnCardPass       = "🎫 Выдать абонемент"
)

// Запись на занятие.
const (
	BtnBookingSingle     = "Разовое"
	BtnBookingMembership = "По абонементу (закрепить в группе)"
)

// Отметка посещения.
const (
	BtnStatusAttended  = "✅ Был"
	BtnStatusNoShow    = "❌ Не пришёл"
	BtnStatusCancelled = "🚫 Отменил"
)

// Оплата.
const (
	BtnPaymentAccept     = "➕ Принять оплату"
	BtnPaymentCloseDefer = "🕒 Закрыть отсрочку"
	BtnPurposeSingle     = "Разовое"
	BtnPurposePass       = "Абонемент"
	BtnMethodCash        = "Наличные"
	BtnMethodTransfer    = "Перевод"
	BtnMethodQR          = "QR"
	BtnMethodDefer       = "Отсрочка"
)

// Абонемент.
const (
	BtnPassIssue      = "🎫 Выдать"
	BtnPassExtend     = "🔁 Продлить"
	BtnPassPayNow     = "💳 Оплатить сразу"
	BtnPassBackToMenu = "↩️ В меню 🎫 Абонемент"
)

// Расходы.
const (
	BtnExpenseAdd        = "➕ Добавить расход"
	BtnExpenseList       = "📋 Список расходов"
	BtnExpenseCategories = "🏷 Категории"
	BtnExpCatAdd         = "➕ Добавить"
	BtnExpCatRename      = "✏️ Переименовать"
	BtnExpCatHide        = "🙈 Скрыть категорию"
	BtnExpCatShowHidden  = "👁 Показать скрытые"
	BtnExpCatNewInline   = "➕ Добавить категорию"
	BtnExpenseRepeat     = "🔁 Как в прошлый раз"
	BtnThisWeek          = "Эта неделя"
	BtnThisMonth         = "Этот месяц"
	BtnLastMonth         = "Прошлый месяц"
	BtnPickDates         = "Выбрать даты"
)

// Тренеры и группы.
const (
	BtnTrainerAdd        = "➕ Добавить тренера"
	BtnTrainerList       = "📋 Список тренеров"
	BtnTrainerAttach     = "➕ Привязать группу"
	BtnTrainerDetach     = "❌ Отвязать группу"
	BtnTrainerRename     = "✏️ Переименовать тренера"
	BtnTrainerHide       = "⛔️ Скрыть тренера"
	BtnTrainerActivate   = "✅ Активировать тренера"
	BtnGroupCreate       = "➕ Создать группу"
	BtnGroupList         = "📋 Список групп"
	BtnGroupAssign       = "👤 Назначить тренера"
	BtnGroupUnassign     = "❌ Убрать тренера"
	BtnGroupRename       = "✏️ Переименовать группу"
	BtnGroupSchedule     = "📅 Расписание"
	BtnGroupHide         = "⛔️ Скрыть группу"
	BtnGroupActivate     = "✅ Активировать группу"
)

// Расписание.
const (
	BtnScheduleAdd      = "➕ Добавить день"
	BtnScheduleEdit     = "✏️ Изменить"
	BtnScheduleDelete   = "🗑 Удалить"
	BtnScheduleTime     = "🕒 Время"
	BtnScheduleDuration = "⏱ Длительность"
	BtnScheduleDisable  = "⛔️ Отключить"
	BtnScheduleEnable   = "✅ Включить"
	BtnScheduleDeleteOK = "✅ Да удалить"
)

// Отчёты.
const (
	BtnReportRevenue    = "💰 Выручка"
	BtnReportExpenses   = "💸 Расходы за период"
	BtnReportProfit     = "📈 Прибыль"
	BtnReportAttendance = "👥 Посещаемость"
	BtnReportPasses     = "🎫 Абонементы"
	BtnReportSingles    = "🧾 Разовые"
	BtnReportDefers     = "⏳ Отсрочки"
	BtnReportExcel      = "📤 Excel директору"
)

// Админы.
const (
	BtnAdminAdd     = "➕ Добавить админа"
	BtnAdminDisable = "⛔ Отключить админа"
	BtnAdminList    = "📋 Список админов"
)

func btn(text string) tgbotapi.KeyboardButton {
	return tgbotapi.NewKeyboardButton(text)
}

func keyboard(rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// oneTime — то же, но клавиатура прячется после нажатия.
func oneTime(rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	kb := keyboard(rows...)
	kb.OneTimeKeyboard = true
	return kb
}

// listRows — по одной кнопке на строку, плюс хвостовые кнопки.
func listRows(labels []string, tail ...string) []([]tgbotapi.KeyboardButton) {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(labels)+len(tail))
	for _, l := range labels {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn(l)))
	}
	for _, t := range tail {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn(t)))
	}
	return rows
}

// mainMenuKeyboard — главное меню; ряд «Админы» видит только владелец.
func mainMenuKeyboard(isOwner bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{btn(BtnNewClient), btn(BtnFindClient)},
		{btn(BtnBook), btn(BtnAttendance)},
		{btn(BtnPayment), btn(BtnPass)},
		{btn(BtnExpenses), btn(BtnReports)},
		{btn(BtnTrainers), btn(BtnGroups)},
	}
	if isOwner {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn(BtnAdmins)))
	}
	return keyboard(rows...)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)))
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		tgbotapi.NewKeyboardButtonRow(btn(BtnSkip)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		tgbotapi.NewKeyboardButtonRow(btn(BtnSave)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func newClientPhoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	contact := tgbotapi.NewKeyboardButtonContact(BtnSendContact)
	return oneTime(
		[]tgbotapi.KeyboardButton{contact},
		tgbotapi.NewKeyboardButtonRow(btn(BtnEnterManual)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func searchModeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnSearchPhone, BtnSearchName, BtnSearchTg}, BtnCancel)...)
}

func optionsKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows(labels, BtnCancel)...)
}

func clientCardKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(
		[]tgbotapi.KeyboardButton{btn(BtnCardBook), btn(BtnCardAttendance)},
		[]tgbotapi.KeyboardButton{btn(BtnCardPayment), btn(BtnCardPass)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func bookingKindKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnBookingSingle, BtnBookingMembership}, BtnCancel)...)
}

func bookingDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnToday), btn(BtnTomorrow)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnEnterDate)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func attendanceDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnToday), btn(BtnYesterday)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnEnterDate)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func attendanceStatusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnStatusAttended), btn(BtnStatusNoShow)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnStatusCancelled)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func paymentMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnPaymentAccept, BtnPaymentCloseDefer}, BtnBack)...)
}

func paymentPurposeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnPurposeSingle, BtnPurposePass}, BtnCancel)...)
}

func paymentMethodKeyboard(withDefer bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{btn(BtnMethodCash), btn(BtnMethodTransfer)},
	}
	if withDefer {
		rows = append(rows, []tgbotapi.KeyboardButton{btn(BtnMethodQR), btn(BtnMethodDefer)})
	} else {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn(BtnMethodQR)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)))
	return oneTime(rows...)
}

func payDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnToday), btn(BtnYesterday)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnPickDate)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func dueDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnToday), btn(BtnTomorrow)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnPickDate)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnSkip)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func passMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnPassIssue, BtnPassExtend}, BtnBack)...)
}

func passAfterSaveKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(listRows([]string{BtnPassPayNow, BtnPassBackToMenu})...)
}

func expenseMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnExpenseAdd, BtnExpenseList, BtnExpenseCategories}, BtnBack)...)
}

func expenseCategoryMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnExpCatAdd, BtnExpCatRename, BtnExpCatHide, BtnExpCatShowHidden}, BtnBack)...)
}

func expenseCategoryPickKeyboard(labels []string, withRepeat bool) tgbotapi.ReplyKeyboardMarkup {
	extras := []string{BtnExpCatNewInline, BtnCancel}
	if withRepeat {
		extras = append([]string{BtnExpenseRepeat}, extras...)
	}
	return oneTime(listRows(labels, extras...)...)
}

func expenseDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnToday), btn(BtnYesterday)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnPickDate)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func expenseMethodKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(
		[]tgbotapi.KeyboardButton{btn(BtnMethodCash), btn(BtnMethodTransfer)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnMethodQR)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnCancel)),
	)
}

func periodKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnThisMonth, BtnLastMonth, BtnThisWeek, BtnToday, BtnPickDates}, BtnBack)...)
}

func trainersMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnTrainerAdd, BtnTrainerList}, BtnBack)...)
}

func trainerCardKeyboard(isActive bool) tgbotapi.ReplyKeyboardMarkup {
	toggle := BtnTrainerActivate
	if isActive {
		toggle = BtnTrainerHide
	}
	return keyboard(
		[]tgbotapi.KeyboardButton{btn(BtnTrainerAttach), btn(BtnTrainerDetach)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnTrainerRename)),
		tgbotapi.NewKeyboardButtonRow(btn(toggle)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
	)
}

func groupsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnGroupCreate, BtnGroupList}, BtnBack)...)
}

func groupCardKeyboard(isActive bool) tgbotapi.ReplyKeyboardMarkup {
	toggle := BtnGroupActivate
	if isActive {
		toggle = BtnGroupHide
	}
	return keyboard(
		[]tgbotapi.KeyboardButton{btn(BtnGroupAssign), btn(BtnGroupUnassign)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnGroupRename)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnGroupSchedule)),
		tgbotapi.NewKeyboardButtonRow(btn(toggle)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
	)
}

func scheduleMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnScheduleAdd, BtnScheduleEdit, BtnScheduleDelete}, BtnBack)...)
}

func weekdayKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{btn(labels[0]), btn(labels[1]), btn(labels[2])},
		{btn(labels[3]), btn(labels[4]), btn(labels[5])},
		{btn(labels[6])},
		{btn(BtnBack)},
	}
	return oneTime(rows...)
}

func scheduleEditKeyboard(isActive bool) tgbotapi.ReplyKeyboardMarkup {
	toggle := BtnScheduleEnable
	if isActive {
		toggle = BtnScheduleDisable
	}
	return oneTime(listRows([]string{BtnScheduleTime, BtnScheduleDuration, toggle}, BtnBack)...)
}

func scheduleDeleteConfirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return oneTime(listRows([]string{BtnScheduleDeleteOK, BtnCancel})...)
}

func reportMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(
		[]tgbotapi.KeyboardButton{btn(BtnReportRevenue), btn(BtnReportExpenses)},
		[]tgbotapi.KeyboardButton{btn(BtnReportProfit), btn(BtnReportAttendance)},
		[]tgbotapi.KeyboardButton{btn(BtnReportPasses), btn(BtnReportSingles)},
		[]tgbotapi.KeyboardButton{btn(BtnReportDefers), btn(BtnReportExcel)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
	)
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return keyboard(
		[]tgbotapi.KeyboardButton{btn(BtnAdminAdd), btn(BtnAdminDisable)},
		tgbotapi.NewKeyboardButtonRow(btn(BtnAdminList)),
		tgbotapi.NewKeyboardButtonRow(btn(BtnBack)),
	)
}
