// Package dialog хранит состояние многошаговых диалогов.
// state.go перечисляет все состояния рабочих процессов.
// Имя состояния имеет вид "<процесс>.<шаг>" — по префиксу бот
// маршрутизирует ввод в обработчик нужного процесса.
package dialog

import "strings"

// State — текущее состояние диалога пользователя.
type State string

// StateIdle — диалог не начат (главное меню).
const StateIdle State = ""

// Новый клиент
const (
	StateClientPhone     State = "client.phone"
	StateClientName      State = "client.name"
	StateClientUsername  State = "client.username"
	StateClientBirthDate State = "client.birthdate"
	StateClientComment   State = "client.comment"
	StateClientConfirm   State = "client.confirm"
)

// Поиск клиента (общий «пикер», используется пятью процессами)
const (
	StatePickerMode   State = "picker.mode"
	StatePickerQuery  State = "picker.query"
	StatePickerSelect State = "picker.select"
)

// Карточка клиента
const StateCardActions State = "card.actions"

// Запись на занятие
const (
	StateBookingKind    State = "booking.kind"
	StateBookingGroup   State = "booking.group"
	StateBookingDate    State = "booking.date"
	StateBookingConfirm State = "booking.confirm"
)

// Отметка посещения
const (
	StateAttendanceGroup  State = "attendance.group"
	StateAttendanceDate   State = "attendance.date"
	StateAttendanceClient State = "attendance.client"
	StateAttendanceStatus State = "attendance.status"
)

// Приём оплаты
const (
	StatePaymentMenu    State = "payment.menu"
	StatePaymentPurpose State = "payment.purpose"
	StatePaymentGroup   State = "payment.group"
	StatePaymentAmount  State = "payment.amount"
	StatePaymentMethod  State = "payment.method"
	StatePaymentDueDate State = "payment.duedate"
	StatePaymentDate    State = "payment.date"
	StatePaymentConfirm State = "payment.confirm"
)

// Закрытие отсрочки
const (
	StateDeferPick   State = "defer.pick"
	StateDeferMethod State = "defer.method"
	StateDeferDate   State = "defer.date"
)

// Абонемент: выдача и продление
const (
	StatePassMenu      State = "pass.menu"
	StatePassGroup     State = "pass.group"
	StatePassStart     State = "pass.start"
	StatePassEnd       State = "pass.end"
	StatePassPrice     State = "pass.price"
	StatePassConfirm   State = "pass.confirm"
	StatePassAfterSave State = "pass.after"
	StatePassExtPick   State = "passext.pick"
	StatePassExtEnd    State = "passext.end"
)

// Расходы
const (
	StateExpenseMenu       State = "expense.menu"
	StateExpenseCategory   State = "expense.category"
	StateExpenseDate       State = "expense.date"
	StateExpenseAmount     State = "expense.amount"
	StateExpenseMethod     State = "expense.method"
	StateExpenseComment    State = "expense.comment"
	StateExpenseConfirm    State = "expense.confirm"
	StateExpenseListPeriod State = "expense.list_period"
	StateExpenseListFrom   State = "expense.list_from"
	StateExpenseListTo     State = "expense.list_to"
)

// Категории расходов
const (
	StateExpCatMenu       State = "expcat.menu"
	StateExpCatAddName    State = "expcat.add_name"
	StateExpCatRenamePick State = "expcat.rename_pick"
	StateExpCatRenameName State = "expcat.rename_name"
	StateExpCatHidePick   State = "expcat.hide_pick"
	StateExpCatShowPick   State = "expcat.show_pick"
)

// Тренеры
const (
	StateTrainerMenu     State = "trainer.menu"
	StateTrainerAddName  State = "trainer.add_name"
	StateTrainerAddPhone State = "trainer.add_phone"
	StateTrainerAddTg    State = "trainer.add_tg"
	StateTrainerListPick State = "trainer.list_pick"
	StateTrainerCard     State = "trainer.card"
	StateTrainerRename   State = "trainer.rename"
	StateTrainerAttach   State = "trainer.attach_group"
	StateTrainerDetach   State = "trainer.detach_group"
)

// Группы
const (
	StateGroupMenu        State = "group.menu"
	StateGroupAddName     State = "group.add_name"
	StateGroupAddCapacity State = "group.add_capacity"
	StateGroupAddRoom     State = "group.add_room"
	StateGroupListPick    State = "group.list_pick"
	StateGroupCard        State = "group.card"
	StateGroupRename      State = "group.rename"
	StateGroupAssign      State = "group.assign_trainer"
)

// Расписание группы
const (
	StateScheduleMenu       State = "schedule.menu"
	StateScheduleWeekday    State = "schedule.weekday"
	StateScheduleTime       State = "schedule.time"
	StateScheduleDuration   State = "schedule.duration"
	StateScheduleEditPick   State = "schedule.edit_pick"
	StateScheduleEditField  State = "schedule.edit_field"
	StateScheduleEditValue  State = "schedule.edit_value"
	StateScheduleDeletePick State = "schedule.delete_pick"
	StateScheduleDeleteOK   State = "schedule.delete_confirm"
)

// Отчёты
const (
	StateReportMenu   State = "report.menu"
	StateReportPeriod State = "report.period"
	StateReportFrom   State = "report.range_from"
	StateReportTo     State = "report.range_to"
)

// Админы (только владелец)
const (
	StateAdminsMenu      State = "admins.menu"
	StateAdminsAddID     State = "admins.add_id"
	StateAdminsAddName   State = "admins.add_name"
	StateAdminsDisableID State = "admins.disable_id"
)

// Flow возвращает имя процесса, которому принадлежит состояние
// ("client", "booking", ...). Для StateIdle — пустая строка.
func (s State) Flow() string {
	name := string(s)
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}
