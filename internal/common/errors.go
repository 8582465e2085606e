// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки хранилища (конфликты уникальности)
var (
	// ErrDuplicatePhone — клиент с таким телефоном уже есть
	ErrDuplicatePhone = errors.New("клиент с таким телефоном уже существует")
	// ErrVisitAlreadyExists — запись на эту дату/группу уже есть
	ErrVisitAlreadyExists = errors.New("запись на это занятие уже существует")
	// ErrActivePassConflict — у клиента уже есть активный абонемент в этой группе
	ErrActivePassConflict = errors.New("у клиента уже есть активный абонемент в этой группе")
	// ErrScheduleSlotExists — слот расписания (группа, день, время) уже есть
	ErrScheduleSlotExists = errors.New("такой слот расписания уже существует")
	// ErrDuplicateCategory — категория расходов с таким кодом уже есть
	ErrDuplicateCategory = errors.New("категория с таким кодом уже существует")
)

// Ошибки поиска и доступа
var (
	// ErrNotFound — запись не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrNoAccess — пользователь не владелец и не активный админ
	ErrNoAccess = errors.New("нет доступа")
)

// Ошибки валидации
var (
	// ErrInvalidAmount — сумма не положительное целое число
	ErrInvalidAmount = errors.New("сумма должна быть положительным числом")
	// ErrInvalidDate — дата не в формате ДД.ММ.ГГГГ или YYYY-MM-DD
	ErrInvalidDate = errors.New("неверный формат даты")
	// ErrInvalidPhone — телефон не распознан
	ErrInvalidPhone = errors.New("не удалось распознать телефон")
	// ErrInvalidTime — время не в формате ЧЧ:ММ
	ErrInvalidTime = errors.New("неверный формат времени")
)
