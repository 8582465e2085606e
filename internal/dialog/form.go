// Package dialog — form.go: типизированная анкета диалога.
// Вместо нетипизированного словаря (как это обычно делают FSM-боты)
// каждый процесс складывает собранные поля в структуру опционалов:
// невалидные комбинации полей просто не собрать, а новая анкета
// создаётся пустой при каждом старте процесса — данные не «протекают»
// между процессами.
package dialog

import "time"

// Option — один пункт выбора, построенный для текущего вопроса.
// Список пар (id, подпись) заменяет словари label→id: выбранная подпись
// валидируется против актуального списка, устаревший выбор не пройдёт.
type Option struct {
	ID    int64
	Label string
}

// Form — накопленные поля текущего процесса.
type Form struct {
	// Клиент
	ClientID   int64
	ClientName string
	Phone      string
	FullName   string
	TgUsername string
	BirthDate  *time.Time
	Comment    string

	// Куда вернуться из пикера клиента: "card", "booking", "payment",
	// "pass", "defer". Единственный разрешённый «перенос» полей между
	// процессами — ClientID/ClientName из карточки.
	PickerTarget string
	PickerMode   string // "phone" | "name" | "tg"

	// Группа / тренер
	GroupID     int64
	GroupName   string
	Capacity    int
	Room        string
	TrainerID   int64
	TrainerName string

	// Запись и посещение
	Date        *time.Time
	BookingKind string // "single" | "membership"
	VisitStatus string

	// Оплата
	Amount    int64
	Method    string
	Purpose   string
	DueDate   *time.Time
	PayDate   *time.Time
	PaymentID int64

	// Абонемент
	PassID    int64
	StartDate *time.Time
	EndDate   *time.Time
	Price     int64

	// Расходы
	CategoryID   int64
	CategoryName string

	// Расписание
	SlotID      int64
	Weekday     int
	StartTime   string
	DurationMin int
	EditField   string // "time" | "duration" | "toggle"

	// Отчёты
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	ReportKind string

	// Админы
	AdminTgID int64
	Name      string
}
