package reports

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"fitadmin.ru/gym-bot/internal/common"
)

// Названия листов книги фиксированы: по ним отчёт читают внешние таблицы.
const (
	sheetSummary    = "Summary"
	sheetRevenue    = "Revenue"
	sheetExpenses   = "Expenses"
	sheetAttendance = "Attendance"
	sheetDefers     = "Defers"
)

var methodLabels = map[string]string{
	"cash":     "Наличные",
	"transfer": "Перевод",
	"qr":       "QR",
	"defer":    "Отсрочка",
}

var purposeLabels = map[string]string{
	"pass":   "Абонемент",
	"single": "Разовое",
	"other":  "Прочее",
}

// BuildExcel рендерит отчёт за период в книгу xlsx и возвращает её байты.
func BuildExcel(rep *PeriodReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f}

	f.SetSheetName("Sheet1", sheetSummary)
	w.sheet(sheetSummary)
	w.header("Показатель", "Сумма")
	w.row("Выручка", rep.Revenue.Total)
	w.row("Расходы", rep.Expenses.Total)
	w.row("Прибыль", rep.Profit)
	w.blank()
	w.row("Период", fmt.Sprintf("%s — %s", common.FormatDate(rep.From), common.FormatDate(rep.To)))

	w.newSheet(sheetRevenue)
	w.header("Метод", "Сумма")
	w.row("Наличные", rep.Revenue.Cash)
	w.row("Перевод", rep.Revenue.Transfer)
	w.row("QR", rep.Revenue.QR)
	w.blank()
	w.header("Дата", "Клиент", "Группа", "Тип", "Сумма", "Метод")
	for _, p := range rep.PaidPayments {
		w.row(common.FormatDate(p.PayDate), p.ClientName, p.GroupName,
			purposeLabels[p.Purpose], p.Amount, methodLabels[p.Method])
	}

	w.newSheet(sheetExpenses)
	w.header("Метод", "Сумма")
	w.row("Наличные", rep.Expenses.Cash)
	w.row("Перевод", rep.Expenses.Transfer)
	w.row("QR", rep.Expenses.QR)
	w.blank()
	w.header("Категория", "Сумма")
	for _, ct := range rep.Categories {
		w.row(ct.CategoryName, ct.Total)
	}
	w.blank()
	w.header("Дата", "Категория", "Сумма", "Метод", "Комментарий")
	for _, e := range rep.ExpenseRows {
		w.row(common.FormatDate(e.ExpDate), e.CategoryName, e.Amount, methodLabels[e.Method], e.Comment)
	}

	w.newSheet(sheetAttendance)
	w.header("Статус", "Количество")
	w.row("booked", rep.Attendance.Booked)
	w.row("attended", rep.Attendance.Attended)
	w.row("noshow", rep.Attendance.NoShow)
	w.row("cancelled", rep.Attendance.Cancelled)
	w.blank()
	w.row("Период", fmt.Sprintf("%s — %s", common.FormatDate(rep.From), common.FormatDate(rep.To)))

	w.newSheet(sheetDefers)
	w.header("Дата", "Клиент", "Группа", "Сумма", "Тип", "Срок оплаты")
	for _, d := range rep.Deferred {
		due := ""
		if d.DueDate != nil {
			due = common.FormatDate(*d.DueDate)
		}
		w.row(common.FormatDate(d.CreatedDate), d.ClientName, d.GroupName,
			d.Amount, purposeLabels[d.Purpose], due)
	}
	w.blank()
	w.header("Просрочено с", "Клиент", "Группа", "Сумма")
	for _, d := range rep.Overdue {
		w.row(common.FormatDate(d.CreatedDate), d.ClientName, d.GroupName, d.Amount)
	}

	if w.err != nil {
		return nil, fmt.Errorf("сборка отчёта: %w", w.err)
	}
	for _, name := range f.GetSheetList() {
		if err := autoFitColumns(f, name); err != nil {
			return nil, fmt.Errorf("ширина колонок %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("запись книги: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter пишет строки на текущий лист, запоминая первую ошибку.
type sheetWriter struct {
	f    *excelize.File
	name string
	next int // номер следующей строки, с единицы
	err  error
}

func (w *sheetWriter) sheet(name string) {
	w.name = name
	w.next = 1
}

func (w *sheetWriter) newSheet(name string) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	w.sheet(name)
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.name, cell, &values); err != nil {
		w.err = err
		return
	}
	w.next++
}

func (w *sheetWriter) header(titles ...string) {
	if w.err != nil {
		return
	}
	rowIdx := w.next
	values := make([]interface{}, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	w.row(values...)
	if w.err != nil {
		return
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		w.err = err
		return
	}
	from, _ := excelize.CoordinatesToCellName(1, rowIdx)
	to, _ := excelize.CoordinatesToCellName(len(titles), rowIdx)
	if err := w.f.SetCellStyle(w.name, from, to, style); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) blank() {
	if w.err == nil {
		w.next++
	}
}

// autoFitColumns подгоняет ширину колонок под содержимое, в разумных
// пределах.
func autoFitColumns(f *excelize.File, sheet string) error {
	cols, err := f.GetCols(sheet)
	if err != nil {
		return err
	}
	for i, col := range cols {
		width := 0
		for _, cell := range col {
			if n := utf8.RuneCountInString(cell); n > width {
				width = n
			}
		}
		w := float64(width + 2)
		if w < 10 {
			w = 10
		}
		if w > 60 {
			w = 60
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}
