package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fitadmin.ru/gym-bot/internal/features/expenses"
	"fitadmin.ru/gym-bot/internal/features/payments"
)

func testPeriodReport() *PeriodReport {
	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	return &PeriodReport{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Revenue: payments.RevenueSummary{
			Total: 45000, Count: 3, Cash: 20000, Transfer: 15000, QR: 10000,
		},
		Expenses: expenses.Summary{
			Total: 30000, Count: 2, Cash: 30000,
		},
		Categories: []expenses.CategoryTotal{
			{CategoryName: "Аренда зала", Total: 25000, Count: 1},
			{CategoryName: "Прочие", Total: 5000, Count: 1},
		},
		Attendance: AttendanceSummary{Booked: 12, Attended: 9, NoShow: 2, Cancelled: 1},
		Profit:     15000,
		PaidPayments: []payments.PaidRow{
			{PayDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
				ClientName: "Иванова Анна", GroupName: "Йога", Purpose: "pass",
				Amount: 20000, Method: "cash"},
		},
		ExpenseRows: []expenses.ExpenseRow{
			{ExpDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
				CategoryName: "Аренда зала", Amount: 25000, Method: "cash"},
		},
		Deferred: []payments.DeferredInfo{
			{ClientName: "Петров Пётр", GroupName: "Бокс", Amount: 5000,
				Purpose: "single", CreatedDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				DueDate: &due},
		},
	}
}

func TestBuildExcelSheets(t *testing.T) {
	data, err := BuildExcel(testPeriodReport())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Revenue", "Expenses", "Attendance", "Defers"},
		f.GetSheetList())
}

func TestBuildExcelSummaryValues(t *testing.T) {
	data, err := BuildExcel(testPeriodReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	for cell, want := range map[string]string{
		"A1": "Показатель",
		"A2": "Выручка",
		"B2": "45000",
		"B3": "30000",
		"B4": "15000",
		"B6": "2026-03-01 — 2026-03-31",
	} {
		got, err := f.GetCellValue("Summary", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ячейка %s", cell)
	}
}

func TestBuildExcelRevenueDetail(t *testing.T) {
	data, err := BuildExcel(testPeriodReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// строки 1-4 — сводка по методам, 5 — пустая, 6 — заголовок детализации
	got, err := f.GetCellValue("Revenue", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Дата", got)

	row := map[string]string{
		"A7": "2026-03-05",
		"B7": "Иванова Анна",
		"C7": "Йога",
		"D7": "Абонемент",
		"E7": "20000",
		"F7": "Наличные",
	}
	for cell, want := range row {
		got, err := f.GetCellValue("Revenue", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ячейка %s", cell)
	}
}

func TestBuildExcelDefers(t *testing.T) {
	data, err := BuildExcel(testPeriodReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Defers", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-20", got)
}

func TestBuildExcelEmptyReport(t *testing.T) {
	rep := &PeriodReport{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	data, err := BuildExcel(rep)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
