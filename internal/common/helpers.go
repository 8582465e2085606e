// Package common содержит общие утилиты, используемые во всём проекте.
// helpers.go — нормализация пользовательского ввода: телефоны, даты,
// суммы, время занятий, telegram-ники.
package common

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NormalizePhone приводит телефон к каноничному виду: только цифры
// с ведущим кодом страны. Российские номера из 11 цифр, начинающиеся
// с 7 или 8, приводятся к +7XXXXXXXXXX. Возвращает "" если телефон
// не распознан.
//
// Примеры:
//
//	NormalizePhone("8 (900) 123-45-67") → "+79001234567"
//	NormalizePhone("+7 900 123 45 67") → "+79001234567"
//	NormalizePhone("abc")              → ""
func NormalizePhone(raw string) string {
	trimmed := strings.NewReplacer(" ", "", "(", "", ")", "", "-", "").Replace(raw)

	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	if len(d) == 11 && (d[0] == '7' || d[0] == '8') {
		return "+7" + d[1:]
	}
	if strings.HasPrefix(trimmed, "+") && d != "" {
		return "+" + d
	}
	return d
}

// NormalizeUsername убирает ведущую @ и пробелы вокруг ника.
// Пустой ник и "-" означают «не задан».
func NormalizeUsername(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimPrefix(u, "@")
	if u == "-" {
		return ""
	}
	return u
}

// ParseDate разбирает дату в одном из двух принятых форматов:
// ДД.ММ.ГГГГ или YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate форматирует дату в ISO 8601 (YYYY-MM-DD) — формат хранения.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateRu форматирует дату для показа пользователю (ДД.ММ.ГГГГ).
func FormatDateRu(t time.Time) string {
	return t.Format("02.01.2006")
}

// ParseAmount разбирает сумму в минорных единицах (целые рубли).
// Допустимы только положительные целые числа.
func ParseAmount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

// ParseTimeHHMM проверяет и нормализует время занятия к виду "ЧЧ:ММ".
// "9:00" → "09:00".
func ParseTimeHHMM(value string) (string, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse("15:04", value)
	if err != nil {
		// одиночная цифра часа
		t, err = time.Parse("3:04", value)
		if err != nil {
			return "", ErrInvalidTime
		}
	}
	return t.Format("15:04"), nil
}

// Today возвращает текущую календарную дату (без времени) в заданном поясе.
func Today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthBounds возвращает первый и последний день месяца, которому
// принадлежит дата. Используется пресетами периодов отчётов.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// WeekBounds возвращает понедельник и воскресенье недели, которой
// принадлежит дата.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := t.AddDate(0, 0, 1-weekday)
	return monday, monday.AddDate(0, 0, 6)
}
