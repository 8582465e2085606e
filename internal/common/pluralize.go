// Package common — pluralize.go: русская плюрализация для сообщений бота.
package common

import (
	"fmt"
	"math"
)

// PluralRu возвращает правильную форму слова для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → one ("1 клиент", "21 день")
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → few ("2 клиента", "3 дня")
//   - Остальные случаи → many ("5 клиентов", "11 дней")
func PluralRu(n int64, one, few, many string) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает форму слова «день» для числа n.
func PluralizeDays(n int) string {
	return PluralRu(int64(n), "день", "дня", "дней")
}

// FormatMoney форматирует сумму в минорных единицах для показа.
// Пример: FormatMoney(1500) → "1500 ₽"
func FormatMoney(amount int64) string {
	return fmt.Sprintf("%d ₽", amount)
}
