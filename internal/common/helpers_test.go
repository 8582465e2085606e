package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8 (900) 123-45-67", "+79001234567"},
		{"+7 900 123 45 67", "+79001234567"},
		{"79001234567", "+79001234567"},
		{"+380 44 123 4567", "+380441234567"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "вход %q", tt.in)
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "ivan", NormalizeUsername("@ivan"))
	assert.Equal(t, "ivan", NormalizeUsername("  ivan "))
	assert.Equal(t, "", NormalizeUsername("-"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("05.03.2026")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", FormatDate(d))

	d, err = ParseDate("2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, "05.03.2026", FormatDateRu(d))

	_, err = ParseDate("вчера")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount(" 1500 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), n)

	for _, bad := range []string{"0", "-5", "3.50", "тысяча"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "вход %q", bad)
	}
}

func TestParseTimeHHMM(t *testing.T) {
	got, err := ParseTimeHHMM("9:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", got)

	got, err = ParseTimeHHMM("18:30")
	require.NoError(t, err)
	assert.Equal(t, "18:30", got)

	_, err = ParseTimeHHMM("25:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-02-01", FormatDate(first))
	assert.Equal(t, "2026-02-28", FormatDate(last))

	// декабрь переходит через год
	first, last = MonthBounds(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-12-01", FormatDate(first))
	assert.Equal(t, "2026-12-31", FormatDate(last))
}

func TestWeekBounds(t *testing.T) {
	// 2026-08-30 — воскресенье
	mon, sun := WeekBounds(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", FormatDate(mon))
	assert.Equal(t, "2026-08-30", FormatDate(sun))

	// понедельник остаётся понедельником
	mon, sun = WeekBounds(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", FormatDate(mon))
	assert.Equal(t, "2026-08-30", FormatDate(sun))
}

func TestPluralRu(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "день"}, {21, "день"}, {101, "день"},
		{2, "дня"}, {3, "дня"}, {24, "дня"},
		{5, "дней"}, {11, "дней"}, {12, "дней"}, {14, "дней"}, {111, "дней"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralRu(tt.n, "день", "дня", "дней"), "n=%d", tt.n)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1500 ₽", FormatMoney(1500))
}
