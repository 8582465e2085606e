package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayLabel(t *testing.T) {
	assert.Equal(t, "Пн", WeekdayLabel(1))
	assert.Equal(t, "Вс", WeekdayLabel(7))
	assert.Equal(t, "?", WeekdayLabel(0))
	assert.Equal(t, "?", WeekdayLabel(8))
}

func TestParseWeekday(t *testing.T) {
	for wd := 1; wd <= 7; wd++ {
		got, ok := ParseWeekday(WeekdayLabel(wd))
		assert.True(t, ok)
		assert.Equal(t, wd, got)
	}

	_, ok := ParseWeekday("Понедельник")
	assert.False(t, ok)
}
