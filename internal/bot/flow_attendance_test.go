package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fitadmin.ru/gym-bot/internal/features/visits"
)

// Имя клиента в форму попадает без эмодзи статуса из подписи кнопки.
func TestAttendanceLabelRoundTrip(t *testing.T) {
	label := attendanceLabel(visits.StatusAttended, "Иванова Анна")
	assert.Equal(t, "✅ Иванова Анна", label)
	assert.Equal(t, "Иванова Анна", attendanceLabelName(label))

	unmarked := attendanceLabel("", "Иванова Анна")
	assert.Equal(t, "Иванова Анна", attendanceLabelName(unmarked))
}
