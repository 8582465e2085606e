package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Перечисления прибиты CHECK-ами в самой схеме, а не только в коде:
// строка с левым значением должна отбиваться базой.
func TestMigrationsCarryEnumChecks(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		want string
	}{
		{"clients.status", migration002Clients, `CHECK (status IN ('active', 'inactive'))`},
		{"schedule_slots.weekday", migration003Groups, `CHECK (weekday BETWEEN 1 AND 7)`},
		{"visits.status", migration004Visits, `CHECK (status IN ('booked', 'attended', 'noshow', 'cancelled'))`},
		{"payments.method", migration006Payments, `CHECK (method IN ('cash', 'transfer', 'qr', 'defer'))`},
		{"payments.status", migration006Payments, `CHECK (status IN ('paid', 'deferred', 'cancelled'))`},
		{"payments.purpose", migration006Payments, `CHECK (purpose IN ('pass', 'single', 'other'))`},
		{"expenses.method", migration007Expenses, `CHECK (method IN ('cash', 'transfer', 'qr'))`},
	}
	for _, tc := range cases {
		assert.Contains(t, tc.sql, tc.want, tc.name)
	}
}
