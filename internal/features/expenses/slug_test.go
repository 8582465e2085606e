package expenses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Аренда зала", "arenda_zala"},
		{"Коммуналка", "kommunalka"},
		{"Хозтовары и мелочь", "hoztovary_i_meloch"},
		{"Объявления", "obyavleniya"},
		{"Щётки", "schetki"},
		{"Wi-Fi / интернет", "wi_fi_internet"},
		{"Зарплата 2026", "zarplata_2026"},
		{"   ", "category"},
		{"!!!", "category"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryCode(tt.name), "название %q", tt.name)
	}
}

func TestCategoryCodeIdempotent(t *testing.T) {
	code := CategoryCode("Аренда зала")
	assert.Equal(t, code, CategoryCode(code))
}
