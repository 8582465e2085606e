package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Спецсимволы LIKE в поисковом запросе ищутся буквально.
func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Иванова", escapeLike("Иванова"))
	assert.Equal(t, `ан\_на`, escapeLike("ан_на"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `до\\после`, escapeLike(`до\после`))
}
