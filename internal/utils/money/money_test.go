package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		count int
		price float64
		want  float64
	}{
		{"Empty", 0, 50, 0},
		{"Two numbers", 2, 50, 100},
		{"Fractional price", 3, 12.5, 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Total(tt.count, tt.price))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Run("Known currency", func(t *testing.T) {
		got := Format(100, "USD")
		assert.NotEmpty(t, got)
		assert.Contains(t, got, "100")
		assert.Contains(t, got, "$")
	})

	t.Run("Unknown currency falls back to MXN", func(t *testing.T) {
		assert.Equal(t, Format(250, "MXN"), Format(250, "???"))
	})

	t.Run("Empty currency falls back to MXN", func(t *testing.T) {
		assert.Equal(t, Format(10, DefaultCurrency), Format(10, ""))
	})
}
