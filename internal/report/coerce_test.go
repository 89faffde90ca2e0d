package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", 12.5, 12.5},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"string number", "3.14", 3.14},
		{"padded string", " 42 ", 42},
		{"garbage string", "n/a", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"NaN", math.NaN(), 0},
		{"map", map[string]any{"value": 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestNumberOKDistinguishesMissing(t *testing.T) {
	_, ok := NumberOK(nil)
	assert.False(t, ok)
	_, ok = NumberOK("broken")
	assert.False(t, ok)
	v, ok := NumberOK(0.0)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestDateStringUnwrapsWarehouseFormats(t *testing.T) {
	assert.Equal(t, "2024-01-05", DateString("2024-01-05"))
	assert.Equal(t, "2024-01-05", DateString(map[string]any{"value": "2024-01-05"}))
	assert.Equal(t, "2024-01-05", DateString(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", DateString(nil))
	assert.Equal(t, "", DateString(42))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "5 ene 2024", FormatDate("2024-01-05"))
	assert.Equal(t, "31 dic 2023", FormatDate("2023-12-31"))
	// unparseable dates pass through
	assert.Equal(t, "pronto", FormatDate("pronto"))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		format string
		want   string
	}{
		{"currency", 1234567.891, "currency", "$1,234,567.89"},
		{"currency small", 9.5, "currency", "$9.50"},
		{"percentage", 12.345, "percentage", "12.35%"},
		{"decimal", 3.14159, "decimal", "3.14"},
		{"number rounds", 1999.6, "number", "2,000"},
		{"nil renders dash", nil, "currency", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.format))
		})
	}
}
