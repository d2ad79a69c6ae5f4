package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"whole rupees", 500, 50000},
		{"with paise", 99.99, 9999},
		{"single paisa", 0.01, 1},
		{"zero", 0, 0},
		{"rounds up binary float residue", 19.99, 1999},
		{"large amount", 123456.78, 12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinorUnits(tt.amount))
		})
	}
}
