package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelPrizes_WeightsSumToOne(t *testing.T) {
	var total float64
	for _, prize := range WheelPrizes {
		assert.Greater(t, prize.Weight, 0.0, "prize %q", prize.Label)
		total += prize.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestWheelQuotaFor(t *testing.T) {
	tests := []struct {
		name     string
		cherries int
		want     int
	}{
		{"starter", 0, 3},
		{"silver", 10, 3},
		{"gold", 25, 5},
		{"platinum", 50, 5},
		{"legend", 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WheelQuotaFor(TierFor(tt.cherries)))
		})
	}
}
