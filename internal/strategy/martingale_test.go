package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"DoubleDown/internal/model"
)

func TestPriceOf(t *testing.T) {
	bar := model.Bar{Open: 10, High: 14, Low: 8, Close: 12}

	tests := []struct {
		field model.PriceField
		want  float64
	}{
		{model.PriceOpen, 10},
		{model.PriceHigh, 14},
		{model.PriceLow, 8},
		{model.PriceClose, 12},
		{model.PriceAvg, 11},
		{model.PriceField("vwap"), 12},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			assert.Equal(t, tt.want, PriceOf(bar, tt.field))
		})
	}
}

func TestIsWin(t *testing.T) {
	assert.True(t, IsWin(10.5, 10))
	assert.True(t, IsWin(10, 10), "flat day counts as a win")
	assert.False(t, IsWin(9.99, 10))
}

func TestNextBet(t *testing.T) {
	assert.Equal(t, 100, NextBet(true, 800, 100))
	assert.Equal(t, 200, NextBet(false, 100, 100))
	assert.Equal(t, 1600, NextBet(false, 800, 100))
}
