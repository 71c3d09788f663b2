package strategy

import "DoubleDown/internal/model"

// PriceOf returns the price of a bar for the selected field.
// Unknown fields use the close.
func PriceOf(bar model.Bar, field model.PriceField) float64 {
	switch field {
	case model.PriceOpen:
		return float64(bar.Open)
	case model.PriceHigh:
		return float64(bar.High)
	case model.PriceLow:
		return float64(bar.Low)
	case model.PriceAvg:
		return (float64(bar.High) + float64(bar.Low)) / 2
	default:
		return float64(bar.Close)
	}
}

// IsWin reports whether the day counts as a win: the price went up or stayed.
func IsWin(price, prev float64) bool {
	return price >= prev
}

// NextBet applies the doubling rule: a win resets to the base bet,
// a loss doubles the current one.
func NextBet(win bool, current, initial int) int {
	if win {
		return initial
	}
	return current * 2
}
