package fund

import (
	"fmt"
	"math"
)

// InsufficientFundsError is returned when the total funds cannot cover the
// opening purchase.
type InsufficientFundsError struct {
	Required float64
	Price    float64
	Count    int
	Total    float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %.2f (price %.2f x %d), have %.2f",
		e.Required, e.Price, e.Count, e.Total)
}

// Ledger tracks cash and shares for a single position.
// Remaining funds and held stocks never go negative.
type Ledger struct {
	RemainingFunds float64
	HeldStocks     int
}

// Open makes the opening purchase of count shares at price out of total.
// It returns the amount spent.
func Open(total, price float64, count int) (*Ledger, float64, error) {
	required := price * float64(count)
	if total < required {
		return nil, required, &InsufficientFundsError{
			Required: required,
			Price:    price,
			Count:    count,
			Total:    total,
		}
	}
	return &Ledger{RemainingFunds: total - required, HeldStocks: count}, required, nil
}

// Buy purchases bet shares at price when affordable, otherwise as many whole
// shares as the remaining funds allow. partial reports the fallback. A zero
// price costs nothing, so the whole bet is bought; a negative price buys nothing.
func (l *Ledger) Buy(price float64, bet int) (bought int, partial bool) {
	if price < 0 || bet <= 0 || l.RemainingFunds <= 0 {
		return 0, false
	}
	cost := price * float64(bet)
	if l.RemainingFunds >= cost {
		bought = bet
	} else {
		bought = int(math.Floor(l.RemainingFunds / price))
		partial = true
	}
	if bought > 0 {
		l.RemainingFunds -= float64(bought) * price
		if l.RemainingFunds < 0 {
			l.RemainingFunds = 0
		}
		l.HeldStocks += bought
	}
	return bought, partial
}

// HasFunds reports whether there is cash left to bet with.
func (l *Ledger) HasFunds() bool {
	return l.RemainingFunds > 0
}

// MarketValue is the value of held shares at price.
func (l *Ledger) MarketValue(price float64) float64 {
	return float64(l.HeldStocks) * price
}

// TotalAsset is cash plus market value at price.
func (l *Ledger) TotalAsset(price float64) float64 {
	return l.RemainingFunds + l.MarketValue(price)
}
