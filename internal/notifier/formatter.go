package notifier

import (
	"fmt"
	"math"
	"strings"

	"DoubleDown/internal/model"
)

// FormatResult formats the final profit or loss line.
func FormatResult(res *model.Result) string {
	if res.IsProfit {
		return fmt.Sprintf("Profit %.2f (final stock value: %.2f)", res.ProfitLoss, res.FinalStockValue)
	}
	return fmt.Sprintf("Loss %.2f (final stock value: %.2f)", math.Abs(res.ProfitLoss), res.FinalStockValue)
}

// FormatSummary formats the run statistics as a multi-line report.
func FormatSummary(res *model.Result) string {
	var b strings.Builder
	s := res.Summary
	b.WriteString(FormatResult(res) + "\n")
	b.WriteString(fmt.Sprintf("Final total asset: %.2f (cash %.2f, %d shares @ %.2f)\n",
		res.FinalTotalAsset, res.RemainingFunds, res.HeldStocks, res.LastPrice))
	b.WriteString(fmt.Sprintf("Steps: %d | doubled bets: %d | partial buys: %d\n", s.StepsSimulated, s.Doublings, s.PartialBuys))
	b.WriteString(fmt.Sprintf("Peak bet: %d | longest losing streak: %d\n", s.PeakBet, s.LongestLosing))
	b.WriteString(fmt.Sprintf("Max drawdown: %.2f%% | mean step return: %+.4f%% (σ %.4f%%)",
		s.MaxDrawdown*100, s.MeanReturn*100, s.StdDevReturn*100))
	return b.String()
}

// InsufficientFunds builds the toast shown when the opening buy cannot be covered.
func InsufficientFunds(required, price float64, count int) Toast {
	msg := fmt.Sprintf("Need at least %.2f\nCurrent price: %.2f\nInitial shares: %d", required, price, count)
	return NewToast(LevelError, msg, "Insufficient total funds")
}

// FetchSucceeded builds the toast shown after a successful fetch.
func FetchSucceeded(days int) Toast {
	return NewToast(LevelSuccess, fmt.Sprintf("Fetched %d days of stock data", days), "")
}

// FetchFailed builds the toast shown when the data endpoint fails.
func FetchFailed(err error) Toast {
	return NewToast(LevelError, err.Error(), "Data fetch failed")
}

// Finished builds the toast shown when a replay completes.
func Finished(res *model.Result) Toast {
	level := LevelSuccess
	if !res.IsProfit {
		level = LevelWarning
	}
	return NewToast(level, FormatResult(res), "Simulation complete")
}
