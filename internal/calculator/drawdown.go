package calculator

import (
	"errors"

	"github.com/montanaflynn/stats"

	"DoubleDown/internal/model"
)

// MaxDrawdown returns the largest peak-to-trough decline of the total asset,
// as a fraction of the peak (0.0 ~ 1.0).
func MaxDrawdown(points []model.Point) (float64, error) {
	if len(points) == 0 {
		return 0, errors.New("no points provided")
	}
	peak := points[0].TotalAsset
	var maxDD float64
	for _, p := range points[1:] {
		if p.TotalAsset > peak {
			peak = p.TotalAsset
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p.TotalAsset) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD, nil
}

// BetStats scans replayed steps for bet sizing behaviour.
func BetStats(steps []model.Step) (peakBet, doublings, longestLosing, partials int) {
	var streak int
	bets := make(stats.Float64Data, 0, len(steps))
	for _, s := range steps {
		bets = append(bets, float64(s.BetSize))
		if s.Doubled {
			doublings++
		}
		if s.Win {
			streak = 0
		} else {
			streak++
			if streak > longestLosing {
				longestLosing = streak
			}
		}
		if s.Partial {
			partials++
		}
	}
	if m, err := bets.Max(); err == nil {
		peakBet = int(m)
	}
	return peakBet, doublings, longestLosing, partials
}

// Summarize builds the run summary from the curve and steps.
func Summarize(points []model.Point, steps []model.Step) model.Summary {
	var sum model.Summary
	if mean, sd, err := ReturnStats(points); err == nil {
		sum.MeanReturn = mean
		sum.StdDevReturn = sd
	}
	if dd, err := MaxDrawdown(points); err == nil {
		sum.MaxDrawdown = dd
	}
	sum.PeakBet, sum.Doublings, sum.LongestLosing, sum.PartialBuys = BetStats(steps)
	sum.StepsSimulated = len(steps)
	return sum
}
