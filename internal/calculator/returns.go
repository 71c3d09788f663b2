package calculator

import (
	"errors"

	"github.com/montanaflynn/stats"

	"DoubleDown/internal/model"
)

// StepReturns converts an equity curve into step-over-step returns.
// Steps starting from a zero total are skipped.
func StepReturns(points []model.Point) []float64 {
	if len(points) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].TotalAsset
		if prev == 0 {
			continue
		}
		returns = append(returns, (points[i].TotalAsset-prev)/prev)
	}
	return returns
}

// ReturnStats returns the mean and standard deviation of the curve's step returns.
func ReturnStats(points []model.Point) (mean, stddev float64, err error) {
	returns := StepReturns(points)
	if len(returns) == 0 {
		return 0, 0, errors.New("not enough points for return statistics")
	}
	mean, err = stats.Mean(returns)
	if err != nil {
		return 0, 0, err
	}
	stddev, err = stats.StandardDeviation(returns)
	if err != nil {
		return 0, 0, err
	}
	return mean, stddev, nil
}
