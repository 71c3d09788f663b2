package collector

import (
	"context"

	"DoubleDown/internal/model"
)

// Fetcher defines the interface for fetching daily bars over a date range.
// Dates are YYYY-MM-DD and both ends are inclusive.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, code, startDate, endDate string) ([]model.Bar, error)
	Name() string
}
