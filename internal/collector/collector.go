package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/model"
	"DoubleDown/internal/notifier"
)

// DefaultDebounce is the minimum gap between two fetches from one collector.
const DefaultDebounce = 3 * time.Second

// ErrNoData is returned when a well-formed query matches no bars.
var ErrNoData = errors.New("No data found for the given parameters")

// ValidationError is a user-facing rejection of a fetch request.
type ValidationError struct {
	Level   notifier.Level
	Title   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Toast converts the error into a notification.
func (e *ValidationError) Toast() notifier.Toast {
	return notifier.NewToast(e.Level, e.Message, e.Title)
}

func warn(title, msg string) *ValidationError {
	return &ValidationError{Level: notifier.LevelWarning, Title: title, Message: msg}
}

// Validate checks a fetch request before it goes to the network.
func Validate(req Request) error {
	switch {
	case req.Code == "":
		return warn("Input validation", "Please enter a stock code")
	case req.StartDate == "":
		return warn("Input validation", "Please enter a start date (format: YYYY-MM-DD)")
	case req.EndDate == "":
		return warn("Input validation", "Please enter an end date (format: YYYY-MM-DD)")
	case !dateRe.MatchString(req.StartDate):
		return &ValidationError{Level: notifier.LevelError, Title: "Format error",
			Message: "Start date format is invalid, use YYYY-MM-DD"}
	case !dateRe.MatchString(req.EndDate):
		return &ValidationError{Level: notifier.LevelError, Title: "Format error",
			Message: "End date format is invalid, use YYYY-MM-DD"}
	}
	return nil
}

// Collector validates and debounces fetches and holds the last loaded series.
type Collector struct {
	Fetcher Fetcher

	mu       sync.Mutex
	debounce *cache.Cache
	window   time.Duration
	series   *model.PriceSeries
}

// NewCollector creates a new Collector. A non-positive window disables debouncing.
func NewCollector(fetcher Fetcher, window time.Duration) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		debounce: cache.New(window, time.Minute),
		window:   window,
	}
}

// Fetch validates req, applies the debounce window and loads the series.
// On a fetch failure the previously loaded series is cleared.
func (c *Collector) Fetch(ctx context.Context, req Request) ([]model.Bar, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)

	if err := Validate(req); err != nil {
		return nil, err
	}
	if c.window > 0 {
		if err := c.debounce.Add("fetch", struct{}{}, c.window); err != nil {
			return nil, warn("Too fast", fmt.Sprintf("Please wait %s before fetching again", c.window))
		}
	}

	log.Infof("fetching %s %s..%s from %s", req.Code, req.StartDate, req.EndDate, c.Fetcher.Name())
	bars, err := c.Fetcher.FetchDailyBars(ctx, req.Code, req.StartDate, req.EndDate)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && len(bars) == 0 {
		err = ErrNoData
	}
	if err != nil {
		c.series = nil
		return nil, err
	}
	c.series = &model.PriceSeries{Code: req.Code, StartDate: req.StartDate, EndDate: req.EndDate, Bars: bars}
	return bars, nil
}

// Bars returns the last loaded series, or nil.
func (c *Collector) Bars() []model.Bar {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.series == nil {
		return nil
	}
	return c.series.Bars
}

// Clear drops the loaded series.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = nil
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.Bar
	Err  error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _, _, _ string) ([]model.Bar, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}

// Calls returns how many times FetchDailyBars ran.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// GenerateBars builds count consecutive daily bars around basePrice.
func GenerateBars(start time.Time, basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i).Format(dateLayout),
			Open:   model.Number(p * 0.999),
			High:   model.Number(p * 1.005),
			Low:    model.Number(p * 0.995),
			Close:  model.Number(p),
			Volume: 1000000,
		}
	}
	return bars
}
