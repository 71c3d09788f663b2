package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/collector"
)

type countingFlusher struct{ n atomic.Int32 }

func (c *countingFlusher) Flush() { c.n.Add(1) }

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(&countingFlusher{})
	require.NoError(t, s.RegisterAll("0 35 17 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, NewScheduler(nil).RegisterAll("not a spec"))
}

func TestCronFiresFlush(t *testing.T) {
	f := &countingFlusher{}
	s := NewScheduler(f)
	require.NoError(t, s.RegisterAll("* * * * * *"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return f.n.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
}

func TestFlushNow_CachedFetcher(t *testing.T) {
	mock := &collector.MockFetcher{Bars: collector.GenerateBars(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10, 3)}
	cached := collector.NewCachedFetcher(mock, time.Hour)
	_, err := cached.FetchDailyBars(testContext(t), "sh.600000", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, 1, cached.Len())

	NewScheduler(cached).FlushNow()
	assert.Equal(t, 0, cached.Len())
}

// testContext returns a context that is canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
