package replay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/collector"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
	"DoubleDown/internal/notifier"
)

// safeBuffer guards a chart.Buffer so tests can read it while the player writes.
type safeBuffer struct {
	mu  sync.Mutex
	buf chart.Buffer
}

func (s *safeBuffer) Begin(p model.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Begin(p)
}

func (s *safeBuffer) Append(st model.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Append(st)
}

func (s *safeBuffer) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Flush()
}

func (s *safeBuffer) Finish(r *model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Finish(r)
}

func (s *safeBuffer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Clear()
}

func (s *safeBuffer) snapshot() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf.Labels), s.buf.Flushes
}

func series(n int) []model.Bar {
	return collector.GenerateBars(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10, n)
}

func testParams() model.Params {
	return model.Params{TotalFunds: 100000, InitialStockCount: 100, Strategy: model.PriceClose, Interval: time.Millisecond}
}

func TestPlayer_RunsToCompletion(t *testing.T) {
	buf := &safeBuffer{}
	p := NewPlayer(buf)

	var finished *model.Result
	p.OnFinish(func(r *model.Result) { finished = r })

	require.NoError(t, p.Start(context.Background(), series(12), testParams()))
	assert.True(t, p.Running())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := p.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Same(t, res, finished)

	assert.False(t, p.Running())
	assert.Equal(t, model.StatusDone, p.Status())

	points, flushes := buf.snapshot()
	assert.Equal(t, 12, points)
	// steps 5 and 10 redraw, then the final flush
	assert.Equal(t, 3, flushes)
	assert.Len(t, p.State().History, 11)
}

func TestPlayer_StartWhileRunning(t *testing.T) {
	p := NewPlayer(&safeBuffer{})
	params := testParams()
	params.Interval = time.Hour

	require.NoError(t, p.Start(context.Background(), series(5), params))
	assert.ErrorIs(t, p.Start(context.Background(), series(5), params), ErrAlreadyRunning)
	p.Stop()
}

func TestPlayer_RestartIgnoresPreviousTimer(t *testing.T) {
	p := NewPlayer(&safeBuffer{})
	fast := testParams()
	fast.Interval = 50 * time.Microsecond
	slow := testParams()
	slow.Interval = time.Hour
	bars := series(200)

	advanced := 0
	for i := 0; i < 300; i++ {
		require.NoError(t, p.Start(context.Background(), bars, fast))
		time.Sleep(20 * time.Microsecond)
		p.Stop()
		require.NoError(t, p.Start(context.Background(), bars, slow))
		time.Sleep(200 * time.Microsecond)
		if p.State().CurrentIndex != 1 {
			advanced++
		}
		p.Stop()
	}
	assert.Zero(t, advanced, "restarted runs stepped by an earlier timer")
}

func TestPlayer_StopAndReset(t *testing.T) {
	buf := &safeBuffer{}
	p := NewPlayer(buf)
	params := testParams()
	params.Interval = time.Hour

	require.NoError(t, p.Start(context.Background(), series(5), params))
	p.Stop()
	assert.False(t, p.Running())

	_, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrStopped)

	p.Reset()
	n, _ := buf.snapshot()
	assert.Zero(t, n)
	assert.Equal(t, model.StatusReady, p.Status())
	assert.Empty(t, p.Points())
}

func TestPlayer_ContextCancel(t *testing.T) {
	p := NewPlayer(&safeBuffer{})
	params := testParams()
	params.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx, series(5), params))
	cancel()

	require.Eventually(t, func() bool { return !p.Running() }, time.Second, 5*time.Millisecond)
}

func TestPlayer_StartErrorLeavesNoTimer(t *testing.T) {
	p := NewPlayer(&safeBuffer{})
	params := testParams()
	params.TotalFunds = 1

	err := p.Start(context.Background(), series(5), params)
	var ife *fund.InsufficientFundsError
	require.True(t, errors.As(err, &ife))
	assert.False(t, p.Running())
}

type recordingView struct{ shown [][]model.Bar }

func (v *recordingView) ShowBars(b []model.Bar) { v.shown = append(v.shown, b) }

func TestSession(t *testing.T) {
	mock := &collector.MockFetcher{Bars: series(8)}
	toasts := &notifier.Memory{}
	view := &recordingView{}
	s := NewSession(collector.NewCollector(mock, 0), NewPlayer(&safeBuffer{}), toasts, view)
	req := collector.Request{Code: "sh.600000", StartDate: "2024-01-01", EndDate: "2024-01-08"}

	t.Run("start fetches when nothing is loaded", func(t *testing.T) {
		require.NoError(t, s.Start(context.Background(), req, testParams()))
		_, err := s.Player.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, mock.Calls())
		assert.Equal(t, model.StatusDone, s.Status())
		require.NotEmpty(t, toasts.Toasts())
		assert.Equal(t, notifier.LevelSuccess, toasts.Toasts()[0].Level)
		assert.Len(t, view.shown[0], 8)
	})

	t.Run("loaded data is reused", func(t *testing.T) {
		require.NoError(t, s.Start(context.Background(), req, testParams()))
		_, err := s.Player.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, mock.Calls())
	})

	t.Run("insufficient funds toast", func(t *testing.T) {
		params := testParams()
		params.TotalFunds = 10
		err := s.Start(context.Background(), req, params)
		require.Error(t, err)
		last := toasts.Toasts()[len(toasts.Toasts())-1]
		assert.Equal(t, "Insufficient total funds", last.Title)
	})

	t.Run("reset clears data and a failed fetch toasts", func(t *testing.T) {
		s.Reset()
		assert.Empty(t, s.Collector.Bars())
		assert.Nil(t, view.shown[len(view.shown)-1])

		mock.Err = errors.New("endpoint down")
		require.NoError(t, s.Start(context.Background(), req, testParams()))
		assert.False(t, s.Player.Running())
		assert.Equal(t, model.StatusFetchFailed, s.Status())
		last := toasts.Toasts()[len(toasts.Toasts())-1]
		assert.Equal(t, "Data fetch failed", last.Title)
	})

	t.Run("validation warning", func(t *testing.T) {
		ok := s.Fetch(context.Background(), collector.Request{Code: "sh.600000"})
		assert.False(t, ok)
		last := toasts.Toasts()[len(toasts.Toasts())-1]
		assert.Equal(t, notifier.LevelWarning, last.Level)
	})
}
