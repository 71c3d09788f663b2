package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTemp(t)

	run := &RunRecord{ID: "run-1", Code: "sh.600000", StartDate: "2024-01-01", EndDate: "2024-02-01",
		Strategy: model.PriceClose, TotalFunds: 100000, InitialStockCount: 100, ProfitLoss: -12.5}
	require.NoError(t, r.RecordRun(run))
	require.NoError(t, r.RecordPoints("run-1", []model.Point{
		{Date: "2024-01-02", TotalAsset: 100000, MarketValue: 1000},
		{Date: "2024-01-03", TotalAsset: 99987.5, MarketValue: 2987.5},
	}))

	runs, err := r.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "sh.600000", runs[0].Code)
	assert.Equal(t, model.PriceClose, runs[0].Strategy)
	assert.Equal(t, -12.5, runs[0].ProfitLoss)

	pts, err := r.Points("run-1")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "2024-01-03", pts[1].Date)
	assert.Equal(t, 2987.5, pts[1].MarketValue)
}

func TestChartRecorder(t *testing.T) {
	r := openTemp(t)
	cr := NewChartRecorder(r, RunRecord{Code: "sz.000001", Strategy: model.PriceAvg, InitialStockCount: 10})

	cr.Begin(model.Point{Date: "2024-01-02", TotalAsset: 1000})
	cr.Append(model.Step{Date: "2024-01-03", TotalAsset: 990})
	cr.Finish(&model.Result{FinalTotalAsset: 990, ProfitLoss: -10, TotalFunds: 1000,
		Summary: model.Summary{MaxDrawdown: 0.01, PeakBet: 20}})

	require.NotEmpty(t, cr.Meta.ID)
	runs, err := r.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, cr.Meta.ID, runs[0].ID)
	assert.Equal(t, 2, runs[0].Bars)
	assert.Equal(t, 20, runs[0].PeakBet)

	pts, err := r.Points(cr.Meta.ID)
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}
