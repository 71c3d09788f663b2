package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/config"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
)

const barsCSV = `date,code,open,high,low,close,volume,amount
2024-01-02,sh.600000,10,10,10,10,1000,
2024-01-03,sh.600000,9,9,9,9,1000,
2024-01-04,sh.600000,8,8,8,8,,
2024-01-05,sh.600000,8,8,8,8,1000,
2024-01-08,sh.600000,12,12,12,12,1000,
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sh.600000.csv"), []byte(barsCSV), 0644))

	cfg, err := config.Load("none.yaml")
	require.NoError(t, err)
	cfg.DataSource.Provider = "csv"
	cfg.DataSource.CSVDir = dir
	cfg.Database.SQLitePath = filepath.Join(dir, "runs.db")
	require.NoError(t, cfg.Validate())
	return cfg
}

func runArgs() RunArgs {
	return RunArgs{
		FetchArgs: FetchArgs{Request: collector.Request{Code: "sh.600000", StartDate: "2024-01-01", EndDate: "2024-01-31"}},
		Params: model.Params{
			TotalFunds:        10000,
			InitialStockCount: 100,
			Strategy:          model.PriceClose,
			Interval:          time.Millisecond,
		},
	}
}

func TestRunReplay(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Dir(cfg.Database.SQLitePath)

	a := runArgs()
	a.ShowTable = true
	a.Record = true
	a.StepsCSV = filepath.Join(dir, "steps.csv")
	a.PointsCSV = filepath.Join(dir, "points.csv")
	a.StateOut = filepath.Join(dir, "state.json")

	var out bytes.Buffer
	res, err := runReplay(context.Background(), cfg, a, &out)
	require.NoError(t, err)
	assert.InDelta(t, 2800, res.ProfitLoss, 1e-9)
	assert.Contains(t, out.String(), "5 records")
	assert.Contains(t, out.String(), "Profit 2800.00")

	f, err := os.Open(a.PointsCSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	snap, err := fund.LoadSnapshot(a.StateOut)
	require.NoError(t, err)
	assert.Equal(t, "sh.600000", snap.Code)
	assert.Equal(t, 100, snap.State.CurrentStockCount)
	assert.Equal(t, 900, snap.State.HeldStocks)
	assert.Len(t, snap.State.History, 4)

	var stateOut bytes.Buffer
	printSnapshot(&stateOut, snap)
	assert.Contains(t, stateOut.String(), "Remaining funds")
	assert.Contains(t, stateOut.String(), "Profit 2800.00")
}

func TestRunReplay_Errors(t *testing.T) {
	cfg := testConfig(t)

	a := runArgs()
	a.Params.TotalFunds = 10
	_, err := runReplay(context.Background(), cfg, a, &bytes.Buffer{})
	var ife *fund.InsufficientFundsError
	assert.ErrorAs(t, err, &ife)

	a = runArgs()
	a.Request.Code = "sz.000001"
	_, err = runReplay(context.Background(), cfg, a, &bytes.Buffer{})
	assert.EqualError(t, err, "no data loaded")
}

func TestRunFetch(t *testing.T) {
	cfg := testConfig(t)
	a := FetchArgs{
		Request: collector.Request{Code: "sh.600000", StartDate: "2024-01-03", EndDate: "2024-01-04"},
		Out:     filepath.Join(t.TempDir(), "bars.csv"),
	}

	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), cfg, a, &out))
	assert.Contains(t, out.String(), "2 records")
	assert.Contains(t, out.String(), "9.00")

	data, err := os.ReadFile(a.Out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-04")

	a.Request.StartDate = "2024/01/03"
	assert.Error(t, runFetch(context.Background(), cfg, a, &out))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
