package simulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
)

func closes(first float64, rest ...float64) []model.Bar {
	bars := []model.Bar{{Date: "2024-01-01", Open: model.Number(first), Close: model.Number(first)}}
	for i, c := range rest {
		bars = append(bars, model.Bar{
			Date:  "2024-01-" + string(rune('2'+i)),
			Open:  model.Number(c),
			High:  model.Number(c + 1),
			Low:   model.Number(c - 1),
			Close: model.Number(c),
		})
	}
	return bars
}

func params(total float64, count int) model.Params {
	return model.Params{TotalFunds: total, InitialStockCount: count, Strategy: model.PriceClose}
}

func TestRun_DoublingSequence(t *testing.T) {
	bars := closes(10, 9, 8, 8, 12)
	rep, err := Run(bars, params(10000, 100))
	require.NoError(t, err)

	require.Len(t, rep.Points, 5)
	assert.Equal(t, 10000.0, rep.Points[0].TotalAsset)
	assert.Equal(t, 1000.0, rep.Points[0].MarketValue)

	require.Len(t, rep.Steps, 4)
	wantBets := []int{200, 400, 100, 100}
	wantHeld := []int{300, 700, 800, 900}
	wantTotal := []float64{9900, 9600, 9600, 12800}
	for i, s := range rep.Steps {
		assert.Equal(t, wantBets[i], s.BetSize, "bet at step %d", i)
		assert.Equal(t, wantHeld[i], s.HeldStocks, "held at step %d", i)
		assert.InDelta(t, wantTotal[i], s.TotalAsset, 1e-9, "total at step %d", i)
	}
	assert.False(t, rep.Steps[0].Win)
	assert.True(t, rep.Steps[2].Win, "flat price counts as a win")

	res := rep.Result
	assert.Equal(t, 12.0, res.LastPrice)
	assert.InDelta(t, 10800.0, res.FinalStockValue, 1e-9)
	assert.InDelta(t, 12800.0, res.FinalTotalAsset, 1e-9)
	assert.InDelta(t, 2800.0, res.ProfitLoss, 1e-9)
	assert.True(t, res.IsProfit)

	assert.Equal(t, 2, res.Summary.Doublings)
	assert.Equal(t, 2, res.Summary.LongestLosing)
	assert.Equal(t, 400, res.Summary.PeakBet)
	assert.Equal(t, []float64{9900, 9600, 9600, 12800}, rep.State.History)
}

func TestRun_PartialBuyResetsBet(t *testing.T) {
	rep, err := Run(closes(10, 9, 8), params(1500, 100))
	require.NoError(t, err)
	require.Len(t, rep.Steps, 2)

	first := rep.Steps[0]
	assert.True(t, first.Partial)
	assert.Equal(t, 55, first.Bought)
	assert.InDelta(t, 5.0, first.RemainingFunds, 1e-9)

	second := rep.Steps[1]
	assert.Equal(t, 200, second.BetSize, "bet doubles from the reset base")
	assert.Equal(t, 0, second.Bought)
	assert.Equal(t, 155, second.HeldStocks)
	assert.Equal(t, 100, rep.State.CurrentStockCount)
	assert.False(t, rep.Result.IsProfit)
}

func TestRun_NoFundsFreezesBet(t *testing.T) {
	// Exactly enough for the opening buy leaves nothing to bet.
	rep, err := Run(closes(10, 9, 8), params(1000, 100))
	require.NoError(t, err)
	for _, s := range rep.Steps {
		assert.Equal(t, 0, s.Bought)
		assert.Equal(t, 100, s.BetSize)
		assert.False(t, s.Doubled)
	}
	assert.InDelta(t, -200.0, rep.Result.ProfitLoss, 1e-9)
}

func TestRun_ZeroPriceBuysWholeBet(t *testing.T) {
	rep, err := Run(closes(10, 0), params(2000, 100))
	require.NoError(t, err)
	require.Len(t, rep.Steps, 1)
	step := rep.Steps[0]
	assert.False(t, step.Win)
	assert.Equal(t, 200, step.BetSize)
	assert.Equal(t, 200, step.Bought)
	assert.False(t, step.Partial)
	assert.Equal(t, 1000.0, step.RemainingFunds)
	assert.Equal(t, 300, step.HeldStocks)
	assert.Equal(t, 1000.0, step.TotalAsset)
}

func TestStart_Errors(t *testing.T) {
	sim := New()

	_, err := sim.Start(nil, params(1000, 100))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = sim.Start(closes(10), params(500, 100))
	var ife *fund.InsufficientFundsError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, 1000.0, ife.Required)
	assert.False(t, sim.Started())

	_, err = sim.Start(closes(10), params(500, 0))
	assert.Error(t, err)

	_, _, err = sim.Step()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestStart_UsesOpenRegardlessOfStrategy(t *testing.T) {
	bars := []model.Bar{
		{Date: "2024-01-01", Open: 10, High: 20, Low: 5, Close: 18},
		{Date: "2024-01-02", Open: 11, High: 21, Low: 6, Close: 19},
	}
	sim := New()
	pt, err := sim.Start(bars, model.Params{TotalFunds: 5000, InitialStockCount: 100, Strategy: model.PriceHigh})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, pt.MarketValue)
	assert.Equal(t, 1000.0, sim.State().InitialFundsCalc)
	assert.Equal(t, 1, sim.State().CurrentIndex)

	step, done, err := sim.Step()
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 21.0, step.Price)
	assert.Equal(t, 20.0, step.PrevPrice)

	_, done, err = sim.Step()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestReset(t *testing.T) {
	sim := New()
	_, err := sim.Start(closes(10, 11), params(5000, 10))
	require.NoError(t, err)
	_, _, err = sim.Step()
	require.NoError(t, err)

	sim.Reset()
	assert.False(t, sim.Started())
	assert.Zero(t, sim.Len())
	assert.Empty(t, sim.Points())
	assert.Empty(t, sim.State().History)
}
