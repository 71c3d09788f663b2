package simulator

import (
	"errors"
	"fmt"

	"DoubleDown/internal/calculator"
	"DoubleDown/internal/fund"
	"DoubleDown/internal/model"
	"DoubleDown/internal/strategy"
)

var (
	// ErrNoData is returned when a simulation is started without bars.
	ErrNoData = errors.New("no price data loaded")
	// ErrNotStarted is returned when stepping a simulator that was never started.
	ErrNotStarted = errors.New("simulation not started")
)

// Simulator steps a bar series through the double-on-loss rule.
// It is not safe for concurrent use; replay.Player serializes access.
type Simulator struct {
	bars    []model.Bar
	state   model.State
	ledger  *fund.Ledger
	points  []model.Point
	steps   []model.Step
	started bool
}

// New creates an idle Simulator.
func New() *Simulator {
	return &Simulator{}
}

// Start makes the opening purchase at the first bar's open and returns the
// first equity point. The next Step replays the second bar.
func (s *Simulator) Start(bars []model.Bar, params model.Params) (model.Point, error) {
	if len(bars) == 0 {
		return model.Point{}, ErrNoData
	}
	if params.InitialStockCount <= 0 {
		return model.Point{}, fmt.Errorf("initial stock count must be positive, got %d", params.InitialStockCount)
	}

	s.Reset()
	s.bars = bars

	first := bars[0]
	// The opening buy always uses the open, whatever the strategy.
	initialPrice := float64(first.Open)
	ledger, required, err := fund.Open(params.TotalFunds, initialPrice, params.InitialStockCount)
	if err != nil {
		s.bars = nil
		return model.Point{}, err
	}
	s.ledger = ledger

	s.state = model.State{
		TotalFunds:        params.TotalFunds,
		InitialFundsCalc:  required,
		RemainingFunds:    ledger.RemainingFunds,
		HeldStocks:        ledger.HeldStocks,
		InitialStockCount: params.InitialStockCount,
		CurrentStockCount: params.InitialStockCount,
		CurrentIndex:      1,
		Strategy:          model.ParsePriceField(string(params.Strategy)),
	}

	pt := model.Point{
		Date:        first.Date,
		MarketValue: ledger.MarketValue(initialPrice),
		TotalAsset:  ledger.TotalAsset(initialPrice),
	}
	s.points = append(s.points, pt)
	s.started = true
	return pt, nil
}

// Step replays the bar at the current index. done is true once the series is
// exhausted, in which case the returned step is empty and Finish should follow.
func (s *Simulator) Step() (step model.Step, done bool, err error) {
	if !s.started {
		return model.Step{}, false, ErrNotStarted
	}
	i := s.state.CurrentIndex
	if i >= len(s.bars) {
		return model.Step{}, true, nil
	}

	bar := s.bars[i]
	price := strategy.PriceOf(bar, s.state.Strategy)
	prev := strategy.PriceOf(s.bars[i-1], s.state.Strategy)
	win := strategy.IsWin(price, prev)

	step = model.Step{
		Index:     i,
		Date:      bar.Date,
		Price:     price,
		PrevPrice: prev,
		Win:       win,
		BetSize:   s.state.CurrentStockCount,
	}

	// Bet sizing only moves while there is cash to bet with.
	if s.ledger.HasFunds() {
		bet := strategy.NextBet(win, s.state.CurrentStockCount, s.state.InitialStockCount)
		step.BetSize = bet
		step.Doubled = !win
		s.state.CurrentStockCount = bet

		bought, partial := s.ledger.Buy(price, bet)
		if partial {
			s.state.CurrentStockCount = s.state.InitialStockCount
		}
		step.Bought = bought
		step.Partial = partial
	}

	s.state.RemainingFunds = s.ledger.RemainingFunds
	s.state.HeldStocks = s.ledger.HeldStocks

	step.RemainingFunds = s.ledger.RemainingFunds
	step.HeldStocks = s.ledger.HeldStocks
	step.MarketValue = s.ledger.MarketValue(price)
	step.TotalAsset = s.ledger.TotalAsset(price)

	s.state.History = append(s.state.History, step.TotalAsset)
	s.points = append(s.points, step.Point())
	s.steps = append(s.steps, step)
	s.state.CurrentIndex++
	return step, false, nil
}

// Finish values the position at the last bar and computes the summary.
func (s *Simulator) Finish() (*model.Result, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	last := s.bars[len(s.bars)-1]
	lastPrice := strategy.PriceOf(last, s.state.Strategy)
	finalStockValue := s.ledger.MarketValue(lastPrice)
	finalTotal := finalStockValue + s.ledger.RemainingFunds
	profitLoss := finalTotal - s.state.TotalFunds

	return &model.Result{
		LastPrice:       lastPrice,
		FinalStockValue: finalStockValue,
		FinalTotalAsset: finalTotal,
		RemainingFunds:  s.ledger.RemainingFunds,
		HeldStocks:      s.ledger.HeldStocks,
		TotalFunds:      s.state.TotalFunds,
		ProfitLoss:      profitLoss,
		IsProfit:        profitLoss >= 0,
		Summary:         calculator.Summarize(s.points, s.steps),
	}, nil
}

// Reset drops the loaded series and all accumulated state.
func (s *Simulator) Reset() {
	s.bars = nil
	s.state = model.State{}
	s.ledger = nil
	s.points = nil
	s.steps = nil
	s.started = false
}

// Started reports whether Start succeeded since the last Reset.
func (s *Simulator) Started() bool { return s.started }

// Len is the number of bars loaded.
func (s *Simulator) Len() int { return len(s.bars) }

// State returns a copy of the current state.
func (s *Simulator) State() model.State {
	st := s.state
	st.History = append([]float64(nil), s.state.History...)
	return st
}

// Points returns a copy of the equity curve so far, opening point included.
func (s *Simulator) Points() []model.Point {
	return append([]model.Point(nil), s.points...)
}

// Steps returns a copy of the replayed steps so far.
func (s *Simulator) Steps() []model.Step {
	return append([]model.Step(nil), s.steps...)
}
