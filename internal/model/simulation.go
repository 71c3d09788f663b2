package model

import "time"

// DefaultInterval is the replay cadence used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Params configures one simulation run.
type Params struct {
	TotalFunds        float64
	InitialStockCount int
	Strategy          PriceField
	Interval          time.Duration
}

// State is the mutable simulation record.
type State struct {
	TotalFunds        float64    `json:"total_funds"`
	InitialFundsCalc  float64    `json:"initial_funds_calc"`
	RemainingFunds    float64    `json:"remaining_funds"`
	HeldStocks        int        `json:"held_stocks"`
	InitialStockCount int        `json:"initial_stock_count"`
	CurrentStockCount int        `json:"current_stock_count"`
	CurrentIndex      int        `json:"current_index"`
	Strategy          PriceField `json:"strategy"`
	History           []float64  `json:"history"`
}

// Point is one sample of the equity curve.
type Point struct {
	Date        string  `json:"date" csv:"date"`
	TotalAsset  float64 `json:"total_asset" csv:"total_asset"`
	MarketValue float64 `json:"market_value" csv:"market_value"`
}

// Step records what happened on one replayed day.
type Step struct {
	Index          int     `json:"index" csv:"index"`
	Date           string  `json:"date" csv:"date"`
	Price          float64 `json:"price" csv:"price"`
	PrevPrice      float64 `json:"prev_price" csv:"prev_price"`
	Win            bool    `json:"win" csv:"win"`
	BetSize        int     `json:"bet_size" csv:"bet_size"`
	Doubled        bool    `json:"doubled" csv:"doubled"`
	Bought         int     `json:"bought" csv:"bought"`
	Partial        bool    `json:"partial" csv:"partial"`
	RemainingFunds float64 `json:"remaining_funds" csv:"remaining_funds"`
	HeldStocks     int     `json:"held_stocks" csv:"held_stocks"`
	MarketValue    float64 `json:"market_value" csv:"market_value"`
	TotalAsset     float64 `json:"total_asset" csv:"total_asset"`
}

// Point returns the chart sample for this step.
func (s Step) Point() Point {
	return Point{Date: s.Date, TotalAsset: s.TotalAsset, MarketValue: s.MarketValue}
}

// Summary holds curve statistics computed after a run.
type Summary struct {
	MeanReturn     float64 `json:"mean_return"`
	StdDevReturn   float64 `json:"stddev_return"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	PeakBet        int     `json:"peak_bet"`
	Doublings      int     `json:"doublings"`
	LongestLosing  int     `json:"longest_losing_streak"`
	PartialBuys    int     `json:"partial_buys"`
	StepsSimulated int     `json:"steps_simulated"`
}

// Result is the outcome of a finished simulation.
type Result struct {
	LastPrice       float64 `json:"last_price"`
	FinalStockValue float64 `json:"final_stock_value"`
	FinalTotalAsset float64 `json:"final_total_asset"`
	RemainingFunds  float64 `json:"remaining_funds"`
	HeldStocks      int     `json:"held_stocks"`
	TotalFunds      float64 `json:"total_funds"`
	ProfitLoss      float64 `json:"profit_loss"`
	IsProfit        bool    `json:"is_profit"`
	Summary         Summary `json:"summary"`
}

// Status describes where a replay is in its lifecycle.
type Status string

const (
	StatusReady       Status = "ready"
	StatusFetching    Status = "fetching"
	StatusFetched     Status = "fetched"
	StatusFetchFailed Status = "fetch failed"
	StatusRunning     Status = "running"
	StatusDone        Status = "done"
)
