package recorder

import (
	"time"

	"DoubleDown/internal/model"
)

// RunRecord describes one finished simulation.
type RunRecord struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	Strategy          model.PriceField `json:"strategy"`
	TotalFunds        float64          `json:"total_funds"`
	InitialStockCount int              `json:"initial_stock_count"`
	Bars              int              `json:"bars"`
	FinalTotalAsset   float64          `json:"final_total_asset"`
	ProfitLoss        float64          `json:"profit_loss"`
	MaxDrawdown       float64          `json:"max_drawdown"`
	PeakBet           int              `json:"peak_bet"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordPoints(runID string, points []model.Point) error
	ListRuns(limit int) ([]RunRecord, error)
	Points(runID string) ([]model.Point, error)
	Close() error
}
