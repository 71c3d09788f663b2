package recorder

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/model"
)

// ChartRecorder is a chart.Renderer that saves the run when it finishes.
type ChartRecorder struct {
	Recorder Recorder
	Meta     RunRecord

	buf chart.Buffer
}

// NewChartRecorder records into rec, stamping each run with meta and a fresh ID.
func NewChartRecorder(rec Recorder, meta RunRecord) *ChartRecorder {
	return &ChartRecorder{Recorder: rec, Meta: meta}
}

func (c *ChartRecorder) Begin(first model.Point) { c.buf.Begin(first) }
func (c *ChartRecorder) Append(step model.Step)  { c.buf.Append(step) }
func (c *ChartRecorder) Flush()                  {}
func (c *ChartRecorder) Clear()                  { c.buf.Clear() }

func (c *ChartRecorder) Finish(res *model.Result) {
	id, err := Save(c.Recorder, c.Meta, c.buf.Points(), res)
	if err != nil {
		log.Errorf("record run: %v", err)
		return
	}
	c.Meta.ID = id
}

// Save stores a finished run and its equity curve under a fresh ID.
func Save(rec Recorder, meta RunRecord, points []model.Point, res *model.Result) (string, error) {
	run := meta
	run.ID = uuid.NewString()
	run.Bars = len(points)
	run.FinalTotalAsset = res.FinalTotalAsset
	run.ProfitLoss = res.ProfitLoss
	run.MaxDrawdown = res.Summary.MaxDrawdown
	run.PeakBet = res.Summary.PeakBet
	run.TotalFunds = res.TotalFunds

	if err := rec.RecordRun(&run); err != nil {
		return "", err
	}
	if err := rec.RecordPoints(run.ID, points); err != nil {
		return "", fmt.Errorf("record equity points: %w", err)
	}
	log.Infof("run %s recorded (%d points)", run.ID, len(points))
	return run.ID, nil
}
