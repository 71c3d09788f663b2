package chart

import "DoubleDown/internal/model"

// Dataset labels for the two curves.
const (
	LabelTotalAsset  = "total asset (market value + cash)"
	LabelMarketValue = "stock market value"
)

// Renderer receives the equity curve as a replay progresses.
// Append is called for every step; Flush only when the chart should redraw.
type Renderer interface {
	Begin(first model.Point)
	Append(step model.Step)
	Flush()
	Finish(res *model.Result)
	Clear()
}

// Multi fans every call out to several renderers in order.
type Multi []Renderer

func (m Multi) Begin(first model.Point) {
	for _, r := range m {
		r.Begin(first)
	}
}

func (m Multi) Append(step model.Step) {
	for _, r := range m {
		r.Append(step)
	}
}

func (m Multi) Flush() {
	for _, r := range m {
		r.Flush()
	}
}

func (m Multi) Finish(res *model.Result) {
	for _, r := range m {
		r.Finish(res)
	}
}

func (m Multi) Clear() {
	for _, r := range m {
		r.Clear()
	}
}

// Buffer keeps the curve in memory. It is the chart's data model without any drawing.
type Buffer struct {
	Labels      []string
	TotalAsset  []float64
	MarketValue []float64
	Flushes     int
	Result      *model.Result
}

func (b *Buffer) Begin(first model.Point) {
	b.Clear()
	b.push(first)
}

func (b *Buffer) Append(step model.Step) { b.push(step.Point()) }

func (b *Buffer) Flush() { b.Flushes++ }

func (b *Buffer) Finish(res *model.Result) { b.Result = res }

func (b *Buffer) Clear() {
	b.Labels = nil
	b.TotalAsset = nil
	b.MarketValue = nil
	b.Flushes = 0
	b.Result = nil
}

func (b *Buffer) push(p model.Point) {
	b.Labels = append(b.Labels, p.Date)
	b.TotalAsset = append(b.TotalAsset, p.TotalAsset)
	b.MarketValue = append(b.MarketValue, p.MarketValue)
}

// Points returns the buffered curve.
func (b *Buffer) Points() []model.Point {
	pts := make([]model.Point, len(b.Labels))
	for i := range b.Labels {
		pts[i] = model.Point{Date: b.Labels[i], TotalAsset: b.TotalAsset[i], MarketValue: b.MarketValue[i]}
	}
	return pts
}
