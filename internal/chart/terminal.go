package chart

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"DoubleDown/internal/model"
)

const (
	sparkWidth = 60
	plotWidth  = 72
	plotHeight = 12
)

// Terminal draws the replay to a writer: one line per step, a sparkline on
// every flush and a full plot when the run finishes.
type Terminal struct {
	Out     io.Writer
	Verbose bool

	buf Buffer
}

// NewTerminal creates a terminal renderer.
func NewTerminal(out io.Writer, verbose bool) *Terminal {
	return &Terminal{Out: out, Verbose: verbose}
}

func (t *Terminal) Begin(first model.Point) {
	t.buf.Begin(first)
	p := message.NewPrinter(language.English)
	fmt.Fprintln(t.Out, p.Sprintf("%s  opening  market value %.2f  total asset %.2f",
		first.Date, first.MarketValue, first.TotalAsset))
}

func (t *Terminal) Append(step model.Step) {
	t.buf.Append(step)
	if !t.Verbose {
		return
	}
	p := message.NewPrinter(language.English)
	outcome := "loss"
	if step.Win {
		outcome = "win "
	}
	fmt.Fprintln(t.Out, p.Sprintf("%s  %s  price %.2f  bet %d  bought %d  held %d  cash %.2f  total %.2f",
		step.Date, outcome, step.Price, step.BetSize, step.Bought, step.HeldStocks, step.RemainingFunds, step.TotalAsset))
}

func (t *Terminal) Flush() {
	t.buf.Flush()
	if len(t.buf.TotalAsset) == 0 {
		return
	}
	last := t.buf.TotalAsset[len(t.buf.TotalAsset)-1]
	fmt.Fprintf(t.Out, "%s %.2f\n", Sparkline(t.buf.TotalAsset, sparkWidth), last)
}

func (t *Terminal) Finish(res *model.Result) {
	t.buf.Finish(res)
	fmt.Fprintln(t.Out)
	fmt.Fprintln(t.Out, LabelTotalAsset)
	for _, line := range Plot(t.buf.TotalAsset, plotWidth, plotHeight) {
		fmt.Fprintln(t.Out, line)
	}
	if len(t.buf.Labels) > 0 {
		fmt.Fprintf(t.Out, "%s .. %s\n", t.buf.Labels[0], t.buf.Labels[len(t.buf.Labels)-1])
	}
}

func (t *Terminal) Clear() { t.buf.Clear() }

func formatAxis(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
