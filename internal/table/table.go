package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"DoubleDown/internal/model"
)

// NoData is shown in place of an empty table.
const NoData = "no data"

// Caption returns the record count line shown above the table.
func Caption(bars []model.Bar) string {
	if len(bars) == 0 {
		return NoData
	}
	return fmt.Sprintf("%d records", len(bars))
}

// Rows formats bars as date/open/high/low/close/volume cells.
func Rows(bars []model.Bar) [][]string {
	p := message.NewPrinter(language.English)
	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		volume := "-"
		if b.Volume != 0 {
			volume = p.Sprintf("%.0f", float64(b.Volume))
		}
		rows = append(rows, []string{
			b.Date,
			fmt.Sprintf("%.2f", float64(b.Open)),
			fmt.Sprintf("%.2f", float64(b.High)),
			fmt.Sprintf("%.2f", float64(b.Low)),
			fmt.Sprintf("%.2f", float64(b.Close)),
			volume,
		})
	}
	return rows
}

// Render writes the bar table to w.
func Render(w io.Writer, bars []model.Bar) {
	fmt.Fprintln(w, Caption(bars))
	if len(bars) == 0 {
		return
	}
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume"})
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	t.AppendBulk(Rows(bars))
	t.Render()
}

// String renders the bar table to a string.
func String(bars []model.Bar) string {
	var b strings.Builder
	Render(&b, bars)
	return b.String()
}

// Writer is a replay.DataView that renders every fetched series to Out.
type Writer struct {
	Out io.Writer
}

func (w Writer) ShowBars(bars []model.Bar) { Render(w.Out, bars) }
