package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"DoubleDown/internal/model"
)

// WriteSteps writes replayed steps as CSV.
func WriteSteps(w io.Writer, steps []model.Step) error {
	if err := gocsv.Marshal(&steps, w); err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	return nil
}

// WritePoints writes the equity curve as CSV.
func WritePoints(w io.Writer, points []model.Point) error {
	if err := gocsv.Marshal(&points, w); err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}
	return nil
}

// WriteBars writes bars as CSV in the layout collector.CSVFetcher reads.
func WriteBars(w io.Writer, bars []model.Bar) error {
	rows := make([]barRow, len(bars))
	for i, b := range bars {
		rows[i] = barRow{
			Date:   b.Date,
			Code:   b.Code,
			Open:   float64(b.Open),
			High:   float64(b.High),
			Low:    float64(b.Low),
			Close:  float64(b.Close),
			Volume: float64(b.Volume),
			Amount: float64(b.Amount),
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal bars: %w", err)
	}
	return nil
}

type barRow struct {
	Date   string  `csv:"date"`
	Code   string  `csv:"code"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
	Amount float64 `csv:"amount"`
}

// ToFile creates path and hands it to write.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
