package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"DoubleDown/internal/model"
)

// CSVFetcher serves bars from a directory holding one <code>.csv per ticker,
// with a header row of date,code,open,high,low,close,volume,amount.
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher rooted at dir.
func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDailyBars(_ context.Context, code, startDate, endDate string) ([]model.Bar, error) {
	if code == "" || strings.ContainsAny(code, `/\`) || strings.Contains(code, "..") {
		return nil, fmt.Errorf("invalid code %q", code)
	}
	path := filepath.Join(f.Dir, code+".csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var rows []*model.Bar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		if r.Date < startDate || r.Date > endDate {
			continue
		}
		if r.Code == "" {
			r.Code = code
		}
		bars = append(bars, *r)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}
