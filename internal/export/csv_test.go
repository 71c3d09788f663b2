package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/model"
)

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, []model.Point{{Date: "2024-01-02", TotalAsset: 100, MarketValue: 10}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,total_asset,market_value", lines[0])
	assert.Equal(t, "2024-01-02,100,10", lines[1])
}

func TestWriteSteps(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSteps(&buf, []model.Step{{Index: 1, Date: "2024-01-03", Win: true, BetSize: 100}}))
	assert.True(t, strings.HasPrefix(buf.String(), "index,date,price,prev_price,win,bet_size,doubled"))
	assert.Contains(t, buf.String(), "1,2024-01-03,")
}

func TestWriteBars_ReadableByCSVFetcher(t *testing.T) {
	dir := t.TempDir()
	bars := []model.Bar{
		{Date: "2024-01-02", Code: "sh.600000", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1000},
		{Date: "2024-01-03", Code: "sh.600000", Open: 10.5, High: 11.2, Low: 10.1, Close: 11, Volume: 1200},
	}
	path := filepath.Join(dir, "sh.600000.csv")
	require.NoError(t, ToFile(path, func(w io.Writer) error { return WriteBars(w, bars) }))

	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := collector.NewCSVFetcher(dir).FetchDailyBars(context.Background(), "sh.600000", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}
