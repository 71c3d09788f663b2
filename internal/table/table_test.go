package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"DoubleDown/internal/model"
)

func TestRows(t *testing.T) {
	rows := Rows([]model.Bar{
		{Date: "2024-01-02", Open: 10, High: 10.456, Low: 9.9, Close: 10.3, Volume: 1234567},
		{Date: "2024-01-03", Open: 10.3, High: 10.5, Low: 10.1, Close: 10.4},
	})
	assert.Equal(t, []string{"2024-01-02", "10.00", "10.46", "9.90", "10.30", "1,234,567"}, rows[0])
	assert.Equal(t, "-", rows[1][5])
}

func TestCaption(t *testing.T) {
	assert.Equal(t, NoData, Caption(nil))
	assert.Equal(t, "2 records", Caption(make([]model.Bar, 2)))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	Writer{Out: &buf}.ShowBars([]model.Bar{{Date: "2024-01-02", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}})
	out := buf.String()
	assert.Contains(t, out, "1 records")
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2024-01-02")

	buf.Reset()
	Writer{Out: &buf}.ShowBars(nil)
	assert.Equal(t, NoData+"\n", buf.String())
}
