package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float that decodes from a JSON number or a numeric string.
// Empty or non-numeric strings decode to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// UnmarshalCSV applies the same lenient parsing to CSV cells.
func (n *Number) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Bar is one daily OHLCV record as served by the stock data endpoint.
type Bar struct {
	Date   string `json:"date" csv:"date"`
	Code   string `json:"code,omitempty" csv:"code"`
	Open   Number `json:"open" csv:"open"`
	High   Number `json:"high" csv:"high"`
	Low    Number `json:"low" csv:"low"`
	Close  Number `json:"close" csv:"close"`
	Volume Number `json:"volume" csv:"volume"`
	Amount Number `json:"amount,omitempty" csv:"amount"`
}

// PriceSeries holds a fetched bar series for one ticker.
type PriceSeries struct {
	Code      string
	StartDate string
	EndDate   string
	Bars      []Bar
}

// PriceField selects which bar price drives the simulation.
type PriceField string

const (
	PriceOpen  PriceField = "open"
	PriceHigh  PriceField = "high"
	PriceLow   PriceField = "low"
	PriceClose PriceField = "close"
	PriceAvg   PriceField = "avg" // (high+low)/2
)

// ParsePriceField maps a user value to a PriceField, falling back to close.
func ParsePriceField(s string) PriceField {
	switch f := PriceField(strings.ToLower(strings.TrimSpace(s))); f {
	case PriceOpen, PriceHigh, PriceLow, PriceClose, PriceAvg:
		return f
	default:
		return PriceClose
	}
}
