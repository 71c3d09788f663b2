package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"DoubleDown/internal/model"
)

const dateLayout = "2006-01-02"

// YahooFetcher reads daily bars from the public Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a Yahoo fetcher, optionally behind a proxy.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// YahooSymbol maps exchange-prefixed codes such as sh.600000 and sz.000001
// to Yahoo tickers. Other codes pass through.
func YahooSymbol(code string) string {
	prefix, num, ok := strings.Cut(code, ".")
	if !ok {
		return code
	}
	switch strings.ToLower(prefix) {
	case "sh":
		return num + ".SS"
	case "sz":
		return num + ".SZ"
	case "bj":
		return num + ".BJ"
	default:
		return code
	}
}

// chartResponse is the subset of the v8 chart payload used here. Quote
// arrays hold nulls on non-trading days, which decode to 0.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []chartQuote `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartQuote struct {
	Open   []model.Number `json:"open"`
	High   []model.Number `json:"high"`
	Low    []model.Number `json:"low"`
	Close  []model.Number `json:"close"`
	Volume []model.Number `json:"volume"`
}

func (q chartQuote) bar(i int) (model.Bar, bool) {
	at := func(s []model.Number) model.Number {
		if i < len(s) {
			return s[i]
		}
		return 0
	}
	b := model.Bar{Open: at(q.Open), High: at(q.High), Low: at(q.Low), Close: at(q.Close), Volume: at(q.Volume)}
	return b, b.Open != 0 || b.High != 0 || b.Low != 0 || b.Close != 0
}

// chartURL builds the query for [startDate, endDate]; period2 is exclusive.
func (f *YahooFetcher) chartURL(code, startDate, endDate string) (string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return "", fmt.Errorf("parse end date: %w", err)
	}
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.AddDate(0, 0, 1).Unix()))
	return f.BaseURL + "/v8/finance/chart/" + url.PathEscape(YahooSymbol(code)) + "?" + q.Encode(), nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, code, startDate, endDate string) ([]model.Bar, error) {
	u, err := f.chartURL(code, startDate, endDate)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseChart(body, code, startDate, endDate)
}

func parseChart(body []byte, code, startDate, endDate string) ([]model.Bar, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := cr.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar, ok := quote.bar(i)
		if !ok {
			continue
		}
		bar.Date = time.Unix(ts, 0).UTC().Format(dateLayout)
		if bar.Date < startDate || bar.Date > endDate {
			continue
		}
		bar.Code = code
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}
