package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DoubleDown/internal/model"
)

// StockDataPath is the endpoint that serves OHLCV rows.
const StockDataPath = "/api/stock_data"

// Request is the body of a stock data query.
type Request struct {
	Code      string `json:"code" schema:"code"`
	StartDate string `json:"start_date" schema:"start_date"`
	EndDate   string `json:"end_date" schema:"end_date"`
}

// StockDataClient implements Fetcher against a remote stock data endpoint.
type StockDataClient struct {
	BaseURL string
	Client  *http.Client
}

// NewStockDataClient creates a client with optional proxy support.
func NewStockDataClient(baseURL, proxyURL string, timeout time.Duration) *StockDataClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StockDataClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *StockDataClient) Name() string { return "stock_data" }

type errorBody struct {
	Error string `json:"error"`
}

func (c *StockDataClient) FetchDailyBars(ctx context.Context, code, startDate, endDate string) ([]model.Bar, error) {
	payload, err := json.Marshal(Request{Code: code, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+StockDataPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stock data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stock data: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			return nil, errors.New(eb.Error)
		}
		return nil, errors.New("fetch failed")
	}

	var bars []model.Bar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("decode stock data: %w", err)
	}
	return bars, nil
}
