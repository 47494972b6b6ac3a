// Package yahoo implements the HistoryProvider against the Yahoo Finance
// v8 chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"RiskBarometer/internal/domain/models"
	drepo "RiskBarometer/internal/domain/repository"
	xhttp "RiskBarometer/pkg/http"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches chart data over HTTPS with a bounded per-request timeout.
type Client struct {
	baseURL   string
	userAgent string
	http      *xhttp.Client
}

// New creates a chart API client. baseURL is the provider root, e.g.
// https://query1.finance.yahoo.com.
func New(baseURL, userAgent string, timeout time.Duration) drepo.HistoryProvider {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type chartQuote struct {
	Close  []*float64 `json:"close"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Volume []*int64   `json:"volume"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice  float64 `json:"regularMarketPrice"`
		ChartPreviousClose  float64 `json:"chartPreviousClose"`
		PreviousClose       float64 `json:"previousClose"`
		RegularMarketVolume int64   `json:"regularMarketVolume"`
		MarketState         string  `json:"marketState"`
		Currency            string  `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetChart fetches and normalizes price history for one symbol. Bars with a
// null close are dropped; duplicate or out-of-order timestamps are skipped so
// the returned series is strictly ascending. All failures map to
// ErrProviderUnavailable so callers can apply the degrade policy.
func (c *Client) GetChart(ctx context.Context, symbol, rng, interval string) (*models.PriceSeries, *models.ChartMeta, error) {
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"range":    {rng},
			"interval": {interval},
		},
	}, &resp)
	if err != nil {
		return nil, nil, fmt.Errorf("chart %s: %w: %w", symbol, models.ErrProviderUnavailable, err)
	}

	if resp.Chart.Error != nil {
		return nil, nil, fmt.Errorf("chart %s: %w: %s", symbol, models.ErrProviderUnavailable, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("chart %s: %w: empty result", symbol, models.ErrProviderUnavailable)
	}

	result := resp.Chart.Result[0]
	series := normalize(symbol, result)
	if series.Len() == 0 {
		return nil, nil, fmt.Errorf("chart %s: %w: no usable bars", symbol, models.ErrProviderUnavailable)
	}

	prevClose := result.Meta.ChartPreviousClose
	if prevClose == 0 {
		prevClose = result.Meta.PreviousClose
	}
	meta := &models.ChartMeta{
		RegularMarketPrice:  result.Meta.RegularMarketPrice,
		ChartPreviousClose:  prevClose,
		RegularMarketVolume: result.Meta.RegularMarketVolume,
		MarketState:         result.Meta.MarketState,
		Currency:            result.Meta.Currency,
	}
	return series, meta, nil
}

func normalize(symbol string, result chartResult) *models.PriceSeries {
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))
	var lastTS int64
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		if ts <= lastTS {
			// provider occasionally repeats the live bar
			continue
		}
		bar := models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
		lastTS = ts
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars}
}
