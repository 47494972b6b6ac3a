package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"RiskBarometer/internal/domain/models"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {
        "regularMarketPrice": 104.5,
        "chartPreviousClose": 99.0,
        "regularMarketVolume": 1200,
        "marketState": "REGULAR",
        "currency": "USD"
      },
      "timestamp": [1700000000, 1700086400, 1700172800, 1700172800, 1700259200],
      "indicators": {
        "quote": [{
          "close": [100.0, null, 102.0, 102.0, 104.5],
          "high": [101.0, null, 103.0, 103.0, 105.0],
          "low": [99.0, null, 101.0, 101.0, 103.5],
          "volume": [500, null, 600, 600, 700]
        }]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, "", 5*time.Second).(*Client)
}

func TestGetChartNormalizes(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/GC=F" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "2y" {
			t.Errorf("unexpected range %s", got)
		}
		fmt.Fprint(w, chartFixture)
	})

	series, meta, err := c.GetChart(context.Background(), "GC=F", "2y", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// null close dropped, duplicate timestamp dropped
	if series.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", series.Len())
	}
	for i := 1; i < series.Len(); i++ {
		if !series.Bars[i].Timestamp.After(series.Bars[i-1].Timestamp) {
			t.Fatalf("timestamps must be strictly ascending")
		}
	}
	if series.LastClose() != 104.5 {
		t.Fatalf("unexpected last close %v", series.LastClose())
	}
	if meta.ChartPreviousClose != 99.0 || meta.MarketState != "REGULAR" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestGetChartProviderError(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	})

	_, _, err := c.GetChart(context.Background(), "NOPE", "1y", "1d")
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGetChartHTTPFailure(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := c.GetChart(context.Background(), "GC=F", "1y", "1d")
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGetChartAllBarsNull(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{},"timestamp":[1700000000],"indicators":{"quote":[{"close":[null]}]}}],"error":null}}`)
	})

	_, _, err := c.GetChart(context.Background(), "GC=F", "1y", "1d")
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for empty series, got %v", err)
	}
}
