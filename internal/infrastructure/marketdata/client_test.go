package marketdata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1756700000, 1756703600, 1756707200],
			"indicators": {
				"quote": [{
					"open":   [100.0, 101.0, null],
					"high":   [102.0, 103.0, 104.0],
					"low":    [99.0, 100.5, 101.0],
					"close":  [101.0, 102.5, 103.0],
					"volume": [1000, null, 1200]
				}]
			}
		}],
		"error": null
	}
}`

func newTestClient(server *httptest.Server, attempts int) *Client {
	c := NewClient(server.URL, RetryPolicy{Attempts: attempts, Backoff: time.Millisecond})
	c.sleep = func(time.Duration) {}
	return c
}

func TestFetchSeriesDecodesCandles(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, chartBody)
	}))
	defer server.Close()

	series := newTestClient(server, 1).FetchSeries("GC=F", "1h", "30d")

	if gotPath != "/v8/finance/chart/GC=F" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotUA == "" {
		t.Error("User-Agent header missing")
	}

	// The bar with a null close is dropped, the null volume becomes zero
	if series.Len() != 2 {
		t.Fatalf("Expected 2 candles, got %d", series.Len())
	}
	if series.Candles[0].Close != 101.0 || series.Candles[0].Volume != 1000 {
		t.Errorf("Unexpected first candle: %+v", series.Candles[0])
	}
	if series.Candles[1].Volume != 0 {
		t.Errorf("Null volume should decode to zero, got %f", series.Candles[1].Volume)
	}
	if series.Symbol != "GC=F" || series.Interval != "1h" {
		t.Errorf("Series metadata lost: %s %s", series.Symbol, series.Interval)
	}
}

func TestFetchSeriesUnevenQuoteArrays(t *testing.T) {
	// Three timestamps but only one open quote: the short arrays must not
	// panic, only the fully-populated bar survives.
	const uneven = `{
		"chart": {
			"result": [{
				"timestamp": [1756700000, 1756703600, 1756707200],
				"indicators": {
					"quote": [{
						"open":   [100.0],
						"high":   [102.0, 103.0, 104.0],
						"low":    [99.0, 100.5, 101.0],
						"close":  [101.0, 102.5, 103.0],
						"volume": [1000, 1100, 1200]
					}]
				}
			}],
			"error": null
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, uneven)
	}))
	defer server.Close()

	series := newTestClient(server, 1).FetchSeries("GC=F", "1h", "30d")
	if series.Len() != 1 {
		t.Fatalf("Expected 1 candle from the uneven payload, got %d", series.Len())
	}
	if series.Candles[0].Open != 100.0 || series.Candles[0].Close != 101.0 {
		t.Errorf("Unexpected surviving candle: %+v", series.Candles[0])
	}
}

func TestFetchSeriesRetriesThenSucceeds(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, chartBody)
	}))
	defer server.Close()

	series := newTestClient(server, 3).FetchSeries("GC=F", "1h", "30d")
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if series.Empty() {
		t.Error("Expected data after retries")
	}
}

func TestFetchSeriesFailsSoft(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	series := newTestClient(server, 3).FetchSeries("GC=F", "1h", "30d")
	if calls != 3 {
		t.Errorf("Expected all 3 attempts, got %d", calls)
	}
	if series == nil {
		t.Fatal("Fail-soft must return a series, not nil")
	}
	if !series.Empty() {
		t.Error("Expected an empty series on exhaustion")
	}
}

func TestFetchSeriesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer server.Close()

	series := newTestClient(server, 1).FetchSeries("BOGUS", "1h", "30d")
	if !series.Empty() {
		t.Error("API-level error should give an empty series")
	}
}
