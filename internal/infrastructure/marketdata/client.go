package marketdata

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"biasbuster-backend/internal/domain"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Quote hosts rate-limit anonymous clients aggressively; a browser UA keeps
// the polling loop under the radar.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// RetryPolicy bounds how a single fetch is retried before failing soft.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy matches the poll loop budget: three tries, two seconds
// apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 2 * time.Second}
}

// Client fetches candle series from a Yahoo-Finance-chart-style quote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	sleep      func(time.Duration)
}

// NewClient creates a quote client. An empty baseURL selects the production
// endpoint.
func NewClient(baseURL string, retry RetryPolicy) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		retry:      retry,
		sleep:      time.Sleep,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries returns candles for a symbol/interval/lookback range. It
// retries per the configured policy and fails soft: on exhaustion the
// returned series is empty and the caller skips the instrument this cycle.
func (c *Client) FetchSeries(symbol, interval, rng string) *domain.CandleSeries {
	series := &domain.CandleSeries{Symbol: symbol, Interval: interval}

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		candles, err := c.fetchOnce(symbol, interval, rng)
		if err == nil && len(candles) > 0 {
			series.Candles = candles
			return series
		}
		if err != nil {
			log.Printf("fetch %s (%s) attempt %d/%d: %v", symbol, interval, attempt, c.retry.Attempts, err)
		} else {
			log.Printf("fetch %s (%s) attempt %d/%d: empty data", symbol, interval, attempt, c.retry.Attempts)
		}
		if attempt < c.retry.Attempts {
			c.sleep(c.retry.Backoff)
		}
	}
	return series
}

func (c *Client) fetchOnce(symbol, interval, rng string) ([]domain.Candle, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote API error: %d", resp.StatusCode)
	}

	var decoded chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("quote API error: %s - %s", decoded.Chart.Error.Code, decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := decoded.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Bars with missing quotes (exchange gaps) are dropped. The arrays
		// can come back unequal lengths on malformed payloads.
		if i >= len(quote.Close) || i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) {
			continue
		}
		if quote.Close[i] == nil || quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}
		vol := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}
		candles = append(candles, domain.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: vol,
		})
	}
	return candles, nil
}
