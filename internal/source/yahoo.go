package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ivlev/chart2video/internal/series"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource downloads daily closes from the public Yahoo Finance
// chart API.
type YahooSource struct {
	Symbol string
	From   time.Time
	To     time.Time

	// BaseURL overrides the API host, for tests.
	BaseURL string
	Client  *http.Client
}

// Describe implements Source.
func (s *YahooSource) Describe() string { return "yahoo:" + s.Symbol }

// Load implements Source.
func (s *YahooSource) Load(ctx context.Context) (series.PriceSeries, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	base := s.BaseURL
	if base == "" {
		base = yahooBaseURL
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		base, url.PathEscape(s.Symbol), s.From.Unix(), s.To.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	// Yahoo rejects requests without a browser-looking agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quotes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quotes request for %s returned status %d", s.Symbol, resp.StatusCode)
	}

	var payload yahooChart
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode quotes response: %w", err)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quotes returned for %s", s.Symbol)
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	pts := make([]series.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		// Market holidays come back as nulls, dead listings as zeros.
		price := toFloat(closes[i])
		if price <= 0 {
			continue
		}
		pts = append(pts, series.PricePoint{Time: time.Unix(ts, 0).UTC(), Price: price})
	}
	return finishSeries(pts)
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// toFloat reads a JSON number that may be null.
func toFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
