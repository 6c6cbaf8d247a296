package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const yahooFixture = `{
  "chart": {
    "result": [
      {
        "timestamp": [1672531200, 1672617600, 1672704000, 1672790400],
        "indicators": {
          "quote": [
            {"close": [100.0, null, 102.5, 0]}
          ]
        }
      }
    ],
    "error": null
  }
}`

func TestYahooSourceLoad(t *testing.T) {
	t.Parallel()

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("interval") != "1d" {
			t.Errorf("interval = %s, expected 1d", q.Get("interval"))
		}
		if q.Get("period1") != fmt.Sprint(from.Unix()) {
			t.Errorf("period1 = %s, expected %d", q.Get("period1"), from.Unix())
		}
		if q.Get("period2") != fmt.Sprint(to.Unix()) {
			t.Errorf("period2 = %s, expected %d", q.Get("period2"), to.Unix())
		}
		if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
			t.Errorf("request must carry a browser user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, yahooFixture)
	}))
	defer server.Close()

	src := &YahooSource{Symbol: "AAPL", From: from, To: to, BaseURL: server.URL}
	ps, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nulls and zero closes are dropped: two good bars remain.
	if len(ps) != 2 {
		t.Fatalf("expected 2 points, got %d: %v", len(ps), ps)
	}
	if ps[0].Price != 100.0 || ps[1].Price != 102.5 {
		t.Errorf("unexpected prices: %v", ps)
	}
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if !ps[0].Time.Equal(jan1) {
		t.Errorf("expected 2023-01-01, got %v", ps[0].Time)
	}
}

func TestYahooSourceServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	src := &YahooSource{Symbol: "AAPL", From: time.Now().AddDate(-1, 0, 0), To: time.Now(), BaseURL: server.URL}
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestYahooSourceEmptyResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer server.Close()

	src := &YahooSource{Symbol: "NOPE", From: time.Now().AddDate(-1, 0, 0), To: time.Now(), BaseURL: server.URL}
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestYahooSourceDescribe(t *testing.T) {
	src := &YahooSource{Symbol: "TSLA"}
	if src.Describe() != "yahoo:TSLA" {
		t.Errorf("describe: %q", src.Describe())
	}
}
