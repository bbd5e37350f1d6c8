package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVsTraderFetcher_FetchBars(t *testing.T) {
	var auth, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"timestamp":1704326400,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
			{"timestamp":1704240000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":20}]`))
	}))
	defer srv.Close()

	f := NewVsTraderFetcher(srv.URL, "secret", "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchBars(context.Background(), "AAPL", start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if query != "end=2024-01-08&start=2024-01-01&symbol=AAPL" {
		t.Errorf("query = %q", query)
	}
	if len(bars) != 2 || bars[0].Close != 1.5 {
		t.Errorf("unexpected bars: %+v", bars)
	}
}

func TestVsTraderFetcher_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	bars, err := NewVsTraderFetcher(srv.URL, "", "").FetchBars(context.Background(), "NONE", time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}
