package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const yahooOK = `{"chart":{"result":[{"timestamp":[1704412800,1704240000,1704326400],
"indicators":{"quote":[{"open":[12,10,null],"high":[13,11,12],"low":[11,9,10],"close":[12.5,10.5,11.5],"volume":[300,100,200]}]}}],"error":null}}`

func newYahooTestServer(t *testing.T, status int, body string) (*YahooFetcher, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f, &gotPath
}

func TestYahooFetcher_FetchBars(t *testing.T) {
	f, gotPath := newYahooTestServer(t, http.StatusOK, yahooOK)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	bars, err := f.FetchBars(context.Background(), "SPX500", start, end)
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if !strings.Contains(*gotPath, "/v8/finance/chart/%5EGSPC") {
		t.Errorf("symbol alias not applied: %s", *gotPath)
	}
	if !strings.Contains(*gotPath, "period1=1704067200") || !strings.Contains(*gotPath, "interval=1d") {
		t.Errorf("unexpected query: %s", *gotPath)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Close != 10.5 || bars[2].Close != 12.5 {
		t.Errorf("bars not sorted: %+v", bars)
	}
	if !math.IsNaN(bars[1].Open) {
		t.Errorf("null open should be NaN, got %v", bars[1].Open)
	}
}

func TestYahooFetcher_NotFoundIsEmpty(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	f, _ := newYahooTestServer(t, http.StatusNotFound, body)

	bars, err := f.FetchBars(context.Background(), "ZZZZ", time.Now().AddDate(0, -1, 0), time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input - start date cannot be after end date"}}}`
	f, _ := newYahooTestServer(t, http.StatusBadRequest, body)

	if _, err := f.FetchBars(context.Background(), "AAPL", time.Now(), time.Now()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f, _ := newYahooTestServer(t, http.StatusBadGateway, "upstream down")

	_, err := f.FetchBars(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestToFloat(t *testing.T) {
	values := []interface{}{1.5, nil, "2.5", true}
	if got := toFloat(values, 0); got != 1.5 {
		t.Errorf("toFloat(1.5) = %v", got)
	}
	for i := 1; i <= 4; i++ {
		if got := toFloat(values, i); !math.IsNaN(got) {
			t.Errorf("toFloat(values, %d) = %v, want NaN", i, got)
		}
	}
}
