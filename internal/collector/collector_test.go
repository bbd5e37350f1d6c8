package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/model"
)

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
)

func TestCollect_AllIndicators(t *testing.T) {
	fetcher := &MockFetcher{Price: 100}
	col := NewCollector(fetcher, DefaultParams())

	keys := append(append([]string{}, model.OverlayIndicators...), model.PanelIndicators...)
	analysis, err := col.Collect(context.Background(), Request{Symbol: "AAPL", Start: testStart, End: testEnd, Indicators: keys})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if fetcher.Calls != 1 {
		t.Errorf("expected one fetch per session, got %d", fetcher.Calls)
	}
	wantCounts := map[string]int{
		model.IndicatorSMA: 1, model.IndicatorEMA: 1, model.IndicatorDEMA: 1, model.IndicatorTEMA: 1,
		model.IndicatorBB: 3, model.IndicatorRVWAP: 1, model.IndicatorMACD: 3, model.IndicatorATR: 1, model.IndicatorRSI: 1,
	}
	for key, n := range wantCounts {
		series := analysis.Series(key)
		if len(series) != n {
			t.Errorf("%s: expected %d series, got %d", key, n, len(series))
			continue
		}
		for _, s := range series {
			if s.Len() != analysis.Table.Len() {
				t.Errorf("%s: series length %d, table %d", s.Name, s.Len(), analysis.Table.Len())
			}
		}
	}
	if sma := analysis.Series(model.IndicatorSMA)[0]; sma.Name != "SMA(20)" || sma.Defined() != analysis.Table.Len()-19 {
		t.Errorf("unexpected SMA series %s with %d defined values", sma.Name, sma.Defined())
	}
}

func TestCollect_EmptyTable(t *testing.T) {
	col := NewCollector(&MockFetcher{Bars: []model.OHLCV{}}, DefaultParams())
	_, err := col.Collect(context.Background(), Request{Symbol: "NONE", Start: testStart, End: testEnd})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestCollect_InvalidRequest(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 100}, DefaultParams())
	tests := []struct {
		name string
		req  Request
	}{
		{"missing symbol", Request{Start: testStart, End: testEnd}},
		{"reversed range", Request{Symbol: "AAPL", Start: testEnd, End: testStart}},
		{"unknown indicator", Request{Symbol: "AAPL", Start: testStart, End: testEnd, Indicators: []string{"OBV"}}},
	}
	for _, tt := range tests {
		if _, err := col.Collect(context.Background(), tt.req); !errors.Is(err, calculator.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

func TestCollect_InvalidPeriod(t *testing.T) {
	params := DefaultParams()
	params.RSIPeriod = 0
	col := NewCollector(&MockFetcher{Price: 100}, params)
	_, err := col.Collect(context.Background(), Request{Symbol: "AAPL", Start: testStart, End: testEnd, Indicators: []string{model.IndicatorRSI}})
	if !errors.Is(err, calculator.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCollect_FetchError(t *testing.T) {
	boom := errors.New("connection reset")
	col := NewCollector(&MockFetcher{Err: boom}, DefaultParams())
	_, err := col.Collect(context.Background(), Request{Symbol: "AAPL", Start: testStart, End: testEnd})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestCollect_Weekly(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 100}, DefaultParams())
	// 2024-01-01 is a Monday: four full weeks
	end := testStart.AddDate(0, 0, 28)
	analysis, err := col.Collect(context.Background(), Request{Symbol: "AAPL", Start: testStart, End: end, Weekly: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if analysis.Table.Len() != 4 {
		t.Fatalf("expected 4 weekly bars, got %d", analysis.Table.Len())
	}
	if analysis.Table.Bars[0].Volume != 5*1000000 {
		t.Errorf("weekly volume = %v, want 5000000", analysis.Table.Bars[0].Volume)
	}
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := NewCollector(&MockFetcher{Price: 100}, DefaultParams())
	_, err := col.Collect(ctx, Request{Symbol: "AAPL", Start: testStart, End: testEnd, Indicators: []string{model.IndicatorSMA, model.IndicatorRSI}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
