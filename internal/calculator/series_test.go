package calculator

import (
	"errors"
	"testing"
	"time"

	"QuantResearch/internal/model"
)

func dailySeries(name string, start time.Time, values ...float64) model.Series {
	s := model.Series{Name: name, Values: values}
	for i := range values {
		s.Times = append(s.Times, start.AddDate(0, 0, i))
	}
	return s
}

func TestSeriesSMA_KeepsIndex(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := dailySeries("Close", start, 10, 11, 12, 11)

	sma, err := SeriesSMA(closes, 3)
	if err != nil {
		t.Fatalf("SeriesSMA: %v", err)
	}
	if sma.Name != "SMA(3)" {
		t.Errorf("name = %q, want SMA(3)", sma.Name)
	}
	if sma.Defined() != 2 {
		t.Errorf("defined = %d, want 2", sma.Defined())
	}
	if !sma.Times[3].Equal(closes.Times[3]) {
		t.Errorf("time index not preserved")
	}
	ts, v, ok := sma.Last()
	if !ok || v != 34.0/3 || !ts.Equal(closes.Times[3]) {
		t.Errorf("Last() = %v %v %v", ts, v, ok)
	}
}

func TestSeriesATR_MisalignedTimestamps(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	high := dailySeries("High", start, 10, 12, 11)
	low := dailySeries("Low", start, 8, 9, 9)
	close := dailySeries("Close", start.AddDate(0, 0, 1), 9, 11, 10)

	if _, err := SeriesATR(high, low, close, 2); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for shifted index, got %v", err)
	}

	short := dailySeries("Volume", start, 1, 2)
	if _, err := SeriesRVWAP(high, low, high, short, 2); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for short column, got %v", err)
	}
}

func TestSeriesMACD_Names(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := SeriesMACD(dailySeries("Close", start, 1, 2, 3), 12, 26, 9)
	if err != nil {
		t.Fatalf("SeriesMACD: %v", err)
	}
	want := [3]string{"MACD", "MACD_SIGNAL", "MACD_HIST"}
	for i, s := range out {
		if s.Name != want[i] {
			t.Errorf("series %d name = %q, want %q", i, s.Name, want[i])
		}
	}
}
