package calculator

import (
	"errors"
	"math"
	"testing"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func assertNaN(t *testing.T, label string, got float64) {
	t.Helper()
	if !math.IsNaN(got) {
		t.Errorf("%s: got %.6f, want NaN", label, got)
	}
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestInvalidInput(t *testing.T) {
	prices := []float64{1, 2, 3}
	tests := []struct {
		name string
		call func() error
	}{
		{"sma zero period", func() error { _, err := SMA(prices, 0); return err }},
		{"sma empty", func() error { _, err := SMA(nil, 3); return err }},
		{"ema negative period", func() error { _, err := EMA(prices, -1); return err }},
		{"ema empty", func() error { _, err := EMA([]float64{}, 3); return err }},
		{"dema zero period", func() error { _, err := DEMA(prices, 0); return err }},
		{"tema empty", func() error { _, err := TEMA(nil, 9); return err }},
		{"rsi zero period", func() error { _, err := RSI(prices, 0); return err }},
		{"rsi empty", func() error { _, err := RSI(nil, 14); return err }},
		{"bollinger zero period", func() error { _, err := Bollinger(prices, 0, 2); return err }},
		{"macd zero signal", func() error { _, err := MACD(prices, 12, 26, 0); return err }},
		{"macd empty", func() error { _, err := MACD(nil, 12, 26, 9); return err }},
		{"atr zero period", func() error { _, err := ATR(prices, prices, prices, 0); return err }},
		{"atr misaligned", func() error { _, err := ATR(prices, prices[:2], prices, 1); return err }},
		{"atr empty", func() error { _, err := ATR(nil, nil, nil, 14); return err }},
		{"rvwap misaligned", func() error { _, err := RVWAP(prices, prices, prices, prices[:1], 1); return err }},
		{"rvwap zero period", func() error { _, err := RVWAP(prices, prices, prices, prices, 0); return err }},
		{"rolling stddev empty", func() error { _, err := RollingStdDev(nil, 2); return err }},
	}
	for _, tt := range tests {
		err := tt.call()
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

// Flat input: every moving average equals the constant after warm-up,
// the bands collapse onto the mid line and RSI is undefined.
func TestConstantSeries(t *testing.T) {
	prices := constant(50, 30)
	for _, p := range []int{1, 2, 5, 14, 20, 30} {
		sma, _ := SMA(prices, p)
		ema, _ := EMA(prices, p)
		dema, _ := DEMA(prices, p)
		tema, _ := TEMA(prices, p)
		for i := range prices {
			if i >= p-1 && sma[i] != 50 {
				t.Errorf("SMA(%d)[%d] = %v, want 50", p, i, sma[i])
			}
			if ema[i] != 50 || dema[i] != 50 || tema[i] != 50 {
				t.Errorf("period %d index %d: ema=%v dema=%v tema=%v, want 50", p, i, ema[i], dema[i], tema[i])
			}
		}

		rsi, err := RSI(prices, p)
		if err != nil {
			t.Fatalf("RSI(%d): %v", p, err)
		}
		for i, v := range rsi {
			if !math.IsNaN(v) {
				t.Errorf("RSI(%d)[%d] = %v, want NaN", p, i, v)
			}
		}
	}

	bands, err := Bollinger(prices, 20, 2)
	if err != nil {
		t.Fatalf("Bollinger: %v", err)
	}
	for i := 19; i < len(prices); i++ {
		if bands.Upper[i] != 50 || bands.Mid[i] != 50 || bands.Lower[i] != 50 {
			t.Errorf("bands[%d] = %v/%v/%v, want 50/50/50", i, bands.Upper[i], bands.Mid[i], bands.Lower[i])
		}
	}

	m, err := MACD(prices, 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD: %v", err)
	}
	for i := range prices {
		if m.Line[i] != 0 || m.Signal[i] != 0 || m.Histogram[i] != 0 {
			t.Errorf("MACD[%d] = %v/%v/%v, want zeros", i, m.Line[i], m.Signal[i], m.Histogram[i])
		}
	}
}
