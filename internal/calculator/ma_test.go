package calculator

import (
	"math"
	"testing"
)

func TestSMA_Scenario(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 9, 10, 11, 12, 13}
	sma, err := SMA(closes, 3)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	assertNaN(t, "SMA(3)[0]", sma[0])
	assertNaN(t, "SMA(3)[1]", sma[1])
	assertClose(t, "SMA(3)[2]", sma[2], 11.0, 1e-12)
	assertClose(t, "SMA(3)[5]", sma[5], 10.0, 1e-12)
	assertClose(t, "SMA(3)[9]", sma[9], 12.0, 1e-12)
}

func TestSMA_DefinedCount(t *testing.T) {
	closes := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for p := 1; p <= len(closes); p++ {
		sma, err := SMA(closes, p)
		if err != nil {
			t.Fatalf("SMA(%d): %v", p, err)
		}
		defined := 0
		for i, v := range sma {
			if math.IsNaN(v) {
				if i >= p-1 {
					t.Errorf("SMA(%d)[%d] undefined after warm-up", p, i)
				}
				continue
			}
			defined++
			want := 0.0
			for j := i - p + 1; j <= i; j++ {
				want += closes[j]
			}
			assertClose(t, "SMA window mean", v, want/float64(p), 1e-12)
		}
		if defined != len(closes)-p+1 {
			t.Errorf("SMA(%d): %d defined values, want %d", p, defined, len(closes)-p+1)
		}
	}
}

func TestSMA_PeriodLongerThanSeries(t *testing.T) {
	sma, err := SMA([]float64{1, 2, 3}, 5)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	for _, v := range sma {
		assertNaN(t, "SMA(5)", v)
	}
}

func TestEMA_PeriodOneIsIdentity(t *testing.T) {
	closes := []float64{10.25, 11.5, 9.75, 13.125, 8.0, 100.3, 0.1}
	ema, err := EMA(closes, 1)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	for i := range closes {
		if ema[i] != closes[i] {
			t.Errorf("EMA(1)[%d] = %v, want %v", i, ema[i], closes[i])
		}
	}
}

func TestEMA_Recurrence(t *testing.T) {
	// alpha = 2/(3+1) = 0.5
	ema, err := EMA([]float64{1, 2, 3, 3}, 3)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	expected := []float64{1, 1.5, 2.25, 2.625}
	for i, want := range expected {
		assertClose(t, "EMA(3)", ema[i], want, 1e-12)
	}
}

func TestEMA_NaNHandling(t *testing.T) {
	nan := math.NaN()
	ema, err := EMA([]float64{nan, 4, nan, 8}, 3)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	assertNaN(t, "EMA leading NaN", ema[0])
	assertClose(t, "EMA seed", ema[1], 4, 1e-12)
	assertClose(t, "EMA hold", ema[2], 4, 1e-12)
	assertClose(t, "EMA after gap", ema[3], 6, 1e-12)
}

func TestDEMA_TEMA_Composition(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 9, 10, 11, 12, 13}
	const p = 4
	e1, _ := EMA(closes, p)
	e2, _ := EMA(e1, p)
	e3, _ := EMA(e2, p)

	dema, err := DEMA(closes, p)
	if err != nil {
		t.Fatalf("DEMA: %v", err)
	}
	tema, err := TEMA(closes, p)
	if err != nil {
		t.Fatalf("TEMA: %v", err)
	}
	for i := range closes {
		assertClose(t, "DEMA", dema[i], 2*e1[i]-e2[i], 1e-12)
		assertClose(t, "TEMA", tema[i], 3*e1[i]-3*e2[i]+e3[i], 1e-12)
	}
	// No warm-up gap: the first value of every exponential average is the first price.
	if dema[0] != closes[0] || tema[0] != closes[0] {
		t.Errorf("first DEMA/TEMA = %v/%v, want %v", dema[0], tema[0], closes[0])
	}
}

func TestEMA_DoesNotMutateInput(t *testing.T) {
	closes := []float64{1, 2, 3}
	if _, err := TEMA(closes, 2); err != nil {
		t.Fatalf("TEMA: %v", err)
	}
	if closes[0] != 1 || closes[1] != 2 || closes[2] != 3 {
		t.Errorf("input mutated: %v", closes)
	}
}
