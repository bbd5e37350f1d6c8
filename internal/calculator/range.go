package calculator

import (
	"errors"
	"math"
)

// TrueRange returns max(H-L, |H-prevClose|, |L-prevClose|) per bar.
// The first bar has no previous close and uses H-L alone.
func TrueRange(high, low, close []float64) ([]float64, error) {
	if err := checkAligned(high, low, close); err != nil {
		return nil, err
	}
	tr := make([]float64, len(high))
	tr[0] = high[0] - low[0]
	for i := 1; i < len(high); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr, nil
}

// ATR computes the average true range as a simple moving average of TrueRange.
func ATR(high, low, close []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	tr, err := TrueRange(high, low, close)
	if err != nil {
		return nil, err
	}
	return SMA(tr, period)
}

// HighLow scans the most recent lookback bars and returns the highest high and lowest low.
// A lookback of zero or more than the available bars scans everything.
func HighLow(high, low []float64, lookback int) (hi, lo float64, err error) {
	if err := checkAligned(high, low); err != nil {
		return 0, 0, err
	}
	n := len(high)
	start := 0
	if lookback > 0 && lookback < n {
		start = n - lookback
	}
	hi = math.Inf(-1)
	lo = math.Inf(1)
	for i := start; i < n; i++ {
		if high[i] > hi {
			hi = high[i]
		}
		if low[i] < lo {
			lo = low[i]
		}
	}
	if hi < lo {
		return 0, 0, errors.New("high must be >= low")
	}
	return hi, lo, nil
}

// RangePosition returns where price sits within [lo, hi], clamped to 0.0~1.0.
func RangePosition(price, hi, lo float64) float64 {
	if hi == lo {
		return 0.5
	}
	pos := (price - lo) / (hi - lo)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
