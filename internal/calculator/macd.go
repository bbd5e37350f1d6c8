package calculator

import "fmt"

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(short) - EMA(long), its EMA(signal) and their difference.
// All three averages are defined from index 0; early values are accepted as
// unconverged.
func MACD(values []float64, short, long, signal int) (MACDResult, error) {
	for _, p := range []struct {
		name string
		v    int
	}{{"short period", short}, {"long period", long}, {"signal period", signal}} {
		if err := checkPeriod(p.name, p.v); err != nil {
			return MACDResult{}, err
		}
	}

	fast, err := EMA(values, short)
	if err != nil {
		return MACDResult{}, fmt.Errorf("short ema: %w", err)
	}
	slow, err := EMA(values, long)
	if err != nil {
		return MACDResult{}, fmt.Errorf("long ema: %w", err)
	}

	line := make([]float64, len(values))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	sig, err := EMA(line, signal)
	if err != nil {
		return MACDResult{}, fmt.Errorf("signal ema: %w", err)
	}
	hist := make([]float64, len(values))
	for i := range hist {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{Line: line, Signal: sig, Histogram: hist}, nil
}
